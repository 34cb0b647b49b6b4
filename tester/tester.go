// Package tester checks that a grammar derives the expected trees for test case files.
package tester

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/nihei9/ambi/driver"
	"github.com/nihei9/ambi/grammar"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

type TestResult struct {
	TestCasePath string
	Error        error

	// Diff compares the expected tree with the closest tree the grammar derived.
	Diff string
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if r.Diff == "" {
			return msg
		}
		diffLines := strings.Split(strings.TrimSuffix(r.Diff, "\n"), "\n")
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

// ListTestCases reads the test cases testPath names. testPath is a file, a directory whose YAML files are
// read recursively, or a glob pattern such as cases/**/*.yaml.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		if !os.IsNotExist(err) || !hasMeta(testPath) {
			return []*TestCaseWithMetadata{
				{
					FilePath: testPath,
					Error:    err,
				},
			}
		}
		paths, err := doublestar.FilepathGlob(testPath, doublestar.WithFilesOnly())
		if err == nil && len(paths) == 0 {
			err = fmt.Errorf("no test case matches %v", testPath)
		}
		if err != nil {
			return []*TestCaseWithMetadata{
				{
					FilePath: testPath,
					Error:    err,
				},
			}
		}
		var cases []*TestCaseWithMetadata
		for _, path := range paths {
			cases = append(cases, readTestCase(path))
		}
		return cases
	}
	if !fi.IsDir() {
		return []*TestCaseWithMetadata{readTestCase(testPath)}
	}

	paths, err := doublestar.Glob(os.DirFS(testPath), "**/*.{yaml,yml}", doublestar.WithFilesOnly())
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	slices.Sort(paths)
	var cases []*TestCaseWithMetadata
	for _, path := range paths {
		cases = append(cases, readTestCase(filepath.Join(testPath, filepath.FromSlash(path))))
	}
	return cases
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{") && doublestar.ValidatePattern(filepath.ToSlash(path))
}

func readTestCase(path string) *TestCaseWithMetadata {
	c, err := parseTestCase(path)
	return &TestCaseWithMetadata{
		TestCase: c,
		FilePath: path,
		Error:    err,
	}
}

func parseTestCase(testCasePath string) (*TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTestCase(f)
}

// Tester runs test cases against a flattened grammar. A test case carrying its own grammar uses that one
// instead. Up to Concurrency cases run at once; zero or less means no limit.
type Tester struct {
	Grammar     *grammar.Grammar
	Cases       []*TestCaseWithMetadata
	Concurrency int
}

// Run runs every test case and returns the results in the order of the cases.
func (t *Tester) Run(ctx context.Context) []*TestResult {
	rs := make([]*TestResult, len(t.Cases))
	grp, ctx := errgroup.WithContext(ctx)
	if t.Concurrency > 0 {
		grp.SetLimit(t.Concurrency)
	}
	for i, c := range t.Cases {
		grp.Go(func() error {
			rs[i] = runTest(ctx, t.Grammar, c)
			return nil
		})
	}
	_ = grp.Wait()
	return rs
}

func runTest(ctx context.Context, g *grammar.Grammar, c *TestCaseWithMetadata) *TestResult {
	log := commonlog.GetLogger("ambi.tester")

	fail := func(err error) *TestResult {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}
	if c.Error != nil {
		return fail(c.Error)
	}
	tc := c.TestCase

	if tc.Grammar != "" {
		eg, err := grammar.ParseString(tc.Grammar, grammar.SourceName(c.FilePath))
		if err != nil {
			return fail(err)
		}
		g = eg.Flatten()
	}
	if g == nil {
		return fail(fmt.Errorf("no grammar is given"))
	}

	toks, err := tc.tokens(g)
	if err != nil {
		return fail(err)
	}

	var closest *driver.ParseTree
	closestRatio := -1.0
	n := 0
	for tree := range trees(driver.Parse(driver.NewCtx(g, toks, driver.IgnoreErrors()))) {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		n++
		if tc.Fail {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        fmt.Errorf("the input was derived although no derivation is expected"),
				Diff:         tree.Pretty(),
			}
		}
		if tc.matches(tree) {
			log.Debugf("%v: matched the tree #%v", c.FilePath, n)
			return &TestResult{
				TestCasePath: c.FilePath,
			}
		}
		ratio := difflib.NewMatcher(
			difflib.SplitLines(tc.expectedText()),
			difflib.SplitLines(tc.actualText(tree)),
		).Ratio()
		if ratio > closestRatio {
			closest = tree
			closestRatio = ratio
		}
	}
	log.Debugf("%v: examined %v trees", c.FilePath, n)

	if tc.Fail {
		return &TestResult{
			TestCasePath: c.FilePath,
		}
	}
	if closest == nil {
		return fail(fmt.Errorf("the input has no derivation"))
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(tc.expectedText()),
		B:        difflib.SplitLines(tc.actualText(closest)),
		FromFile: "expected",
		ToFile:   "closest",
		Context:  3,
	})
	if err != nil {
		return fail(err)
	}
	return &TestResult{
		TestCasePath: c.FilePath,
		Error:        fmt.Errorf("the expected tree was not derived; %v trees were derived", n),
		Diff:         diff,
	}
}

func trees(seq iter.Seq2[*driver.ParseTree, error]) iter.Seq[*driver.ParseTree] {
	return func(yield func(*driver.ParseTree) bool) {
		for tree, err := range seq {
			if err != nil {
				continue
			}
			if !yield(tree) {
				return
			}
		}
	}
}
