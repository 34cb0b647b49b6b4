package tester

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/nihei9/ambi/driver"
	"github.com/nihei9/ambi/grammar"
	"gopkg.in/yaml.v3"
)

// TestCase is one input and the derivation expected of it. The input is either a token list or source
// text; source text is split at the separator or, when Lex is set, read by the tokenizer of the grammar.
type TestCase struct {
	Title     string
	Grammar   string
	Tokens    []string
	Source    string
	Separator string
	Lex       bool

	// Tree is the expected derivation in the structured form and Pretty is the same in the pretty form.
	// When both are given, one tree must match both.
	Tree   []any
	Pretty string

	// Fail expects that no derivation exists.
	Fail bool
}

type testCaseDoc struct {
	Title     string    `yaml:"title"`
	Grammar   string    `yaml:"grammar"`
	Tokens    *[]string `yaml:"tokens"`
	Source    *string   `yaml:"source"`
	Separator string    `yaml:"separator"`
	Lex       bool      `yaml:"lex"`
	Tree      yaml.Node `yaml:"tree"`
	Pretty    string    `yaml:"pretty"`
	Fail      bool      `yaml:"fail"`
}

var (
	errNoInput        = errors.New("a test case needs either tokens or source")
	errAmbiguousInput = errors.New("a test case cannot have both tokens and source")
	errNoExpectation  = errors.New("a test case needs a tree or a pretty tree unless it expects no derivation")
	errFailWithTree   = errors.New("a test case expecting no derivation cannot have a tree")
)

func ParseTestCase(r io.Reader) (*TestCase, error) {
	var doc testCaseDoc
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("a test case is empty")
		}
		return nil, err
	}

	c := &TestCase{
		Title:     doc.Title,
		Grammar:   doc.Grammar,
		Separator: doc.Separator,
		Lex:       doc.Lex,
		Pretty:    doc.Pretty,
		Fail:      doc.Fail,
	}
	switch {
	case doc.Tokens != nil && doc.Source != nil:
		return nil, errAmbiguousInput
	case doc.Tokens != nil:
		c.Tokens = *doc.Tokens
	case doc.Source != nil:
		c.Source = *doc.Source
	default:
		return nil, errNoInput
	}

	if doc.Tree.Kind != 0 {
		tree, err := driver.DecodeSequence(&doc.Tree)
		if err != nil {
			return nil, fmt.Errorf("tree: %w", err)
		}
		c.Tree = tree
	}
	if c.Fail && (c.Tree != nil || c.Pretty != "") {
		return nil, errFailWithTree
	}
	if !c.Fail && c.Tree == nil && c.Pretty == "" {
		return nil, errNoExpectation
	}

	return c, nil
}

func (c *TestCase) tokens(g *grammar.Grammar) ([]driver.Token, error) {
	if c.Source == "" {
		return driver.StringTokens(c.Tokens...), nil
	}
	if !c.Lex {
		return driver.SplitTokens(c.Source, c.Separator), nil
	}
	t, err := driver.NewTokenizer(g)
	if err != nil {
		return nil, err
	}
	return t.Tokenize(strings.NewReader(c.Source))
}

// matches reports whether tree is the expected derivation.
func (c *TestCase) matches(tree *driver.ParseTree) bool {
	if c.Tree != nil && !cmp.Equal(c.Tree, tree.Sequence()) {
		return false
	}
	if c.Pretty != "" && c.Pretty != tree.Pretty() {
		return false
	}
	return true
}

// expectedText returns the expected tree in the form a diff shows.
func (c *TestCase) expectedText() string {
	if c.Tree != nil {
		return prettySequence(c.Tree)
	}
	return c.Pretty
}

func (c *TestCase) actualText(tree *driver.ParseTree) string {
	if c.Tree != nil {
		return prettySequence(tree.Sequence())
	}
	return tree.Pretty()
}

// prettySequence renders a structured tree the way the pretty form renders a parse tree.
func prettySequence(seq []any) string {
	var b strings.Builder
	writeSequence(&b, seq, 0)
	return b.String()
}

func writeSequence(w io.Writer, seq []any, level int) {
	for i, e := range seq {
		switch e := e.(type) {
		case []any:
			writeSequence(w, e, level+1)
		default:
			if i == 0 {
				fmt.Fprintf(w, "%v%v\n", strings.Repeat("`", level), e)
			} else {
				fmt.Fprintf(w, "%v%v\n", strings.Repeat("`", level+1), e)
			}
		}
	}
}
