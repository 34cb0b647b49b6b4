package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/ambi/tester"
	"github.com/spf13/cobra"
)

var testFlags = struct {
	concurrency *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "test <grammar file path> <test file path>|<test directory path>|<glob pattern>",
		Short: "Test a grammar",
		Example: `  ambi test lang.bnf test
  ambi test lang.bnf 'test/**/*.yaml'`,
		Args: cobra.ExactArgs(2),
		RunE: runTest,
	}
	testFlags.concurrency = cmd.Flags().IntP("concurrency", "j", 0, "number of test cases run at once (0 means no limit)")
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	eg, err := readGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a grammar: %w", err)
	}

	var cs []*tester.TestCaseWithMetadata
	{
		cs = tester.ListTestCases(args[1])
		errOccurred := false
		for _, c := range cs {
			if c.Error != nil {
				fmt.Fprintf(os.Stderr, "Failed to read a test case or a directory: %v\n%v\n", c.FilePath, c.Error)
				errOccurred = true
			}
		}
		if errOccurred {
			return errors.New("Cannot run test")
		}
	}

	t := &tester.Tester{
		Grammar:     eg.Flatten(),
		Cases:       cs,
		Concurrency: *testFlags.concurrency,
	}
	rs := t.Run(cmd.Context())
	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("Test failed")
	}
	return nil
}
