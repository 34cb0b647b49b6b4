package main

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/nihei9/ambi/driver"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

var stepFlags = struct {
	source    *string
	separator *string
	lex       *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "step <grammar file path>",
		Short: "Walk through the derivations one by one",
		Long: `step pulls derivation results one at a time while logging every derivation step.
Commands read from stdin:
  (empty) - pull the next result
  p       - switch printing of results (default on)
  go      - pull results until the next derivation succeeds
  q       - quit`,
		Example: `  ambi step postfix.bnf -s tokens.txt`,
		Args:    cobra.ExactArgs(1),
		RunE:    runStep,
	}
	stepFlags.source = cmd.Flags().StringP("source", "s", "", "source file path")
	stepFlags.separator = cmd.Flags().String("separator", "", "token separator of the source (default white spaces)")
	stepFlags.lex = cmd.Flags().Bool("lex", false, "read the source with a tokenizer matching the terminals of the grammar")
	cmd.MarkFlagRequired("source")
	rootCmd.AddCommand(cmd)
}

func runStep(cmd *cobra.Command, args []string) error {
	eg, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	g := eg.Flatten()

	toks, err := readTokens(g, *stepFlags.source, *stepFlags.separator, *stepFlags.lex)
	if err != nil {
		return err
	}

	commonlog.Configure(max(*rootFlags.verbose, 2), nil)
	return step(os.Stdin, os.Stdout, driver.Parse(driver.NewCtx(g, toks, driver.EnableLogs())))
}

// step pulls one result from seq per command read from r until seq is exhausted or the user quits.
func step(r io.Reader, w io.Writer, seq iter.Seq2[*driver.ParseTree, error]) error {
	next, stop := iter.Pull2(seq)
	defer stop()

	fmt.Fprintln(w, "q - quit")
	fmt.Fprintln(w, "p - switch print result (default = true)")
	fmt.Fprintln(w, "go - go until success")

	in := bufio.NewScanner(r)
	printResult := true
	untilSuccess := false
	for {
		if !untilSuccess {
			fmt.Fprint(w, ">> ")
			if !in.Scan() {
				fmt.Fprintln(w)
				return in.Err()
			}
			switch strings.TrimSpace(in.Text()) {
			case "q":
				return nil
			case "p":
				printResult = !printResult
				fmt.Fprintf(w, "print result = %v\n", printResult)
			case "go":
				untilSuccess = true
			}
		}

		tree, err, ok := next()
		if !ok {
			fmt.Fprintln(w, "no more results")
			return nil
		}
		if err == nil {
			untilSuccess = false
		}
		if !printResult {
			continue
		}
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
		} else {
			fmt.Fprintf(w, "tree:\n%#v", tree)
		}
	}
}
