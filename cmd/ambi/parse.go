package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/nihei9/ambi/driver"
	"github.com/nihei9/ambi/grammar"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"
)

var parseFlags = struct {
	source    *string
	separator *string
	lex       *bool
	all       *bool
	limit     *int
	errors    *bool
	raw       *bool
	trace     *bool
	format    *string
}{}

const (
	formatPretty = "pretty"
	formatTree   = "tree"
	formatYAML   = "yaml"
	formatJSON   = "json"
)

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar file path>",
		Short: "Derive a token sequence",
		Example: `  echo 'N . N . N' | ambi parse postfix.bnf --all
  ambi parse lang.bnf -s src.txt --lex --format tree`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.separator = cmd.Flags().String("separator", "", "token separator of the source (default white spaces)")
	parseFlags.lex = cmd.Flags().Bool("lex", false, "read the source with a tokenizer matching the terminals of the grammar")
	parseFlags.all = cmd.Flags().Bool("all", false, "print every derivation instead of the first one")
	parseFlags.limit = cmd.Flags().Int("limit", 0, "print at most this many derivations (0 means no limit)")
	parseFlags.errors = cmd.Flags().Bool("errors", false, "print failed derivation branches as well")
	parseFlags.raw = cmd.Flags().Bool("raw", false, "derive the grammar as it is written, without removing optional terms")
	parseFlags.trace = cmd.Flags().Bool("trace", false, "log every derivation step")
	parseFlags.format = cmd.Flags().String("format", formatPretty, "output format (pretty|tree|yaml|json)")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		panicked := false
		v := recover()
		if v != nil {
			err, ok := v.(error)
			if !ok {
				retErr = fmt.Errorf("an unexpected error occurred: %v", v)
				fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
				return
			}

			retErr = err
			panicked = true
		}

		if retErr != nil && panicked {
			fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
		}
	}()

	w, err := newTreeWriter(os.Stdout, *parseFlags.format)
	if err != nil {
		return err
	}

	eg, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	var g *grammar.Grammar
	if *parseFlags.raw {
		g = eg.Unflattened()
	} else {
		g = eg.Flatten()
	}

	toks, err := readTokens(g, *parseFlags.source, *parseFlags.separator, *parseFlags.lex)
	if err != nil {
		return err
	}

	var opts []driver.CtxOption
	if !*parseFlags.errors {
		opts = append(opts, driver.IgnoreErrors())
	}
	if *parseFlags.trace {
		commonlog.Configure(max(*rootFlags.verbose, 2), nil)
		opts = append(opts, driver.EnableLogs())
	}

	limit := *parseFlags.limit
	if limit <= 0 && !*parseFlags.all {
		limit = 1
	}

	n := 0
	for tree, err := range driver.Parse(driver.NewCtx(g, toks, opts...)) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		n++
		if err := w.write(tree); err != nil {
			return err
		}
		if limit > 0 && n >= limit {
			break
		}
	}
	if err := w.close(); err != nil {
		return err
	}
	if n == 0 {
		return errors.New("no derivation found")
	}

	return nil
}

type treeWriter struct {
	w      io.Writer
	format string
	yaml   *yaml.Encoder
	count  int
}

func newTreeWriter(w io.Writer, format string) (*treeWriter, error) {
	tw := &treeWriter{
		w:      w,
		format: format,
	}
	switch format {
	case formatPretty, formatTree, formatJSON:
	case formatYAML:
		tw.yaml = yaml.NewEncoder(w)
		tw.yaml.SetIndent(2)
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
	return tw, nil
}

func (w *treeWriter) write(tree *driver.ParseTree) error {
	defer func() {
		w.count++
	}()

	switch w.format {
	case formatPretty:
		if w.count > 0 {
			fmt.Fprintln(w.w)
		}
		_, err := fmt.Fprintf(w.w, "%#v", tree)
		return err
	case formatTree:
		if w.count > 0 {
			fmt.Fprintln(w.w)
		}
		driver.PrintTree(w.w, tree)
		return nil
	case formatYAML:
		return w.yaml.Encode(tree)
	case formatJSON:
		b, err := json.Marshal(tree)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w.w, "%s\n", b)
		return err
	}
	return nil
}

func (w *treeWriter) close() error {
	if w.yaml != nil {
		return w.yaml.Close()
	}
	return nil
}
