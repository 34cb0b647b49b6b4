package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showFlags = struct {
	raw *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "show <grammar file path>",
		Short:   "Print a grammar with its optional terms expanded",
		Example: `  ambi show lang.bnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	showFlags.raw = cmd.Flags().Bool("raw", false, "print the grammar as it is written")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	eg, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	if *showFlags.raw {
		_, err = fmt.Fprint(os.Stdout, eg)
	} else {
		_, err = fmt.Fprint(os.Stdout, eg.Flatten())
	}
	return err
}
