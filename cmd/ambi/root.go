package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var rootFlags = struct {
	verbose *int
}{}

var rootCmd = &cobra.Command{
	Use:   "ambi",
	Short: "Enumerate every derivation of a token sequence under a BNF grammar",
	Long: `ambi derives token sequences against a BNF grammar without any parsing table.
It enumerates every derivation, so it also shows how an ambiguous grammar
derives an input in more than one way.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(*rootFlags.verbose, nil)
	},
}

func init() {
	rootFlags.verbose = rootCmd.PersistentFlags().CountP("verbose", "v", "raise the log level (repeatable)")
}

func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
