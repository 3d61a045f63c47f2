// Command yavashark is the interactive entry point the teacher's test262
// harness (cmd/run262) has no equivalent of: run a script file, read-
// eval-print loop, or dump a file's parsed AST, all as cobra subcommands
// (SPEC_FULL.md §2 AMBIENT STACK names a CLI surface built on the
// pack's github.com/spf13/cobra + github.com/spf13/pflag stack).
//
// Grounded on _examples/MacroPower-x/cmd/magicschema/main.go for the
// cobra.Command/pflag.FlagSet wiring shape; the run/repl/ast split and
// the realm/compiler calls underneath each subcommand are this repo's
// own.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "yavashark",
		Short:         "A from-scratch ECMAScript runtime",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newReplCmd())
	root.AddCommand(newASTCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "yavashark: %v\n", err)
		os.Exit(1)
	}
}
