package main

import (
	"os"

	"github.com/robertkrimen/otto/parser"
	"github.com/spf13/cobra"

	"github.com/yavashark/yavashark/compiler"
)

func newASTCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ast <file.js>",
		Short: "Print a script's parsed AST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			program, err := parser.ParseFile(nil, args[0], src, 0)
			if err != nil {
				return err
			}
			return compiler.DumpAST(program, cmd.OutOrStdout())
		},
	}
}
