package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yavashark/yavashark/realm"
	"github.com/yavashark/yavashark/value"
)

func newReplCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read-eval-print loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd.OutOrStdout(), strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "force strict-mode semantics")
	return cmd
}

// runRepl evaluates one line at a time against a single long-lived realm,
// so `var x = 1` on one line is visible to the next — the one thing that
// distinguishes a REPL's global scope from cmd/run262's one-shot Run.
func runRepl(out io.Writer, strict bool) error {
	rl, err := realm.New(realm.Config{Strict: strict, Name: "<repl>"})
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	line := 0
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line++

		result, err := rl.Run(scanner.Bytes(), "<repl:"+strconv.Itoa(line)+">")
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if result.IsUndefined() {
			continue
		}
		s, err := value.ToString(rl.Machine, result)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintln(out, s)
	}
}
