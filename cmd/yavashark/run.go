package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yavashark/yavashark/realm"
	"github.com/yavashark/yavashark/value"
)

// runFlags holds the "run" subcommand's own flags, registered against a
// *pflag.FlagSet the way _examples/MacroPower-x/magicschema/config.go's
// Config.RegisterFlags does, rather than inlining BoolVar/StringVar calls
// straight into newRunCmd.
type runFlags struct {
	strict     bool
	cpuProfile string
}

func (f *runFlags) RegisterFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&f.strict, "strict", false, "force strict-mode semantics")
	flags.StringVar(&f.cpuProfile, "cpu-profile", "", "write a CPU profile to this file")
}

func newRunCmd() *cobra.Command {
	var rf runFlags

	cmd := &cobra.Command{
		Use:   "run <file.js>",
		Short: "Run a script file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rf.cpuProfile != "" {
				f, err := os.Create(rf.cpuProfile)
				if err != nil {
					return fmt.Errorf("creating cpu profile: %w", err)
				}
				defer f.Close()
				if err := pprof.StartCPUProfile(f); err != nil {
					return fmt.Errorf("starting cpu profile: %w", err)
				}
				defer pprof.StopCPUProfile()
			}

			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			rl, err := realm.New(realm.Config{Strict: rf.strict, Name: args[0]})
			if err != nil {
				return err
			}

			result, err := rl.Run(src, args[0])
			if err != nil {
				return err
			}
			if !result.IsUndefined() {
				s, err := value.ToString(rl.Machine, result)
				if err != nil {
					return err
				}
				fmt.Println(s)
			}
			return nil
		},
	}

	rf.RegisterFlags(cmd.Flags())

	return cmd
}
