package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanBrykalov/cachesim/trace"
)

type genFlags struct {
	script   string
	seed     int64
	args     []string
	maxOps   int
	logLevel string
}

func newGenCmd() *cobra.Command {
	var f genFlags
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a trace from a Lua script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setLogLevel(f.logLevel); err != nil {
				return err
			}
			ops, err := generate(f.script, trace.ScriptOptions{
				Seed:    f.seed,
				Args:    f.args,
				MaxOps:  f.maxOps,
				Context: cmd.Context(),
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), trace.Format(ops))
			return err
		},
	}
	cmd.Flags().StringVar(&f.script, "script", "", "Lua script emitting put()/get() calls")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "Seed for the script's math.random")
	cmd.Flags().StringArrayVar(&f.args, "arg", nil, "Value appended to the script's ARGS table (repeatable)")
	cmd.Flags().IntVar(&f.maxOps, "max-ops", trace.DefaultMaxOps, "Abort the script after this many operations")
	cmd.Flags().StringVar(&f.logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

// generate reads and runs a trace script.
func generate(path string, opt trace.ScriptOptions) ([]trace.Operation, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	ops, err := trace.Generate(string(src), opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ops, nil
}
