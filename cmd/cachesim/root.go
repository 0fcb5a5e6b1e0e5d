package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/IvanBrykalov/cachesim/policy"
)

// newRootCmd builds a fresh command tree so tests never share flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cachesim",
		Short:         "Cache replacement policy simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newGenCmd(), newPoliciesCmd())
	return root
}

// setLogLevel applies the --log flag to the global logger.
func setLogLevel(lvl string) error {
	level, err := logrus.ParseLevel(lvl)
	if err != nil {
		return fmt.Errorf("invalid log level %q", lvl)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	return nil
}

func newPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List supported replacement policies",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, n := range policy.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
		},
	}
}
