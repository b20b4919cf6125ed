// Package ctl implements the plugctl command tree.
package ctl

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Main runs plugctl with the given arguments and returns a process exit code.
func Main(args []string) int {
	root := buildRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func buildRootCmd() *cobra.Command {
	var logLvl string
	root := &cobra.Command{
		Use:           "plugctl",
		Short:         "Inspect and follow AC adapter plug events",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLvl, "log-level", "info", "Log level: debug|info|warn|error")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		lvl, err := zerolog.ParseLevel(logLvl)
		if err != nil {
			lvl = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(lvl)
	}
	root.AddCommand(buildListenCmd(), buildStatusCmd())
	return root
}
