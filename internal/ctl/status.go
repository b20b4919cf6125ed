package ctl

import (
	"fmt"

	"github.com/spf13/cobra"

	"plugd/pkg/acplug"
)

func buildStatusCmd() *cobra.Command {
	var primary, secondary string
	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Print the current adapter state resolved from sysfs",
		Example: "  plugctl status",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := acplug.ReadInitialState(primary, secondary)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), state)
			return nil
		},
	}
	cmd.Flags().StringVar(&primary, "bat-primary", acplug.DefaultPrimaryStatus, "Primary sysfs battery status attribute")
	cmd.Flags().StringVar(&secondary, "bat-secondary", acplug.DefaultSecondaryStatus, "Fallback sysfs battery status attribute")
	return cmd
}
