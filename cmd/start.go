package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relops/relmgr/internal/semver"
)

// hookContext derives the context for external collaborator calls from the
// command's --timeout flag. A deadline hit surfaces as a stage failure.
func hookContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout > 0 {
		return context.WithTimeout(cmd.Context(), timeout)
	}
	return context.WithCancel(cmd.Context())
}

func timeoutFlag(cmd *cobra.Command) {
	cmd.Flags().Duration("timeout", 0, "Abort the external command after this duration (0 = no limit)")
}

var startCmd = &cobra.Command{
	Use:   "start <version>",
	Short: "Draft a release candidate and create its branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := semver.Parse(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := hookContext(cmd)
		defer cancel()
		c, err := a.machine.Start(ctx, v)
		if err != nil {
			return err
		}
		fmt.Printf("drafted %s on branch %s (state %s)\n", v, c.BranchRef, c.State)
		return nil
	},
}

func init() {
	timeoutFlag(startCmd)
	rootCmd.AddCommand(startCmd)
}
