package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relops/relmgr/internal/semver"
)

var buildCmd = &cobra.Command{
	Use:   "build <version>",
	Short: "Build the release candidate",
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
		c, err := a.machine.Build(ctx, v)
		if err != nil {
			return err
		}
		fmt.Printf("built %s (state %s)\n", v, c.State)
		return nil
	},
}

func init() {
	timeoutFlag(buildCmd)
	rootCmd.AddCommand(buildCmd)
}
