package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relops/relmgr/internal/semver"
)

var validateCmd = &cobra.Command{
	Use:   "validate <version>",
	Short: "Run validation for every required platform",
	Long:  "Run validation for every required platform in parallel. The candidate\nreaches Validated only when the full platform list passes.",
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
		c, err := a.machine.Validate(ctx, v)
		if err != nil {
			return err
		}
		for _, platform := range a.cfg.Platforms {
			fmt.Printf("- %s: pass\n", platform)
		}
		fmt.Printf("validated %s (state %s)\n", v, c.State)
		return nil
	},
}

func init() {
	timeoutFlag(validateCmd)
	rootCmd.AddCommand(validateCmd)
}
