package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relops/relmgr/internal/semver"
)

var publishCmd = &cobra.Command{
	Use:   "publish <version>",
	Short: "Publish the artifact archive for every required platform",
	Long: "Publish the artifact archive for every required platform. A partial\n" +
		"failure keeps the candidate in Tagged; re-run publish after fixing the\n" +
		"artifact store and only the missing platforms are uploaded.",
	Args: cobra.ExactArgs(1),
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
		c, err := a.machine.Publish(ctx, v)
		if err != nil {
			return err
		}
		for _, platform := range c.PublishedPlatforms {
			fmt.Printf("- %s: published\n", platform)
		}
		fmt.Printf("published %s (state %s)\n", v, c.State)
		return nil
	},
}

func init() {
	timeoutFlag(publishCmd)
	rootCmd.AddCommand(publishCmd)
}
