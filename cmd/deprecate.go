package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relops/relmgr/internal/semver"
)

var deprecateCmd = &cobra.Command{
	Use:   "deprecate <version>",
	Short: "Remove a version from the supported download list",
	Long: "Remove a version from the supported download list. The entry stays in\n" +
		"the manifest history and the action is recorded in the audit log.",
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

		if _, err := a.coordinator.Deprecate(v, actor()); err != nil {
			return err
		}
		fmt.Printf("deprecated %s\n", v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deprecateCmd)
}
