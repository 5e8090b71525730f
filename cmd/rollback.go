package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relops/relmgr/internal/semver"
)

var rollbackCmd = &cobra.Command{
	Use:   "rollback <version>",
	Short: "Move the latest pointer back to an older released version",
	Long: "Move the latest pointer back to an older released version. History is\n" +
		"never removed or reordered; only the pointer moves.",
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

		snap, err := a.coordinator.Rollback(v, actor())
		if err != nil {
			return err
		}
		fmt.Printf("rolled back, latest now %s\n", snap.Latest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rollbackCmd)
}
