package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relops/relmgr/internal/resolve"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <version|latest>",
	Short: "Print the download URL for each platform",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		r := resolve.NewResolver(a.store, a.cfg)
		desc, err := r.Resolve(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s:\n", desc.Version)
		for _, platform := range a.cfg.Platforms {
			fmt.Printf("- %s: %s\n", platform, desc.URLs[platform])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
