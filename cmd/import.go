package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relops/relmgr/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replay an external manifest document into the local registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := importer.ImportManifest(a.store, args[0], actor()); err != nil {
			return err
		}
		fmt.Printf("imported %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
