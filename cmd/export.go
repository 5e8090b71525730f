package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relops/relmgr/internal/exporter"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the manifest in its external JSON form",
	Long:  "Write the manifest in its external JSON form, the document installers\ndownload. With no --out, print to stdout.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			snap, err := a.store.Read()
			if err != nil {
				return err
			}
			return exporter.WriteManifest(snap, os.Stdout)
		}
		if err := exporter.ExportManifest(a.store, out); err != nil {
			return err
		}
		fmt.Printf("exported manifest to %s\n", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("out", "", "Destination file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
