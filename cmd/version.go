package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relops/relmgr/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the relmgr version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
