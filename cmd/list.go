package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List released versions in release order",
	Long:  "List released versions in release order. Example:\n  relmgr list --all",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		includeAll, _ := cmd.Flags().GetBool("all")
		filter, _ := cmd.Flags().GetString("filter")
		snap, err := a.store.Read()
		if err != nil {
			return err
		}
		entries := snap.Entries
		if !includeAll {
			entries = snap.Supported()
		}
		for _, e := range entries {
			if filter != "" && !strings.Contains(e.Version.String(), filter) {
				continue
			}
			marker := ""
			if snap.Latest != nil && snap.Latest.String() == e.Version.String() {
				marker = " (latest)"
			}
			if e.Deprecated {
				marker += " (deprecated)"
			}
			fmt.Printf("- %s%s  released %s\n", e.Version, marker, humanize.Time(e.CreatedAt))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("all", false, "Include deprecated versions")
	listCmd.Flags().String("filter", "", "Only show versions containing this substring")
	rootCmd.AddCommand(listCmd)
}
