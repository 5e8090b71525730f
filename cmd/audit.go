package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the manifest mutation log",
	Long:  "Show every manifest mutation (append, set-latest, deprecate) with its\nrecord id, timestamp and actor, oldest first.",
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		recs, err := a.store.AuditLog()
		if err != nil {
			return err
		}
		for _, rec := range recs {
			fmt.Printf("%s  %s  %-10s %s  %s\n",
				rec.ID, rec.At.Format("2006-01-02T15:04:05Z"), rec.Action, rec.Version, rec.Detail)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
