package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relops/relmgr/internal/semver"
)

var abortCmd = &cobra.Command{
	Use:   "abort <version>",
	Short: "Abort the in-flight release candidate",
	Long: "Abort the in-flight release candidate. External work already started is\n" +
		"not preempted; the candidate just stops advancing. Retrying the version\n" +
		"means drafting a fresh candidate with 'relmgr start'.",
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

		if _, err := a.machine.Abort(v); err != nil {
			return err
		}
		fmt.Printf("aborted %s\n", v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(abortCmd)
}
