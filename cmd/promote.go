package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relops/relmgr/internal/semver"
)

var promoteCmd = &cobra.Command{
	Use:   "promote <version>",
	Short: "Approve the published candidate and promote it into the manifest",
	Long: "Approve the published candidate: append its manifest entry and, for a\n" +
		"stable release, move the latest pointer, in one atomic update.",
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
		snap, err := a.coordinator.Promote(ctx, v, a.candidates, actor())
		if err != nil {
			return err
		}
		if snap.Latest != nil && snap.Latest.String() == v.String() {
			fmt.Printf("promoted %s, latest now %s\n", v, snap.Latest)
		} else {
			fmt.Printf("promoted %s (latest unchanged)\n", v)
		}
		return nil
	},
}

func init() {
	timeoutFlag(promoteCmd)
	rootCmd.AddCommand(promoteCmd)
}
