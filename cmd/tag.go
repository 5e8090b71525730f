package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relops/relmgr/internal/semver"
)

var tagCmd = &cobra.Command{
	Use:   "tag <version>",
	Short: "Generate the changelog fragment and push the release tag",
	Args:  cobra.ExactArgs(1),
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
		c, err := a.machine.Tag(ctx, v)
		if err != nil {
			return err
		}
		fmt.Printf("tagged %s, changelog digest %s\n", v, c.ChangelogDigest)
		return nil
	},
}

func init() {
	timeoutFlag(tagCmd)
	rootCmd.AddCommand(tagCmd)
}
