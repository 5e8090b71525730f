package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/relops/relmgr/internal/release"
	"github.com/relops/relmgr/internal/semver"
)

// nextEvent names the event that advances each non-terminal state.
var nextEvent = map[release.State]string{
	release.Drafted:        "start (branch creation pending)",
	release.Branched:       "build",
	release.CandidateBuilt: "validate",
	release.Validated:      "tag",
	release.Tagged:         "publish",
	release.Published:      "promote",
}

var statusCmd = &cobra.Command{
	Use:   "status [version]",
	Short: "Show release candidate state",
	Long:  "Show the state of one candidate, or every in-flight candidate when no\nversion is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 0 {
			inflight, err := a.candidates.InFlight()
			if err != nil {
				return err
			}
			if len(inflight) == 0 {
				fmt.Println("no in-flight candidates")
				return nil
			}
			for _, c := range inflight {
				fmt.Printf("- %s: %s (updated %s)\n", c.Version, c.State, humanize.Time(c.UpdatedAt))
			}
			return nil
		}

		v, err := semver.Parse(args[0])
		if err != nil {
			return err
		}
		c, err := a.candidates.Active(v)
		if err != nil {
			return err
		}
		if c == nil {
			hist, err := a.candidates.History(v)
			if err != nil {
				return err
			}
			if len(hist) == 0 {
				return fmt.Errorf("status %s: %w", v, release.ErrNoCandidate)
			}
			c = &hist[len(hist)-1]
		}
		fmt.Printf("%s: %s (updated %s)\n", c.Version, c.State, humanize.Time(c.UpdatedAt))
		if c.BranchRef != "" {
			fmt.Printf("  branch: %s\n", c.BranchRef)
		}
		for _, platform := range a.cfg.Platforms {
			if ok, seen := c.Validations[platform]; seen {
				result := "fail"
				if ok {
					result = "pass"
				}
				fmt.Printf("  validation %s: %s\n", platform, result)
			}
		}
		if next, ok := nextEvent[c.State]; ok {
			fmt.Printf("  next: %s\n", next)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
