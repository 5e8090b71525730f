// Package release drives a release candidate through the build, validation,
// tagging, and publishing stages that precede promotion into the manifest.
package release

import (
	"time"

	"github.com/relops/relmgr/internal/semver"
)

// State is a release candidate lifecycle state.
type State string

const (
	Drafted        State = "Drafted"
	Branched       State = "Branched"
	CandidateBuilt State = "CandidateBuilt"
	Validated      State = "Validated"
	Tagged         State = "Tagged"
	Published      State = "Published"
	Promoted       State = "Promoted"
	Aborted        State = "Aborted"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == Promoted || s == Aborted
}

// Candidate is one in-flight release attempt. A failed attempt is terminal;
// retrying a version means drafting a fresh candidate.
type Candidate struct {
	ID      int64
	Version semver.Version
	State   State
	// BranchRef names the release branch in the version-control system.
	BranchRef string
	// Changelog is the generated fragment for this version; its sha256
	// digest becomes part of the manifest entry.
	Changelog       string
	ChangelogDigest string
	// Validations maps platform name to pass/fail for completed checks.
	Validations map[string]bool
	// PublishedPlatforms lists platforms whose artifacts are uploaded, so a
	// partially failed publish can be re-run without re-uploading.
	PublishedPlatforms []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ValidationsCover reports whether every required platform has a recorded
// passing result. Partial success is not enough.
func (c *Candidate) ValidationsCover(platforms []string) bool {
	for _, p := range platforms {
		ok, seen := c.Validations[p]
		if !seen || !ok {
			return false
		}
	}
	return true
}

// HasPublished reports whether platform's artifact is already uploaded.
func (c *Candidate) HasPublished(platform string) bool {
	for _, p := range c.PublishedPlatforms {
		if p == platform {
			return true
		}
	}
	return false
}
