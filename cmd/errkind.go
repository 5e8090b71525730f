package cmd

import (
	"errors"
	"strings"

	"github.com/relops/relmgr/internal/manifest"
	"github.com/relops/relmgr/internal/release"
	"github.com/relops/relmgr/internal/semver"
)

// kindOf maps an error to its machine-readable kind for stderr. Scripts
// match on the kind, not the message.
func kindOf(err error) string {
	var verr *release.ValidationError
	if errors.As(err, &verr) {
		return "ValidationFailed(" + verr.Platform + ")"
	}
	var perr *release.PublishIncompleteError
	if errors.As(err, &perr) {
		return "PublishIncomplete(" + strings.Join(perr.Missing, ",") + ")"
	}
	switch {
	case errors.Is(err, semver.ErrInvalid):
		return "InvalidVersion"
	case errors.Is(err, manifest.ErrDuplicateVersion):
		return "DuplicateVersion"
	case errors.Is(err, manifest.ErrUnknownVersion):
		return "UnknownVersion"
	case errors.Is(err, manifest.ErrDeprecatedVersion):
		return "DeprecatedVersion"
	case errors.Is(err, manifest.ErrConcurrentModification):
		return "ConcurrentModification"
	case errors.Is(err, manifest.ErrOutOfOrder):
		return "OutOfOrderVersion"
	case errors.Is(err, release.ErrBuildFailed):
		return "BuildFailed"
	case errors.Is(err, release.ErrInvalidTransition):
		return "InvalidTransition"
	case errors.Is(err, release.ErrNoCandidate):
		return "NoCandidate"
	default:
		return "Internal"
	}
}
