package release

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBuildFailed is returned when the build collaborator reports
	// failure (including a caller-supplied timeout expiring).
	ErrBuildFailed = errors.New("build failed")

	// ErrInvalidTransition is returned when an event is not legal for the
	// candidate's current state.
	ErrInvalidTransition = errors.New("event not legal in current state")

	// ErrNoCandidate is returned when no in-flight candidate exists for a
	// version.
	ErrNoCandidate = errors.New("no in-flight candidate for version")
)

// ValidationError names the platform whose validation failed.
type ValidationError struct {
	Platform string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %v", e.Platform, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PublishIncompleteError lists the platforms still missing a published
// artifact. It blocks the Tagged to Published transition; the operator
// re-runs publish after inspecting the failure.
type PublishIncompleteError struct {
	Missing []string
}

func (e *PublishIncompleteError) Error() string {
	return fmt.Sprintf("publish incomplete, missing platforms: %s", strings.Join(e.Missing, ", "))
}
