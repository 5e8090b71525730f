package manifest

import "errors"

// Sentinel errors for manifest operations. Callers match with errors.Is;
// the CLI maps them to machine-readable kinds on stderr.
var (
	// ErrDuplicateVersion is returned when appending a version that is
	// already present with different content.
	ErrDuplicateVersion = errors.New("version already present in manifest")

	// ErrUnknownVersion is returned when an operation references a version
	// that is not in the manifest.
	ErrUnknownVersion = errors.New("version not present in manifest")

	// ErrDeprecatedVersion is returned when an operation requires a
	// supported (non-deprecated) entry.
	ErrDeprecatedVersion = errors.New("version is deprecated")

	// ErrConcurrentModification is returned by CompareAndSwap when the
	// stored manifest no longer matches the expected snapshot.
	ErrConcurrentModification = errors.New("manifest changed since snapshot was taken")

	// ErrOutOfOrder is returned when appending a stable version older than
	// the newest stable entry. Pre-releases may interleave freely.
	ErrOutOfOrder = errors.New("stable version older than newest stable entry")
)
