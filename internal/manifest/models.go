// Package manifest implements the durable version registry: an append-only
// list of released versions, a single "latest" pointer, and the
// compare-and-swap discipline every mutation goes through.
package manifest

import (
	"time"

	"github.com/relops/relmgr/internal/semver"
)

// Entry is one published version. Entries are immutable after creation;
// corrections are new entries and deprecation only flips the supported flag.
type Entry struct {
	Version         semver.Version
	CreatedAt       time.Time
	ChangelogDigest string
	Deprecated      bool
}

// Snapshot is a point-in-time read of the manifest. Generation is the CAS
// token: any successful mutation increments it, so a snapshot taken before
// someone else's write no longer matches.
type Snapshot struct {
	Generation int64
	Entries    []Entry // insertion order = release order
	Latest     *semver.Version
}

// Contains reports whether v is present in the manifest.
func (s *Snapshot) Contains(v semver.Version) bool {
	return s.Entry(v) != nil
}

// Entry returns the entry for v, or nil.
func (s *Snapshot) Entry(v semver.Version) *Entry {
	for i := range s.Entries {
		if semver.Compare(s.Entries[i].Version, v) == 0 {
			return &s.Entries[i]
		}
	}
	return nil
}

// LatestEntry returns the entry the latest pointer references, or nil when
// the manifest is empty.
func (s *Snapshot) LatestEntry() *Entry {
	if s.Latest == nil {
		return nil
	}
	return s.Entry(*s.Latest)
}

// Supported returns the downloadable view: entries not deprecated, in
// release order. Deprecated entries stay in Entries for audit.
func (s *Snapshot) Supported() []Entry {
	out := make([]Entry, 0, len(s.Entries))
	for _, e := range s.Entries {
		if !e.Deprecated {
			out = append(out, e)
		}
	}
	return out
}

// newestStable returns the newest non-prerelease entry by version order, or
// nil. Used by the append guard for the stable channel.
func (s *Snapshot) newestStable() *Entry {
	var best *Entry
	for i := range s.Entries {
		e := &s.Entries[i]
		if e.Version.IsPrerelease() {
			continue
		}
		if best == nil || semver.Compare(e.Version, best.Version) > 0 {
			best = e
		}
	}
	return best
}

// Mutation describes one atomic manifest update applied through
// CompareAndSwap. Zero-value fields are skipped.
type Mutation struct {
	Append    *Entry
	SetLatest *semver.Version
	Deprecate *semver.Version
	// Actor is recorded in the audit log, free-form ("ci", "jo@ops", ...).
	Actor string
}

// AuditRecord is one row of the append-only mutation log.
type AuditRecord struct {
	ID      string
	At      time.Time
	Action  string
	Version string
	Detail  string
}
