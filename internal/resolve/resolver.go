// Package resolve maps version identifiers (or the "latest" alias) to the
// published download locations installers fetch from.
package resolve

import (
	"fmt"

	"github.com/relops/relmgr/internal/config"
	"github.com/relops/relmgr/internal/manifest"
	"github.com/relops/relmgr/internal/semver"
)

// LatestAlias resolves through the manifest's latest pointer at call time.
const LatestAlias = "latest"

// DownloadDescriptor holds one archive URL per supported platform for a
// resolved version.
type DownloadDescriptor struct {
	Version string
	// URLs maps platform identifier to archive URL.
	URLs map[string]string
}

// Resolver is a read-only consumer of the manifest store.
type Resolver struct {
	store *manifest.Store
	cfg   *config.Project
}

// NewResolver creates a Resolver over store.
func NewResolver(store *manifest.Store, cfg *config.Project) *Resolver {
	return &Resolver{store: store, cfg: cfg}
}

// Resolve accepts an explicit version or the "latest" alias. The alias is
// resolved through the pointer on every call, never cached, so a rollback
// is observed immediately. Deprecated versions are refused.
func (r *Resolver) Resolve(versionOrAlias string) (*DownloadDescriptor, error) {
	snap, err := r.store.Read()
	if err != nil {
		return nil, err
	}

	var entry *manifest.Entry
	if versionOrAlias == LatestAlias {
		entry = snap.LatestEntry()
		if entry == nil {
			return nil, fmt.Errorf("resolve latest: manifest is empty: %w", manifest.ErrUnknownVersion)
		}
	} else {
		v, err := semver.Parse(versionOrAlias)
		if err != nil {
			return nil, err
		}
		entry = snap.Entry(v)
		if entry == nil {
			return nil, fmt.Errorf("resolve %s: %w", v, manifest.ErrUnknownVersion)
		}
	}
	if entry.Deprecated {
		return nil, fmt.Errorf("resolve %s: %w", entry.Version, manifest.ErrDeprecatedVersion)
	}

	desc := &DownloadDescriptor{Version: entry.Version.String(), URLs: map[string]string{}}
	for _, platform := range r.cfg.Platforms {
		desc.URLs[platform] = r.downloadURL(entry.Version, platform)
	}
	return desc, nil
}

// downloadURL builds the archive URL for one (version, platform) pair. The
// pattern is a published external interface: any change to it is a breaking
// change requiring a manifest-format version bump.
func (r *Resolver) downloadURL(v semver.Version, platform string) string {
	return fmt.Sprintf("%s/%s/%s/%s-%s.tar.gz", r.cfg.DownloadURL, v, platform, r.cfg.Product, v)
}
