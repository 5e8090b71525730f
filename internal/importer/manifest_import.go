// Package importer ingests an external manifest document into the local
// store, e.g. when seeding a fresh registry from the published manifest.
package importer

import (
	"fmt"
	"os"

	"github.com/relops/relmgr/internal/manifest"
	"github.com/relops/relmgr/internal/semver"
)

// ImportManifest reads the wire document at srcPath and replays it into
// store: each listed version is appended in order (already present versions
// are left alone) and the latest pointer is set last. The import is
// idempotent.
func ImportManifest(store *manifest.Store, srcPath string, actor string) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("read manifest file: %w", err)
	}
	doc, err := manifest.ParseDocument(data)
	if err != nil {
		return err
	}

	snap, err := store.Read()
	if err != nil {
		return err
	}
	for _, vs := range doc.Versions {
		v, err := semver.Parse(vs)
		if err != nil {
			return err
		}
		if snap.Contains(v) {
			continue
		}
		entry := manifest.Entry{Version: v}
		snap, err = store.CompareAndSwap(snap, manifest.Mutation{Append: &entry, Actor: actor})
		if err != nil {
			return fmt.Errorf("import %s: %w", vs, err)
		}
	}
	if latest, ok := doc.Tags["latest"]; ok {
		v, err := semver.Parse(latest)
		if err != nil {
			return err
		}
		if snap.Latest == nil || semver.Compare(*snap.Latest, v) != 0 {
			if _, err := store.CompareAndSwap(snap, manifest.Mutation{SetLatest: &v, Actor: actor}); err != nil {
				return fmt.Errorf("import latest %s: %w", latest, err)
			}
		}
	}
	return nil
}
