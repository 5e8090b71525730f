// Package exporter writes the manifest's external JSON form, the document
// installers download.
package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/relops/relmgr/internal/manifest"
)

// ExportManifest renders the current snapshot of store as the wire document
// and writes it to dstPath.
func ExportManifest(store *manifest.Store, dstPath string) error {
	snap, err := store.Read()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("create dst dir: %w", err)
	}
	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create manifest file: %w", err)
	}
	defer func() { _ = out.Close() }()
	return WriteManifest(snap, out)
}

// WriteManifest writes the wire document for snap to w.
func WriteManifest(snap *manifest.Snapshot, w io.Writer) error {
	doc := manifest.NewDocument(snap)
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("refusing to export inconsistent manifest: %w", err)
	}
	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
