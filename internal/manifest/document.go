package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/relops/relmgr/internal/semver"
)

// Document is the external persisted form of the manifest, read by
// installers:
//
//	{"tags": {"latest": "<version>"}, "versions": ["<version>", ...]}
//
// versions is in release order; tags.latest must name one of them. The
// shape is a published interface; changing it is a breaking change.
type Document struct {
	Tags     map[string]string `json:"tags"`
	Versions []string          `json:"versions"`
}

// NewDocument builds the wire document from a snapshot. Only supported
// (non-deprecated) entries appear in the downloadable list.
func NewDocument(snap *Snapshot) *Document {
	doc := &Document{Tags: map[string]string{}, Versions: []string{}}
	for _, e := range snap.Supported() {
		doc.Versions = append(doc.Versions, e.Version.String())
	}
	if snap.Latest != nil {
		doc.Tags["latest"] = snap.Latest.String()
	}
	return doc
}

// Marshal renders the document as indented JSON.
func (d *Document) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// ParseDocument decodes and validates a wire document.
func ParseDocument(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse manifest document: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks the document invariants: every version parses, versions
// are unique, and tags.latest (when present) is one of them.
func (d *Document) Validate() error {
	seen := map[string]bool{}
	for _, vs := range d.Versions {
		v, err := semver.Parse(vs)
		if err != nil {
			return err
		}
		canon := v.String()
		if seen[canon] {
			return fmt.Errorf("version %s listed twice: %w", canon, ErrDuplicateVersion)
		}
		seen[canon] = true
	}
	latest, ok := d.Tags["latest"]
	if !ok {
		if len(d.Versions) > 0 {
			return fmt.Errorf("manifest with versions but no latest tag")
		}
		return nil
	}
	v, err := semver.Parse(latest)
	if err != nil {
		return err
	}
	if !seen[v.String()] {
		return fmt.Errorf("latest tag %s: %w", latest, ErrUnknownVersion)
	}
	return nil
}
