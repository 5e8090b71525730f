package manifest

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/relops/relmgr/internal/semver"
)

// Store provides durable manifest access over SQLite. All mutation goes
// through CompareAndSwap; the convenience wrappers are single-attempt CAS
// calls against a fresh snapshot.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store using db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Read returns a point-in-time snapshot of the manifest. It has no side
// effects and the result is safe to keep across calls.
func (s *Store) Read() (*Snapshot, error) {
	trx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = trx.Rollback() }()
	snap, err := readSnapshotTx(trx)
	if err != nil {
		return nil, err
	}
	if err := trx.Commit(); err != nil {
		return nil, err
	}
	return snap, nil
}

func readSnapshotTx(trx *sql.Tx) (*Snapshot, error) {
	gen, err := readGenerationTx(trx)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Generation: gen}

	rows, err := trx.Query("SELECT version, created_at, changelog_digest, deprecated FROM manifest_entries ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var vtext, created, digest string
		var deprecated int
		if err := rows.Scan(&vtext, &created, &digest, &deprecated); err != nil {
			return nil, err
		}
		v, err := semver.Parse(vtext)
		if err != nil {
			return nil, fmt.Errorf("corrupt manifest entry %q: %w", vtext, err)
		}
		at, err := time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("corrupt timestamp on %q: %w", vtext, err)
		}
		snap.Entries = append(snap.Entries, Entry{
			Version:         v,
			CreatedAt:       at,
			ChangelogDigest: digest,
			Deprecated:      deprecated != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate manifest entries: %w", err)
	}

	var latest string
	row := trx.QueryRow("SELECT value FROM manifest_meta WHERE key = 'latest'")
	switch err := row.Scan(&latest); err {
	case nil:
		v, perr := semver.Parse(latest)
		if perr != nil {
			return nil, fmt.Errorf("corrupt latest pointer %q: %w", latest, perr)
		}
		if !snap.Contains(v) {
			return nil, fmt.Errorf("latest pointer %q references no manifest entry", latest)
		}
		snap.Latest = &v
	case sql.ErrNoRows:
		// empty manifest, no pointer yet
	default:
		return nil, err
	}
	return snap, nil
}

func readGenerationTx(trx *sql.Tx) (int64, error) {
	var text string
	row := trx.QueryRow("SELECT value FROM manifest_meta WHERE key = 'generation'")
	if err := row.Scan(&text); err != nil {
		return 0, fmt.Errorf("read generation: %w", err)
	}
	gen, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse generation %q: %w", text, err)
	}
	return gen, nil
}

// CompareAndSwap applies m atomically if the stored manifest still matches
// expected. On success it returns the new snapshot; if another writer got
// there first it returns ErrConcurrentModification and the caller must
// re-read and reapply.
func (s *Store) CompareAndSwap(expected *Snapshot, m Mutation) (*Snapshot, error) {
	trx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = trx.Rollback() }()

	gen, err := readGenerationTx(trx)
	if err != nil {
		return nil, err
	}
	if gen != expected.Generation {
		return nil, fmt.Errorf("generation %d, snapshot had %d: %w", gen, expected.Generation, ErrConcurrentModification)
	}

	next := &Snapshot{Generation: gen + 1, Latest: expected.Latest}
	next.Entries = append(next.Entries, expected.Entries...)

	if m.Append != nil {
		if err := applyAppendTx(trx, next, *m.Append, m.Actor); err != nil {
			return nil, err
		}
	}
	if m.SetLatest != nil {
		if err := applySetLatestTx(trx, next, *m.SetLatest, m.Actor); err != nil {
			return nil, err
		}
	}
	if m.Deprecate != nil {
		if err := applyDeprecateTx(trx, next, *m.Deprecate, m.Actor); err != nil {
			return nil, err
		}
	}

	if _, err := trx.Exec("UPDATE manifest_meta SET value = ? WHERE key = 'generation'", strconv.FormatInt(next.Generation, 10)); err != nil {
		return nil, fmt.Errorf("bump generation: %w", err)
	}
	if err := trx.Commit(); err != nil {
		return nil, err
	}
	return next, nil
}

func applyAppendTx(trx *sql.Tx, snap *Snapshot, e Entry, actor string) error {
	if existing := snap.Entry(e.Version); existing != nil {
		// Replaying the same append (same version, same digest) is a no-op
		// so a CAS retry after a lost race cannot corrupt the order.
		if existing.ChangelogDigest == e.ChangelogDigest {
			return nil
		}
		return fmt.Errorf("append %s: %w", e.Version, ErrDuplicateVersion)
	}
	if !e.Version.IsPrerelease() {
		if newest := snap.newestStable(); newest != nil && semver.Compare(e.Version, newest.Version) < 0 {
			return fmt.Errorf("append %s behind stable %s: %w", e.Version, newest.Version, ErrOutOfOrder)
		}
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if _, err := trx.Exec("INSERT INTO manifest_entries (version, created_at, changelog_digest, deprecated) VALUES (?, ?, ?, 0)",
		e.Version.String(), e.CreatedAt.UTC().Format(time.RFC3339), e.ChangelogDigest); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	snap.Entries = append(snap.Entries, e)
	return auditTx(trx, "append", e.Version.String(), actor)
}

func applySetLatestTx(trx *sql.Tx, snap *Snapshot, v semver.Version, actor string) error {
	target := snap.Entry(v)
	if target == nil {
		return fmt.Errorf("set latest %s: %w", v, ErrUnknownVersion)
	}
	if target.Deprecated {
		return fmt.Errorf("set latest %s: %w", v, ErrDeprecatedVersion)
	}
	if _, err := trx.Exec(`INSERT INTO manifest_meta (key, value) VALUES ('latest', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, v.String()); err != nil {
		return fmt.Errorf("update latest: %w", err)
	}
	snap.Latest = &v
	return auditTx(trx, "set-latest", v.String(), actor)
}

func applyDeprecateTx(trx *sql.Tx, snap *Snapshot, v semver.Version, actor string) error {
	target := snap.Entry(v)
	if target == nil {
		return fmt.Errorf("deprecate %s: %w", v, ErrUnknownVersion)
	}
	if snap.Latest != nil && semver.Compare(*snap.Latest, v) == 0 {
		return fmt.Errorf("deprecate %s: version is the current latest", v)
	}
	if _, err := trx.Exec("UPDATE manifest_entries SET deprecated = 1 WHERE version = ?", v.String()); err != nil {
		return fmt.Errorf("mark deprecated: %w", err)
	}
	target.Deprecated = true
	return auditTx(trx, "deprecate", v.String(), actor)
}

func auditTx(trx *sql.Tx, action, version, actor string) error {
	_, err := trx.Exec("INSERT INTO audit_log (record_id, at, action, version, detail) VALUES (?, ?, ?, ?, ?)",
		uuid.NewString(), time.Now().UTC().Format(time.RFC3339), action, version, actor)
	if err != nil {
		return fmt.Errorf("audit %s: %w", action, err)
	}
	return nil
}

// Append adds entry to the manifest (single CAS attempt against a fresh
// snapshot). Fails with ErrDuplicateVersion if the version is present with
// different content.
func (s *Store) Append(e Entry, actor string) (*Snapshot, error) {
	snap, err := s.Read()
	if err != nil {
		return nil, err
	}
	return s.CompareAndSwap(snap, Mutation{Append: &e, Actor: actor})
}

// SetLatest moves the latest pointer to v. Fails with ErrUnknownVersion if v
// is not in the manifest.
func (s *Store) SetLatest(v semver.Version, actor string) (*Snapshot, error) {
	snap, err := s.Read()
	if err != nil {
		return nil, err
	}
	return s.CompareAndSwap(snap, Mutation{SetLatest: &v, Actor: actor})
}

// Deprecate removes v from the supported view. The entry stays in the
// manifest for audit and version ordering.
func (s *Store) Deprecate(v semver.Version, actor string) (*Snapshot, error) {
	snap, err := s.Read()
	if err != nil {
		return nil, err
	}
	return s.CompareAndSwap(snap, Mutation{Deprecate: &v, Actor: actor})
}

// AuditLog returns all mutation records, oldest first.
func (s *Store) AuditLog() ([]AuditRecord, error) {
	rows, err := s.db.Query("SELECT record_id, at, action, version, detail FROM audit_log ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []AuditRecord
	for rows.Next() {
		var rec AuditRecord
		var at string
		if err := rows.Scan(&rec.ID, &at, &rec.Action, &rec.Version, &rec.Detail); err != nil {
			return nil, err
		}
		if rec.At, err = time.Parse(time.RFC3339, at); err != nil {
			return nil, fmt.Errorf("corrupt audit timestamp: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit log: %w", err)
	}
	return out, nil
}
