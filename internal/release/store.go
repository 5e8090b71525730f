package release

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/relops/relmgr/internal/semver"
)

// CandidateStore persists release candidates so the flow can span CLI
// invocations. Terminal candidates stay behind as history; the partial
// unique index in the schema enforces at most one in-flight candidate per
// version.
type CandidateStore struct {
	db *sql.DB
}

// NewCandidateStore creates a CandidateStore using db.
func NewCandidateStore(db *sql.DB) *CandidateStore {
	return &CandidateStore{db: db}
}

// Create inserts a new Drafted candidate for v and returns it.
func (cs *CandidateStore) Create(v semver.Version) (*Candidate, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := cs.db.Exec(`INSERT INTO release_candidates
		(version, state, validations, published, created_at, updated_at)
		VALUES (?, ?, '{}', '[]', ?, ?)`, v.String(), string(Drafted), now, now)
	if err != nil {
		return nil, fmt.Errorf("insert candidate: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	at, _ := time.Parse(time.RFC3339, now)
	return &Candidate{
		ID:          id,
		Version:     v,
		State:       Drafted,
		Validations: map[string]bool{},
		CreatedAt:   at,
		UpdatedAt:   at,
	}, nil
}

// Active returns the in-flight (non-terminal) candidate for v, or nil.
func (cs *CandidateStore) Active(v semver.Version) (*Candidate, error) {
	row := cs.db.QueryRow(`SELECT id, version, state, branch_ref, changelog, changelog_digest, validations, published, created_at, updated_at
		FROM release_candidates WHERE version = ? AND state NOT IN ('Promoted', 'Aborted')`, v.String())
	c, err := scanCandidate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// History returns every candidate ever drafted for v, oldest first.
func (cs *CandidateStore) History(v semver.Version) ([]Candidate, error) {
	rows, err := cs.db.Query(`SELECT id, version, state, branch_ref, changelog, changelog_digest, validations, published, created_at, updated_at
		FROM release_candidates WHERE version = ? ORDER BY id ASC`, v.String())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return out, nil
}

// InFlight returns all non-terminal candidates, oldest first.
func (cs *CandidateStore) InFlight() ([]Candidate, error) {
	rows, err := cs.db.Query(`SELECT id, version, state, branch_ref, changelog, changelog_digest, validations, published, created_at, updated_at
		FROM release_candidates WHERE state NOT IN ('Promoted', 'Aborted') ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return out, nil
}

// Save writes the candidate's mutable fields back.
func (cs *CandidateStore) Save(c *Candidate) error {
	validations, err := json.Marshal(c.Validations)
	if err != nil {
		return fmt.Errorf("marshal validations: %w", err)
	}
	published, err := json.Marshal(c.PublishedPlatforms)
	if err != nil {
		return fmt.Errorf("marshal published: %w", err)
	}
	c.UpdatedAt = time.Now().UTC()
	_, err = cs.db.Exec(`UPDATE release_candidates
		SET state = ?, branch_ref = ?, changelog = ?, changelog_digest = ?, validations = ?, published = ?, updated_at = ?
		WHERE id = ?`,
		string(c.State), c.BranchRef, c.Changelog, c.ChangelogDigest,
		string(validations), string(published), c.UpdatedAt.Format(time.RFC3339), c.ID)
	if err != nil {
		return fmt.Errorf("update candidate: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*Candidate, error) {
	var c Candidate
	var vtext, state, validations, published, created, updated string
	if err := row.Scan(&c.ID, &vtext, &state, &c.BranchRef, &c.Changelog, &c.ChangelogDigest, &validations, &published, &created, &updated); err != nil {
		return nil, err
	}
	v, err := semver.Parse(vtext)
	if err != nil {
		return nil, fmt.Errorf("corrupt candidate version %q: %w", vtext, err)
	}
	c.Version = v
	c.State = State(state)
	if err := json.Unmarshal([]byte(validations), &c.Validations); err != nil {
		return nil, fmt.Errorf("unmarshal validations: %w", err)
	}
	if err := json.Unmarshal([]byte(published), &c.PublishedPlatforms); err != nil {
		return nil, fmt.Errorf("unmarshal published: %w", err)
	}
	if c.Validations == nil {
		c.Validations = map[string]bool{}
	}
	if c.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, fmt.Errorf("corrupt candidate timestamp: %w", err)
	}
	if c.UpdatedAt, err = time.Parse(time.RFC3339, updated); err != nil {
		return nil, fmt.Errorf("corrupt candidate timestamp: %w", err)
	}
	return &c, nil
}
