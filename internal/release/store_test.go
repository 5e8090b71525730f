package release

import (
	"path/filepath"
	"testing"

	"github.com/relops/relmgr/internal/db"
)

func setupCandidates(t *testing.T) *CandidateStore {
	t.Helper()
	dbConn, err := db.Open(filepath.Join(t.TempDir(), "relmgr.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { _ = dbConn.Close() })
	return NewCandidateStore(dbConn)
}

func TestCandidateStore_CreateAndActive(t *testing.T) {
	cs := setupCandidates(t)
	v := ver(t, "0.7.0")
	c, err := cs.Create(v)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.State != Drafted {
		t.Fatalf("expected Drafted, got %s", c.State)
	}

	got, err := cs.Active(v)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if got == nil || got.ID != c.ID {
		t.Fatalf("expected active candidate %d, got %+v", c.ID, got)
	}
}

func TestCandidateStore_SaveRoundTrip(t *testing.T) {
	cs := setupCandidates(t)
	v := ver(t, "0.7.0")
	c, err := cs.Create(v)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	c.State = Tagged
	c.BranchRef = "release-0.7.0"
	c.ChangelogDigest = "abc"
	c.Validations["x86_64-linux"] = true
	c.PublishedPlatforms = []string{"x86_64-linux"}
	if err := cs.Save(c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := cs.Active(v)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if got.State != Tagged || got.BranchRef != "release-0.7.0" || got.ChangelogDigest != "abc" {
		t.Fatalf("round trip lost fields: %+v", got)
	}
	if !got.Validations["x86_64-linux"] || !got.HasPublished("x86_64-linux") {
		t.Fatalf("round trip lost progress: %+v", got)
	}
}

func TestCandidateStore_TerminalNotActive(t *testing.T) {
	cs := setupCandidates(t)
	v := ver(t, "0.7.0")
	c, err := cs.Create(v)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	c.State = Aborted
	if err := cs.Save(c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := cs.Active(v)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if got != nil {
		t.Fatalf("aborted candidate still active: %+v", got)
	}

	hist, err := cs.History(v)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 1 {
		t.Fatalf("expected 1 historic attempt, got %d", len(hist))
	}
}

func TestCandidateStore_HistoryAndInFlightComplete(t *testing.T) {
	cs := setupCandidates(t)
	v := ver(t, "0.7.0")
	for i := 0; i < 3; i++ {
		c, err := cs.Create(v)
		if err != nil {
			t.Fatalf("Create attempt %d: %v", i+1, err)
		}
		c.State = Aborted
		if err := cs.Save(c); err != nil {
			t.Fatalf("Save attempt %d: %v", i+1, err)
		}
	}
	if _, err := cs.Create(v); err != nil {
		t.Fatalf("Create final: %v", err)
	}
	if _, err := cs.Create(ver(t, "0.8.0")); err != nil {
		t.Fatalf("Create 0.8.0: %v", err)
	}

	hist, err := cs.History(v)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 4 {
		t.Fatalf("expected all 4 attempts in history, got %d", len(hist))
	}
	for i := 1; i < len(hist); i++ {
		if hist[i].ID <= hist[i-1].ID {
			t.Fatalf("history out of order: %+v", hist)
		}
	}

	inflight, err := cs.InFlight()
	if err != nil {
		t.Fatalf("InFlight: %v", err)
	}
	if len(inflight) != 2 {
		t.Fatalf("expected 2 in-flight candidates, got %d", len(inflight))
	}
}
