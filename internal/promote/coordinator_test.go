package promote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/relops/relmgr/internal/config"
	"github.com/relops/relmgr/internal/db"
	"github.com/relops/relmgr/internal/manifest"
	"github.com/relops/relmgr/internal/release"
	"github.com/relops/relmgr/internal/semver"
)

type fakeRunner struct {
	notified []string
	failAll  bool
}

func (f *fakeRunner) Run(_ context.Context, command string, vars map[string]string, _, _ io.Writer) error {
	if f.failAll {
		return fmt.Errorf("scripted failure")
	}
	if command == "notify" {
		f.notified = append(f.notified, vars["version"])
	}
	return nil
}

type fixture struct {
	co         *Coordinator
	machine    *release.Machine
	candidates *release.CandidateStore
	store      *manifest.Store
	runner     *fakeRunner
}

func setup(t *testing.T) *fixture {
	t.Helper()
	dbConn, err := db.Open(filepath.Join(t.TempDir(), "relmgr.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { _ = dbConn.Close() })

	cfg := &config.Project{
		Product:    "acme",
		Platforms:  []string{"x86_64-linux", "x86_64-darwin"},
		CASRetries: 3,
		Hooks:      config.Hooks{Notify: "notify"},
	}
	runner := &fakeRunner{}
	store := manifest.NewStore(dbConn)
	candidates := release.NewCandidateStore(dbConn)
	machine := release.NewMachine(candidates, store, runner, cfg, zap.NewNop())
	machine.Out = io.Discard
	machine.Err = io.Discard
	return &fixture{
		co:         NewCoordinator(store, machine, runner, cfg, zap.NewNop()),
		machine:    machine,
		candidates: candidates,
		store:      store,
		runner:     runner,
	}
}

func ver(t *testing.T, s string) semver.Version {
	t.Helper()
	v, err := semver.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return v
}

func publish(t *testing.T, f *fixture, s string) semver.Version {
	t.Helper()
	ctx := context.Background()
	v := ver(t, s)
	if _, err := f.machine.Start(ctx, v); err != nil {
		t.Fatalf("Start(%s): %v", s, err)
	}
	if _, err := f.machine.Build(ctx, v); err != nil {
		t.Fatalf("Build(%s): %v", s, err)
	}
	if _, err := f.machine.Validate(ctx, v); err != nil {
		t.Fatalf("Validate(%s): %v", s, err)
	}
	if _, err := f.machine.Tag(ctx, v); err != nil {
		t.Fatalf("Tag(%s): %v", s, err)
	}
	if _, err := f.machine.Publish(ctx, v); err != nil {
		t.Fatalf("Publish(%s): %v", s, err)
	}
	return v
}

func TestPromote_AppendsAndMovesLatest(t *testing.T) {
	f := setup(t)
	v := publish(t, f, "0.7.0")

	snap, err := f.co.Promote(context.Background(), v, f.candidates, "test")
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if !snap.Contains(v) {
		t.Fatalf("expected 0.7.0 appended")
	}
	if snap.Latest == nil || snap.Latest.String() != "0.7.0" {
		t.Fatalf("expected latest 0.7.0, got %v", snap.Latest)
	}

	c, err := f.candidates.Active(v)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if c != nil {
		t.Fatalf("promoted candidate should be terminal, got %+v", c)
	}
	if len(f.runner.notified) != 1 || f.runner.notified[0] != "0.7.0" {
		t.Fatalf("expected notification for 0.7.0, got %v", f.runner.notified)
	}
}

func TestPromote_PrereleaseKeepsStablePointer(t *testing.T) {
	f := setup(t)
	stable := publish(t, f, "0.7.0")
	if _, err := f.co.Promote(context.Background(), stable, f.candidates, "test"); err != nil {
		t.Fatalf("Promote stable: %v", err)
	}

	pre := publish(t, f, "0.8.0-beta.1")
	snap, err := f.co.Promote(context.Background(), pre, f.candidates, "test")
	if err != nil {
		t.Fatalf("Promote prerelease: %v", err)
	}
	if !snap.Contains(pre) {
		t.Fatalf("expected prerelease appended")
	}
	if snap.Latest.String() != "0.7.0" {
		t.Fatalf("prerelease must not move latest, got %s", snap.Latest)
	}
}

func TestPromote_RequiresPublishedState(t *testing.T) {
	f := setup(t)
	v := ver(t, "0.7.0")
	if _, err := f.machine.Start(context.Background(), v); err != nil {
		t.Fatalf("Start: %v", err)
	}
	_, err := f.co.Promote(context.Background(), v, f.candidates, "test")
	if !errors.Is(err, release.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestPromote_NotificationFailureIsNotFatal(t *testing.T) {
	f := setup(t)
	v := publish(t, f, "0.7.0")
	f.runner.failAll = true
	defer func() { f.runner.failAll = false }()
	if _, err := f.co.Promote(context.Background(), v, f.candidates, "test"); err != nil {
		t.Fatalf("Promote with failing notifier: %v", err)
	}
}

func TestRollback_MovesPointerOnly(t *testing.T) {
	f := setup(t)
	for _, s := range []string{"0.5.0", "0.6.0"} {
		v := publish(t, f, s)
		if _, err := f.co.Promote(context.Background(), v, f.candidates, "test"); err != nil {
			t.Fatalf("Promote(%s): %v", s, err)
		}
	}

	snap, err := f.co.Rollback(ver(t, "0.5.0"), "test")
	if err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if len(snap.Entries) != 2 {
		t.Fatalf("rollback must keep both versions, got %d", len(snap.Entries))
	}
	if snap.Entries[0].Version.String() != "0.5.0" || snap.Entries[1].Version.String() != "0.6.0" {
		t.Fatalf("rollback reordered history: %+v", snap.Entries)
	}
	if snap.Latest.String() != "0.5.0" {
		t.Fatalf("expected latest 0.5.0, got %s", snap.Latest)
	}
}

func TestRollback_Guards(t *testing.T) {
	f := setup(t)
	for _, s := range []string{"0.5.0", "0.6.0"} {
		v := publish(t, f, s)
		if _, err := f.co.Promote(context.Background(), v, f.candidates, "test"); err != nil {
			t.Fatalf("Promote(%s): %v", s, err)
		}
	}

	if _, err := f.co.Rollback(ver(t, "9.9.9"), "test"); !errors.Is(err, manifest.ErrUnknownVersion) {
		t.Fatalf("expected ErrUnknownVersion, got %v", err)
	}
	if _, err := f.co.Rollback(ver(t, "0.6.0"), "test"); err == nil {
		t.Fatalf("expected error rolling back to current latest")
	}

	if _, err := f.co.Deprecate(ver(t, "0.5.0"), "test"); err != nil {
		t.Fatalf("Deprecate: %v", err)
	}
	if _, err := f.co.Rollback(ver(t, "0.5.0"), "test"); !errors.Is(err, manifest.ErrDeprecatedVersion) {
		t.Fatalf("expected ErrDeprecatedVersion, got %v", err)
	}
}
