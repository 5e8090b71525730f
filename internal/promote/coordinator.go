// Package promote orchestrates the final manifest mutation of a release:
// an atomic append plus latest-pointer swap under the store's
// compare-and-swap discipline, and the rollback path that moves the pointer
// back without touching history.
package promote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/relops/relmgr/internal/config"
	"github.com/relops/relmgr/internal/hooks"
	"github.com/relops/relmgr/internal/manifest"
	"github.com/relops/relmgr/internal/release"
	"github.com/relops/relmgr/internal/semver"
)

// Coordinator performs promotion and rollback against the manifest store.
// Multiple operators may race; every mutation is read-snapshot, mutate,
// CompareAndSwap, with a bounded retry on conflict.
type Coordinator struct {
	store   *manifest.Store
	machine *release.Machine
	runner  hooks.Runner
	cfg     *config.Project
	log     *zap.Logger
}

// NewCoordinator wires a Coordinator.
func NewCoordinator(store *manifest.Store, machine *release.Machine, runner hooks.Runner, cfg *config.Project, log *zap.Logger) *Coordinator {
	return &Coordinator{store: store, machine: machine, runner: runner, cfg: cfg, log: log}
}

// Promote approves the Published candidate for v: its manifest entry is
// appended and, for a stable release, the latest pointer moves to it in the
// same atomic mutation. Pre-releases are appended without moving the
// pointer. The candidate ends in Promoted; the notifier is fired without
// waiting for acknowledgement.
func (co *Coordinator) Promote(ctx context.Context, v semver.Version, candidates *release.CandidateStore, actor string) (*manifest.Snapshot, error) {
	c, err := candidates.Active(v)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("promote %s: %w", v, release.ErrNoCandidate)
	}
	if c.State != release.Published {
		return nil, fmt.Errorf("promote %s in state %s (need %s): %w", v, c.State, release.Published, release.ErrInvalidTransition)
	}

	entry := manifest.Entry{
		Version:         v,
		CreatedAt:       time.Now().UTC(),
		ChangelogDigest: c.ChangelogDigest,
	}
	mut := manifest.Mutation{Append: &entry, Actor: actor}
	if !v.IsPrerelease() {
		mut.SetLatest = &v
	}

	snap, err := co.casWithRetry(mut)
	if err != nil {
		return nil, err
	}
	if err := co.machine.MarkPromoted(c); err != nil {
		return nil, err
	}
	co.log.Info("promoted",
		zap.String("version", v.String()),
		zap.Bool("latest_moved", mut.SetLatest != nil),
		zap.Int64("generation", snap.Generation))

	co.notify(ctx, v)
	return snap, nil
}

// Rollback promotes an earlier existing entry back to latest. The target
// must already be in the manifest, supported, and version-ordered before
// the current latest; history is never removed or reordered.
func (co *Coordinator) Rollback(v semver.Version, actor string) (*manifest.Snapshot, error) {
	snap, err := co.store.Read()
	if err != nil {
		return nil, err
	}
	target := snap.Entry(v)
	if target == nil {
		return nil, fmt.Errorf("rollback %s: %w", v, manifest.ErrUnknownVersion)
	}
	if target.Deprecated {
		return nil, fmt.Errorf("rollback %s: %w", v, manifest.ErrDeprecatedVersion)
	}
	if snap.Latest != nil && semver.Compare(v, *snap.Latest) >= 0 {
		return nil, fmt.Errorf("rollback %s: not older than current latest %s", v, snap.Latest)
	}

	out, err := co.casWithRetry(manifest.Mutation{SetLatest: &v, Actor: actor})
	if err != nil {
		return nil, err
	}
	co.log.Info("rolled back",
		zap.String("version", v.String()),
		zap.Int64("generation", out.Generation))
	return out, nil
}

// Deprecate removes v from the supported download list, keeping the entry
// in history.
func (co *Coordinator) Deprecate(v semver.Version, actor string) (*manifest.Snapshot, error) {
	out, err := co.casWithRetry(manifest.Mutation{Deprecate: &v, Actor: actor})
	if err != nil {
		return nil, err
	}
	co.log.Info("deprecated", zap.String("version", v.String()))
	return out, nil
}

// casWithRetry applies mut with the read-mutate-swap loop. The mutation is
// idempotent by construction (append replay is a no-op, setLatest converges)
// so reapplying after a lost race is safe. Attempts are bounded; the last
// conflict is surfaced.
func (co *Coordinator) casWithRetry(mut manifest.Mutation) (*manifest.Snapshot, error) {
	attempts := co.cfg.CASRetries
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		snap, err := co.store.Read()
		if err != nil {
			return nil, err
		}
		out, err := co.store.CompareAndSwap(snap, mut)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, manifest.ErrConcurrentModification) {
			return nil, err
		}
		lastErr = err
		co.log.Warn("manifest changed underneath, retrying",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", attempts))
	}
	return nil, fmt.Errorf("gave up after %d attempts: %w", attempts, lastErr)
}

// notify fires the announcement hook. Delivery is best-effort: a failure is
// logged and never fails the promotion.
func (co *Coordinator) notify(ctx context.Context, v semver.Version) {
	if co.cfg.Hooks.Notify == "" {
		return
	}
	err := co.runner.Run(ctx, co.cfg.Hooks.Notify,
		map[string]string{"version": v.String()}, io.Discard, io.Discard)
	if err != nil {
		co.log.Warn("notification failed", zap.String("version", v.String()), zap.Error(err))
	}
}
