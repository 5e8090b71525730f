package release

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/relops/relmgr/internal/config"
	"github.com/relops/relmgr/internal/hooks"
	"github.com/relops/relmgr/internal/manifest"
	"github.com/relops/relmgr/internal/semver"
)

// Machine advances release candidates through the lifecycle. Transitions on
// a single candidate are strictly sequential; only the per-platform
// validations inside one Validate call run in parallel.
type Machine struct {
	candidates *CandidateStore
	manifest   *manifest.Store
	runner     hooks.Runner
	cfg        *config.Project
	log        *zap.Logger

	// Out and Err receive collaborator command output.
	Out io.Writer
	Err io.Writer
}

// NewMachine wires the state machine against its stores and collaborators.
func NewMachine(candidates *CandidateStore, st *manifest.Store, runner hooks.Runner, cfg *config.Project, log *zap.Logger) *Machine {
	return &Machine{
		candidates: candidates,
		manifest:   st,
		runner:     runner,
		cfg:        cfg,
		log:        log,
		Out:        os.Stdout,
		Err:        os.Stderr,
	}
}

// Start drafts a candidate for v and creates its release branch. The version
// must not already be in the manifest and must not have another in-flight
// candidate.
func (m *Machine) Start(ctx context.Context, v semver.Version) (*Candidate, error) {
	snap, err := m.manifest.Read()
	if err != nil {
		return nil, err
	}
	if snap.Contains(v) {
		return nil, fmt.Errorf("start %s: %w", v, manifest.ErrDuplicateVersion)
	}
	if existing, err := m.candidates.Active(v); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("start %s: candidate already in flight in state %s", v, existing.State)
	}

	c, err := m.candidates.Create(v)
	if err != nil {
		return nil, err
	}
	m.logTransition(c, "", Drafted)

	c.BranchRef = "release-" + v.String()
	if err := m.runHook(ctx, m.cfg.Hooks.Branch, c, ""); err != nil {
		return c, m.abort(c, fmt.Errorf("create branch %s: %w", c.BranchRef, err))
	}
	return c, m.transition(c, Branched)
}

// Build runs the build collaborator. Success moves the candidate to
// CandidateBuilt; failure (including a timeout on ctx) aborts it.
func (m *Machine) Build(ctx context.Context, v semver.Version) (*Candidate, error) {
	c, err := m.active(v, Branched, "build")
	if err != nil {
		return c, err
	}
	if err := m.runHook(ctx, m.cfg.Hooks.Build, c, ""); err != nil {
		return c, m.abort(c, fmt.Errorf("%w: %v", ErrBuildFailed, err))
	}
	return c, m.transition(c, CandidateBuilt)
}

// Validate runs the validation collaborator for every required platform in
// parallel and records each result. The candidate reaches Validated only
// when the full platform list passes; any failure aborts it.
func (m *Machine) Validate(ctx context.Context, v semver.Version) (*Candidate, error) {
	c, err := m.active(v, CandidateBuilt, "validate")
	if err != nil {
		return c, err
	}

	platforms := m.cfg.Platforms
	results := make([]error, len(platforms))
	g, gctx := errgroup.WithContext(ctx)
	for i, platform := range platforms {
		i, platform := i, platform
		g.Go(func() error {
			// Record the outcome instead of failing the group so every
			// platform's result lands in the candidate.
			results[i] = m.runHook(gctx, m.cfg.Hooks.Validate, c, platform)
			return nil
		})
	}
	_ = g.Wait()

	var failed *ValidationError
	for i, platform := range platforms {
		c.Validations[platform] = results[i] == nil
		if results[i] != nil && failed == nil {
			failed = &ValidationError{Platform: platform, Err: results[i]}
		}
	}
	if failed != nil {
		return c, m.abort(c, failed)
	}
	if !c.ValidationsCover(platforms) {
		return c, m.abort(c, fmt.Errorf("validation set does not cover required platforms"))
	}
	return c, m.transition(c, Validated)
}

// Tag generates the changelog fragment, records its digest, and pushes the
// release tag. The version-control collaborator rejects an already used tag
// name, which aborts the candidate like any other stage failure.
func (m *Machine) Tag(ctx context.Context, v semver.Version) (*Candidate, error) {
	c, err := m.active(v, Validated, "tag")
	if err != nil {
		return c, err
	}

	if m.cfg.Hooks.Changelog != "" {
		var buf bytes.Buffer
		if err := m.runHookTo(ctx, m.cfg.Hooks.Changelog, c, "", &buf); err != nil {
			return c, m.abort(c, fmt.Errorf("generate changelog: %w", err))
		}
		c.Changelog = buf.String()
	}
	sum := sha256.Sum256([]byte(c.Changelog))
	c.ChangelogDigest = hex.EncodeToString(sum[:])

	if err := m.runHook(ctx, m.cfg.Hooks.Tag, c, ""); err != nil {
		return c, m.abort(c, fmt.Errorf("push tag v%s: %w", v, err))
	}
	return c, m.transition(c, Tagged)
}

// Publish uploads the artifact archive for every required platform. Already
// published platforms are skipped so a partial failure can be re-run. A
// remaining gap keeps the candidate in Tagged and surfaces
// PublishIncompleteError; publish is retried manually, never automatically.
func (m *Machine) Publish(ctx context.Context, v semver.Version) (*Candidate, error) {
	c, err := m.active(v, Tagged, "publish")
	if err != nil {
		return c, err
	}

	var missing []string
	for _, platform := range m.cfg.Platforms {
		if c.HasPublished(platform) {
			continue
		}
		if err := m.runHook(ctx, m.cfg.Hooks.Publish, c, platform); err != nil {
			m.log.Warn("publish failed",
				zap.String("version", v.String()),
				zap.String("platform", platform),
				zap.Error(err))
			missing = append(missing, platform)
			continue
		}
		c.PublishedPlatforms = append(c.PublishedPlatforms, platform)
	}
	if err := m.candidates.Save(c); err != nil {
		return c, err
	}
	if len(missing) > 0 {
		return c, &PublishIncompleteError{Missing: missing}
	}
	return c, m.transition(c, Published)
}

// Abort terminates the in-flight candidate for v. External work already
// started is not preempted; the candidate just stops advancing.
func (m *Machine) Abort(v semver.Version) (*Candidate, error) {
	c, err := m.candidates.Active(v)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("abort %s: %w", v, ErrNoCandidate)
	}
	return c, m.abort(c, nil)
}

// MarkPromoted records the terminal Promoted state after the coordinator's
// manifest CAS succeeds.
func (m *Machine) MarkPromoted(c *Candidate) error {
	if c.State != Published {
		return fmt.Errorf("promote from %s: %w", c.State, ErrInvalidTransition)
	}
	return m.transition(c, Promoted)
}

// active loads the in-flight candidate for v and checks the event's source
// state.
func (m *Machine) active(v semver.Version, want State, event string) (*Candidate, error) {
	c, err := m.candidates.Active(v)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%s %s: %w", event, v, ErrNoCandidate)
	}
	if c.State != want {
		return c, fmt.Errorf("%s %s in state %s (need %s): %w", event, v, c.State, want, ErrInvalidTransition)
	}
	return c, nil
}

func (m *Machine) transition(c *Candidate, to State) error {
	m.logTransition(c, c.State, to)
	c.State = to
	return m.candidates.Save(c)
}

// abort moves c to Aborted and returns cause so callers can hand the stage
// failure straight back up.
func (m *Machine) abort(c *Candidate, cause error) error {
	m.log.Warn("candidate aborted",
		zap.String("version", c.Version.String()),
		zap.String("from", string(c.State)),
		zap.Error(cause))
	c.State = Aborted
	if err := m.candidates.Save(c); err != nil {
		return err
	}
	return cause
}

func (m *Machine) logTransition(c *Candidate, from, to State) {
	m.log.Info("state transition",
		zap.String("version", c.Version.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
}

func (m *Machine) runHook(ctx context.Context, command string, c *Candidate, platform string) error {
	return m.runHookTo(ctx, command, c, platform, m.Out)
}

// runHookTo executes a collaborator command with the candidate's variables
// substituted. An unconfigured hook is a no-op collaborator.
func (m *Machine) runHookTo(ctx context.Context, command string, c *Candidate, platform string, stdout io.Writer) error {
	if command == "" {
		m.log.Debug("hook not configured, skipping",
			zap.String("version", c.Version.String()))
		return nil
	}
	vars := map[string]string{
		"version": c.Version.String(),
		"branch":  c.BranchRef,
	}
	if platform != "" {
		vars["platform"] = platform
	}
	return m.runner.Run(ctx, command, vars, stdout, m.Err)
}
