// Package hooks runs the external collaborator commands (build system,
// version control, artifact store, changelog generator, notifier) configured
// in release.yaml.
package hooks

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Runner is an interface for executing hook commands. It allows tests to
// inject fake implementations without running real commands.
type Runner interface {
	Run(ctx context.Context, command string, vars map[string]string, stdout, stderr io.Writer) error
}

// Executor runs hook commands on the host.
type Executor struct {
	DryRun  bool
	Verbose bool
}

// New returns a Runner backed by the real Executor implementation.
func New(dry, verbose bool) Runner {
	return &Executor{DryRun: dry, Verbose: verbose}
}

// sanitize normalizes unicode characters that often get inserted by editors
// (smart quotes, NBSP, zero-width spaces) into their ASCII equivalents.
func sanitize(s string) string {
	r := strings.NewReplacer(
		"\u2018", "'", // left single quote
		"\u2019", "'", // right single quote
		"\u201C", "\"", // left double quote
		"\u201D", "\"", // right double quote
		"\u00A0", " ", // NO-BREAK SPACE
		"\u200B", "", // zero width space
	)
	rp := r.Replace(s)
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, rp)
}

// expand substitutes {key} placeholders from vars into command.
func expand(command string, vars map[string]string) string {
	for k, v := range vars {
		command = strings.ReplaceAll(command, "{"+k+"}", v)
	}
	return command
}

// Run substitutes vars into command, splits it shell-style, and executes it.
// The caller's context carries any timeout; a deadline hit surfaces as an
// ordinary command failure.
func (e *Executor) Run(ctx context.Context, command string, vars map[string]string, stdout, stderr io.Writer) error {
	command = sanitize(expand(command, vars))
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("empty hook command")
	}
	if strings.ContainsAny(command, "\n\r") {
		return fmt.Errorf("hook command must be a single line")
	}
	words, err := shellquote.Split(command)
	if err != nil {
		return fmt.Errorf("parse hook command: %w", err)
	}
	if e.DryRun {
		fmt.Fprintf(stdout, "dry-run: %s\n", command)
		return nil
	}
	if e.Verbose {
		// stderr, so hooks whose stdout is captured (changelog) stay clean
		fmt.Fprintf(stderr, "+ %s\n", command)
	}
	cmd := exec.CommandContext(ctx, words[0], words[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %q: %w", words[0], err)
	}
	return nil
}
