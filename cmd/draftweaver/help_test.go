package main

// Notes:
// - runHelp: we check that every command has a help page that names the
//   command, and that unknown commands fail with a usage error. Exact
//   wording is not asserted beyond key lines.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunHelp - Per-command help pages
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	for _, name := range commandNames() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, nil)
			if err := runHelp([]string{name}, env.Environment); err != nil {
				t.Fatalf("runHelp(%q) error = %v", name, err)
			}
			want := "Usage: draftweaver " + name
			if !strings.Contains(env.stdout.String(), want) {
				t.Errorf("help for %q missing %q:\n%s", name, want, env.stdout.String())
			}
		})
	}
}

func TestRunHelp_NoArgs(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	if err := runHelp(nil, env.Environment); err != nil {
		t.Fatalf("runHelp() error = %v", err)
	}

	out := env.stdout.String()
	for _, want := range []string{"Commands:", "publish", "Environment:", envNsec, envRelays} {
		if !strings.Contains(out, want) {
			t.Errorf("usage missing %q", want)
		}
	}
}

func TestRunHelp_UnknownCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	err := runHelp([]string{"frobnicate"}, env.Environment)
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("runHelp() error = %v, want %v", err, ErrUsage)
	}
	if !strings.Contains(env.stderr.String(), "Unknown command: frobnicate") {
		t.Errorf("stderr = %q", env.stderr.String())
	}
	if env.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", env.stdout.String())
	}
}

// ---------------------------------------------------------------------------
// TestPrintUsage_ListsAllCommands - Usage and completion stay in sync
// ---------------------------------------------------------------------------

func TestPrintUsage_ListsAllCommands(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	printUsage(env.Stdout)

	for _, c := range getCommands() {
		if !strings.Contains(env.stdout.String(), "  "+c.Name+" ") {
			t.Errorf("usage does not list %q", c.Name)
		}
	}
}
