package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mj1618/screen-pilot/internal/engine"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"find", "wait-window", "run", "screenshot", "orientation", "serve", "click", "key", "open"}
	commands := rootCmd.Commands()

	found := make(map[string]bool)
	for _, c := range commands {
		found[c.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "format", "pretty", "log-level"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag --%s", name)
		}
	}
}

func TestExitCode(t *testing.T) {
	esc := &engine.Escalation{Reason: "marker never appeared: logo.png"}
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"escalation", esc, exitFailure},
		{"wrapped escalation", fmt.Errorf("step 3: %w", esc), exitFailure},
		{"interrupted", context.Canceled, exitInterrupted},
		{"wrapped interrupt", fmt.Errorf("sleeping: %w", context.Canceled), exitInterrupted},
		{"other error", errors.New("bad flag"), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
