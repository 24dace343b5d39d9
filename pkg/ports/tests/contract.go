package tests

import (
	"context"
	"testing"

	"github.com/aretw0/stackcalc/pkg/ports"
)

// ScriptSourceContractTest is a reusable test suite that verifies if an adapter complies with ports.ScriptSource.
// want holds the lines the source is expected to return, in order.
func ScriptSourceContractTest(t *testing.T, source ports.ScriptSource, want []string) {
	t.Helper()

	t.Run("Name", func(t *testing.T) {
		if source.Name() == "" {
			t.Error("expected a non-empty source name")
		}
	})

	t.Run("Lines", func(t *testing.T) {
		lines, err := source.Lines(context.Background())
		if err != nil {
			t.Fatalf("unexpected error reading %s: %v", source.Name(), err)
		}
		if len(lines) != len(want) {
			t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
		}
		for i := range want {
			if lines[i] != want[i] {
				t.Errorf("line %d mismatch. got %q, want %q", i+1, lines[i], want[i])
			}
		}
	})

	t.Run("Lines_Repeatable", func(t *testing.T) {
		first, err := source.Lines(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := source.Lines(context.Background())
		if err != nil {
			t.Fatalf("unexpected error on second read: %v", err)
		}
		if len(first) != len(second) {
			t.Errorf("expected repeatable reads, got %d then %d lines", len(first), len(second))
		}
	})
}

// MissingScriptContractTest verifies that a source pointing nowhere fails instead of hanging.
func MissingScriptContractTest(t *testing.T, source ports.ScriptSource) {
	t.Helper()

	if _, err := source.Lines(context.Background()); err == nil {
		t.Errorf("expected error reading missing source %s, got nil", source.Name())
	}
}
