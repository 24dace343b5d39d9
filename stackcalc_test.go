package stackcalc_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/stackcalc"
	"github.com/aretw0/stackcalc/pkg/adapters/macros"
	"github.com/aretw0/stackcalc/pkg/domain"
	"github.com/aretw0/stackcalc/pkg/ports"
	"github.com/aretw0/stackcalc/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, calc *stackcalc.Calculator, lines ...string) []string {
	t.Helper()
	var msgs []string
	for _, line := range lines {
		msgs = append(msgs, calc.Eval(context.Background(), line)...)
	}
	return msgs
}

func TestCalculator_AddUndoRedo(t *testing.T) {
	calc, err := stackcalc.New()
	require.NoError(t, err)

	msgs := eval(t, calc, "3", "4", "add", "undo", "redo")
	assert.Empty(t, msgs)
	assert.Equal(t, []float64{7}, calc.Stack())

	top, ok := calc.Top()
	assert.True(t, ok)
	assert.Equal(t, 7.0, top)
	assert.Equal(t, 3, calc.UndoSize())
	assert.Equal(t, 0, calc.RedoSize())
}

func TestCalculator_EmptyUndoIsBenign(t *testing.T) {
	calc, err := stackcalc.New()
	require.NoError(t, err)

	msgs := eval(t, calc, "undo")
	require.Len(t, msgs, 1)
	assert.Empty(t, calc.Stack())

	_, ok := calc.Top()
	assert.False(t, ok)
}

func TestCalculator_FailureReportsOnce(t *testing.T) {
	calc, err := stackcalc.New()
	require.NoError(t, err)

	msgs := eval(t, calc, "1", "+")
	assert.Len(t, msgs, 1)
	assert.Equal(t, []float64{1}, calc.Stack())
	assert.Equal(t, 1, calc.UndoSize())
}

func TestCalculator_ProcedureFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sq.txt"), []byte("dup\n*\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.txt"), []byte("dup\n*\nfrobnicate\n"), 0o644))

	calc, err := stackcalc.New(stackcalc.WithScriptDir(dir))
	require.NoError(t, err)

	eval(t, calc, "5", "proc:sq.txt")
	assert.Equal(t, []float64{25}, calc.Stack())
	assert.Equal(t, 2, calc.UndoSize())

	msgs := eval(t, calc, "proc:bad.txt")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "frobnicate")
	assert.Equal(t, []float64{25}, calc.Stack())

	msgs = eval(t, calc, "proc:missing.txt")
	require.Len(t, msgs, 1)
	assert.Equal(t, []float64{25}, calc.Stack())
	assert.Equal(t, 2, calc.UndoSize())
}

func TestCalculator_Help(t *testing.T) {
	calc, err := stackcalc.New()
	require.NoError(t, err)

	msgs := eval(t, calc, "help")
	require.Len(t, msgs, 1)
	help := msgs[0]
	assert.Equal(t, calc.Help(), help)
	assert.Contains(t, help, "undo: undo last operation")
	assert.Contains(t, help, "redo: redo last operation")
	for _, name := range calc.Registry().Names() {
		assert.Equal(t, 1, strings.Count(help, "\n"+name+": "), name)
	}
}

func TestCalculator_Options(t *testing.T) {
	var events []domain.EventType
	hooks := domain.LifecycleHooks{
		OnExecute: func(_ context.Context, e *domain.CommandEvent) { events = append(events, e.Type) },
		OnUndo:    func(_ context.Context, e *domain.CommandEvent) { events = append(events, e.Type) },
	}

	var ui ports.MessageBuffer
	calc, err := stackcalc.New(
		stackcalc.WithInitialStack([]float64{1, 2}),
		stackcalc.WithMaxHistory(1),
		stackcalc.WithLifecycleHooks(hooks),
		stackcalc.WithUserInterface(&ui),
		stackcalc.WithMacros([]macros.Definition{{Name: "sq", Lines: []string{"dup", "*"}}}),
	)
	require.NoError(t, err)

	eval(t, calc, "sq", "+", "undo", "undo", "bogus")
	assert.Equal(t, []float64{1, 4}, calc.Stack())
	assert.Equal(t, []domain.EventType{domain.EventExecute, domain.EventExecute, domain.EventUndo}, events)
	assert.Len(t, ui.Messages(), 2, "empty history and unknown command")

	calc.Reset([]float64{9})
	assert.Equal(t, []float64{9}, calc.Stack())
	assert.Equal(t, 0, calc.UndoSize())
}

func TestCalculator_CustomRegistry(t *testing.T) {
	reg := registry.New()
	calc, err := stackcalc.New(stackcalc.WithRegistry(reg))
	require.NoError(t, err)

	msgs := eval(t, calc, "1", "2", "+")
	assert.Equal(t, []string{"Command + is not a known command"}, msgs)
	assert.Equal(t, []float64{1, 2}, calc.Stack())
}

func TestCalculator_DuplicateMacro(t *testing.T) {
	_, err := stackcalc.New(stackcalc.WithMacros([]macros.Definition{{Name: "swap", Lines: []string{"drop"}}}))
	assert.ErrorIs(t, err, registry.ErrDuplicateCommand)
}

func TestCalculator_Enter(t *testing.T) {
	var ui ports.MessageBuffer
	calc, err := stackcalc.New(stackcalc.WithUserInterface(&ui))
	require.NoError(t, err)

	calc.Enter(context.Background(), "drop")
	assert.Len(t, ui.Messages(), 1)
	assert.Empty(t, calc.Eval(context.Background(), "1"))
}
