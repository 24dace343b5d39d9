package macros_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/stackcalc/internal/runtime"
	"github.com/aretw0/stackcalc/pkg/adapters/macros"
	"github.com/aretw0/stackcalc/pkg/commands"
	"github.com/aretw0/stackcalc/pkg/ports"
	"github.com/aretw0/stackcalc/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
macros:
  - name: square
    help: square the top element
    lines: [dup, "*"]
  - name: hypot
    lines:
      - square
      - swap
      - square
      - +
      - sqrt
`

func TestParse(t *testing.T) {
	defs, err := macros.Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "square", defs[0].Name)
	assert.Equal(t, []string{"dup", "*"}, defs[0].Lines)
	assert.Equal(t, []string{"square", "swap", "square", "+", "sqrt"}, defs[1].Lines)
}

func TestParse_Invalid(t *testing.T) {
	_, err := macros.Parse(strings.NewReader("macros:\n  - help: nameless\n    lines: [dup]\n"))
	assert.ErrorIs(t, err, macros.ErrInvalidMacro)

	_, err = macros.Parse(strings.NewReader("macros:\n  - name: empty\n"))
	assert.ErrorIs(t, err, macros.ErrInvalidMacro)

	_, err = macros.Parse(strings.NewReader("macros:\n  - name: x\n    lines: [dup]\n    colour: red\n"))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	defs, err := macros.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestRegister_RunsAsCommands(t *testing.T) {
	reg := registry.New()
	require.NoError(t, commands.RegisterCore(reg))

	defs, err := macros.Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.NoError(t, macros.Register(reg, defs, nil))

	help, ok := reg.Help("hypot")
	require.True(t, ok)
	assert.Equal(t, "macro: square swap square + sqrt", help)

	ui := &ports.MessageBuffer{}
	exec := runtime.NewExecutor(ui, runtime.NewManager(), reg)
	ctx := context.Background()
	for _, line := range []string{"3", "4", "hypot"} {
		exec.Enter(ctx, line)
	}
	assert.Equal(t, []float64{5}, exec.Manager().Stack().Values())

	exec.Enter(ctx, "undo")
	assert.Equal(t, []float64{3, 4}, exec.Manager().Stack().Values())

	exec.Enter(ctx, "drop")
	exec.Enter(ctx, "hypot")
	assert.Equal(t, []float64{3}, exec.Manager().Stack().Values(), "failed macro rolls back")
	require.Len(t, ui.Messages(), 1)
	assert.Contains(t, ui.Messages()[0], "stack underflow")
}

func TestRegister_Duplicate(t *testing.T) {
	reg := registry.New()
	require.NoError(t, commands.RegisterCore(reg))

	err := macros.Register(reg, []macros.Definition{{Name: "dup", Lines: []string{"1"}}}, nil)
	assert.ErrorIs(t, err, registry.ErrDuplicateCommand)
}

func TestRegister_ReservedName(t *testing.T) {
	for _, name := range []string{"exit", "quit", "undo"} {
		reg := registry.New()
		err := macros.Register(reg, []macros.Definition{{Name: name, Lines: []string{"1"}}}, nil)
		assert.ErrorIs(t, err, registry.ErrInvalidName, name)
		assert.Equal(t, 0, reg.Count())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macros.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	defs, err := macros.Load(path)
	require.NoError(t, err)
	assert.Len(t, defs, 2)

	_, err = macros.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
