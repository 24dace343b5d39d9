package registry_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/stackcalc/pkg/domain"
	"github.com/aretw0/stackcalc/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noop struct{ id int }

func (n *noop) Name() string { return "noop" }
func (n *noop) Execute(ctx context.Context, s *domain.Stack) error { return nil }
func (n *noop) Undo(ctx context.Context, s *domain.Stack) error { return nil }
func (n *noop) Redo(ctx context.Context, s *domain.Stack) error { return nil }

func newNoop() domain.Command { return &noop{} }

func TestRegistry_RegisterAndAllocate(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("noop", newNoop, "does nothing"))

	a := reg.Allocate("noop")
	b := reg.Allocate("noop")
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotSame(t, a, b, "each allocation must yield a fresh instance")
}

func TestRegistry_AllocateUnknown(t *testing.T) {
	reg := registry.New()
	assert.Nil(t, reg.Allocate("nonexistent"))
	assert.False(t, reg.Has("nonexistent"))
}

func TestRegistry_Duplicate(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("noop", newNoop, "first"))

	err := reg.Register("noop", newNoop, "second")
	assert.ErrorIs(t, err, registry.ErrDuplicateCommand)

	help, _ := reg.Help("noop")
	assert.Equal(t, "first", help, "duplicate registration must not overwrite")
}

func TestRegistry_CaseSensitive(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("noop", newNoop, ""))
	require.NoError(t, reg.Register("NOOP", newNoop, ""))
	assert.Equal(t, 2, reg.Count())
}

func TestRegistry_InvalidNames(t *testing.T) {
	reg := registry.New()
	for _, name := range []string{"", " add", "undo", "redo", "help", "exit", "quit", "proc:x", "42", "-1.5e3", "7."} {
		t.Run(name, func(t *testing.T) {
			err := reg.Register(name, newNoop, "")
			assert.ErrorIs(t, err, registry.ErrInvalidName)
		})
	}
	assert.ErrorIs(t, reg.Register("nil", nil, ""), registry.ErrInvalidName)
	assert.Equal(t, 0, reg.Count())
}

func TestIsNumber(t *testing.T) {
	for _, s := range []string{"0", "-2", "+3.", "1.5e-3", "10E4"} {
		assert.True(t, registry.IsNumber(s), s)
	}
	for _, s := range []string{"", ".5", "+", ".", "1e", "nan", "inf", "1,5"} {
		assert.False(t, registry.IsNumber(s), s)
	}
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	reg := registry.New()
	reg.MustRegister("noop", newNoop, "")
	assert.Panics(t, func() { reg.MustRegister("noop", newNoop, "") })
}

func TestRegistry_NamesSorted(t *testing.T) {
	reg := registry.New()
	for _, n := range []string{"swap", "add", "drop"} {
		reg.MustRegister(n, newNoop, n+" help")
	}
	assert.Equal(t, []string{"add", "drop", "swap"}, reg.Names())
}

func TestRegistry_PrintHelp(t *testing.T) {
	reg := registry.New()
	reg.MustRegister("noop", newNoop, "does nothing")

	var buf bytes.Buffer
	assert.True(t, reg.PrintHelp("noop", &buf))
	assert.Equal(t, "noop: does nothing", buf.String())

	buf.Reset()
	assert.False(t, reg.PrintHelp("missing", &buf))
	assert.Empty(t, buf.String())
}

func TestRegistry_Describe(t *testing.T) {
	reg := registry.New()
	reg.MustRegister("b", newNoop, "second")
	reg.MustRegister("a", newNoop, "first")

	assert.Equal(t, []registry.Description{
		{Name: "a", Help: "first"},
		{Name: "b", Help: "second"},
	}, reg.Describe())
	assert.Empty(t, registry.New().Describe())
}
