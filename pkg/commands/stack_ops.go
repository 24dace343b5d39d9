package commands

import (
	"context"

	"github.com/aretw0/stackcalc/pkg/domain"
)

// Swap exchanges the two topmost values.
type Swap struct{}

func NewSwap() *Swap { return &Swap{} }

func (c *Swap) Name() string { return "swap" }

func (c *Swap) Execute(ctx context.Context, s *domain.Stack) error { return s.SwapTop() }

func (c *Swap) Undo(ctx context.Context, s *domain.Stack) error { return s.SwapTop() }

func (c *Swap) Redo(ctx context.Context, s *domain.Stack) error { return s.SwapTop() }

// Drop removes the top of the stack.
type Drop struct {
	dropped float64
}

func NewDrop() *Drop { return &Drop{} }

func (c *Drop) Name() string { return "drop" }

func (c *Drop) Execute(ctx context.Context, s *domain.Stack) error {
	v, err := s.Pop()
	if err != nil {
		return err
	}
	c.dropped = v
	return nil
}

func (c *Drop) Undo(ctx context.Context, s *domain.Stack) error {
	s.Push(c.dropped)
	return nil
}

func (c *Drop) Redo(ctx context.Context, s *domain.Stack) error {
	_, err := s.Pop()
	return err
}

// Dup duplicates the top of the stack.
type Dup struct{}

func NewDup() *Dup { return &Dup{} }

func (c *Dup) Name() string { return "dup" }

func (c *Dup) Execute(ctx context.Context, s *domain.Stack) error {
	v, err := s.Top()
	if err != nil {
		return err
	}
	s.Push(v)
	return nil
}

func (c *Dup) Undo(ctx context.Context, s *domain.Stack) error {
	_, err := s.Pop()
	return err
}

func (c *Dup) Redo(ctx context.Context, s *domain.Stack) error {
	return c.Execute(ctx, s)
}

// Clear empties the stack. Undo restores every removed value.
type Clear struct {
	removed []float64
}

func NewClear() *Clear { return &Clear{} }

func (c *Clear) Name() string { return "clear" }

func (c *Clear) Execute(ctx context.Context, s *domain.Stack) error {
	c.removed = s.Clear()
	return nil
}

func (c *Clear) Undo(ctx context.Context, s *domain.Stack) error {
	s.Restore(c.removed)
	return nil
}

func (c *Clear) Redo(ctx context.Context, s *domain.Stack) error {
	s.Clear()
	return nil
}
