package commands

import (
	"context"
	"strconv"

	"github.com/aretw0/stackcalc/pkg/domain"
)

// EnterNumber pushes a literal onto the stack.
type EnterNumber struct {
	value float64
}

// NewEnterNumber creates a command that pushes v.
func NewEnterNumber(v float64) *EnterNumber {
	return &EnterNumber{value: v}
}

// Value returns the number entered by the command.
func (c *EnterNumber) Value() float64 {
	return c.value
}

func (c *EnterNumber) Name() string {
	return strconv.FormatFloat(c.value, 'g', -1, 64)
}

func (c *EnterNumber) Execute(ctx context.Context, s *domain.Stack) error {
	s.Push(c.value)
	return nil
}

func (c *EnterNumber) Undo(ctx context.Context, s *domain.Stack) error {
	_, err := s.Pop()
	return err
}

func (c *EnterNumber) Redo(ctx context.Context, s *domain.Stack) error {
	return c.Execute(ctx, s)
}
