package commands

import (
	"context"
	"fmt"
	"math"

	"github.com/aretw0/stackcalc/pkg/domain"
)

// UnaryFunc computes the result of a unary operation on the top of the stack.
type UnaryFunc func(x float64) (float64, error)

// BinaryFunc computes the result of a binary operation.
// next is the value below the top of the stack, top the topmost value.
type BinaryFunc func(next, top float64) (float64, error)

// UnaryOperation replaces the top of the stack with fn(top).
type UnaryOperation struct {
	name    string
	fn      UnaryFunc
	operand float64
	result  float64
}

// NewUnary creates a unary operation named name.
func NewUnary(name string, fn UnaryFunc) *UnaryOperation {
	return &UnaryOperation{name: name, fn: fn}
}

func (c *UnaryOperation) Name() string { return c.name }

func (c *UnaryOperation) Execute(ctx context.Context, s *domain.Stack) error {
	x, err := s.Top()
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	r, err := c.fn(x)
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	if err := checkFinite(r); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}

	_, _ = s.Pop()
	s.Push(r)
	c.operand, c.result = x, r
	return nil
}

func (c *UnaryOperation) Undo(ctx context.Context, s *domain.Stack) error {
	if _, err := s.Pop(); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	s.Push(c.operand)
	return nil
}

func (c *UnaryOperation) Redo(ctx context.Context, s *domain.Stack) error {
	if _, err := s.Pop(); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	s.Push(c.result)
	return nil
}

// BinaryOperation replaces the two topmost values with fn(next, top).
type BinaryOperation struct {
	name   string
	fn     BinaryFunc
	next   float64
	top    float64
	result float64
}

// NewBinary creates a binary operation named name.
func NewBinary(name string, fn BinaryFunc) *BinaryOperation {
	return &BinaryOperation{name: name, fn: fn}
}

func (c *BinaryOperation) Name() string { return c.name }

func (c *BinaryOperation) Execute(ctx context.Context, s *domain.Stack) error {
	operands, err := s.Peek(2)
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	r, err := c.fn(operands[0], operands[1])
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	if err := checkFinite(r); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}

	_, _ = s.Pop()
	_, _ = s.Pop()
	s.Push(r)
	c.next, c.top, c.result = operands[0], operands[1], r
	return nil
}

func (c *BinaryOperation) Undo(ctx context.Context, s *domain.Stack) error {
	if _, err := s.Pop(); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	s.Push(c.next)
	s.Push(c.top)
	return nil
}

func (c *BinaryOperation) Redo(ctx context.Context, s *domain.Stack) error {
	if err := s.Require(2); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	_, _ = s.Pop()
	_, _ = s.Pop()
	s.Push(c.result)
	return nil
}

func checkFinite(r float64) error {
	switch {
	case math.IsNaN(r):
		return domain.ErrDomain
	case math.IsInf(r, 0):
		return domain.ErrNonFinite
	}
	return nil
}
