package domain

import "context"

// Command represents a reversible unit of work against the operand stack.
//
// Execute must either succeed or leave the stack untouched. Undo is only ever
// invoked on a command whose Execute (or Redo) succeeded, and Redo only after Undo.
// Once Execute has succeeded, Undo followed by Redo must leave the stack identical
// to its post-execute state.
type Command interface {
	// Name identifies the operation (e.g. "add", "proc:sum.txt").
	Name() string

	// Execute applies the command to the stack.
	Execute(ctx context.Context, s *Stack) error

	// Undo reverses the effect of the last Execute or Redo.
	Undo(ctx context.Context, s *Stack) error

	// Redo re-applies the command after an Undo.
	Redo(ctx context.Context, s *Stack) error
}

// Factory produces a fresh Command instance.
type Factory func() Command
