package domain

import "fmt"

// Stack is the operand stack shared by all commands.
// The last element of values is the top of the stack.
type Stack struct {
	values []float64
}

// NewStack creates a stack holding the given values, bottom first.
func NewStack(values ...float64) *Stack {
	s := &Stack{}
	s.Restore(values)
	return s
}

// Push places v on top of the stack.
func (s *Stack) Push(v float64) {
	s.values = append(s.values, v)
}

// Pop removes and returns the top of the stack.
func (s *Stack) Pop() (float64, error) {
	if err := s.Require(1); err != nil {
		return 0, err
	}
	top := s.values[len(s.values)-1]
	s.values = s.values[:len(s.values)-1]
	return top, nil
}

// Top returns the top of the stack without removing it.
func (s *Stack) Top() (float64, error) {
	if err := s.Require(1); err != nil {
		return 0, err
	}
	return s.values[len(s.values)-1], nil
}

// Peek returns a copy of the top n values, bottom first.
func (s *Stack) Peek(n int) ([]float64, error) {
	if err := s.Require(n); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	copy(out, s.values[len(s.values)-n:])
	return out, nil
}

// Require reports ErrStackUnderflow if fewer than n values are available.
func (s *Stack) Require(n int) error {
	if len(s.values) < n {
		return fmt.Errorf("%w: need %d, have %d", ErrStackUnderflow, n, len(s.values))
	}
	return nil
}

// SwapTop exchanges the two topmost values.
func (s *Stack) SwapTop() error {
	if err := s.Require(2); err != nil {
		return err
	}
	n := len(s.values)
	s.values[n-1], s.values[n-2] = s.values[n-2], s.values[n-1]
	return nil
}

// Clear empties the stack and returns the removed values, bottom first.
func (s *Stack) Clear() []float64 {
	removed := s.values
	s.values = nil
	return removed
}

// Restore replaces the whole content of the stack.
func (s *Stack) Restore(values []float64) {
	s.values = make([]float64, len(values))
	copy(s.values, values)
}

// Size returns the number of values on the stack.
func (s *Stack) Size() int {
	return len(s.values)
}

// Values returns a copy of the stack content, bottom first.
func (s *Stack) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}
