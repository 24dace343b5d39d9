package domain

import "errors"

// ErrStackUnderflow is returned when a command needs more operands than the stack holds.
var ErrStackUnderflow = errors.New("stack underflow")

// ErrDivisionByZero is returned when dividing by zero.
var ErrDivisionByZero = errors.New("division by zero")

// ErrDomain is returned when an operand is outside the domain of a function.
var ErrDomain = errors.New("argument outside function domain")

// ErrNonFinite is returned when a result would be infinite or NaN.
var ErrNonFinite = errors.New("result is not finite")

// ErrNothingToUndo is returned by undo when the undo history is empty.
var ErrNothingToUndo = errors.New("nothing to undo")

// ErrNothingToRedo is returned by redo when the redo history is empty.
var ErrNothingToRedo = errors.New("nothing to redo")

// ErrUnknownCommand is returned when a name has no registered factory.
var ErrUnknownCommand = errors.New("unknown command")

// ErrScriptUnavailable is returned when a stored procedure cannot read its script.
var ErrScriptUnavailable = errors.New("script unavailable")

// ErrMalformedProcedure is returned for a procedure invocation without a target.
var ErrMalformedProcedure = errors.New("malformed procedure invocation")

// ErrNestingTooDeep is returned when procedures nest beyond the allowed depth.
var ErrNestingTooDeep = errors.New("procedure nesting too deep")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// IsBenign reports whether err only signals an empty history.
func IsBenign(err error) bool {
	return errors.Is(err, ErrNothingToUndo) || errors.Is(err, ErrNothingToRedo)
}
