package ports

import "context"

// ScriptSource supplies the lines of a stored procedure.
// The format is identical to interactive input: one command or literal per line.
type ScriptSource interface {
	// Name identifies the source in error messages (e.g. the filename).
	Name() string

	// Lines reads the whole script.
	// It fails (it never blocks indefinitely) when the source cannot be opened.
	Lines(ctx context.Context) ([]string, error)
}

// ScriptResolver maps the target of a "proc:" invocation to a ScriptSource.
type ScriptResolver func(name string) ScriptSource
