package runner

import "context"

// Result is what a single input line produced.
type Result struct {
	Line     string    `json:"line"`
	Stack    []float64 `json:"stack"`
	Messages []string  `json:"messages"`
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Input reads the next line. io.EOF ends the session.
	Input(ctx context.Context) (string, error)

	// Output presents the outcome of a line.
	Output(ctx context.Context, res Result) error

	// SystemOutput presents a meta-message (e.g. "session restored").
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms message text before it is written.
// The CLI uses it to render help through a markdown renderer.
type ContentRenderer func(string) (string, error)
