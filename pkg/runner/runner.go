package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/stackcalc"
	"github.com/aretw0/stackcalc/internal/logging"
	"github.com/aretw0/stackcalc/pkg/domain"
	"github.com/aretw0/stackcalc/pkg/ports"
	"github.com/aretw0/stackcalc/pkg/registry"
)

// Runner drives a Calculator from an IOHandler until the input ends.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on stdin/stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Store persists the operand stack between runs. If nil, sessions are ephemeral.
	Store ports.SnapshotStore

	// SessionID keys the snapshot in Store.
	SessionID string
}

// NewRunner creates a Runner configured by opts.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

func (r *Runner) persistent() bool {
	return r.Store != nil && r.SessionID != ""
}

// Run executes the loop. It returns nil on EOF, "exit", "quit" or interrupt.
func (r *Runner) Run(ctx context.Context, calc *stackcalc.Calculator) error {
	signals := NewSignalManager(ctx)
	defer signals.Stop()
	ctx = signals.Context()

	if err := r.restore(ctx, calc); err != nil {
		return err
	}

	for {
		line, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || signals.Interrupted() {
				r.Logger.Debug("runner stopped", "reason", err)
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		if line == registry.KeywordExit || line == registry.KeywordQuit {
			return nil
		}

		msgs := calc.Eval(ctx, line)
		res := Result{Line: line, Stack: calc.Stack(), Messages: msgs}
		if err := r.Handler.Output(ctx, res); err != nil {
			return fmt.Errorf("output error: %w", err)
		}

		if err := r.save(ctx, calc); err != nil {
			return fmt.Errorf("critical persistence error: %w", err)
		}
	}
}

func (r *Runner) restore(ctx context.Context, calc *stackcalc.Calculator) error {
	if !r.persistent() {
		return nil
	}

	snap, err := r.Store.Load(ctx, r.SessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		r.Logger.Debug("new session", "session_id", r.SessionID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", r.SessionID, err)
	}

	calc.Reset(snap.Values)
	r.Logger.Debug("session restored", "session_id", r.SessionID, "stack_size", len(snap.Values))
	return r.Handler.SystemOutput(ctx, fmt.Sprintf("Session %s restored (%d values)", r.SessionID, len(snap.Values)))
}

func (r *Runner) save(ctx context.Context, calc *stackcalc.Calculator) error {
	if !r.persistent() {
		return nil
	}
	if err := r.Store.Save(context.WithoutCancel(ctx), r.SessionID, domain.NewSnapshot(r.SessionID, calc.Stack())); err != nil {
		return err
	}
	r.Logger.Debug("stack saved", "session_id", r.SessionID)
	return nil
}
