package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/stackcalc/internal/logging"
	"github.com/aretw0/stackcalc/pkg/domain"
)

// Manager owns the operand stack and the linear undo/redo history.
//
// It is not safe for concurrent use: Execute, Undo and Redo form a critical section
// that callers serving several goroutines must serialise (see pkg/session).
type Manager struct {
	stack *domain.Stack
	undo  []domain.Command
	redo  []domain.Command

	maxHistory int
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStack makes the manager operate on an existing stack.
// Stored procedures use it to keep a private history over the shared stack.
func WithStack(s *domain.Stack) ManagerOption {
	return func(m *Manager) {
		m.stack = s
	}
}

// WithMaxHistory bounds the undo history. The oldest entries are dropped first.
// Zero (the default) means unbounded.
func WithMaxHistory(n int) ManagerOption {
	return func(m *Manager) {
		m.maxHistory = n
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) ManagerOption {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a manager with an empty history.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.stack == nil {
		m.stack = domain.NewStack()
	}
	return m
}

// Execute runs cmd against the stack.
// On success cmd becomes the most recent undo entry and the redo history is cleared.
// On failure the history is untouched and the error is returned.
func (m *Manager) Execute(ctx context.Context, cmd domain.Command) error {
	start := time.Now()
	if err := cmd.Execute(ctx, m.stack); err != nil {
		m.logger.WarnContext(ctx, "command failed", "command", cmd.Name(), "err", err)
		m.emit(ctx, m.hooks.OnFailure, domain.EventFailure, cmd, start, err)
		return err
	}

	m.undo = append(m.undo, cmd)
	m.redo = nil
	if m.maxHistory > 0 && len(m.undo) > m.maxHistory {
		m.undo = m.undo[len(m.undo)-m.maxHistory:]
	}

	m.logger.DebugContext(ctx, "command executed", "command", cmd.Name(), "stack_size", m.stack.Size())
	m.emit(ctx, m.hooks.OnExecute, domain.EventExecute, cmd, start, nil)
	return nil
}

// Undo reverses the most recent command and moves it to the redo history.
// Returns domain.ErrNothingToUndo when the undo history is empty.
func (m *Manager) Undo(ctx context.Context) error {
	if len(m.undo) == 0 {
		return domain.ErrNothingToUndo
	}

	start := time.Now()
	cmd := m.undo[len(m.undo)-1]
	if err := cmd.Undo(ctx, m.stack); err != nil {
		m.logger.ErrorContext(ctx, "undo failed", "command", cmd.Name(), "err", err)
		m.emit(ctx, m.hooks.OnFailure, domain.EventFailure, cmd, start, err)
		return err
	}

	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, cmd)

	m.logger.DebugContext(ctx, "command undone", "command", cmd.Name())
	m.emit(ctx, m.hooks.OnUndo, domain.EventUndo, cmd, start, nil)
	return nil
}

// Redo re-applies the most recently undone command and moves it back to the undo history.
// Returns domain.ErrNothingToRedo when the redo history is empty.
func (m *Manager) Redo(ctx context.Context) error {
	if len(m.redo) == 0 {
		return domain.ErrNothingToRedo
	}

	start := time.Now()
	cmd := m.redo[len(m.redo)-1]
	if err := cmd.Redo(ctx, m.stack); err != nil {
		m.logger.ErrorContext(ctx, "redo failed", "command", cmd.Name(), "err", err)
		m.emit(ctx, m.hooks.OnFailure, domain.EventFailure, cmd, start, err)
		return err
	}

	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, cmd)

	m.logger.DebugContext(ctx, "command redone", "command", cmd.Name())
	m.emit(ctx, m.hooks.OnRedo, domain.EventRedo, cmd, start, nil)
	return nil
}

// UndoSize returns the number of commands that can be undone.
func (m *Manager) UndoSize() int { return len(m.undo) }

// RedoSize returns the number of commands that can be redone.
func (m *Manager) RedoSize() int { return len(m.redo) }

// Stack returns the operand stack owned by the manager.
func (m *Manager) Stack() *domain.Stack { return m.stack }

// Reset replaces the stack content and clears both histories.
// Used when restoring a persisted snapshot.
func (m *Manager) Reset(values []float64) {
	m.stack.Restore(values)
	m.undo = nil
	m.redo = nil
}

func (m *Manager) emit(ctx context.Context, hook func(context.Context, *domain.CommandEvent), kind domain.EventType, cmd domain.Command, start time.Time, err error) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.CommandEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      kind,
		},
		Command:   cmd.Name(),
		StackSize: m.stack.Size(),
		UndoDepth: len(m.undo),
		RedoDepth: len(m.redo),
		Duration:  time.Since(start),
		Err:       err,
	})
}
