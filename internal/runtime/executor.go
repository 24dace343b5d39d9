package runtime

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aretw0/stackcalc/pkg/domain"
	"github.com/aretw0/stackcalc/pkg/ports"
	"github.com/aretw0/stackcalc/pkg/registry"
)

// Executor is the entry point for raw user input.
// Every failure is converted into a message on the user interface; Enter never returns an error.
type Executor struct {
	manager *Manager
	interp  *interpreter
	ui      ports.UserInterface
	logger  *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithScriptResolver sets how "proc:<name>" targets are located.
// Without a resolver every procedure reports ErrScriptUnavailable.
func WithScriptResolver(r ports.ScriptResolver) ExecutorOption {
	return func(e *Executor) {
		e.interp.resolver = r
	}
}

// NewExecutor creates an executor bound to ui, manager and reg.
// A nil ui discards messages.
func NewExecutor(ui ports.UserInterface, manager *Manager, reg *registry.Registry, opts ...ExecutorOption) *Executor {
	if ui == nil {
		ui = ports.Discard
	}
	e := &Executor{
		manager: manager,
		interp:  &interpreter{registry: reg},
		ui:      ui,
		logger:  manager.logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enter processes one line of input.
// Surrounding whitespace is ignored and a blank line is a no-op.
func (e *Executor) Enter(ctx context.Context, line string) {
	token := strings.TrimSpace(line)
	if token == "" {
		return
	}

	ctx = ports.WithUserInterface(ctx, e.ui)
	if err := e.interp.run(ctx, e.manager, token); err != nil {
		if domain.IsBenign(err) {
			e.logger.DebugContext(ctx, "empty history", "input", token)
		} else {
			e.logger.InfoContext(ctx, "input rejected", "input", token, "err", err)
		}
		e.ui.PostMessage(err.Error())
	}
}

// Manager returns the history manager driven by the executor.
func (e *Executor) Manager() *Manager {
	return e.manager
}
