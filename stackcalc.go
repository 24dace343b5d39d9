package stackcalc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/stackcalc/internal/logging"
	"github.com/aretw0/stackcalc/internal/runtime"
	"github.com/aretw0/stackcalc/pkg/adapters/file"
	"github.com/aretw0/stackcalc/pkg/adapters/macros"
	"github.com/aretw0/stackcalc/pkg/commands"
	"github.com/aretw0/stackcalc/pkg/domain"
	"github.com/aretw0/stackcalc/pkg/ports"
	"github.com/aretw0/stackcalc/pkg/registry"
)

// Calculator is the high-level entry point of the library.
// It wires the registry, the history manager and the input dispatcher together.
//
// A Calculator is not safe for concurrent use; see pkg/session for serving
// several clients.
type Calculator struct {
	registry *registry.Registry
	manager  *runtime.Manager
	executor *runtime.Executor

	ui         ports.UserInterface
	pending    []string
	resolver   ports.ScriptResolver
	scriptDir  string
	macros     []macros.Definition
	initial    []float64
	maxHistory int
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
}

// Option defines a functional option for configuring the Calculator.
type Option func(*Calculator)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Calculator) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) {
		c.logger = logger
	}
}

// WithRegistry replaces the default registry (core commands only).
// Registration must be complete before the first call to Enter.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *Calculator) {
		c.registry = reg
	}
}

// WithUserInterface sets the sink that receives messages (errors, help).
func WithUserInterface(ui ports.UserInterface) Option {
	return func(c *Calculator) {
		c.ui = ui
	}
}

// WithScriptDir resolves "proc:<name>" against files under dir.
func WithScriptDir(dir string) Option {
	return func(c *Calculator) {
		c.scriptDir = dir
	}
}

// WithScriptResolver injects a custom procedure resolver. It takes precedence over WithScriptDir.
func WithScriptResolver(r ports.ScriptResolver) Option {
	return func(c *Calculator) {
		c.resolver = r
	}
}

// WithMacros registers user-defined commands.
func WithMacros(defs []macros.Definition) Option {
	return func(c *Calculator) {
		c.macros = append(c.macros, defs...)
	}
}

// WithInitialStack seeds the operand stack, e.g. from a stored snapshot.
func WithInitialStack(values []float64) Option {
	return func(c *Calculator) {
		c.initial = append([]float64(nil), values...)
	}
}

// WithMaxHistory bounds the undo history. Zero means unbounded.
func WithMaxHistory(n int) Option {
	return func(c *Calculator) {
		c.maxHistory = n
	}
}

// New initializes a Calculator.
func New(opts ...Option) (*Calculator, error) {
	c := &Calculator{}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	if c.ui == nil {
		c.ui = ports.Discard
	}
	if c.registry == nil {
		c.registry = registry.New()
		if err := commands.RegisterCore(c.registry); err != nil {
			return nil, fmt.Errorf("failed to register core commands: %w", err)
		}
	}
	if c.resolver == nil {
		c.resolver = file.Resolver(c.scriptDir)
	}
	if len(c.macros) > 0 {
		if err := macros.Register(c.registry, c.macros, c.resolver); err != nil {
			return nil, err
		}
	}

	c.manager = runtime.NewManager(
		runtime.WithStack(domain.NewStack(c.initial...)),
		runtime.WithLogger(c.logger),
		runtime.WithLifecycleHooks(c.hooks),
		runtime.WithMaxHistory(c.maxHistory),
	)
	tee := ports.UserInterfaceFunc(func(msg string) {
		c.pending = append(c.pending, msg)
		c.ui.PostMessage(msg)
	})
	c.executor = runtime.NewExecutor(tee, c.manager, c.registry, runtime.WithScriptResolver(c.resolver))

	return c, nil
}

// Enter processes one line of input. Failures are reported through the user interface.
func (c *Calculator) Enter(ctx context.Context, line string) {
	c.executor.Enter(ctx, line)
	c.pending = nil
}

// Eval processes one line and returns the messages it produced, in order.
// The messages are also posted to the configured user interface.
func (c *Calculator) Eval(ctx context.Context, line string) []string {
	c.pending = nil
	c.executor.Enter(ctx, line)
	msgs := c.pending
	c.pending = nil
	if msgs == nil {
		msgs = []string{}
	}
	return msgs
}

// Stack returns a copy of the operand stack, bottom first.
func (c *Calculator) Stack() []float64 {
	return c.manager.Stack().Values()
}

// Top returns the topmost value, if any.
func (c *Calculator) Top() (float64, bool) {
	v, err := c.manager.Stack().Top()
	return v, err == nil
}

// UndoSize returns the number of undoable commands.
func (c *Calculator) UndoSize() int {
	return c.manager.UndoSize()
}

// RedoSize returns the number of redoable commands.
func (c *Calculator) RedoSize() int {
	return c.manager.RedoSize()
}

// Reset replaces the stack and forgets the history.
func (c *Calculator) Reset(values []float64) {
	c.manager.Reset(values)
}

// Registry returns the command registry.
func (c *Calculator) Registry() *registry.Registry {
	return c.registry
}

// Help returns the text printed by the "help" command.
func (c *Calculator) Help() string {
	return runtime.HelpText(c.registry)
}
