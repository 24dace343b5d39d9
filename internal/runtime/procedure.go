package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/stackcalc/pkg/domain"
	"github.com/aretw0/stackcalc/pkg/ports"
	"github.com/aretw0/stackcalc/pkg/registry"
)

// MaxNestingDepth bounds how deeply procedures may invoke other procedures.
const MaxNestingDepth = 8

type depthKey struct{}

func depthFrom(ctx context.Context) int {
	if d, ok := ctx.Value(depthKey{}).(int); ok {
		return d
	}
	return 0
}

// Procedure is a composite command that replays a script line by line.
//
// Lines run against a private history that shares the caller's stack, so the whole
// script is undone and redone as a single entry of the caller's history.
// A failing line rolls back every line applied before it.
type Procedure struct {
	name   string
	label  string
	source ports.ScriptSource
	interp *interpreter
	inner  *Manager

	applied int
}

// NewProcedure creates a procedure reading its lines from source.
// A nil source makes Execute fail with domain.ErrScriptUnavailable.
func NewProcedure(name string, source ports.ScriptSource, reg *registry.Registry, resolver ports.ScriptResolver) *Procedure {
	return &Procedure{
		name:   name,
		label:  registry.ProcedurePrefix + name,
		source: source,
		interp: &interpreter{registry: reg, resolver: resolver},
	}
}

// NewMacro creates a procedure over an inline script that is invoked by name
// rather than through "proc:".
func NewMacro(name string, lines []string, reg *registry.Registry, resolver ports.ScriptResolver) *Procedure {
	p := NewProcedure(name, NewInlineScript(name, lines...), reg, resolver)
	p.label = name
	return p
}

func (p *Procedure) Name() string {
	return p.label
}

// Len returns the number of sub-commands recorded by the last successful Execute.
func (p *Procedure) Len() int {
	return p.applied
}

func (p *Procedure) Execute(ctx context.Context, s *domain.Stack) error {
	depth := depthFrom(ctx) + 1
	if depth > MaxNestingDepth {
		return fmt.Errorf("%s: %w (limit %d)", p.Name(), domain.ErrNestingTooDeep, MaxNestingDepth)
	}
	ctx = context.WithValue(ctx, depthKey{}, depth)

	if p.source == nil {
		return fmt.Errorf("%w: %s", domain.ErrScriptUnavailable, p.name)
	}
	lines, err := p.source.Lines(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrScriptUnavailable, p.source.Name(), err)
	}

	p.inner = NewManager(WithStack(s))
	ui := ports.UserInterfaceFrom(ctx)

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return p.abort(ctx, err)
		}

		err := p.interp.run(ctx, p.inner, line)
		switch {
		case err == nil:
		case domain.IsBenign(err):
			ui.PostMessage(err.Error())
		default:
			return p.abort(ctx, fmt.Errorf("%s line %d: %w", p.source.Name(), i+1, err))
		}
	}

	p.applied = p.inner.UndoSize()
	return nil
}

// abort undoes every sub-command applied so far and returns cause,
// joined with any error raised while rolling back.
func (p *Procedure) abort(ctx context.Context, cause error) error {
	var errs []error
	for p.inner.UndoSize() > 0 {
		if err := p.inner.Undo(ctx); err != nil {
			errs = append(errs, fmt.Errorf("rollback: %w", err))
			break
		}
	}
	p.inner = nil
	if len(errs) > 0 {
		return errors.Join(append([]error{cause}, errs...)...)
	}
	return cause
}

func (p *Procedure) Undo(ctx context.Context, s *domain.Stack) error {
	if p.inner == nil {
		return fmt.Errorf("%s: %w", p.Name(), domain.ErrNothingToUndo)
	}
	for i := 0; i < p.applied; i++ {
		if err := p.inner.Undo(ctx); err != nil {
			return fmt.Errorf("%s: %w", p.Name(), err)
		}
	}
	return nil
}

func (p *Procedure) Redo(ctx context.Context, s *domain.Stack) error {
	if p.inner == nil {
		return fmt.Errorf("%s: %w", p.Name(), domain.ErrNothingToRedo)
	}
	for i := 0; i < p.applied; i++ {
		if err := p.inner.Redo(ctx); err != nil {
			return fmt.Errorf("%s: %w", p.Name(), err)
		}
	}
	return nil
}
