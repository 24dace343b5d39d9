package runtime

import (
	"context"
	"strings"

	"github.com/aretw0/stackcalc/pkg/commands"
	"github.com/aretw0/stackcalc/pkg/domain"
	"github.com/aretw0/stackcalc/pkg/ports"
	"github.com/aretw0/stackcalc/pkg/registry"
)

// UnknownCommandError reports a token that is neither a number, a keyword,
// a procedure invocation nor a registered command.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return "Command " + e.Name + " is not a known command"
}

// Is makes errors.Is(err, domain.ErrUnknownCommand) hold.
func (e *UnknownCommandError) Is(target error) bool {
	return target == domain.ErrUnknownCommand
}

// interpreter classifies a single token and applies it to a manager.
// It is shared by the executor and by stored procedures so both follow
// the same precedence: number, undo/redo, help, proc:<name>, registry.
type interpreter struct {
	registry *registry.Registry
	resolver ports.ScriptResolver
}

func (in *interpreter) run(ctx context.Context, m *Manager, token string) error {
	switch {
	case IsNumber(token):
		v, err := ParseNumber(token)
		if err != nil {
			return err
		}
		return m.Execute(ctx, commands.NewEnterNumber(v))

	case token == registry.KeywordUndo:
		return m.Undo(ctx)

	case token == registry.KeywordRedo:
		return m.Redo(ctx)

	case token == registry.KeywordHelp:
		ports.UserInterfaceFrom(ctx).PostMessage(HelpText(in.registry))
		return nil

	case strings.HasPrefix(token, registry.ProcedurePrefix):
		target := strings.TrimPrefix(token, registry.ProcedurePrefix)
		if target == "" {
			return domain.ErrMalformedProcedure
		}
		return m.Execute(ctx, NewProcedure(target, in.resolve(target), in.registry, in.resolver))
	}

	cmd := in.registry.Allocate(token)
	if cmd == nil {
		return &UnknownCommandError{Name: token}
	}
	return m.Execute(ctx, cmd)
}

func (in *interpreter) resolve(name string) ports.ScriptSource {
	if in.resolver == nil {
		return nil
	}
	return in.resolver(name)
}

// HelpText renders the help listing: the undo and redo keywords first,
// then every registered command in name order.
func HelpText(reg *registry.Registry) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(registry.KeywordUndo + ": undo last operation\n")
	b.WriteString(registry.KeywordRedo + ": redo last operation\n")
	for _, name := range reg.Names() {
		if reg.PrintHelp(name, &b) {
			b.WriteString("\n")
		}
	}
	return b.String()
}
