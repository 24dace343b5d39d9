package runtime

import (
	"context"

	"github.com/aretw0/stackcalc/pkg/ports"
)

// InlineScript is a ScriptSource held in memory.
// Macros declared in configuration are registered as inline scripts.
type InlineScript struct {
	name  string
	lines []string
}

// NewInlineScript creates a script named name with the given lines.
func NewInlineScript(name string, lines ...string) *InlineScript {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return &InlineScript{name: name, lines: cp}
}

func (s *InlineScript) Name() string { return s.name }

func (s *InlineScript) Lines(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out, nil
}

// MapResolver resolves procedure names against a fixed set of inline scripts.
func MapResolver(scripts map[string][]string) ports.ScriptResolver {
	return func(name string) ports.ScriptSource {
		lines, ok := scripts[name]
		if !ok {
			return nil
		}
		return NewInlineScript(name, lines...)
	}
}
