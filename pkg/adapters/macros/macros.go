// Package macros loads user-defined commands from YAML.
//
// A macro is a named list of input lines. Once registered it behaves like any other
// command: it runs as a single undoable step and rolls back entirely if a line fails.
//
//	macros:
//	  - name: square
//	    help: square the top element
//	    lines: [dup, "*"]
package macros

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/stackcalc/internal/runtime"
	"github.com/aretw0/stackcalc/pkg/domain"
	"github.com/aretw0/stackcalc/pkg/ports"
	"github.com/aretw0/stackcalc/pkg/registry"
	"gopkg.in/yaml.v3"
)

// ErrInvalidMacro is returned for definitions without a name or without lines.
var ErrInvalidMacro = errors.New("invalid macro definition")

// Definition describes one macro.
type Definition struct {
	Name  string   `yaml:"name"`
	Help  string   `yaml:"help"`
	Lines []string `yaml:"lines"`
}

type document struct {
	Macros []Definition `yaml:"macros"`
}

// Load reads macro definitions from a YAML file.
func Load(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read macros: %w", err)
	}
	defs, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// Parse decodes macro definitions. Unknown fields are rejected.
func Parse(r io.Reader) ([]Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode macros: %w", err)
	}

	for i, def := range doc.Macros {
		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidMacro, i+1)
		}
		if len(def.Lines) == 0 {
			return nil, fmt.Errorf("%w: %s has no lines", ErrInvalidMacro, def.Name)
		}
	}
	return doc.Macros, nil
}

// Register adds every definition to reg. Macros may call each other, other
// commands and procedures found through resolver.
func Register(reg *registry.Registry, defs []Definition, resolver ports.ScriptResolver) error {
	for _, def := range defs {
		help := def.Help
		if help == "" {
			help = "macro: " + strings.Join(def.Lines, " ")
		}
		if err := reg.Register(def.Name, factory(reg, def, resolver), help); err != nil {
			return fmt.Errorf("register macro %s: %w", def.Name, err)
		}
	}
	return nil
}

func factory(reg *registry.Registry, def Definition, resolver ports.ScriptResolver) domain.Factory {
	lines := append([]string(nil), def.Lines...)
	return func() domain.Command {
		return runtime.NewMacro(def.Name, lines, reg, resolver)
	}
}
