package registry

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/stackcalc/pkg/domain"
)

// Names the dispatcher resolves before consulting the registry.
const (
	KeywordUndo = "undo"
	KeywordRedo = "redo"
	KeywordHelp = "help"

	// KeywordExit and KeywordQuit end an interactive session before dispatch.
	KeywordExit = "exit"
	KeywordQuit = "quit"

	// ProcedurePrefix introduces a stored procedure invocation ("proc:<file>").
	ProcedurePrefix = "proc:"
)

var (
	// ErrDuplicateCommand is returned when a name is registered twice.
	ErrDuplicateCommand = errors.New("command already registered")
	// ErrInvalidName is returned for names the dispatcher could never route to the registry.
	ErrInvalidName = errors.New("invalid command name")
)

// numberPattern is the literal grammar: optional sign, at least one digit, an optional
// fraction (digits after the point are optional) and an optional exponent.
// ".5", "+" and "." are deliberately not numbers.
var numberPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]*)?([eE][+-]?[0-9]+)?$`)

// IsNumber reports whether s is a numeric literal. The dispatcher routes such
// tokens to number entry, so they can never name a command.
func IsNumber(s string) bool {
	return numberPattern.MatchString(s)
}

type entry struct {
	factory domain.Factory
	help    string
}

// Registry maps command names to factories producing fresh Command instances.
// Registration is expected to complete before the dispatcher serves input;
// lookups are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]entry),
	}
}

// Register adds a command factory under name.
// Names are case-sensitive. Registering an existing name fails with ErrDuplicateCommand.
func (r *Registry) Register(name string, factory domain.Factory, help string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if factory == nil {
		return fmt.Errorf("%w: %q has no factory", ErrInvalidName, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
	}
	r.entries[name] = entry{factory: factory, help: help}
	return nil
}

// MustRegister is like Register but panics on error.
// Intended for start-up wiring of built-in commands.
func (r *Registry) MustRegister(name string, factory domain.Factory, help string) {
	if err := r.Register(name, factory, help); err != nil {
		panic(err)
	}
}

// Allocate returns a new Command for name, or nil if name is unknown.
func (r *Registry) Allocate(name string) domain.Command {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil
	}
	return e.factory()
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Help returns the help text registered for name.
func (r *Registry) Help(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.help, ok
}

// PrintHelp writes "name: help" to w.
// It writes nothing and returns false for unknown names.
func (r *Registry) PrintHelp(name string, w io.Writer) bool {
	help, ok := r.Help(name)
	if !ok {
		return false
	}
	fmt.Fprintf(w, "%s: %s", name, help)
	return true
}

// Count returns the number of registered commands.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func validateName(name string) error {
	switch {
	case name == "" || strings.TrimSpace(name) != name:
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case name == KeywordUndo || name == KeywordRedo || name == KeywordHelp,
		name == KeywordExit || name == KeywordQuit:
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	case strings.HasPrefix(name, ProcedurePrefix):
		return fmt.Errorf("%w: %q shadows procedure invocation", ErrInvalidName, name)
	case IsNumber(name):
		return fmt.Errorf("%w: %q is a numeric literal", ErrInvalidName, name)
	}
	return nil
}

// Description is the public view of a registered command.
type Description struct {
	Name string `json:"name"`
	Help string `json:"help"`
}

// Describe lists every registered command with its help text, sorted by name.
func (r *Registry) Describe() []Description {
	names := r.Names()
	out := make([]Description, 0, len(names))
	for _, name := range names {
		help, _ := r.Help(name)
		out = append(out, Description{Name: name, Help: help})
	}
	return out
}
