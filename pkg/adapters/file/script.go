package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/stackcalc/pkg/ports"
)

// Script reads a stored procedure from a text file, one line per command.
// The file is opened inside dir and cannot resolve outside it, symlinks included.
type Script struct {
	name string
	dir  string
}

// NewScript creates a script source for the file name inside dir.
// An empty dir means the working directory.
func NewScript(name, dir string) *Script {
	if dir == "" {
		dir = "."
	}
	return &Script{name: name, dir: dir}
}

func (s *Script) Name() string { return s.name }

// Lines reads the file eagerly. A missing or unreadable file is an error.
func (s *Script) Lines(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.OpenInRoot(s.dir, s.name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.name, err)
	}
	return lines, nil
}

// Resolver returns a ScriptResolver that looks procedure names up relative to dir.
// Names that are absolute or climb out of dir resolve to nil.
func Resolver(dir string) ports.ScriptResolver {
	return func(name string) ports.ScriptSource {
		if !filepath.IsLocal(name) {
			return nil
		}
		return NewScript(name, dir)
	}
}
