package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/stackcalc/internal/logging"
	"golang.org/x/term"
)

// CreateLogger configures the application logger.
// Without debug only warnings and errors reach Stderr.
func CreateLogger(debug bool, level string) (*slog.Logger, error) {
	if debug {
		return logging.New(slog.LevelDebug), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if lvl < slog.LevelWarn {
		lvl = slog.LevelWarn
	}
	return logging.New(lvl), nil
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
