package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// helpMarker identifies the help listing among calculator messages.
const helpMarker = "undo: undo last operation"

// NewRenderer returns a message renderer for the terminal.
// The help listing is rendered as a markdown table through glamour; every other
// message is a diagnostic and is highlighted.
func NewRenderer(w io.Writer) func(string) (string, error) {
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	return func(msg string) (string, error) {
		if strings.Contains(msg, helpMarker) {
			if err != nil {
				return msg, nil
			}
			return md.Render(HelpMarkdown(msg))
		}
		return out.String(msg).Foreground(p.Color("#f59e0b")).String(), nil
	}
}

// HelpMarkdown converts the "name: help" lines of the help listing into a markdown table.
func HelpMarkdown(help string) string {
	var b strings.Builder
	b.WriteString("| command | description |\n|---|---|\n")
	for _, line := range strings.Split(help, "\n") {
		name, desc, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "| `%s` | %s |\n", escapeCell(name), escapeCell(desc))
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
