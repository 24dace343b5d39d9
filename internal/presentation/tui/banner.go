package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"      _             _              _      ",
	"  ___| |_ __ _  ___| | _____ __ _| | ___ ",
	" / __| __/ _` |/ __| |/ / __/ _` | |/ __|",
	" \\__ \\ || (_| | (__|   < (_| (_| | | (__ ",
	" |___/\\__\\__,_|\\___|_|\\_\\___\\__,_|_|\\___|",
}

var bannerColors = []string{"#22d3ee", "#38bdf8", "#60a5fa", "#818cf8", "#a78bfa"}

// PrintBanner writes the ASCII banner and version to w, coloured when w is a terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, out.String(line).Foreground(p.Color(bannerColors[i])))
	}
	fmt.Fprintln(w, out.String("  v"+strings.TrimSpace(version)+`  type "help" for commands, "exit" to quit`).Faint())
	fmt.Fprintln(w)
}
