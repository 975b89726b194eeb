package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the clickflow banner with the version.
func PrintBanner(w io.Writer, version string, opts ...termenv.OutputOption) {
	out := termenv.NewOutput(w, opts...)
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	lines := []struct{ text, color string }{
		{"       _ _      _    __ _               ", "#818cf8"},
		{"   ___| (_) ___| | _/ _| | _____      __", "#a78bfa"},
		{"  / __| | |/ __| |/ / |_| |/ _ \\ \\ /\\ / /", "#c084fc"},
		{" | (__| | | (__|   <|  _| | (_) \\ V  V / ", "#e879f9"},
		{"  \\___|_|_|\\___|_|\\_\\_| |_|\\___/ \\_/\\_/  ", "#f472b6"},
	}

	fmt.Fprintln(out)
	for _, l := range lines {
		fmt.Fprintln(out, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintf(out, "  %s\n\n", out.String("v"+strings.TrimSpace(version)).Faint())
}
