package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/muesli/termenv"
)

// ErrorPrinter writes diagnostics, coloured when the output supports it.
type ErrorPrinter struct {
	out *termenv.Output
}

// NewErrorPrinter detects the colour profile of w. Pass termenv.WithProfile to force one.
func NewErrorPrinter(w io.Writer, opts ...termenv.OutputOption) *ErrorPrinter {
	return &ErrorPrinter{out: termenv.NewOutput(w, opts...)}
}

// Print reports err. Document defects get their kind and path on separate, highlighted fields.
func (p *ErrorPrinter) Print(err error) {
	if err == nil {
		return
	}
	label := p.out.String("error").Foreground(p.out.Color("#f87171")).Bold()

	se, ok := domain.AsSpecError(err)
	if !ok {
		fmt.Fprintf(p.out, "%s: %v\n", label, err)
		return
	}
	kind := p.out.String(string(se.Kind)).Foreground(p.out.Color("#fbbf24"))
	path := p.out.String(se.Path).Foreground(p.out.Color("#60a5fa"))
	fmt.Fprintf(p.out, "%s[%s] %s: %v\n", label, kind, path, err)
}

// Success prints a green confirmation line.
func (p *ErrorPrinter) Success(msg string) {
	fmt.Fprintln(p.out, p.out.String(msg).Foreground(p.out.Color("#4ade80")))
}
