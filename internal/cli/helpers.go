// Package cli implements the clickflow commands. The cobra wiring lives in cmd/clickflow; everything
// here writes to the injected Stdout and Stderr so it can be tested without a terminal.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/aretw0/clickflow"
	"github.com/aretw0/clickflow/internal/logging"
	"github.com/aretw0/clickflow/pkg/adapters/file"
	"github.com/aretw0/clickflow/pkg/domain"
	"golang.org/x/term"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitSpecError = 2
)

// Globals are the persistent flags and streams shared by every command.
type Globals struct {
	Dir    string
	Debug  bool
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// NewGlobals binds the process streams.
func NewGlobals(dir string, debug bool, logger *slog.Logger) *Globals {
	return &Globals{
		Dir:    dir,
		Debug:  debug,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
}

func (g *Globals) logger() *slog.Logger {
	if g.Logger == nil {
		return logging.NewNop()
	}
	return g.Logger
}

// open reads and validates the project document.
func (g *Globals) open(ctx context.Context) (*clickflow.Project, error) {
	return clickflow.Open(ctx, g.Dir, clickflow.WithLogger(g.logger()))
}

// resolve makes relative paths relative to the project directory.
func (g *Globals) resolve(path string) string {
	if filepath.IsAbs(path) || g.Dir == "" {
		return path
	}
	return filepath.Join(g.Dir, path)
}

// writeOutput writes data to out, or to Stdout when out is empty or "-".
// Files are replaced atomically so a failed run never leaves a truncated plan behind.
func (g *Globals) writeOutput(out string, data []byte) error {
	if out == "" || out == "-" {
		_, err := g.Stdout.Write(data)
		return err
	}
	dest := g.resolve(out)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := file.WriteAtomic(dest, data); err != nil {
		return err
	}
	g.logger().Info("output written", "path", dest, "bytes", len(data))
	return nil
}

// render buffers fn's output so nothing is written when fn fails.
func render(fn func(w io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if _, ok := domain.AsSpecError(err); ok {
		return ExitSpecError
	}
	return ExitFailure
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SplitList parses comma-separated values, dropping empty entries.
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// CreateLogger configures the application logger. Without debug or an explicit level logging is off.
// Logs go to Stderr so they never mix with plans and scripts on Stdout.
func CreateLogger(debug bool, level string, json bool) (*slog.Logger, error) {
	if !debug && level == "" {
		return logging.NewNop(), nil
	}
	lvl := slog.LevelDebug
	if level != "" {
		parsed, err := logging.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}
	return logging.New(logging.Options{Level: lvl, JSON: json}), nil
}

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// IsInterrupted reports whether err only reflects a cancelled context.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

// ParseScreen parses "WxH".
func ParseScreen(s string) (domain.ScreenSize, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return domain.ScreenSize{}, domain.Invalid("screen", "expected WxH", s)
	}
	ws, err1 := strconv.Atoi(w)
	hs, err2 := strconv.Atoi(h)
	if err1 != nil || err2 != nil || ws <= 0 || hs <= 0 {
		return domain.ScreenSize{}, domain.Invalid("screen", "expected positive WxH", s)
	}
	return domain.ScreenSize{W: ws, H: hs}, nil
}

// ParseBox parses "x,y,w,h".
func ParseBox(s string) (domain.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return domain.Rect{}, domain.Invalid("bbox", "expected x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return domain.Rect{}, domain.Invalid("bbox", "expected integers", s)
		}
		v[i] = n
	}
	if v[2] < 0 || v[3] < 0 {
		return domain.Rect{}, domain.Invalid("bbox", "width and height must be >= 0", s)
	}
	return domain.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}
