package runner

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/ports"
)

// FixedLocator reports every image at the same bounding box. It drives dry traces of a plan.
type FixedLocator struct {
	Box domain.Rect
}

func (l FixedLocator) Locate(ctx context.Context, image string, opts ports.LocateOptions) (domain.Rect, bool, error) {
	return l.Box, true, ctx.Err()
}

// FixedDisplay reports a constant screen size.
type FixedDisplay struct {
	Screen domain.ScreenSize
}

func (d FixedDisplay) Size(ctx context.Context) (domain.ScreenSize, error) {
	return d.Screen, nil
}

// TraceDriver writes one line per injected input instead of touching the desktop.
type TraceDriver struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTraceDriver creates a TraceDriver writing to w.
func NewTraceDriver(w io.Writer) *TraceDriver {
	return &TraceDriver{w: w}
}

func (d *TraceDriver) Click(ctx context.Context, at domain.Point, button domain.Button, clicks int, interval time.Duration) error {
	return d.printf("click x=%d y=%d button=%s clicks=%d interval=%s", at.X, at.Y, button, clicks, interval)
}

func (d *TraceDriver) Type(ctx context.Context, text string, interval time.Duration) error {
	return d.printf("type %q interval=%s", text, interval)
}

func (d *TraceDriver) Hotkey(ctx context.Context, keys ...string) error {
	return d.printf("hotkey %s", strings.Join(keys, "+"))
}

func (d *TraceDriver) printf(format string, args ...any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := fmt.Fprintf(d.w, format+"\n", args...)
	return err
}

// NoSleep is a Sleeper that returns immediately, for traces.
func NoSleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}
