package runner

import (
	"log/slog"
	"time"
)

const (
	// DefaultLocateTimeout bounds the anchor search of each flow.
	DefaultLocateTimeout = 15 * time.Second
	// DefaultLocateInterval is the pause between two anchor searches.
	DefaultLocateInterval = 500 * time.Millisecond
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithLocateTimeout sets how long each anchor is searched for before giving up.
func WithLocateTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.locateTimeout = d
	}
}

// WithLocateInterval sets the pause between anchor searches.
func WithLocateInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.locateInterval = d
	}
}

// WithSleeper replaces the context-aware sleep used for delays and polling.
func WithSleeper(s Sleeper) Option {
	return func(r *Runner) {
		r.sleep = s
	}
}

// WithClock replaces time.Now for the locate deadline.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// WithObserver registers a callback invoked after each action completes, with the action as
// executed (clicks resolved to absolute coordinates).
func WithObserver(fn func(flowID string, action Executed)) Option {
	return func(r *Runner) {
		r.observer = fn
	}
}
