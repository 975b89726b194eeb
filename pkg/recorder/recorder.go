package recorder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/geometry"
)

const (
	// PauseKey toggles recording.
	PauseKey = "f9"
	// StopKey ends the recording.
	StopKey = "f10"
)

// StopReason tells why Run returned.
type StopReason string

const (
	StoppedByKey     StopReason = "stop_key"
	StoppedByClose   StopReason = "closed"
	StoppedByContext StopReason = "context"
)

// Captured is one recorded click.
type Captured struct {
	Step domain.Step
	// At is the absolute click position.
	At      domain.Point
	Preview geometry.CropPlan
	Time    time.Time
}

// Recording is the result of a Run.
type Recording struct {
	Captured []Captured
	Stopped  StopReason
	// Ignored counts presses dropped while paused or excluded.
	Ignored int
}

// Steps returns the recorded steps in order.
func (r *Recording) Steps() []domain.Step {
	steps := make([]domain.Step, len(r.Captured))
	for i, c := range r.Captured {
		steps[i] = c.Step
	}
	return steps
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// WithFlowID names previews "<flow>_stepNNNN.png" under previews/. Without it steps carry no preview path.
func WithFlowID(id string) Option {
	return func(r *Recorder) {
		r.flowID = id
	}
}

// WithPreview sets the preview size and the user's calibration offset.
func WithPreview(size, dx, dy int) Option {
	return func(r *Recorder) {
		r.previewSize, r.dx, r.dy = size, dx, dy
	}
}

// WithDelay sets delay_s written on every step.
func WithDelay(seconds float64) Option {
	return func(r *Recorder) {
		r.delay = seconds
	}
}

// WithExclude drops presses for which fn returns true, e.g. clicks on the recorder's own windows.
func WithExclude(fn func(domain.Point) bool) Option {
	return func(r *Recorder) {
		r.exclude = fn
	}
}

// WithStartIndex numbers the first recorded step; use len(existing)+1 when appending to a flow.
func WithStartIndex(n int) Option {
	return func(r *Recorder) {
		r.startIndex = n
	}
}

// Recorder converts click presses into click steps whose offsets are relative to anchorPoint.
type Recorder struct {
	anchor domain.Point
	bounds domain.ScreenSize

	logger      *slog.Logger
	flowID      string
	previewSize int
	dx, dy      int
	delay       float64
	exclude     func(domain.Point) bool
	startIndex  int
}

// New creates a Recorder for a screen of the given bounds.
func New(anchorPoint domain.Point, bounds domain.ScreenSize, opts ...Option) (*Recorder, error) {
	if bounds.W <= 0 || bounds.H <= 0 {
		return nil, domain.Invalid("bounds", "screen bounds must be > 0", bounds)
	}
	r := &Recorder{
		anchor:      anchorPoint,
		bounds:      bounds,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		previewSize: domain.DefaultPreviewSize,
		delay:       domain.DefaultDelaySeconds,
		startIndex:  1,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.previewSize <= 0 {
		return nil, domain.Invalid("preview_size", "must be > 0", r.previewSize)
	}
	if err := domain.NonNegative("delay_s", r.delay); err != nil {
		return nil, err
	}
	return r, nil
}

// Run consumes events until StopKey is pressed, events is closed or ctx is done. It must be the only
// reader of events. The partial recording is returned together with ctx.Err() on cancellation.
func (r *Recorder) Run(ctx context.Context, events <-chan Event) (*Recording, error) {
	rec := &Recording{}
	paused := false

	for {
		select {
		case <-ctx.Done():
			rec.Stopped = StoppedByContext
			return rec, ctx.Err()
		case e, ok := <-events:
			if !ok {
				rec.Stopped = StoppedByClose
				return rec, nil
			}
			switch e.Kind {
			case KeyEvent:
				switch e.Key {
				case StopKey:
					rec.Stopped = StoppedByKey
					r.logger.Debug("recording stopped", "steps", len(rec.Captured))
					return rec, nil
				case PauseKey:
					paused = !paused
					r.logger.Debug("recording paused", "paused", paused)
				}
			case MouseEvent:
				// Releases are ignored.
				if !e.Pressed {
					continue
				}
				if paused || (r.exclude != nil && r.exclude(e.At)) {
					rec.Ignored++
					continue
				}
				c, err := r.capture(e, r.startIndex+len(rec.Captured))
				if err != nil {
					return rec, err
				}
				rec.Captured = append(rec.Captured, c)
			}
		}
	}
}

func (r *Recorder) capture(e Event, index int) (Captured, error) {
	button := e.Button
	if !button.Valid() {
		// Side buttons and unnamed presses are recorded as left clicks.
		if button != "" {
			r.logger.Debug("unknown mouse button recorded as left", "button", button)
		}
		button = domain.ButtonLeft
	}

	plan, err := geometry.Plan(e.At.X, e.At.Y, r.bounds.W, r.bounds.H, r.previewSize, r.dx, r.dy)
	if err != nil {
		return Captured{}, err
	}

	delay := r.delay
	step := domain.Step{
		Action:       domain.StepClick,
		DelaySeconds: &delay,
		Click: &domain.ClickStep{
			Offset: e.At.Sub(r.anchor),
			Button: button,
			Clicks: 1,
		},
	}
	if r.flowID != "" {
		step.Preview = path.Join("previews", fmt.Sprintf("%s_step%04d.png", r.flowID, index))
	}

	r.logger.Info("step recorded",
		"index", index,
		"click", e.At,
		"offset", step.Click.Offset,
		"button", button,
		"preview", step.Preview,
	)
	return Captured{Step: step, At: e.At, Preview: plan, Time: e.Time}, nil
}
