package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/ports"
	"github.com/aretw0/clickflow/pkg/resolver"
)

// ErrAnchorNotLocated is returned when an anchor image stays invisible for the whole locate timeout.
var ErrAnchorNotLocated = errors.New("anchor not located on screen")

// ScreenMismatchError reports that the plan was recorded on a screen of another size.
type ScreenMismatchError struct {
	Recorded domain.ScreenSize
	Current  domain.ScreenSize
}

func (e *ScreenMismatchError) Error() string {
	return fmt.Sprintf("screen size mismatch: recorded=%dx%d current=%dx%d",
		e.Recorded.W, e.Recorded.H, e.Current.W, e.Current.H)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the default Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Executed is an action as the runner performed it.
type Executed struct {
	Index  int
	Action domain.Action
	// Anchor is the resolved anchor reference point; zero for preamble actions.
	Anchor domain.Point
}

// Runner executes plans. It is safe to reuse but not to run concurrently: a desktop has one
// pointer and one keyboard.
type Runner struct {
	locator ports.Locator
	driver  ports.Driver
	display ports.Display

	logger         *slog.Logger
	locateTimeout  time.Duration
	locateInterval time.Duration
	sleep          Sleeper
	now            func() time.Time
	observer       func(string, Executed)
}

// New creates a Runner. display may be nil when plans never carry a screen precondition.
func New(locator ports.Locator, driver ports.Driver, display ports.Display, opts ...Option) *Runner {
	r := &Runner{
		locator:        locator,
		driver:         driver,
		display:        display,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		locateTimeout:  DefaultLocateTimeout,
		locateInterval: DefaultLocateInterval,
		sleep:          Sleep,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every flow of plan in order. It stops at the first error; a cancelled context
// aborts between actions and during delays.
func (r *Runner) Run(ctx context.Context, plan *domain.Plan) error {
	if plan == nil {
		return domain.Invalid("plan", "must not be nil", nil)
	}
	if err := r.checkScreen(ctx, plan.ExpectedScreen); err != nil {
		return err
	}

	opts := ports.LocateOptions{Confidence: plan.Confidence, Grayscale: plan.Grayscale}
	for i := range plan.Flows {
		if err := r.runFlow(ctx, &plan.Flows[i], opts); err != nil {
			return fmt.Errorf("flow %s: %w", plan.Flows[i].FlowID, err)
		}
	}
	return nil
}

func (r *Runner) checkScreen(ctx context.Context, expected *domain.ScreenSize) error {
	if expected == nil {
		return nil
	}
	if r.display == nil {
		return fmt.Errorf("plan requires a %dx%d screen but no display is configured", expected.W, expected.H)
	}
	current, err := r.display.Size(ctx)
	if err != nil {
		return fmt.Errorf("failed to read screen size: %w", err)
	}
	if current != *expected {
		return &ScreenMismatchError{Recorded: *expected, Current: current}
	}
	return nil
}

func (r *Runner) runFlow(ctx context.Context, flow *domain.CompiledFlow, opts ports.LocateOptions) error {
	// Never ask the locator to search for an image that was never captured.
	if flow.Anchor.Image == "" {
		return &domain.SpecError{Kind: domain.KindMissingAnchor, Path: domain.FlowPath(flow.FlowID) + ".anchor", Reason: "plan has no anchor image"}
	}

	pre, body := flow.Preamble()
	for i, a := range pre {
		if err := r.execute(ctx, a, domain.Point{}); err != nil {
			return err
		}
		r.notify(flow.FlowID, Executed{Index: i, Action: a})
	}

	box, err := r.locate(ctx, flow.Anchor.Image, opts)
	if err != nil {
		return err
	}
	anchor, err := resolver.ResolveAnchor(&flow.Anchor, box)
	if err != nil {
		return err
	}
	r.logger.Debug("anchor located", "flow", flow.FlowID, "box", box, "anchor_point", anchor)

	for i, a := range body {
		resolved := resolver.ResolveAction(anchor, a)
		if err := r.execute(ctx, resolved, anchor); err != nil {
			return fmt.Errorf("action %d (%s): %w", len(pre)+i+1, a.Kind, err)
		}
		r.notify(flow.FlowID, Executed{Index: len(pre) + i, Action: resolved, Anchor: anchor})
	}
	return nil
}

func (r *Runner) notify(flowID string, e Executed) {
	if r.observer != nil {
		r.observer(flowID, e)
	}
}

// locate polls the locator until the image is found or the timeout elapses.
// At least one search is always made.
func (r *Runner) locate(ctx context.Context, image string, opts ports.LocateOptions) (domain.Rect, error) {
	deadline := r.now().Add(r.locateTimeout)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return domain.Rect{}, err
		}
		box, found, err := r.locator.Locate(ctx, image, opts)
		if err != nil {
			return domain.Rect{}, fmt.Errorf("locate %s: %w", image, err)
		}
		if found {
			return box, nil
		}
		r.logger.Debug("anchor not visible yet", "image", image, "attempt", attempt)
		if !r.now().Before(deadline) {
			return domain.Rect{}, fmt.Errorf("%w: %s not found within %s", ErrAnchorNotLocated, image, r.locateTimeout)
		}
		if err := r.sleep(ctx, r.locateInterval); err != nil {
			return domain.Rect{}, err
		}
	}
}

func (r *Runner) execute(ctx context.Context, a domain.Action, anchor domain.Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var err error
	switch a.Kind {
	case domain.ActionClick:
		if a.Offset == nil {
			return domain.Invalid("offset", "click action without offset", nil)
		}
		at := *a.Offset
		if a.Relative {
			at = resolver.ResolveStepPoint(anchor, at)
		}
		err = r.driver.Click(ctx, at, a.Button, a.Clicks, seconds(a.ClickIntervalSeconds))
	case domain.ActionType:
		err = r.driver.Type(ctx, a.Text, seconds(a.IntervalSeconds))
	case domain.ActionHotkey, domain.ActionRevealDesktop:
		err = r.driver.Hotkey(ctx, a.Keys...)
	case domain.ActionWait:
		err = r.sleep(ctx, seconds(a.Seconds))
	default:
		return &domain.SpecError{Kind: domain.KindUnsupportedAction, Path: "action", Value: string(a.Kind)}
	}
	if err != nil {
		return err
	}
	r.logger.Debug("action done", "kind", a.Kind, "post_delay_s", a.PostDelaySeconds)
	return r.sleep(ctx, seconds(a.PostDelaySeconds))
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
