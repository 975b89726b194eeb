package dsl

// FlowBuilder provides a fluent API for configuring a flow.
type FlowBuilder struct {
	raw   map[string]any
	steps []any
}

// StepOption tweaks a single step.
type StepOption func(step map[string]any)

// Delay overrides the post-action delay of a step.
func Delay(seconds float64) StepOption {
	return func(s map[string]any) { s["delay_s"] = seconds }
}

// Button selects the mouse button of a click.
func Button(name string) StepOption {
	return func(s map[string]any) { s["button"] = name }
}

// Double makes a click a double click.
func Double() StepOption {
	return func(s map[string]any) { s["clicks"] = 2 }
}

// Interval sets interval_s: between presses for clicks, between characters for typing.
func Interval(seconds float64) StepOption {
	return func(s map[string]any) { s["interval_s"] = seconds }
}

// Preview attaches a thumbnail path.
func Preview(path string) StepOption {
	return func(s map[string]any) { s["preview"] = path }
}

// Title sets the display title.
func (f *FlowBuilder) Title(title string) *FlowBuilder {
	f.raw["title"] = title
	return f
}

// ShowDesktop reveals the desktop before the anchor is located.
func (f *FlowBuilder) ShowDesktop() *FlowBuilder {
	f.raw["show_desktop"] = true
	return f
}

// Anchor sets the reference image and the pixel inside it that defines the reference point.
func (f *FlowBuilder) Anchor(image string, x, y int) *FlowBuilder {
	f.raw["anchor"] = map[string]any{
		"image":          image,
		"click_in_image": map[string]any{"x": x, "y": y},
	}
	return f
}

// CaptureRect records where the anchor was captured. Call it after Anchor.
func (f *FlowBuilder) CaptureRect(x, y, w, h int) *FlowBuilder {
	if a, ok := f.raw["anchor"].(map[string]any); ok {
		a["capture_rect"] = map[string]any{"x": x, "y": y, "w": w, "h": h}
	}
	return f
}

// Click appends a click at (dx, dy) from the anchor point.
func (f *FlowBuilder) Click(dx, dy int, opts ...StepOption) *FlowBuilder {
	return f.step(map[string]any{
		"action": "click",
		"offset": map[string]any{"x": dx, "y": dy},
	}, opts)
}

// Type appends a typing step.
func (f *FlowBuilder) Type(text string, opts ...StepOption) *FlowBuilder {
	return f.step(map[string]any{"action": "type", "text": text}, opts)
}

// Hotkey appends a key chord.
func (f *FlowBuilder) Hotkey(keys []string, opts ...StepOption) *FlowBuilder {
	list := make([]any, len(keys))
	for i, k := range keys {
		list[i] = k
	}
	return f.step(map[string]any{"action": "hotkey", "keys": list}, opts)
}

// Wait appends a pause.
func (f *FlowBuilder) Wait(seconds float64, opts ...StepOption) *FlowBuilder {
	return f.step(map[string]any{"action": "wait", "seconds": seconds}, opts)
}

func (f *FlowBuilder) step(s map[string]any, opts []StepOption) *FlowBuilder {
	for _, opt := range opts {
		opt(s)
	}
	f.steps = append(f.steps, s)
	return f
}

func (f *FlowBuilder) build() map[string]any {
	out := make(map[string]any, len(f.raw)+1)
	for k, v := range f.raw {
		out[k] = v
	}
	out["steps"] = append([]any(nil), f.steps...)
	return out
}
