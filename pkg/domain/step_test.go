package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStep_Validate(t *testing.T) {
	neg, nan, inf := -1.0, math.NaN(), math.Inf(1)
	tests := []struct {
		name string
		step Step
		want error
	}{
		{"click ok", Step{Action: StepClick, Click: &ClickStep{Button: ButtonMiddle, Clicks: 2}}, nil},
		{"type ok", Step{Action: StepType, Type: &TypeStep{Text: ""}}, nil},
		{"hotkey ok", Step{Action: StepHotkey, Hotkey: &HotkeyStep{Keys: []string{"f5"}}}, nil},
		{"wait zero", Step{Action: StepWait, Wait: &WaitStep{}}, nil},
		{"no action", Step{}, ErrUnsupportedAction},
		{"bad action", Step{Action: "drag"}, ErrUnsupportedAction},
		{"negative delay", Step{Action: StepWait, DelaySeconds: &neg, Wait: &WaitStep{}}, ErrInvalidArgument},
		{"click zero clicks", Step{Action: StepClick, Click: &ClickStep{Button: ButtonLeft}}, ErrInvalidArgument},
		{"click no button", Step{Action: StepClick, Click: &ClickStep{Clicks: 1}}, ErrInvalidArgument},
		{"click negative interval", Step{Action: StepClick, Click: &ClickStep{Button: ButtonLeft, Clicks: 1, IntervalSeconds: &neg}}, ErrInvalidArgument},
		{"type negative interval", Step{Action: StepType, Type: &TypeStep{IntervalSeconds: &neg}}, ErrInvalidArgument},
		{"hotkey blank key", Step{Action: StepHotkey, Hotkey: &HotkeyStep{Keys: []string{"ctrl", ""}}}, ErrInvalidArgument},
		{"wait payload missing", Step{Action: StepWait}, ErrMissingField},
		{"nan delay", Step{Action: StepWait, DelaySeconds: &nan, Wait: &WaitStep{}}, ErrInvalidArgument},
		{"infinite delay", Step{Action: StepWait, DelaySeconds: &inf, Wait: &WaitStep{}}, ErrInvalidArgument},
		{"nan wait", Step{Action: StepWait, Wait: &WaitStep{Seconds: nan}}, ErrInvalidArgument},
		{"infinite wait", Step{Action: StepWait, Wait: &WaitStep{Seconds: inf}}, ErrInvalidArgument},
		{"click nan interval", Step{Action: StepClick, Click: &ClickStep{Button: ButtonLeft, Clicks: 2, IntervalSeconds: &nan}}, ErrInvalidArgument},
		{"type infinite interval", Step{Action: StepType, Type: &TypeStep{IntervalSeconds: &inf}}, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.step.Validate("s")
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAnchor_Validate(t *testing.T) {
	a := Anchor{Image: "a.png", ClickInImage: Point{X: 0, Y: 49}, CaptureRect: &Rect{W: 50, H: 50}}
	assert.NoError(t, a.Validate("anchor"))

	a.ClickInImage.Y = 50
	assert.ErrorIs(t, a.Validate("anchor"), ErrInvalidArgument)

	a.CaptureRect = nil
	assert.NoError(t, a.Validate("anchor"), "capture_rect is informational")

	a.Image = ""
	assert.ErrorIs(t, a.Validate("anchor"), ErrInvalidArgument)
}

func TestPoint_Arithmetic(t *testing.T) {
	p := Point{X: 105, Y: 207}
	assert.Equal(t, Point{X: 108, Y: 205}, p.Add(Point{X: 3, Y: -2}))
	assert.Equal(t, Point{X: 3, Y: -2}, Point{X: 108, Y: 205}.Sub(p))
}
