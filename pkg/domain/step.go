package domain

import (
	"fmt"
	"math"
)

// StepKind is the action tag of a Step.
type StepKind string

const (
	StepClick  StepKind = "click"
	StepType   StepKind = "type"
	StepHotkey StepKind = "hotkey"
	StepWait   StepKind = "wait"
)

// Valid reports whether k is one of the four supported actions.
func (k StepKind) Valid() bool {
	switch k {
	case StepClick, StepType, StepHotkey, StepWait:
		return true
	}
	return false
}

// Button is a mouse button name.
type Button string

const (
	ButtonLeft   Button = "left"
	ButtonRight  Button = "right"
	ButtonMiddle Button = "middle"
)

func (b Button) Valid() bool {
	return b == ButtonLeft || b == ButtonRight || b == ButtonMiddle
}

// Step is a tagged union: Action selects which payload pointer is set.
type Step struct {
	Action StepKind `json:"action" yaml:"action"`

	// DelaySeconds overrides the document default post-action delay when set.
	DelaySeconds *float64 `json:"delay_s,omitempty" yaml:"delay_s,omitempty"`

	Click  *ClickStep  `json:"click,omitempty" yaml:"click,omitempty"`
	Type   *TypeStep   `json:"type,omitempty" yaml:"type,omitempty"`
	Hotkey *HotkeyStep `json:"hotkey,omitempty" yaml:"hotkey,omitempty"`
	Wait   *WaitStep   `json:"wait,omitempty" yaml:"wait,omitempty"`

	// Preview is the relative path of the thumbnail the recorder stored; informational only.
	Preview string `json:"preview,omitempty" yaml:"preview,omitempty"`
}

type ClickStep struct {
	Offset Point  `json:"offset" yaml:"offset"`
	Button Button `json:"button" yaml:"button"`
	Clicks int    `json:"clicks" yaml:"clicks"`
	// IntervalSeconds is the pause between the presses of a double click.
	IntervalSeconds *float64 `json:"interval_s,omitempty" yaml:"interval_s,omitempty"`
}

type TypeStep struct {
	Text            string   `json:"text" yaml:"text"`
	IntervalSeconds *float64 `json:"interval_s,omitempty" yaml:"interval_s,omitempty"`
}

type HotkeyStep struct {
	Keys []string `json:"keys" yaml:"keys"`
}

type WaitStep struct {
	Seconds float64 `json:"seconds" yaml:"seconds"`
}

// Validate checks the tag, the presence of the matching payload and every value range.
// The parser and the compiler both call it so the two can never disagree.
func (s *Step) Validate(path string) error {
	if s.Action == "" {
		return &SpecError{Kind: KindUnsupportedAction, Path: path + ".action", Reason: "action is missing"}
	}
	if !s.Action.Valid() {
		return &SpecError{
			Kind:   KindUnsupportedAction,
			Path:   path + ".action",
			Reason: "must be one of click, type, hotkey, wait",
			Value:  string(s.Action),
		}
	}
	if s.DelaySeconds != nil {
		if err := NonNegative(path+".delay_s", *s.DelaySeconds); err != nil {
			return err
		}
	}

	switch s.Action {
	case StepClick:
		if s.Click == nil {
			return Missing(path + ".offset")
		}
		if !s.Click.Button.Valid() {
			return Invalid(path+".button", "must be left, right or middle", string(s.Click.Button))
		}
		if s.Click.Clicks != 1 && s.Click.Clicks != 2 {
			return Invalid(path+".clicks", "only 1 or 2 supported", s.Click.Clicks)
		}
		if s.Click.IntervalSeconds != nil {
			return NonNegative(path+".interval_s", *s.Click.IntervalSeconds)
		}
	case StepType:
		if s.Type == nil {
			return Missing(path + ".text")
		}
		if s.Type.IntervalSeconds != nil {
			return NonNegative(path+".interval_s", *s.Type.IntervalSeconds)
		}
	case StepHotkey:
		if s.Hotkey == nil {
			return Missing(path + ".keys")
		}
		if len(s.Hotkey.Keys) == 0 {
			return Invalid(path+".keys", "must not be empty", nil)
		}
		for i, k := range s.Hotkey.Keys {
			if k == "" {
				return Invalid(fmt.Sprintf("%s.keys[%d]", path, i), "key name must not be empty", nil)
			}
		}
	case StepWait:
		if s.Wait == nil {
			return Missing(path + ".seconds")
		}
		return NonNegative(path+".seconds", s.Wait.Seconds)
	}
	return nil
}

// NonNegative rejects negative and non-finite durations in seconds.
func NonNegative(path string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Invalid(path, "must be a finite number", v)
	}
	if v < 0 {
		return Invalid(path, "must be >= 0", v)
	}
	return nil
}
