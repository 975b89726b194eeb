package domain

// ActionKind names a primitive executor instruction.
type ActionKind string

const (
	ActionClick  ActionKind = "click"
	ActionType   ActionKind = "type"
	ActionHotkey ActionKind = "hotkey"
	ActionWait   ActionKind = "wait"

	// ActionRevealDesktop is synthesized by the composer for flows with show_desktop.
	// Executors send the hotkey chord in Keys and then wait PostDelaySeconds.
	ActionRevealDesktop ActionKind = "reveal_desktop"
)

// Action is one compiled instruction. Only the fields of its Kind are populated.
//
// Click actions are not resolved to screen coordinates at compile time: Offset is relative to the
// anchor's reference point and Relative is always true. The executor locates the anchor at run time
// and resolves the absolute point, because the target UI may have moved since recording.
type Action struct {
	Kind ActionKind `json:"kind" yaml:"kind"`

	// click
	Offset               *Point  `json:"offset,omitempty" yaml:"offset,omitempty"`
	Relative             bool    `json:"relative,omitempty" yaml:"relative,omitempty"`
	Button               Button  `json:"button,omitempty" yaml:"button,omitempty"`
	Clicks               int     `json:"clicks,omitempty" yaml:"clicks,omitempty"`
	ClickIntervalSeconds float64 `json:"click_interval_s,omitempty" yaml:"click_interval_s,omitempty"`

	// type
	Text            string  `json:"text,omitempty" yaml:"text,omitempty"`
	IntervalSeconds float64 `json:"interval_s,omitempty" yaml:"interval_s,omitempty"`

	// hotkey, reveal_desktop
	Keys []string `json:"keys,omitempty" yaml:"keys,omitempty"`

	// wait
	Seconds float64 `json:"seconds,omitempty" yaml:"seconds,omitempty"`

	PostDelaySeconds float64 `json:"post_delay_s" yaml:"post_delay_s"`
}

// RevealDesktop builds the synthetic preamble action.
func RevealDesktop() Action {
	return Action{
		Kind:             ActionRevealDesktop,
		Keys:             append([]string(nil), RevealDesktopKeys...),
		PostDelaySeconds: RevealDesktopDelaySeconds,
	}
}
