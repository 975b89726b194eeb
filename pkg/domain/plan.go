package domain

// CompiledFlow is the action sequence of one flow together with the anchor the executor must locate.
type CompiledFlow struct {
	FlowID  string   `json:"flow_id" yaml:"flow_id"`
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Anchor  Anchor   `json:"anchor" yaml:"anchor"`
	Actions []Action `json:"actions" yaml:"actions"`
}

// Plan is the composer output: ordered compiled flows plus run-time preconditions.
type Plan struct {
	Version int `json:"version" yaml:"version"`

	// Confidence is nil when image search should run without a confidence threshold.
	Confidence *float64 `json:"confidence" yaml:"confidence"`
	Grayscale  bool     `json:"grayscale" yaml:"grayscale"`

	// ExpectedScreen, when set, must equal the current screen size before any action runs.
	ExpectedScreen *ScreenSize `json:"expected_screen,omitempty" yaml:"expected_screen,omitempty"`

	Flows []CompiledFlow `json:"flows" yaml:"flows"`

	// Sealed carries an encrypted plan at rest; every other field is empty when it is set.
	Sealed string `json:"sealed,omitempty" yaml:"sealed,omitempty"`
}

// FlowIDs lists the compiled flow ids in execution order.
func (p *Plan) FlowIDs() []string {
	ids := make([]string, 0, len(p.Flows))
	for _, f := range p.Flows {
		ids = append(ids, f.FlowID)
	}
	return ids
}

// ActionCount is the total number of actions across all flows.
func (p *Plan) ActionCount() int {
	n := 0
	for _, f := range p.Flows {
		n += len(f.Actions)
	}
	return n
}

// Preamble splits the leading reveal_desktop actions, which run before the anchor is located,
// from the body that needs the anchor point.
func (f CompiledFlow) Preamble() (pre, body []Action) {
	i := 0
	for i < len(f.Actions) && f.Actions[i].Kind == ActionRevealDesktop {
		i++
	}
	return f.Actions[:i], f.Actions[i:]
}
