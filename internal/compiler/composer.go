package compiler

import (
	"github.com/aretw0/clickflow/pkg/domain"
)

// ComposeOption configures Compose.
type ComposeOption func(*composeConfig)

type composeConfig struct {
	useConfidence bool
}

// WithoutConfidence emits plans whose anchor search runs without a confidence threshold,
// for executors that lack a fuzzy matcher.
func WithoutConfidence() ComposeOption {
	return func(c *composeConfig) {
		c.useConfidence = false
	}
}

// Compose compiles the given flows, in the given order, into one Plan.
//
// It fails fast on the first id that is not in the document, before compiling anything.
// Flows with show_desktop get a reveal_desktop preamble; the toggle is per flow and never
// inherited from global config. The screen precondition comes from the editor metadata.
func Compose(doc *domain.Document, flowIDs []string, opts ...ComposeOption) (*domain.Plan, error) {
	cfg := composeConfig{useConfidence: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if doc == nil {
		return nil, domain.Invalid("document", "must not be nil", nil)
	}
	if len(flowIDs) == 0 {
		return nil, domain.Invalid("flow_ids", "at least one flow id is required", nil)
	}

	flows := make([]*domain.Flow, 0, len(flowIDs))
	for _, id := range flowIDs {
		flow, err := Find(doc, id)
		if err != nil {
			return nil, err
		}
		flows = append(flows, flow)
	}

	plan := &domain.Plan{
		Version:        doc.Version,
		Grayscale:      doc.Global.Grayscale,
		ExpectedScreen: doc.Global.ExpectedScreen(),
		Flows:          make([]domain.CompiledFlow, 0, len(flows)),
	}
	if cfg.useConfidence {
		conf := doc.Global.Confidence
		if !(conf > 0 && conf <= 1) {
			return nil, domain.Invalid("global.confidence", "must be in (0, 1]", conf)
		}
		plan.Confidence = &conf
	}

	for _, flow := range flows {
		actions, err := Compile(flow, doc.Global, doc.Meta.DefaultDelaySeconds)
		if err != nil {
			return nil, err
		}
		if flow.ShowDesktop {
			actions = append([]domain.Action{domain.RevealDesktop()}, actions...)
		}
		plan.Flows = append(plan.Flows, domain.CompiledFlow{
			FlowID:  flow.ID,
			Title:   flow.Title,
			Anchor:  *flow.Anchor,
			Actions: actions,
		})
	}
	return plan, nil
}
