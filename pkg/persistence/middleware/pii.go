package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/clickflow/pkg/domain"
	"github.com/aretw0/clickflow/pkg/ports"
)

// Mask replaces masked typed text.
const Mask = "***"

type maskMiddleware struct {
	next     ports.PlanStore
	patterns []*regexp.Regexp
}

// NewMaskMiddleware creates a middleware that masks the text of type actions before storage. An
// action is masked when a pattern matches its text or the id of its flow. Masked plans are for
// inspection; running them types the mask.
func NewMaskMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, domain.Invalid("mask", err.Error(), p)
		}
		patterns[i] = re
	}
	return func(next ports.PlanStore) ports.PlanStore {
		return &maskMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *maskMiddleware) Save(ctx context.Context, id string, plan *domain.Plan) error {
	// Copy the flows and actions; the caller keeps using plan.
	cloned := *plan
	cloned.Flows = make([]domain.CompiledFlow, len(plan.Flows))
	for i, f := range plan.Flows {
		f.Actions = append([]domain.Action(nil), f.Actions...)
		m.maskFlow(&f)
		cloned.Flows[i] = f
	}
	return m.next.Save(ctx, id, &cloned)
}

func (m *maskMiddleware) maskFlow(f *domain.CompiledFlow) {
	wholeFlow := m.matches(f.FlowID)
	for i := range f.Actions {
		a := &f.Actions[i]
		if a.Kind != domain.ActionType || a.Text == "" {
			continue
		}
		if wholeFlow || m.matches(a.Text) {
			a.Text = Mask
		}
	}
}

func (m *maskMiddleware) matches(s string) bool {
	for _, p := range m.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func (m *maskMiddleware) Load(ctx context.Context, id string) (*domain.Plan, error) {
	return m.next.Load(ctx, id)
}

func (m *maskMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *maskMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *maskMiddleware) Ping(ctx context.Context) error {
	return ping(ctx, m.next)
}
