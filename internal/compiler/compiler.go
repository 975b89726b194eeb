// Package compiler turns flow documents into executor-ready action plans.
//
// The pipeline is Parse (raw mapping → typed Document), Find (flow lookup), Compile (one Flow →
// ordered actions) and Compose (several flows → Plan). Every function is pure: no I/O, no globals,
// and no partial output on error.
package compiler

import (
	"github.com/aretw0/clickflow/pkg/domain"
)

// Compile converts one flow into its ordered action list. The output has exactly one action per
// step, in step order. Click actions keep their anchor-relative offset; see domain.Action.
// Per-step compilation does not read global yet; Compose copies it into the Plan.
func Compile(flow *domain.Flow, global domain.GlobalConfig, defaultDelay float64) ([]domain.Action, error) {
	if flow == nil {
		return nil, domain.Invalid("flow", "must not be nil", nil)
	}
	// Must run before any per-step processing.
	if flow.Anchor == nil {
		return nil, &domain.SpecError{
			Kind:   domain.KindMissingAnchor,
			Path:   domain.FlowPath(flow.ID) + ".anchor",
			Reason: "flow has no anchor image; capture one before compiling",
		}
	}
	if err := flow.Anchor.Validate(domain.FlowPath(flow.ID) + ".anchor"); err != nil {
		return nil, err
	}
	if err := domain.NonNegative("meta.default_delay_s", defaultDelay); err != nil {
		return nil, err
	}

	actions := make([]domain.Action, 0, len(flow.Steps))
	for i := range flow.Steps {
		act, err := compileStep(&flow.Steps[i], domain.StepPath(flow.ID, i+1), defaultDelay)
		if err != nil {
			return nil, err
		}
		actions = append(actions, act)
	}
	return actions, nil
}

func compileStep(step *domain.Step, path string, defaultDelay float64) (domain.Action, error) {
	if err := step.Validate(path); err != nil {
		return domain.Action{}, err
	}

	post := defaultDelay
	if step.DelaySeconds != nil {
		post = *step.DelaySeconds
	}

	switch step.Action {
	case domain.StepClick:
		offset := step.Click.Offset
		interval := domain.DefaultClickIntervalSeconds
		if step.Click.IntervalSeconds != nil {
			interval = *step.Click.IntervalSeconds
		}
		return domain.Action{
			Kind:                 domain.ActionClick,
			Offset:               &offset,
			Relative:             true,
			Button:               step.Click.Button,
			Clicks:               step.Click.Clicks,
			ClickIntervalSeconds: interval,
			PostDelaySeconds:     post,
		}, nil

	case domain.StepType:
		interval := domain.DefaultTypeIntervalSeconds
		if step.Type.IntervalSeconds != nil {
			interval = *step.Type.IntervalSeconds
		}
		return domain.Action{
			Kind:             domain.ActionType,
			Text:             step.Type.Text,
			IntervalSeconds:  interval,
			PostDelaySeconds: post,
		}, nil

	case domain.StepHotkey:
		return domain.Action{
			Kind:             domain.ActionHotkey,
			Keys:             append([]string(nil), step.Hotkey.Keys...),
			PostDelaySeconds: post,
		}, nil

	case domain.StepWait:
		return domain.Action{
			Kind:             domain.ActionWait,
			Seconds:          step.Wait.Seconds,
			PostDelaySeconds: post,
		}, nil
	}

	// Validate and the switch above must list the same kinds.
	return domain.Action{}, &domain.SpecError{
		Kind:  domain.KindUnsupportedAction,
		Path:  path + ".action",
		Value: string(step.Action),
	}
}
