// Package resolver turns anchor-relative positions into absolute screen coordinates.
//
// All functions are integer arithmetic with no clamping: keeping a point on screen is the
// executor's concern.
package resolver

import (
	"github.com/aretw0/clickflow/pkg/domain"
)

// ResolveAnchor returns the anchor's reference point given where its image was located on screen.
// Callers must check the anchor before searching the screen; a nil anchor is missing_anchor.
func ResolveAnchor(anchor *domain.Anchor, located domain.Rect) (domain.Point, error) {
	if anchor == nil {
		return domain.Point{}, &domain.SpecError{Kind: domain.KindMissingAnchor, Path: "anchor", Reason: "no anchor to resolve"}
	}
	return domain.Point{X: located.X, Y: located.Y}.Add(anchor.ClickInImage), nil
}

// ResolveStepPoint offsets the anchor reference point by a click step's offset.
func ResolveStepPoint(anchorPoint domain.Point, offset domain.Point) domain.Point {
	return anchorPoint.Add(offset)
}

// ResolveAction returns a copy of a compiled action with its click offset made absolute.
// Non-click actions and already absolute clicks are returned unchanged.
func ResolveAction(anchorPoint domain.Point, action domain.Action) domain.Action {
	if action.Kind != domain.ActionClick || !action.Relative || action.Offset == nil {
		return action
	}
	abs := ResolveStepPoint(anchorPoint, *action.Offset)
	action.Offset = &abs
	action.Relative = false
	return action
}

// ResolveActions applies ResolveAction to every action, returning a new slice.
func ResolveActions(anchorPoint domain.Point, actions []domain.Action) []domain.Action {
	out := make([]domain.Action, len(actions))
	for i, a := range actions {
		out[i] = ResolveAction(anchorPoint, a)
	}
	return out
}
