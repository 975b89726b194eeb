package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a SpecError.
type ErrorKind string

const (
	KindMissingField        ErrorKind = "missing_field"
	KindTypeMismatch        ErrorKind = "type_mismatch"
	KindInvalidArgument     ErrorKind = "invalid_argument"
	KindUnsupportedVersion  ErrorKind = "unsupported_version"
	KindFlowNotFound        ErrorKind = "flow_not_found"
	KindMissingAnchor       ErrorKind = "missing_anchor"
	KindUnsupportedAction   ErrorKind = "unsupported_action"
	KindAnchorImageNotFound ErrorKind = "anchor_image_not_found"
)

// Sentinels matched by errors.Is against any *SpecError of the same kind.
var (
	ErrMissingField        = errors.New("missing field")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrUnsupportedVersion  = errors.New("unsupported version")
	ErrFlowNotFound        = errors.New("flow not found")
	ErrMissingAnchor       = errors.New("missing anchor")
	ErrUnsupportedAction   = errors.New("unsupported action")
	ErrAnchorImageNotFound = errors.New("anchor image not found")
)

// ErrPlanNotFound is returned by plan stores for unknown plan ids.
var ErrPlanNotFound = errors.New("plan not found")

var kindSentinels = map[ErrorKind]error{
	KindMissingField:        ErrMissingField,
	KindTypeMismatch:        ErrTypeMismatch,
	KindInvalidArgument:     ErrInvalidArgument,
	KindUnsupportedVersion:  ErrUnsupportedVersion,
	KindFlowNotFound:        ErrFlowNotFound,
	KindMissingAnchor:       ErrMissingAnchor,
	KindUnsupportedAction:   ErrUnsupportedAction,
	KindAnchorImageNotFound: ErrAnchorImageNotFound,
}

// SpecError reports a defect in an automation document or in a value derived from it.
// Path locates the offending field, e.g. "flow[login].anchor.click_in_image.x".
type SpecError struct {
	Kind   ErrorKind
	Path   string
	Reason string
	Value  any
}

func (e *SpecError) Error() string {
	msg := string(e.Kind)
	if e.Path != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.Path)
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.Value != nil {
		msg = fmt.Sprintf("%s (got %T %v)", msg, e.Value, e.Value)
	}
	return msg
}

// Unwrap exposes the kind sentinel so errors.Is(err, ErrMissingAnchor) works.
func (e *SpecError) Unwrap() error {
	return kindSentinels[e.Kind]
}

// Missing returns a missing_field error for path.
func Missing(path string) *SpecError {
	return &SpecError{Kind: KindMissingField, Path: path, Reason: "required"}
}

// Mismatch returns a type_mismatch error for path.
func Mismatch(path, want string, got any) *SpecError {
	return &SpecError{Kind: KindTypeMismatch, Path: path, Reason: "expected " + want, Value: got}
}

// Invalid returns an invalid_argument error for path.
func Invalid(path, reason string, got any) *SpecError {
	return &SpecError{Kind: KindInvalidArgument, Path: path, Reason: reason, Value: got}
}

// FlowNotFound returns a flow_not_found error for the given flow id.
func FlowNotFound(id string) *SpecError {
	return &SpecError{Kind: KindFlowNotFound, Path: FlowPath(id), Reason: fmt.Sprintf("no flow with id %q", id)}
}

// AsSpecError extracts a *SpecError from err, if any.
func AsSpecError(err error) (*SpecError, bool) {
	var se *SpecError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// FlowPath formats the diagnostic path prefix of a flow.
func FlowPath(id string) string {
	return fmt.Sprintf("flow[%s]", id)
}

// StepPath formats the diagnostic path of the 1-based step index inside a flow.
func StepPath(flowID string, index int) string {
	return fmt.Sprintf("%s.step[%d]", FlowPath(flowID), index)
}
