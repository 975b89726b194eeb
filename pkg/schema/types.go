package schema

import (
	"encoding/json"
	"fmt"
	"math"
)

// Type defines the contract for field validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *StringType) Coerce(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", value)
	}
	return s, nil
}

// IntType validates integer values, including whole floats from JSON.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *IntType) Coerce(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return fitInt64(v)
	case uint:
		return fitUint64(uint64(v))
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return fitUint64(uint64(v))
	case uint64:
		return fitUint64(v)
	case float32:
		return wholeFloat(float64(v))
	case float64:
		return wholeFloat(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return fitInt64(i)
		}
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("expected int, got %q", v.String())
		}
		return wholeFloat(f)
	default:
		return 0, fmt.Errorf("expected int, got %T", value)
	}
}

func wholeFloat(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("expected int, got float (not a whole number)")
	}
	// -MinInt is a power of two, so it is exact as a float64; MaxInt is not.
	if f < float64(math.MinInt) || f >= -float64(math.MinInt) {
		return 0, fmt.Errorf("expected int, got %g (out of range)", f)
	}
	return int(f), nil
}

func fitInt64(v int64) (int, error) {
	if v < math.MinInt || v > math.MaxInt {
		return 0, fmt.Errorf("expected int, got %d (out of range)", v)
	}
	return int(v), nil
}

func fitUint64(v uint64) (int, error) {
	if v > math.MaxInt {
		return 0, fmt.Errorf("expected int, got %d (out of range)", v)
	}
	return int(v), nil
}

// FloatType validates numeric values. Integers are widened.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *FloatType) Coerce(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("expected float, got %q", v.String())
		}
		return f, nil
	case bool, string, nil:
		return 0, fmt.Errorf("expected float, got %T", value)
	}
	i, err := Int().Coerce(value)
	if err != nil {
		return 0, fmt.Errorf("expected float, got %T", value)
	}
	return float64(i), nil
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

func (t *BoolType) Coerce(value any) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("expected bool, got %T", value)
	}
	return b, nil
}

// MapType validates string-keyed mappings.
type MapType struct{}

func (t *MapType) Name() string { return "mapping" }

func (t *MapType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

// Coerce normalizes map[any]any (yaml.v2 style) into map[string]any.
func (t *MapType) Coerce(value any) (map[string]any, error) {
	switch v := value.(type) {
	case map[string]any:
		return v, nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("expected string keys, got %T", k)
			}
			out[ks] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected mapping, got %T", value)
	}
}

// ListType validates sequences whose elements all satisfy elemType.
type ListType struct {
	elemType Type
}

func (t *ListType) Name() string {
	if t.elemType == nil {
		return "list"
	}
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *ListType) Validate(value any) error {
	_, err := t.Coerce(value)
	return err
}

// Coerce returns the elements; the error of the first bad element names its index.
func (t *ListType) Coerce(value any) ([]any, error) {
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case []string:
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	default:
		return nil, fmt.Errorf("expected list, got %T", value)
	}
	if t.elemType != nil {
		for i, item := range items {
			if err := t.elemType.Validate(item); err != nil {
				return nil, &ElementError{Index: i, Err: err}
			}
		}
	}
	return items, nil
}

// ElementError locates a failing list element.
type ElementError struct {
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Err)
}

func (e *ElementError) Unwrap() error { return e.Err }

// --- Factory Functions ---

// String creates a string type validator.
func String() *StringType { return &StringType{} }

// Int creates an integer type validator.
func Int() *IntType { return &IntType{} }

// Float creates a float type validator.
func Float() *FloatType { return &FloatType{} }

// Bool creates a boolean type validator.
func Bool() *BoolType { return &BoolType{} }

// Map creates a mapping type validator.
func Map() *MapType { return &MapType{} }

// List creates a list validator; elemType may be nil to accept any elements.
func List(elemType Type) *ListType {
	return &ListType{elemType: elemType}
}
