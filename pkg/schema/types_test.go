package schema

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntType(t *testing.T) {
	typ := Int()
	assert.Equal(t, "int", typ.Name())

	tests := []struct {
		value   any
		want    int
		wantErr bool
	}{
		{42, 42, false},
		{int8(-3), -3, false},
		{int64(42), 42, false},
		{uint16(7), 7, false},
		{float64(42), 42, false}, // whole number from JSON
		{json.Number("12"), 12, false},
		{float64(42.5), 0, true}, // not whole
		{float64(1e20), 0, true},
		{float64(-1e20), 0, true},
		{uint64(math.MaxUint64), 0, true},
		{uint(math.MaxInt), math.MaxInt, false},
		{json.Number("99999999999999999999"), 0, true},
		{math.NaN(), 0, true},
		{math.Inf(1), 0, true},
		{"42", 0, true},
		{true, 0, true},
		{nil, 0, true},
	}

	for _, tt := range tests {
		got, err := typ.Coerce(tt.value)
		if tt.wantErr {
			assert.Error(t, err, "Coerce(%v)", tt.value)
			continue
		}
		require.NoError(t, err, "Coerce(%v)", tt.value)
		assert.Equal(t, tt.want, got)
	}
}

func TestFloatType(t *testing.T) {
	typ := Float()
	assert.Equal(t, "float", typ.Name())

	tests := []struct {
		value   any
		want    float64
		wantErr bool
	}{
		{3.25, 3.25, false},
		{float32(0.5), 0.5, false},
		{2, 2, false},
		{int64(9), 9, false},
		{json.Number("1.5"), 1.5, false},
		{"3.14", 0, true},
		{true, 0, true},
		{nil, 0, true},
	}

	for _, tt := range tests {
		got, err := typ.Coerce(tt.value)
		if tt.wantErr {
			assert.Error(t, err, "Coerce(%v)", tt.value)
			continue
		}
		require.NoError(t, err, "Coerce(%v)", tt.value)
		assert.InDelta(t, tt.want, got, 1e-9)
	}
}

func TestStringAndBoolTypes(t *testing.T) {
	assert.NoError(t, String().Validate(""))
	assert.Error(t, String().Validate(1))
	assert.NoError(t, Bool().Validate(false))
	assert.Error(t, Bool().Validate("true"))
	assert.Error(t, Bool().Validate(1))
}

func TestMapType(t *testing.T) {
	m, err := Map().Coerce(map[any]any{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1}, m)

	_, err = Map().Coerce(map[any]any{1: "x"})
	assert.Error(t, err)

	_, err = Map().Coerce([]any{})
	assert.Error(t, err)
}

func TestListType(t *testing.T) {
	strings := List(String())
	assert.Equal(t, "[string]", strings.Name())
	assert.Equal(t, "list", List(nil).Name())

	items, err := strings.Coerce([]any{"ctrl", "s"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = strings.Coerce([]string{"a"})
	assert.NoError(t, err)

	_, err = strings.Coerce([]any{"ctrl", 5})
	var elemErr *ElementError
	require.True(t, errors.As(err, &elemErr))
	assert.Equal(t, 1, elemErr.Index)

	_, err = strings.Coerce("ctrl+s")
	assert.Error(t, err)
}
