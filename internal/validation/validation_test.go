package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTest = errors.New("invalid thing")

type thing struct {
	Kind  string  `json:"kind" validate:"required,oneof=a b"`
	Scale float64 `json:"scale" validate:"gt=0"`
	Color string  `yaml:"color" validate:"color"`
}

func TestStruct(t *testing.T) {
	v := New(errTest)
	v.Struct("things[0]", thing{Kind: "c", Scale: 0, Color: `"`})

	require.True(t, v.HasErrors())
	assert.Equal(t, []FieldError{
		{Field: "things[0].kind", Message: "must be one of: a b"},
		{Field: "things[0].scale", Message: "must be greater than 0"},
		{Field: "things[0].color", Message: "must be a colour"},
	}, v.Fields)

	err := v.Err()
	assert.ErrorIs(t, err, errTest)
	assert.Contains(t, err.Error(), "invalid thing: things[0].kind must be one of: a b")
}

func TestStructValid(t *testing.T) {
	v := New(errTest)
	v.Struct("", thing{Kind: "a", Scale: 1, Color: "#fff"})
	assert.False(t, v.HasErrors())
	assert.NoError(t, v.Err())
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("#FF0000", "required,color"))
	assert.Error(t, Var("<b>", "required,color"))
}
