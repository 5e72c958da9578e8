package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSlides/internal/geometry"
)

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"shape", `{"type":"element","name":"Blue Rectangle","svg":"<svg/>","x":50,"y":50,"magn":1,"rotation":0}`, false},
		{"chart", `{"type":"chart","name":"Line","config":{"chart":{"type":"line"}}}`, false},
		{"missing type", `{"name":"x","svg":"<svg/>"}`, true},
		{"missing name", `{"type":"element","svg":"<svg/>"}`, true},
		{"unknown type", `{"type":"video","name":"x"}`, true},
		{"shape without markup", `{"type":"element","name":"x"}`, true},
		{"chart without config", `{"type":"chart","name":"x"}`, true},
		{"chart with array config", `{"type":"chart","name":"x","config":[1]}`, true},
		{"not json", `text/plain`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDescriptor([]byte(tt.payload))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDescriptor)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewElementIgnoresPayloadGeometry(t *testing.T) {
	d, err := ParseDescriptor([]byte(`{"type":"chart","name":"Doughnut","x":500,"y":200,"magn":3,"rotation":90,
		"config":{"chart":{"type":"pie","width":300,"height":300},"series":[{"data":[{"y":1}]}]},"centerText":"My Text"}`))
	require.NoError(t, err)

	e := NewElement(d, geometry.Pt(1, 2))
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, geometry.Pt(1, 2), e.Position)
	assert.Equal(t, 0.0, e.Rotation)
	assert.Equal(t, 1.0, e.Scale)
	assert.Equal(t, geometry.Size{W: 300, H: 300}, e.Size())

	c, ok := e.Body.(Chart)
	require.True(t, ok)
	assert.Equal(t, "My Text", c.CenterText)
	assert.True(t, c.HasCenterOverlay())
	assert.JSONEq(t, string(d.Config), string(c.Config))
	_ = json.Valid(c.Config)
}
