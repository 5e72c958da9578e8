package state

import (
	"encoding/json"
	"errors"
	"fmt"

	"LocalSlides/internal/chart"
	"LocalSlides/internal/geometry"
	"LocalSlides/internal/validation"
)

var ErrInvalidDescriptor = errors.New("invalid element descriptor")

// Descriptor is what the palette hands over when an element is dropped on
// the canvas. Position, rotation and magnification in the payload are ignored.
type Descriptor struct {
	Type       ElementKind     `json:"type" validate:"required,oneof=element chart"`
	Name       string          `json:"name" validate:"required"`
	SVG        string          `json:"svg,omitempty" validate:"required_if=Type element"`
	Config     json.RawMessage `json:"config,omitempty" validate:"required_if=Type chart"`
	CenterText string          `json:"centerText,omitempty"`
}

// ParseDescriptor decodes and validates a dropped payload
func ParseDescriptor(payload []byte) (Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(payload, &d); err != nil {
		return d, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	return d, d.Validate()
}

func (d Descriptor) Validate() error {
	v := validation.New(ErrInvalidDescriptor)
	v.Struct("", d)
	if d.Type == KindChart && len(d.Config) > 0 && !chart.IsObject(d.Config) {
		v.Add("config", "must be an object")
	}
	return v.Err()
}

func (d Descriptor) body() Body {
	switch d.Type {
	case KindChart:
		return Chart{Config: d.Config, CenterText: d.CenterText}
	default:
		return Shape{Markup: d.SVG}
	}
}

// NewElement builds an element from a descriptor at a canvas position, unrotated and unscaled
func NewElement(d Descriptor, pos geometry.Point) Element {
	return Element{
		ID:       NewID(),
		Name:     d.Name,
		Position: pos,
		Rotation: 0,
		Scale:    1,
		Body:     d.body().clone(),
	}
}
