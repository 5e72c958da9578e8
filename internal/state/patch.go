package state

import "LocalSlides/internal/geometry"

// ElementPatch holds the fields to merge into an element, nil fields are kept
type ElementPatch struct {
	Name       *string
	Position   *geometry.Point
	Rotation   *float64
	Scale      *float64
	Markup     *string
	CenterText *string
}

func (p ElementPatch) apply(e Element) Element {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Position != nil {
		e.Position = *p.Position
	}
	if p.Rotation != nil {
		e.Rotation = *p.Rotation
	}
	if p.Scale != nil && *p.Scale > 0 {
		e.Scale = *p.Scale
	}

	switch b := e.Body.(type) {
	case Shape:
		if p.Markup != nil {
			b.Markup = *p.Markup
		}
		e.Body = b
	case Chart:
		if p.CenterText != nil {
			b.CenterText = *p.CenterText
		}
		e.Body = b
	}
	return e
}

// AnnotationPatch holds the fields to merge into an annotation. Text fields
// are ignored for paths.
type AnnotationPatch struct {
	Color      *string
	Position   *geometry.Point
	Text       *string
	FontSize   *float64
	FontFamily *string
	TextAlign  *string
	Scale      *float64
}

func (p AnnotationPatch) apply(a Annotation) Annotation {
	if p.Color != nil {
		a.Color = *p.Color
	}

	t, ok := a.Body.(Text)
	if !ok {
		return a
	}
	if p.Position != nil {
		t.Position = *p.Position
	}
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.FontSize != nil && *p.FontSize > 0 {
		t.FontSize = *p.FontSize
	}
	if p.FontFamily != nil {
		t.FontFamily = *p.FontFamily
	}
	if p.TextAlign != nil {
		t.TextAlign = *p.TextAlign
	}
	if p.Scale != nil && *p.Scale > 0 {
		t.Scale = *p.Scale
	}
	a.Body = t
	return a
}

// Ptr is a helper for building patches
func Ptr[T any](v T) *T {
	return &v
}
