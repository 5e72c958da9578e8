package document

import (
	"encoding/json"

	"LocalSlides/internal/geometry"
	"LocalSlides/internal/state"
)

// slideJSON is one slide record. Elements is a pointer so a missing or
// null list can be told apart from an empty one.
type slideJSON struct {
	ID                   string             `json:"id" validate:"required"`
	Elements             *[]json.RawMessage `json:"elements" validate:"required"`
	DrawingElements      []json.RawMessage  `json:"drawingElements"`
	SelectedElementIndex *int               `json:"selectedElementIndex"`
}

type elementJSON struct {
	ID         string            `json:"id,omitempty"`
	Type       state.ElementKind `json:"type" validate:"required,oneof=element chart"`
	Name       string            `json:"name"`
	SVG        string            `json:"svg,omitempty" validate:"required_if=Type element"`
	Config     json.RawMessage   `json:"config,omitempty" validate:"required_if=Type chart"`
	CenterText string            `json:"centerText,omitempty"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
	Magn       *float64          `json:"magn,omitempty" validate:"omitempty,gt=0"`
	Rotation   float64           `json:"rotation"`
}

type annotationJSON struct {
	ID         string               `json:"id"`
	Type       state.AnnotationKind `json:"type" validate:"required,oneof=line text"`
	Color      string               `json:"color,omitempty" validate:"omitempty,color"`
	Points     []geometry.Point     `json:"points,omitempty"`
	Text       string               `json:"text,omitempty"`
	X          float64              `json:"x,omitempty"`
	Y          float64              `json:"y,omitempty"`
	FontSize   float64              `json:"fontSize,omitempty" validate:"omitempty,gt=0"`
	FontFamily string               `json:"fontFamily,omitempty"`
	TextAlign  string               `json:"textAlign,omitempty" validate:"omitempty,oneof=left center right"`
	Magn       float64              `json:"magn,omitempty" validate:"omitempty,gt=0"`
}

// outgoing records, written with every field the editor knows about
type slideOut struct {
	ID                   string           `json:"id"`
	Elements             []elementJSON    `json:"elements"`
	DrawingElements      []annotationJSON `json:"drawingElements"`
	SelectedElementIndex *int             `json:"selectedElementIndex"`
}

func encodeSlide(s *state.Slide) slideOut {
	out := slideOut{
		ID:              s.ID,
		Elements:        make([]elementJSON, 0, len(s.Elements())),
		DrawingElements: make([]annotationJSON, 0, len(s.Annotations())),
	}
	if i, ok := s.SelectedElementIndex(); ok {
		out.SelectedElementIndex = &i
	}

	for _, e := range s.Elements() {
		scale := e.Scale
		rec := elementJSON{
			ID:       e.ID,
			Name:     e.Name,
			X:        e.Position.X,
			Y:        e.Position.Y,
			Magn:     &scale,
			Rotation: e.Rotation,
		}
		switch b := e.Body.(type) {
		case state.Shape:
			rec.Type = state.KindShape
			rec.SVG = b.Markup
		case state.Chart:
			rec.Type = state.KindChart
			rec.Config = b.Config
			rec.CenterText = b.CenterText
		}
		out.Elements = append(out.Elements, rec)
	}

	for _, a := range s.Annotations() {
		rec := annotationJSON{ID: a.ID, Color: a.Color}
		switch b := a.Body.(type) {
		case state.Path:
			rec.Type = state.KindPath
			rec.Points = b.Points
		case state.Text:
			rec.Type = state.KindText
			rec.Text = b.Text
			rec.X, rec.Y = b.Position.X, b.Position.Y
			rec.FontSize = b.FontSize
			rec.FontFamily = b.FontFamily
			rec.TextAlign = b.TextAlign
			rec.Magn = b.Scale
		}
		out.DrawingElements = append(out.DrawingElements, rec)
	}
	return out
}
