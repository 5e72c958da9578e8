// Package drawing builds freehand paths and text boxes and erases paths by proximity.
package drawing

import (
	"slices"

	"LocalSlides/internal/geometry"
	"LocalSlides/internal/state"
)

// Stroke is the path currently being drawn. Every move adds a point, there
// is no decimation.
type Stroke struct {
	color  string
	points []geometry.Point
}

// NewStroke starts a stroke with its first point
func NewStroke(start geometry.Point, color string) *Stroke {
	return &Stroke{color: color, points: []geometry.Point{start}}
}

func (s *Stroke) Add(p geometry.Point) {
	s.points = append(s.points, p)
}

func (s *Stroke) Len() int {
	return len(s.points)
}

func (s *Stroke) Color() string {
	return s.color
}

func (s *Stroke) Points() []geometry.Point {
	return slices.Clone(s.points)
}

// Annotation turns the stroke into a path annotation. ok is false for an
// empty stroke, which must never be committed.
func (s *Stroke) Annotation() (state.Annotation, bool) {
	if s == nil || len(s.points) == 0 {
		return state.Annotation{}, false
	}
	return state.Annotation{
		ID:    state.NewID(),
		Color: s.color,
		Body:  state.Path{Points: s.Points()},
	}, true
}

// NewText is the text box placed by the text tool
func NewText(pos geometry.Point, color string) state.Annotation {
	return state.Annotation{
		ID:    state.NewID(),
		Color: color,
		Body: state.Text{
			Position:   pos,
			Text:       state.PlaceholderText,
			FontSize:   state.DefaultFontSize,
			FontFamily: state.DefaultFont,
			TextAlign:  state.AlignLeft,
			Scale:      1,
		},
	}
}
