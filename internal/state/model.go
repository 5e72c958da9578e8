package state

import (
	"encoding/json"
	"math"
	"slices"

	"github.com/google/uuid"

	"LocalSlides/internal/chart"
	"LocalSlides/internal/geometry"
	"LocalSlides/internal/markup"
)

// NewID returns an opaque unique identifier for slides, elements and annotations
func NewID() string {
	return uuid.NewString()
}

// ElementKind is the wire tag of a placed element
type ElementKind string

const (
	KindShape ElementKind = "element"
	KindChart ElementKind = "chart"
)

// Body is the variant part of a placed element, either Shape or Chart
type Body interface {
	Kind() ElementKind
	clone() Body
}

// Shape is an opaque vector fragment. Only the fill of its first shape node is ever rewritten.
type Shape struct {
	Markup string
}

func (Shape) Kind() ElementKind { return KindShape }
func (s Shape) clone() Body     { return s }

// Chart is passed through to the chart renderer as is
type Chart struct {
	Config     json.RawMessage
	CenterText string
}

func (Chart) Kind() ElementKind { return KindChart }

func (c Chart) clone() Body {
	c.Config = slices.Clone(c.Config)
	return c
}

// HasCenterOverlay reports whether CenterText is drawn over the chart center
func (c Chart) HasCenterOverlay() bool {
	if c.CenterText == "" {
		return false
	}
	_, ok := chart.FirstSeries(c.Config)
	return ok
}

// Element is a shape or chart placed on a slide
type Element struct {
	ID       string
	Name     string
	Position geometry.Point // top-left before rotation and scale
	Rotation float64        // degrees, unbounded
	Scale    float64        // magnification about the center, > 0
	Body     Body
}

// Size is the untransformed size of the element
func (e Element) Size() geometry.Size {
	switch b := e.Body.(type) {
	case Shape:
		return markup.Size(b.Markup)
	case Chart:
		return chart.Dimensions(b.Config)
	default:
		return markup.DefaultSize
	}
}

// Transform maps element-local coordinates to canvas space
func (e Element) Transform() geometry.Matrix {
	return geometry.ElementTransform(e.Position, e.Size(), e.Rotation, e.Scale)
}

func (e Element) Center() geometry.Point {
	return geometry.ElementCenter(e.Position, e.Size())
}

// Corners returns the transformed outline, clockwise from the top-left
func (e Element) Corners() [4]geometry.Point {
	m, s := e.Transform(), e.Size()
	return [4]geometry.Point{
		m.Apply(geometry.Pt(0, 0)),
		m.Apply(geometry.Pt(s.W, 0)),
		m.Apply(geometry.Pt(s.W, s.H)),
		m.Apply(geometry.Pt(0, s.H)),
	}
}

func (e Element) Clone() Element {
	if e.Body != nil {
		e.Body = e.Body.clone()
	}
	return e
}

// AnnotationKind is the wire tag of an annotation
type AnnotationKind string

const (
	KindPath AnnotationKind = "line"
	KindText AnnotationKind = "text"
)

// AnnotationBody is either Path or Text
type AnnotationBody interface {
	Kind() AnnotationKind
	clone() AnnotationBody
}

// Path is a freehand line. Points never change once committed.
type Path struct {
	Points []geometry.Point
}

func (Path) Kind() AnnotationKind { return KindPath }

func (p Path) clone() AnnotationBody {
	p.Points = slices.Clone(p.Points)
	return p
}

// Text is a free text box anchored at its top-left, scaled from there
type Text struct {
	Position   geometry.Point
	Text       string
	FontSize   float64
	FontFamily string
	TextAlign  string
	Scale      float64
}

func (Text) Kind() AnnotationKind { return KindText }
func (t Text) clone() AnnotationBody {
	return t
}

const (
	minTextWidth  = 100
	minTextHeight = 24
)

// Bounds estimates the box the text occupies on the canvas
func (t Text) Bounds() geometry.Rect {
	lines, longest := 1, 0
	n := 0
	for _, r := range t.Text {
		if r == '\n' {
			lines++
			n = 0
			continue
		}
		n++
		longest = max(longest, n)
	}

	w := math.Max(minTextWidth, float64(longest)*t.FontSize*0.6)
	h := math.Max(minTextHeight, float64(lines)*t.FontSize*1.4)
	scale := t.Scale
	if scale <= 0 {
		scale = 1
	}
	return geometry.RectFromSize(t.Position, geometry.Size{W: w, H: h}.Scale(scale))
}

// Annotation is a freehand path or a text box drawn over the elements
type Annotation struct {
	ID    string
	Color string
	Body  AnnotationBody
}

func (a Annotation) Clone() Annotation {
	if a.Body != nil {
		a.Body = a.Body.clone()
	}
	return a
}

// Path returns the body as a path
func (a Annotation) Path() (Path, bool) {
	p, ok := a.Body.(Path)
	return p, ok
}

// Text returns the body as a text box
func (a Annotation) Text() (Text, bool) {
	t, ok := a.Body.(Text)
	return t, ok
}

// Content is the undoable part of a slide
type Content struct {
	Elements    []Element
	Annotations []Annotation
}

// Clone deep copies the content so a history snapshot never aliases live state
func (c Content) Clone() Content {
	var out Content
	if c.Elements != nil {
		out.Elements = make([]Element, len(c.Elements))
		for i, e := range c.Elements {
			out.Elements[i] = e.Clone()
		}
	}
	if c.Annotations != nil {
		out.Annotations = make([]Annotation, len(c.Annotations))
		for i, a := range c.Annotations {
			out.Annotations[i] = a.Clone()
		}
	}
	return out
}
