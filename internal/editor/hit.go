package editor

import (
	"LocalSlides/internal/geometry"
	"LocalSlides/internal/state"
)

// HitKind is what lies under a canvas point
type HitKind int

const (
	HitBackground HitKind = iota
	HitElement
	HitRotateHandle
	HitScaleHandle
	HitText
)

type Hit struct {
	Kind HitKind
	ID   string
}

// Handles returns the element-space centers of the rotate and scale handles
func (e *Editor) Handles(el state.Element) (rotate, scale geometry.Point) {
	size := el.Size()
	return geometry.Pt(size.W/2, -e.opts.HandleOffset), geometry.Pt(size.W/2, size.H+e.opts.HandleOffset)
}

// HandleCenters returns the canvas-space centers of the rotate and scale
// handles. Handles are HandleRadius across in canvas space whatever the
// element's scale.
func (e *Editor) HandleCenters(el state.Element) (rotate, scale geometry.Point) {
	m := el.Transform()
	rotate, scale = e.Handles(el)
	return m.Apply(rotate), m.Apply(scale)
}

// HitTest finds the topmost target at canvas point p: handles of the
// selected element, then text annotations, then element bodies.
func (e *Editor) HitTest(p geometry.Point) Hit {
	s := e.slides.Active()

	if el, ok := s.SelectedElement(); ok {
		rotate, scale := e.HandleCenters(el)
		switch {
		case p.Within(rotate, e.opts.HandleRadius):
			return Hit{Kind: HitRotateHandle, ID: el.ID}
		case p.Within(scale, e.opts.HandleRadius):
			return Hit{Kind: HitScaleHandle, ID: el.ID}
		}
	}

	annotations := s.Annotations()
	for i := len(annotations) - 1; i >= 0; i-- {
		if t, ok := annotations[i].Text(); ok && t.Bounds().Contains(p) {
			return Hit{Kind: HitText, ID: annotations[i].ID}
		}
	}

	elements := s.Elements()
	for i := len(elements) - 1; i >= 0; i-- {
		el := elements[i]
		local := el.Transform().Invert().Apply(p)
		if geometry.RectFromSize(geometry.Point{}, el.Size()).Contains(local) {
			return Hit{Kind: HitElement, ID: el.ID}
		}
	}
	return Hit{Kind: HitBackground}
}
