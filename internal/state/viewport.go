package state

import "LocalSlides/internal/geometry"

// Tool is the active canvas tool
type Tool string

const (
	ToolNone   Tool = "none"
	ToolPan    Tool = "pan"
	ToolLine   Tool = "line"
	ToolText   Tool = "text"
	ToolEraser Tool = "eraser"
)

// Drawing reports whether the tool routes input to the drawing engine
func (t Tool) Drawing() bool {
	return t == ToolLine || t == ToolText || t == ToolEraser
}

// Viewport is the per session view onto the active slide. Pan is the client
// position of the canvas origin.
type Viewport struct {
	Zoom      float64
	Pan       geometry.Point
	BaseScale float64
	Tool      Tool
	Color     string
}

func NewViewport(baseScale float64, color string) *Viewport {
	if baseScale <= 0 {
		baseScale = 1
	}
	return &Viewport{
		Zoom:      1,
		BaseScale: baseScale,
		Tool:      ToolNone,
		Color:     color,
	}
}

// Scale is the total canvas to client scale
func (v *Viewport) Scale() float64 {
	return v.BaseScale * v.Zoom
}

func (v *Viewport) CanvasPoint(client geometry.Point) geometry.Point {
	return geometry.ToCanvasPoint(client, v.Pan, v.Zoom, v.BaseScale)
}

func (v *Viewport) ClientPoint(canvas geometry.Point) geometry.Point {
	return geometry.ToClientPoint(canvas, v.Pan, v.Zoom, v.BaseScale)
}

// ZoomBy multiplies the zoom. Zoom is unbounded but stays positive.
func (v *Viewport) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	v.Zoom *= factor
}

func (v *Viewport) PanBy(delta geometry.Point) {
	v.Pan = v.Pan.Add(delta)
}

// Reset returns to zoom 1 with no pan
func (v *Viewport) Reset() {
	v.Zoom = 1
	v.Pan = geometry.Point{}
}

// CenterOn pans so a slide of the given size sits in the middle of the view
func (v *Viewport) CenterOn(view, slide geometry.Size) {
	s := slide.Scale(v.Scale())
	v.Pan = geometry.Pt((view.W-s.W)/2, (view.H-s.H)/2)
}
