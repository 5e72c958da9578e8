// Package gesture turns a pointer-down…pointer-up sequence into exactly one
// drag, rotate, scale or pan interaction.
package gesture

import "LocalSlides/internal/geometry"

// Kind is the state of the machine
type Kind int

const (
	Idle Kind = iota
	DraggingElement
	RotatingElement
	ScalingElement
	PanningViewport
	DraggingAnnotation
)

func (k Kind) String() string {
	switch k {
	case DraggingElement:
		return "dragging element"
	case RotatingElement:
		return "rotating element"
	case ScalingElement:
		return "scaling element"
	case PanningViewport:
		return "panning viewport"
	case DraggingAnnotation:
		return "dragging annotation"
	default:
		return "idle"
	}
}

// Capture is held for as long as a gesture is active. The front end uses it
// to keep receiving pointer events outside the canvas.
type Capture interface {
	Acquire()
	Release()
}

type Options struct {
	Bounds   geometry.Size // slide size, drags are clamped to it when Clamp is set
	Clamp    bool
	MinScale float64
	MaxScale float64
}

// Update is what a pointer move resolved to
type Update struct {
	Kind     Kind
	Target   string
	Position geometry.Point // drags, canvas space
	Rotation float64        // degrees
	Scale    float64
	PanDelta geometry.Point // client space
}

type Machine struct {
	opts    Options
	capture Capture

	kind   Kind
	target string
	moved  bool

	startOffset   geometry.Point
	center        geometry.Point
	angleOffset   float64
	startDistance float64
	startScale    float64
	lastClient    geometry.Point
}

func New(opts Options, capture Capture) *Machine {
	return &Machine{opts: opts, capture: capture}
}

func (m *Machine) SetOptions(opts Options) {
	m.opts = opts
}

// SetCapture swaps the capture, any held capture is released first
func (m *Machine) SetCapture(c Capture) {
	if m.kind != Idle && m.capture != nil {
		m.capture.Release()
		if c != nil {
			c.Acquire()
		}
	}
	m.capture = c
}

func (m *Machine) Kind() Kind {
	return m.kind
}

func (m *Machine) Active() bool {
	return m.kind != Idle
}

// Target is the id of the element or annotation being manipulated
func (m *Machine) Target() string {
	return m.target
}

// Moved reports whether the active gesture received any move
func (m *Machine) Moved() bool {
	return m.moved
}

func (m *Machine) enter(kind Kind, target string) {
	if m.kind != Idle {
		m.End()
	}
	m.kind = kind
	m.target = target
	m.moved = false
	if m.capture != nil {
		m.capture.Acquire()
	}
}

// BeginDrag starts dragging an element whose top-left is at position.
// The offset between pointer and position is fixed for the whole gesture.
func (m *Machine) BeginDrag(id string, pointer, position geometry.Point) {
	m.enter(DraggingElement, id)
	m.startOffset = pointer.Sub(position)
}

// BeginAnnotationDrag starts dragging a text annotation
func (m *Machine) BeginAnnotationDrag(id string, pointer, position geometry.Point) {
	m.enter(DraggingAnnotation, id)
	m.startOffset = pointer.Sub(position)
}

// BeginRotate records the angle offset so the first move reproduces rotation
func (m *Machine) BeginRotate(id string, pointer, center geometry.Point, rotation float64) {
	m.enter(RotatingElement, id)
	m.center = center
	m.angleOffset = geometry.RotationOffset(pointer, center, rotation)
}

func (m *Machine) BeginScale(id string, pointer, center geometry.Point, scale float64) {
	m.enter(ScalingElement, id)
	m.center = center
	m.startDistance = pointer.Distance(center)
	m.startScale = scale
}

// BeginPan starts panning from a client-space pointer
func (m *Machine) BeginPan(client geometry.Point) {
	m.enter(PanningViewport, "")
	m.lastClient = client
}

// Move feeds a pointer move. ok is false when idle or when the move changes
// nothing, such as scaling from a pointer that started on the center.
func (m *Machine) Move(canvas, client geometry.Point) (u Update, ok bool) {
	u = Update{Kind: m.kind, Target: m.target}
	switch m.kind {
	case DraggingElement, DraggingAnnotation:
		u.Position = canvas.Sub(m.startOffset)
		if m.opts.Clamp {
			u.Position = u.Position.Clamp(m.opts.Bounds)
		}
	case RotatingElement:
		u.Rotation = geometry.RotationAt(canvas, m.center, m.angleOffset)
	case ScalingElement:
		scale, changed := geometry.ScaleAt(canvas, m.center, m.startDistance, m.startScale, m.opts.MinScale, m.opts.MaxScale)
		if !changed {
			return Update{}, false
		}
		u.Scale = scale
	case PanningViewport:
		u.PanDelta = client.Sub(m.lastClient)
		m.lastClient = client
	default:
		return Update{}, false
	}
	m.moved = true
	return u, true
}

// End returns to Idle and releases the capture. It is the single exit used
// for pointer-up, pointer-leave and pointer-cancel. The ended kind is returned.
func (m *Machine) End() Kind {
	kind := m.kind
	if kind == Idle {
		return Idle
	}
	m.kind = Idle
	m.target = ""
	if m.capture != nil {
		m.capture.Release()
	}
	return kind
}
