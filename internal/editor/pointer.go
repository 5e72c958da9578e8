package editor

import (
	"go.uber.org/zap"

	"LocalSlides/internal/drawing"
	"LocalSlides/internal/geometry"
	"LocalSlides/internal/gesture"
	"LocalSlides/internal/state"
)

// Button is the pointer button of an event
type Button int

const (
	ButtonPrimary Button = iota
	ButtonAuxiliary
	ButtonSecondary
)

type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerLeave
	PointerCancel
)

// PointerEvent is raw input in client space
type PointerEvent struct {
	Kind   PointerKind
	Button Button
	Client geometry.Point
}

// HandlePointer routes an event to the gesture machine or to the drawing
// engine, depending on the active tool.
func (e *Editor) HandlePointer(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		e.pointerDown(ev)
	case PointerMove:
		e.pointerMove(ev)
	case PointerUp, PointerLeave, PointerCancel:
		e.finish()
	}
}

func (e *Editor) pointerDown(ev PointerEvent) {
	e.finish()
	e.track()

	if ev.Button == ButtonAuxiliary {
		e.machine.BeginPan(ev.Client)
		return
	}
	if ev.Button != ButtonPrimary {
		return
	}

	p := e.view.CanvasPoint(ev.Client)
	if e.view.Tool.Drawing() {
		e.drawDown(p)
		return
	}

	s := e.slides.Active()
	hit := e.HitTest(p)
	e.origin, _ = e.poseOf(hit.ID)
	switch hit.Kind {
	case HitRotateHandle:
		el, _ := s.ElementByID(hit.ID)
		e.machine.BeginRotate(el.ID, p, el.Center(), el.Rotation)
	case HitScaleHandle:
		el, _ := s.ElementByID(hit.ID)
		e.machine.BeginScale(el.ID, p, el.Center(), el.Scale)
	case HitText:
		a, _ := s.Annotation(hit.ID)
		t, _ := a.Text()
		s.SelectAnnotation(a.ID)
		e.machine.BeginAnnotationDrag(a.ID, p, t.Position)
		e.notify(ChangeSelection)
	case HitElement:
		el, _ := s.ElementByID(hit.ID)
		s.SelectElementByID(el.ID)
		e.machine.BeginDrag(el.ID, p, el.Position)
		e.notify(ChangeSelection)
	default:
		s.ClearSelection()
		if e.view.Tool == state.ToolPan {
			e.machine.BeginPan(ev.Client)
		}
		e.notify(ChangeSelection)
	}
}

func (e *Editor) pointerMove(ev PointerEvent) {
	p := e.view.CanvasPoint(ev.Client)

	switch {
	case e.machine.Active():
		u, ok := e.machine.Move(p, ev.Client)
		if ok {
			e.apply(u)
		}
	case e.stroke != nil:
		e.stroke.Add(p)
		e.notify(ChangePreview)
	case e.erasing:
		e.eraseAt(p)
	}
}

// apply previews a gesture update on the live slide. Targets that were
// deleted meanwhile are skipped.
func (e *Editor) apply(u gesture.Update) {
	s := e.slides.Active()
	var changed bool

	switch u.Kind {
	case gesture.DraggingElement:
		if el, ok := s.ElementByID(u.Target); ok && el.Position != u.Position {
			changed = s.UpdateElementByID(u.Target, state.ElementPatch{Position: &u.Position})
		}
	case gesture.RotatingElement:
		if el, ok := s.ElementByID(u.Target); ok && el.Rotation != u.Rotation {
			changed = s.UpdateElementByID(u.Target, state.ElementPatch{Rotation: &u.Rotation})
		}
	case gesture.ScalingElement:
		if el, ok := s.ElementByID(u.Target); ok && el.Scale != u.Scale {
			changed = s.UpdateElementByID(u.Target, state.ElementPatch{Scale: &u.Scale})
		}
	case gesture.DraggingAnnotation:
		if a, ok := s.Annotation(u.Target); ok {
			if t, ok := a.Text(); ok && t.Position != u.Position {
				changed = s.UpdateAnnotation(u.Target, state.AnnotationPatch{Position: &u.Position})
			}
		}
	case gesture.PanningViewport:
		e.view.PanBy(u.PanDelta)
		e.notify(ChangeView)
		return
	}

	if changed {
		e.dirty = true
		e.notify(ChangePreview)
	}
}

func (e *Editor) drawDown(p geometry.Point) {
	s := e.slides.Active()
	s.ClearSelection()

	switch e.view.Tool {
	case state.ToolLine:
		e.stroke = drawing.NewStroke(p, e.view.Color)
		e.notify(ChangePreview)
	case state.ToolText:
		a := drawing.NewText(p, e.view.Color)
		s.AddAnnotation(a)
		s.SelectAnnotation(a.ID)
		e.view.Tool = state.ToolNone
		e.commit("text")
	case state.ToolEraser:
		e.erasing = true
		e.erased = 0
		e.eraseAt(p)
	}
}

func (e *Editor) eraseAt(p geometry.Point) {
	s := e.slides.Active()
	kept, removed := drawing.Erase(s.Annotations(), p, e.opts.EraserRadius)
	if len(removed) == 0 {
		return
	}
	s.ReplaceAnnotations(kept)
	e.erased += len(removed)
	e.notify(ChangePreview)
}

// finish ends whatever is in progress and commits it. It is the one exit
// for pointer-up, pointer-leave and pointer-cancel.
func (e *Editor) finish() {
	if e.machine.Active() {
		target := e.machine.Target()
		kind := e.machine.End()
		if e.dirty {
			if now, ok := e.poseOf(target); !ok || now != e.origin {
				e.commit(kind.String())
			}
		}
		e.dirty = false
	}

	if e.stroke != nil {
		a, ok := e.stroke.Annotation()
		e.stroke = nil
		if ok && e.slides.Active().AddAnnotation(a) {
			e.commit("line")
		} else {
			e.notify(ChangePreview)
		}
	}

	if e.erasing {
		e.erasing = false
		if e.erased > 0 {
			e.logger.Debug("erased paths", zap.Int("count", e.erased))
			e.commit("erase")
		}
		e.erased = 0
	}
}

// pose is the part of an element or text annotation a gesture can change
type pose struct {
	position geometry.Point
	rotation float64
	scale    float64
}

func (e *Editor) poseOf(id string) (pose, bool) {
	if id == "" {
		return pose{}, false
	}
	s := e.slides.Active()
	if el, ok := s.ElementByID(id); ok {
		return pose{position: el.Position, rotation: el.Rotation, scale: el.Scale}, true
	}
	if a, ok := s.Annotation(id); ok {
		if t, ok := a.Text(); ok {
			return pose{position: t.Position}, true
		}
	}
	return pose{}, false
}
