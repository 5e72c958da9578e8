package editor

import (
	"errors"

	"go.uber.org/zap"

	"LocalSlides/internal/geometry"
	"LocalSlides/internal/markup"
	"LocalSlides/internal/state"
	"LocalSlides/internal/validation"
)

var ErrInvalidColor = errors.New("invalid colour")

// Drop adds the element described by payload where it was dropped. A
// malformed payload is logged and rejected without touching the slide.
func (e *Editor) Drop(payload []byte, client geometry.Point) (int, error) {
	d, err := state.ParseDescriptor(payload)
	if err != nil {
		e.logger.Warn("rejected drop", zap.Error(err))
		return -1, err
	}
	return e.AddElement(d, e.view.CanvasPoint(client)), nil
}

// AddElement places a new element at a canvas position and selects it
func (e *Editor) AddElement(d state.Descriptor, pos geometry.Point) int {
	e.finish()
	e.track()
	i := e.slides.Active().AddElement(d, pos)
	e.commit("add element")
	return i
}

func (e *Editor) SelectElement(index int) bool {
	if !e.slides.Active().SelectElement(index) {
		return false
	}
	e.notify(ChangeSelection)
	return true
}

func (e *Editor) SelectAnnotation(id string) bool {
	if !e.slides.Active().SelectAnnotation(id) {
		return false
	}
	e.notify(ChangeSelection)
	return true
}

func (e *Editor) ClearSelection() {
	e.slides.Active().ClearSelection()
	e.notify(ChangeSelection)
}

// UpdateElement merges patch into the element at index as one edit
func (e *Editor) UpdateElement(index int, patch state.ElementPatch) bool {
	e.finish()
	e.track()
	if !e.slides.Active().UpdateElement(index, patch) {
		return false
	}
	e.commit("update element")
	return true
}

func (e *Editor) DeleteElement(index int) bool {
	e.finish()
	e.track()
	if !e.slides.Active().DeleteElement(index) {
		return false
	}
	e.commit("delete element")
	return true
}

// SetElementColor rewrites the fill of a shape element. Charts and markup
// without a shape node are left alone.
func (e *Editor) SetElementColor(index int, color string) bool {
	s := e.slides.Active()
	el, ok := s.Element(index)
	if !ok {
		return false
	}

	shape, ok := el.Body.(state.Shape)
	if !ok {
		return false
	}

	out, err := markup.SetFill(shape.Markup, color)
	if err != nil {
		e.logger.Debug("colour not applied", zap.String("element", el.ID), zap.Error(err))
		return false
	}
	return e.UpdateElement(index, state.ElementPatch{Markup: &out})
}

func (e *Editor) UpdateAnnotation(id string, patch state.AnnotationPatch) bool {
	e.finish()
	e.track()
	if !e.slides.Active().UpdateAnnotation(id, patch) {
		return false
	}
	e.commit("update annotation")
	return true
}

func (e *Editor) DeleteAnnotation(id string) bool {
	e.finish()
	e.track()
	if !e.slides.Active().DeleteAnnotation(id) {
		return false
	}
	e.commit("delete annotation")
	return true
}

// DeleteSelected removes whatever is selected
func (e *Editor) DeleteSelected() bool {
	sel := e.slides.Active().Selection()
	switch sel.Kind {
	case state.SelectElement:
		i, ok := e.slides.Active().ElementIndex(sel.ID)
		return ok && e.DeleteElement(i)
	case state.SelectAnnotation:
		return e.DeleteAnnotation(sel.ID)
	default:
		return false
	}
}

// Tools

func (e *Editor) SetTool(t state.Tool) {
	e.finish()
	e.view.Tool = t
	e.notify(ChangeView)
}

// SetColor sets the drawing colour for new paths and text
func (e *Editor) SetColor(color string) error {
	if err := validation.Var(color, "required,color"); err != nil {
		e.logger.Warn("rejected colour", zap.String("color", color))
		return ErrInvalidColor
	}
	e.view.Color = color
	e.notify(ChangeView)
	return nil
}

// Viewport

func (e *Editor) ZoomIn() {
	e.view.ZoomBy(e.opts.ZoomStep)
	e.notify(ChangeView)
}

func (e *Editor) ZoomOut() {
	e.view.ZoomBy(1 / e.opts.ZoomStep)
	e.notify(ChangeView)
}

func (e *Editor) ResetZoom() {
	e.view.Reset()
	e.notify(ChangeView)
}

// Wheel zooms when zoom is set, negative dy zooming in, and pans otherwise
func (e *Editor) Wheel(delta geometry.Point, zoom bool) {
	switch {
	case !zoom:
		e.view.PanBy(delta)
	case delta.Y < 0:
		e.view.ZoomBy(e.opts.WheelZoomStep)
	case delta.Y > 0:
		e.view.ZoomBy(1 / e.opts.WheelZoomStep)
	default:
		return
	}
	e.notify(ChangeView)
}

func (e *Editor) PanBy(delta geometry.Point) {
	e.view.PanBy(delta)
	e.notify(ChangeView)
}

// CenterOn centers the slide in a view of the given client size
func (e *Editor) CenterOn(view geometry.Size) {
	e.view.CenterOn(view, e.opts.SlideSize)
	e.notify(ChangeView)
}

// Slides

func (e *Editor) AddSlide() *state.Slide {
	e.finish()
	s := e.slides.Add()
	e.track()
	e.changedSlides("add slide")
	return s
}

func (e *Editor) RemoveSlide(id string) bool {
	e.finish()
	if !e.slides.Remove(id) {
		return false
	}
	delete(e.histories, id)
	e.track()
	e.changedSlides("remove slide")
	return true
}

func (e *Editor) MoveSlide(from, to int) bool {
	e.finish()
	if !e.slides.Move(from, to) {
		return false
	}
	e.changedSlides("move slide")
	return true
}

func (e *Editor) SelectSlide(id string) bool {
	e.finish()
	if !e.slides.SetActive(id) {
		return false
	}
	e.track()
	e.changedSlides("select slide")
	return true
}

// ReplaceSlides swaps in an imported collection and drops all history
func (e *Editor) ReplaceSlides(slides []*state.Slide) error {
	e.finish()
	if err := e.slides.Replace(slides, ""); err != nil {
		return err
	}
	clear(e.histories)
	e.track()
	e.changedSlides("replace slides")
	return nil
}

func (e *Editor) changedSlides(reason string) {
	rev := e.clock.Tick()
	e.logger.Debug(reason,
		zap.String("active", e.slides.ActiveID()),
		zap.Int("slides", e.slides.Len()),
		zap.Uint64("revision", rev))
	e.notify(ChangeSlides)
}
