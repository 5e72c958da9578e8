// Package editor is one editing session over a slide collection. All of its
// methods run on the UI goroutine; input handlers mutate the active slide,
// preview changes while a gesture runs and commit to history once it ends.
package editor

import (
	"go.uber.org/zap"

	"LocalSlides/internal/drawing"
	"LocalSlides/internal/geometry"
	"LocalSlides/internal/gesture"
	"LocalSlides/internal/history"
	"LocalSlides/internal/state"
)

type Options struct {
	SlideSize     geometry.Size
	BaseScale     float64
	ClampToSlide  bool
	MinScale      float64
	MaxScale      float64
	EraserRadius  float64
	HandleRadius  float64
	HandleOffset  float64
	ZoomStep      float64
	WheelZoomStep float64
	HistoryLimit  int
	DefaultColor  string
}

func DefaultOptions() Options {
	return Options{
		SlideSize:     geometry.Size{W: 1200, H: 800},
		BaseScale:     1,
		ClampToSlide:  true,
		MinScale:      0.5,
		MaxScale:      2,
		EraserRadius:  drawing.DefaultEraserRadius,
		HandleRadius:  8,
		HandleOffset:  16,
		ZoomStep:      1.2,
		WheelZoomStep: 1.1,
		DefaultColor:  state.Palette[0],
	}
}

// ChangeKind says what a listener is being told about
type ChangeKind int

const (
	// ChangePreview is an in-gesture update that is not in history yet
	ChangePreview ChangeKind = iota
	ChangeCommit
	ChangeSelection
	ChangeView
	ChangeSlides
)

type Change struct {
	Kind     ChangeKind
	Revision uint64
}

type Editor struct {
	opts   Options
	logger *zap.Logger

	slides    *state.Collection
	view      *state.Viewport
	histories map[string]*history.Stack[state.Content]
	machine   *gesture.Machine
	clock     state.Clock

	stroke  *drawing.Stroke
	erasing bool
	erased  int
	dirty   bool
	origin  pose // gesture target when the gesture began

	listeners []func(Change)
}

func New(opts Options, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Editor{
		opts:      opts,
		logger:    logger,
		slides:    state.NewCollection(),
		view:      state.NewViewport(opts.BaseScale, opts.DefaultColor),
		histories: make(map[string]*history.Stack[state.Content]),
	}
	e.machine = gesture.New(gesture.Options{
		Bounds:   opts.SlideSize,
		Clamp:    opts.ClampToSlide,
		MinScale: opts.MinScale,
		MaxScale: opts.MaxScale,
	}, nil)
	e.track()
	return e
}

// SetCapture installs the pointer capture held while a gesture is active
func (e *Editor) SetCapture(c gesture.Capture) {
	e.machine.SetCapture(c)
}

// OnChange registers a listener called after every change
func (e *Editor) OnChange(fn func(Change)) {
	e.listeners = append(e.listeners, fn)
}

func (e *Editor) notify(kind ChangeKind) {
	c := Change{Kind: kind, Revision: e.clock.Now()}
	for _, fn := range e.listeners {
		fn(c)
	}
}

func (e *Editor) Options() Options {
	return e.opts
}

func (e *Editor) Slides() *state.Collection {
	return e.slides
}

func (e *Editor) Active() *state.Slide {
	return e.slides.Active()
}

// Viewport returns a copy of the view state
func (e *Editor) Viewport() state.Viewport {
	return *e.view
}

func (e *Editor) Tool() state.Tool {
	return e.view.Tool
}

func (e *Editor) Gesture() gesture.Kind {
	return e.machine.Kind()
}

// Revision increases with every commit, undo, redo and slide change
func (e *Editor) Revision() uint64 {
	return e.clock.Now()
}

// InProgressPath is the stroke being drawn, nil when not drawing
func (e *Editor) InProgressPath() ([]geometry.Point, string, bool) {
	if e.stroke == nil {
		return nil, "", false
	}
	return e.stroke.Points(), e.stroke.Color(), true
}

// History

// track makes sure the active slide has a history seeded with its current content
func (e *Editor) track() *history.Stack[state.Content] {
	s := e.slides.Active()
	h, ok := e.histories[s.ID]
	if !ok {
		h = history.New(s.Content().Clone(), e.opts.HistoryLimit)
		e.histories[s.ID] = h
	}
	return h
}

func (e *Editor) commit(reason string) {
	s := e.slides.Active()
	e.track().Commit(s.Content().Clone())
	rev := e.clock.Tick()
	e.logger.Debug("commit",
		zap.String("reason", reason),
		zap.String("slide", s.ID),
		zap.Uint64("revision", rev))
	e.notify(ChangeCommit)
}

func (e *Editor) CanUndo() bool {
	return e.track().CanUndo()
}

func (e *Editor) CanRedo() bool {
	return e.track().CanRedo()
}

// Undo finishes any gesture, then restores the previous state of the active slide
func (e *Editor) Undo() bool {
	e.finish()
	content, ok := e.track().Undo()
	if !ok {
		return false
	}
	e.restore(content, "undo")
	return true
}

func (e *Editor) Redo() bool {
	e.finish()
	content, ok := e.track().Redo()
	if !ok {
		return false
	}
	e.restore(content, "redo")
	return true
}

func (e *Editor) restore(content state.Content, reason string) {
	s := e.slides.Active()
	s.Restore(content.Clone())
	rev := e.clock.Tick()
	e.logger.Debug(reason, zap.String("slide", s.ID), zap.Uint64("revision", rev))
	e.notify(ChangeCommit)
}
