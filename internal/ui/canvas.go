package ui

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"LocalSlides/internal/editor"
	"LocalSlides/internal/geometry"
	"LocalSlides/internal/gesture"
	"LocalSlides/internal/render"
	"LocalSlides/internal/state"
)

// maxRasterScale caps the resolution the slide is rasterised at; deeper
// zoom stretches the image
const maxRasterScale = 2

var workspaceColor = color.NRGBA{R: 245, G: 246, B: 248, A: 255}

// SlideCanvas shows the active slide and turns mouse and keyboard input
// into editor events
type SlideCanvas struct {
	widget.BaseWidget

	editor *editor.Editor
	cache  *render.Cache
	logger *zap.Logger

	OnEditText    func(id string)
	OnEditElement func(id string)

	captured bool
	mods     fyne.KeyModifier
	centered bool

	raster      image.Image
	rasterSlide string
	rasterScale float64
	stale       bool
}

var _ fyne.Widget = (*SlideCanvas)(nil)
var _ fyne.Draggable = (*SlideCanvas)(nil)
var _ fyne.Scrollable = (*SlideCanvas)(nil)
var _ fyne.DoubleTappable = (*SlideCanvas)(nil)
var _ fyne.Shortcutable = (*SlideCanvas)(nil)
var _ desktop.Mouseable = (*SlideCanvas)(nil)
var _ desktop.Hoverable = (*SlideCanvas)(nil)
var _ desktop.Keyable = (*SlideCanvas)(nil)
var _ gesture.Capture = (*SlideCanvas)(nil)

func NewSlideCanvas(ed *editor.Editor, cache *render.Cache, logger *zap.Logger) *SlideCanvas {
	c := &SlideCanvas{editor: ed, cache: cache, logger: logger, stale: true}
	c.ExtendBaseWidget(c)
	ed.SetCapture(c)
	ed.OnChange(c.changed)
	return c
}

func (c *SlideCanvas) changed(ch editor.Change) {
	switch ch.Kind {
	case editor.ChangePreview:
		// stroke previews are drawn as overlay lines
		if _, _, drawing := c.editor.InProgressPath(); !drawing {
			c.stale = true
		}
	case editor.ChangeCommit, editor.ChangeSlides:
		c.stale = true
	}
	c.Refresh()
}

// Acquire and Release keep a gesture alive while the pointer is outside
// the widget
func (c *SlideCanvas) Acquire() { c.captured = true }
func (c *SlideCanvas) Release() { c.captured = false }

// Drop places a palette payload at a widget-relative position
func (c *SlideCanvas) Drop(payload []byte, pos fyne.Position) error {
	_, err := c.editor.Drop(payload, client(pos))
	return err
}

func client(p fyne.Position) geometry.Point {
	return geometry.Pt(float64(p.X), float64(p.Y))
}

func position(p geometry.Point) fyne.Position {
	return fyne.NewPos(float32(p.X), float32(p.Y))
}

func button(b desktop.MouseButton) editor.Button {
	switch b {
	case desktop.MouseButtonPrimary:
		return editor.ButtonPrimary
	case desktop.MouseButtonTertiary:
		return editor.ButtonAuxiliary
	default:
		return editor.ButtonSecondary
	}
}

func (c *SlideCanvas) pointer(kind editor.PointerKind, b editor.Button, pos fyne.Position) {
	c.editor.HandlePointer(editor.PointerEvent{Kind: kind, Button: b, Client: client(pos)})
}

func (c *SlideCanvas) MouseDown(e *desktop.MouseEvent) {
	c.focus()
	c.mods = e.Modifier
	c.pointer(editor.PointerDown, button(e.Button), e.Position)
}

func (c *SlideCanvas) MouseUp(e *desktop.MouseEvent) {
	c.pointer(editor.PointerUp, button(e.Button), e.Position)
}

func (c *SlideCanvas) Dragged(e *fyne.DragEvent) {
	c.pointer(editor.PointerMove, editor.ButtonPrimary, e.Position)
}

func (c *SlideCanvas) DragEnd() {
	c.editor.HandlePointer(editor.PointerEvent{Kind: editor.PointerUp})
}

func (c *SlideCanvas) MouseIn(*desktop.MouseEvent) {}

func (c *SlideCanvas) MouseMoved(e *desktop.MouseEvent) {
	c.pointer(editor.PointerMove, button(e.Button), e.Position)
}

// MouseOut ends the gesture unless it holds the pointer
func (c *SlideCanvas) MouseOut() {
	if c.captured {
		return
	}
	c.editor.HandlePointer(editor.PointerEvent{Kind: editor.PointerLeave})
}

// Scrolled pans, or zooms while ctrl/cmd is held
func (c *SlideCanvas) Scrolled(e *fyne.ScrollEvent) {
	d := geometry.Pt(float64(e.Scrolled.DX), float64(e.Scrolled.DY))
	if c.mods&(fyne.KeyModifierControl|fyne.KeyModifierSuper) != 0 {
		c.editor.Wheel(d.Mul(-1), true)
		return
	}
	c.editor.Wheel(d, false)
}

func (c *SlideCanvas) DoubleTapped(e *fyne.PointEvent) {
	v := c.editor.Viewport()
	hit := c.editor.HitTest(v.CanvasPoint(client(e.Position)))
	switch hit.Kind {
	case editor.HitText:
		if c.OnEditText != nil {
			c.OnEditText(hit.ID)
		}
	case editor.HitElement:
		if c.OnEditElement != nil {
			c.OnEditElement(hit.ID)
		}
	}
}

func (c *SlideCanvas) focus() {
	if app := fyne.CurrentApp(); app != nil {
		if cv := app.Driver().CanvasForObject(c); cv != nil {
			cv.Focus(c)
		}
	}
}

func (c *SlideCanvas) FocusGained() {}
func (c *SlideCanvas) FocusLost()   { c.mods = 0 }
func (c *SlideCanvas) TypedRune(rune) {}

func (c *SlideCanvas) TypedKey(e *fyne.KeyEvent) {
	c.editor.HandleKey(editor.Key(e.Name), editor.Modifiers{Shift: c.mods&fyne.KeyModifierShift != 0})
}

func (c *SlideCanvas) TypedShortcut(s fyne.Shortcut) {
	cs, ok := s.(*desktop.CustomShortcut)
	if !ok {
		return
	}
	handleShortcut(c.editor, cs)
}

func (c *SlideCanvas) KeyDown(e *fyne.KeyEvent) {
	c.mods |= modifierFor(e.Name)
}

func (c *SlideCanvas) KeyUp(e *fyne.KeyEvent) {
	c.mods &^= modifierFor(e.Name)
}

func modifierFor(name fyne.KeyName) fyne.KeyModifier {
	switch name {
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return fyne.KeyModifierControl
	case desktop.KeySuperLeft, desktop.KeySuperRight:
		return fyne.KeyModifierSuper
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return fyne.KeyModifierShift
	}
	return 0
}

// handleShortcut runs undo and redo for ctrl/cmd+Z, ctrl/cmd+shift+Z and
// ctrl/cmd+Y
func handleShortcut(ed *editor.Editor, s *desktop.CustomShortcut) bool {
	return ed.HandleKey(editor.Key(s.KeyName), editor.Modifiers{
		Ctrl:  s.Modifier&(fyne.KeyModifierControl|fyne.KeyModifierSuper) != 0,
		Shift: s.Modifier&fyne.KeyModifierShift != 0,
	})
}

// slideImage rasterises the active slide, reusing the last image while the
// content, slide and resolution are unchanged
func (c *SlideCanvas) slideImage() image.Image {
	s := c.editor.Active()
	v := c.editor.Viewport()
	scale := math.Min(v.Scale(), maxRasterScale)
	if !c.stale && c.raster != nil && c.rasterSlide == s.ID && c.rasterScale == scale {
		return c.raster
	}

	img, err := c.cache.Slide(s.Content(), c.editor.Options().SlideSize, scale)
	if err != nil {
		c.logger.Warn("Slide rendered with errors", zap.String("slide", s.ID), zap.Error(err))
	}
	c.raster, c.rasterSlide, c.rasterScale, c.stale = img, s.ID, scale, false
	return img
}

func (c *SlideCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &slideCanvasRenderer{canvas: c}
	r.background = canvas.NewRectangle(workspaceColor)
	r.shadow = canvas.NewRectangle(color.NRGBA{A: 40})
	r.slide = canvas.NewImageFromImage(nil)
	r.slide.FillMode = canvas.ImageFillStretch
	r.rebuild()
	return r
}

type slideCanvasRenderer struct {
	canvas     *SlideCanvas
	background *canvas.Rectangle
	shadow     *canvas.Rectangle
	slide      *canvas.Image
	objects    []fyne.CanvasObject
}

func (r *slideCanvasRenderer) rebuild() {
	c := r.canvas
	v := c.editor.Viewport()
	size := c.editor.Options().SlideSize.Scale(v.Scale())
	origin := position(v.Pan)
	extent := fyne.NewSize(float32(size.W), float32(size.H))

	r.shadow.Move(origin.AddXY(3, 3))
	r.shadow.Resize(extent)
	r.slide.Image = c.slideImage()
	r.slide.Move(origin)
	r.slide.Resize(extent)
	r.slide.Refresh()

	objects := []fyne.CanvasObject{r.background, r.shadow, r.slide}
	objects = append(objects, r.selection(&v)...)
	objects = append(objects, r.stroke(&v)...)
	r.objects = objects
}

func (r *slideCanvasRenderer) selection(v *state.Viewport) []fyne.CanvasObject {
	c := r.canvas
	s := c.editor.Active()
	accent := theme.Color(theme.ColorNamePrimary)

	if el, ok := s.SelectedElement(); ok {
		corners := el.Corners()
		objects := outline(v, corners[:], accent)

		rotate, scale := c.editor.HandleCenters(el)
		top := v.ClientPoint(el.Transform().Apply(geometry.Pt(el.Size().W/2, 0)))
		rc := v.ClientPoint(rotate)
		link := canvas.NewLine(accent)
		link.Position1, link.Position2 = position(top), position(rc)
		objects = append(objects, link)

		// same canvas-space radius the hit test uses
		radius := float32(c.editor.Options().HandleRadius * v.Scale())
		objects = append(objects, handle(rc, radius, accent), handle(v.ClientPoint(scale), radius, accent))
		return objects
	}

	if a, ok := s.SelectedAnnotation(); ok {
		if t, ok := a.Text(); ok {
			b := t.Bounds()
			return outline(v, []geometry.Point{
				b.Min, geometry.Pt(b.Max.X, b.Min.Y), b.Max, geometry.Pt(b.Min.X, b.Max.Y),
			}, accent)
		}
	}
	return nil
}

func outline(v *state.Viewport, corners []geometry.Point, col color.Color) []fyne.CanvasObject {
	objects := make([]fyne.CanvasObject, 0, len(corners))
	for i := range corners {
		line := canvas.NewLine(col)
		line.StrokeWidth = 1.5
		line.Position1 = position(v.ClientPoint(corners[i]))
		line.Position2 = position(v.ClientPoint(corners[(i+1)%len(corners)]))
		objects = append(objects, line)
	}
	return objects
}

func handle(center geometry.Point, radius float32, col color.Color) fyne.CanvasObject {
	dot := canvas.NewCircle(color.White)
	dot.StrokeColor = col
	dot.StrokeWidth = 2
	dot.Move(position(center).SubtractXY(radius, radius))
	dot.Resize(fyne.NewSize(radius*2, radius*2))
	return dot
}

// stroke draws the path being drawn as plain segments
func (r *slideCanvasRenderer) stroke(v *state.Viewport) []fyne.CanvasObject {
	points, col, ok := r.canvas.editor.InProgressPath()
	if !ok || len(points) < 2 {
		return nil
	}
	c := render.Color(col)
	width := float32(render.StrokeWidth * v.Scale())
	objects := make([]fyne.CanvasObject, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		segment := canvas.NewLine(c)
		segment.StrokeWidth = width
		segment.Position1 = position(v.ClientPoint(points[i-1]))
		segment.Position2 = position(v.ClientPoint(points[i]))
		objects = append(objects, segment)
	}
	return objects
}

func (r *slideCanvasRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *slideCanvasRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.canvas)
}

func (r *slideCanvasRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	if !r.canvas.centered && size.Width > 0 && size.Height > 0 {
		r.canvas.centered = true
		r.canvas.editor.CenterOn(geometry.Size{W: float64(size.Width), H: float64(size.Height)})
	}
}

func (r *slideCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *slideCanvasRenderer) Destroy() {}
