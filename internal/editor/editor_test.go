package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"LocalSlides/internal/geometry"
	"LocalSlides/internal/gesture"
	"LocalSlides/internal/state"
)

const rectPayload = `{"type":"element","name":"Blue Rectangle","svg":"<svg width='120' height='60'><rect width='120' height='60' fill='blue'/></svg>"}`

type capture struct{ held int }

func (c *capture) Acquire() { c.held++ }
func (c *capture) Release() { c.held-- }

func newEditor(t *testing.T) (*Editor, *capture) {
	t.Helper()
	e := New(DefaultOptions(), zap.NewNop())
	c := &capture{}
	e.SetCapture(c)
	return e, c
}

func down(e *Editor, x, y float64) {
	e.HandlePointer(PointerEvent{Kind: PointerDown, Button: ButtonPrimary, Client: geometry.Pt(x, y)})
}

func move(e *Editor, x, y float64) {
	e.HandlePointer(PointerEvent{Kind: PointerMove, Client: geometry.Pt(x, y)})
}

func up(e *Editor) {
	e.HandlePointer(PointerEvent{Kind: PointerUp})
}

// placeRect drops the sample rectangle with its top-left at (x, y)
func placeRect(t *testing.T, e *Editor, x, y float64) state.Element {
	t.Helper()
	i, err := e.Drop([]byte(rectPayload), e.view.ClientPoint(geometry.Pt(x, y)))
	require.NoError(t, err)
	el, ok := e.Active().Element(i)
	require.True(t, ok)
	return el
}

func TestDropPlacement(t *testing.T) {
	e, _ := newEditor(t)
	placeRect(t, e, 10, 10)
	before := len(e.Active().Elements())

	i, err := e.Drop([]byte(rectPayload), geometry.Pt(120, 80))
	require.NoError(t, err)
	assert.Equal(t, before, i)

	el, _ := e.Active().Element(i)
	assert.Equal(t, geometry.Pt(120, 80), el.Position)
	assert.Equal(t, 0.0, el.Rotation)
	assert.Equal(t, 1.0, el.Scale)
	assert.IsType(t, state.Shape{}, el.Body)

	sel, ok := e.Active().SelectedElementIndex()
	require.True(t, ok)
	assert.Equal(t, i, sel)
}

func TestDropUnderPanAndZoom(t *testing.T) {
	e, _ := newEditor(t)
	e.PanBy(geometry.Pt(50, 20))
	e.ZoomIn()

	_, err := e.Drop([]byte(rectPayload), geometry.Pt(50+120*1.2, 20+80*1.2))
	require.NoError(t, err)
	el, _ := e.Active().Element(0)
	assert.InDelta(t, 120, el.Position.X, 1e-9)
	assert.InDelta(t, 80, el.Position.Y, 1e-9)
}

func TestDropRejectsMalformed(t *testing.T) {
	e, _ := newEditor(t)
	for _, payload := range []string{``, `{}`, `{"type":"element"}`, `{"name":"x"}`, `not json`} {
		_, err := e.Drop([]byte(payload), geometry.Pt(1, 1))
		assert.ErrorIs(t, err, state.ErrInvalidDescriptor, payload)
	}
	assert.Empty(t, e.Active().Elements())
	assert.False(t, e.CanUndo())
}

func TestDragCommitsOnce(t *testing.T) {
	e, c := newEditor(t)
	placeRect(t, e, 100, 100)
	e.ClearSelection()

	down(e, 110, 110)
	assert.Equal(t, gesture.DraggingElement, e.Gesture())
	assert.Equal(t, 1, c.held)
	_, selected := e.Active().SelectedElementIndex()
	assert.True(t, selected)

	move(e, 150, 120)
	move(e, 210, 160)
	up(e)

	assert.Equal(t, 0, c.held)
	assert.Equal(t, gesture.Idle, e.Gesture())
	el, _ := e.Active().Element(0)
	assert.Equal(t, geometry.Pt(200, 150), el.Position)

	require.True(t, e.Undo())
	el, _ = e.Active().Element(0)
	assert.Equal(t, geometry.Pt(100, 100), el.Position, "one undo reverts the whole drag")
}

func TestDragIsClampedToSlide(t *testing.T) {
	e, _ := newEditor(t)
	placeRect(t, e, 100, 100)

	down(e, 110, 110)
	move(e, -500, 5000)
	up(e)

	el, _ := e.Active().Element(0)
	assert.Equal(t, geometry.Pt(0, 800), el.Position)
}

func TestClickWithoutMoveDoesNotCommit(t *testing.T) {
	e, _ := newEditor(t)
	placeRect(t, e, 100, 100)
	e.Undo()
	e.Redo()

	down(e, 110, 110)
	move(e, 110, 110)
	up(e)
	assert.False(t, e.CanRedo())
	require.True(t, e.Undo())
	assert.Empty(t, e.Active().Elements(), "no extra history entry for a click")
}

func TestRotateHandle(t *testing.T) {
	e, _ := newEditor(t)
	placeRect(t, e, 100, 100)
	e.UpdateElement(0, state.ElementPatch{Rotation: state.Ptr(30.0)})
	el, _ := e.Active().Element(0)

	rotate, _ := e.Handles(el)
	handle := el.Transform().Apply(rotate)
	assert.Equal(t, HitRotateHandle, e.HitTest(handle).Kind)

	down(e, handle.X, handle.Y)
	require.Equal(t, gesture.RotatingElement, e.Gesture())
	move(e, handle.X, handle.Y)
	el, _ = e.Active().Element(0)
	assert.InDelta(t, 30, el.Rotation, 1e-9, "no jump at gesture start")

	c := el.Center()
	move(e, c.X+100, c.Y)
	up(e)
	el, _ = e.Active().Element(0)
	// the handle started straight up in element space, pointing right is a quarter turn
	assert.InDelta(t, 90, el.Rotation, 1e-9)
}

func TestScaleHandle(t *testing.T) {
	e, _ := newEditor(t)
	placeRect(t, e, 100, 100)

	// center (160, 130), scale handle 16 below the bottom edge
	assert.Equal(t, HitScaleHandle, e.HitTest(geometry.Pt(160, 176)).Kind)
	down(e, 160, 176)
	require.Equal(t, gesture.ScalingElement, e.Gesture())
	move(e, 160, 199)
	el, _ := e.Active().Element(0)
	assert.InDelta(t, 1.5, el.Scale, 1e-9)

	move(e, 160, 176)
	up(e)
	el, _ = e.Active().Element(0)
	assert.InDelta(t, 1, el.Scale, 1e-9)
}

func TestGestureEndingAtStartDoesNotCommit(t *testing.T) {
	e, _ := newEditor(t)
	placeRect(t, e, 100, 100)

	down(e, 160, 176)
	require.Equal(t, gesture.ScalingElement, e.Gesture())
	move(e, 160, 199)
	move(e, 160, 176)
	up(e)

	down(e, 110, 110)
	require.Equal(t, gesture.DraggingElement, e.Gesture())
	move(e, 140, 150)
	move(e, 110, 110)
	up(e)

	el, _ := e.Active().Element(0)
	assert.Equal(t, geometry.Pt(100, 100), el.Position)
	assert.InDelta(t, 1, el.Scale, 1e-9)

	require.True(t, e.Undo())
	assert.Empty(t, e.Active().Elements(), "gestures with no net change add no history entry")
}

func TestHandleHitIsCanvasSized(t *testing.T) {
	e, _ := newEditor(t)
	placeRect(t, e, 100, 100)
	e.UpdateElement(0, state.ElementPatch{Scale: state.Ptr(2.0)})
	el, _ := e.Active().Element(0)
	radius := e.Options().HandleRadius

	_, scale := e.HandleCenters(el)
	_, local := e.Handles(el)
	assert.Equal(t, el.Transform().Apply(local), scale)

	assert.Equal(t, HitScaleHandle, e.HitTest(scale).Kind)
	assert.Equal(t, HitScaleHandle, e.HitTest(scale.Add(geometry.Pt(0, radius*0.9))).Kind)
	assert.Equal(t, HitBackground, e.HitTest(scale.Add(geometry.Pt(0, radius*1.5))).Kind,
		"the hit circle does not grow with the element")
}

func TestHandlesOnlyForSelectedElement(t *testing.T) {
	e, _ := newEditor(t)
	placeRect(t, e, 100, 100)
	e.ClearSelection()
	assert.Equal(t, HitBackground, e.HitTest(geometry.Pt(160, 176)).Kind)
}

func TestHitTestTopmost(t *testing.T) {
	e, _ := newEditor(t)
	a := placeRect(t, e, 100, 100)
	b := placeRect(t, e, 150, 120)
	e.ClearSelection()

	assert.Equal(t, Hit{Kind: HitElement, ID: b.ID}, e.HitTest(geometry.Pt(160, 130)))
	assert.Equal(t, Hit{Kind: HitElement, ID: a.ID}, e.HitTest(geometry.Pt(105, 105)))
	assert.Equal(t, HitBackground, e.HitTest(geometry.Pt(5, 5)).Kind)
}

func TestHitTestRotatedElement(t *testing.T) {
	e, _ := newEditor(t)
	placeRect(t, e, 100, 100)
	e.UpdateElement(0, state.ElementPatch{Rotation: state.Ptr(90.0)})
	e.ClearSelection()

	// a 120x60 box turned a quarter around (160,130) spans x 130..190, y 70..190
	assert.Equal(t, HitElement, e.HitTest(geometry.Pt(160, 75)).Kind)
	assert.Equal(t, HitBackground, e.HitTest(geometry.Pt(105, 130)).Kind)
}

func TestBackgroundClearsSelection(t *testing.T) {
	e, _ := newEditor(t)
	placeRect(t, e, 100, 100)

	down(e, 900, 700)
	up(e)
	assert.Equal(t, state.Selection{}, e.Active().Selection())
	assert.Equal(t, gesture.Idle, e.Gesture())
}

func TestPanTool(t *testing.T) {
	e, c := newEditor(t)
	e.SetTool(state.ToolPan)

	down(e, 10, 10)
	assert.Equal(t, gesture.PanningViewport, e.Gesture())
	move(e, 30, 25)
	e.HandlePointer(PointerEvent{Kind: PointerLeave})

	assert.Equal(t, geometry.Pt(20, 15), e.Viewport().Pan)
	assert.Equal(t, 0, c.held)
	assert.False(t, e.CanUndo(), "panning is not an edit")
}

func TestAuxiliaryButtonAlwaysPans(t *testing.T) {
	e, _ := newEditor(t)
	e.SetTool(state.ToolLine)

	e.HandlePointer(PointerEvent{Kind: PointerDown, Button: ButtonAuxiliary, Client: geometry.Pt(0, 0)})
	assert.Equal(t, gesture.PanningViewport, e.Gesture())
	move(e, -5, 7)
	e.HandlePointer(PointerEvent{Kind: PointerCancel})

	assert.Equal(t, geometry.Pt(-5, 7), e.Viewport().Pan)
	assert.Empty(t, e.Active().Annotations())
	_, _, drawing := e.InProgressPath()
	assert.False(t, drawing)
}

func TestSecondaryButtonIgnored(t *testing.T) {
	e, _ := newEditor(t)
	placeRect(t, e, 100, 100)
	e.HandlePointer(PointerEvent{Kind: PointerDown, Button: ButtonSecondary, Client: geometry.Pt(110, 110)})
	assert.Equal(t, gesture.Idle, e.Gesture())
}

func TestLineTool(t *testing.T) {
	e, _ := newEditor(t)
	require.NoError(t, e.SetColor("#FF0000"))
	e.SetTool(state.ToolLine)

	down(e, 10, 10)
	move(e, 12, 14)
	move(e, 12, 14)
	pts, color, ok := e.InProgressPath()
	require.True(t, ok)
	assert.Len(t, pts, 3)
	assert.Equal(t, "#FF0000", color)
	assert.Empty(t, e.Active().Annotations(), "in-progress path is not on the slide")
	up(e)

	require.Len(t, e.Active().Annotations(), 1)
	p, ok := e.Active().Annotations()[0].Path()
	require.True(t, ok)
	assert.Equal(t, []geometry.Point{{X: 10, Y: 10}, {X: 12, Y: 14}, {X: 12, Y: 14}}, p.Points)
	assert.Equal(t, state.ToolLine, e.Tool(), "line tool persists")

	require.True(t, e.Undo())
	assert.Empty(t, e.Active().Annotations())
}

func TestSingleClickLineIsCommitted(t *testing.T) {
	e, _ := newEditor(t)
	e.SetTool(state.ToolLine)
	down(e, 10, 10)
	up(e)
	require.Len(t, e.Active().Annotations(), 1)
}

func TestTextToolIsOneShot(t *testing.T) {
	e, _ := newEditor(t)
	e.SetTool(state.ToolText)

	down(e, 300, 200)
	up(e)
	require.Len(t, e.Active().Annotations(), 1)
	a := e.Active().Annotations()[0]
	text, ok := a.Text()
	require.True(t, ok)
	assert.Equal(t, geometry.Pt(300, 200), text.Position)
	assert.Equal(t, state.PlaceholderText, text.Text)
	assert.Equal(t, state.ToolNone, e.Tool())

	sel, ok := e.Active().SelectedAnnotation()
	require.True(t, ok)
	assert.Equal(t, a.ID, sel.ID)

	down(e, 600, 500)
	up(e)
	assert.Len(t, e.Active().Annotations(), 1)
}

func TestTextDrag(t *testing.T) {
	e, _ := newEditor(t)
	e.SetTool(state.ToolText)
	down(e, 300, 200)
	up(e)

	down(e, 310, 205)
	assert.Equal(t, gesture.DraggingAnnotation, e.Gesture())
	move(e, 410, 305)
	up(e)

	a := e.Active().Annotations()[0]
	text, _ := a.Text()
	assert.Equal(t, geometry.Pt(400, 300), text.Position)

	require.True(t, e.Undo())
	text, _ = e.Active().Annotations()[0].Text()
	assert.Equal(t, geometry.Pt(300, 200), text.Position)
}

func TestEraserCommitsOncePerGesture(t *testing.T) {
	e, _ := newEditor(t)
	e.SetTool(state.ToolLine)
	for _, y := range []float64{10, 100, 200} {
		down(e, 10, y)
		move(e, 20, y)
		up(e)
	}
	e.SetTool(state.ToolEraser)

	down(e, 15, 12)
	move(e, 15, 102)
	move(e, 15, 150)
	up(e)
	require.Len(t, e.Active().Annotations(), 1)

	require.True(t, e.Undo())
	assert.Len(t, e.Active().Annotations(), 3, "one undo brings back everything erased in one gesture")
}

func TestEraserMissDoesNotCommit(t *testing.T) {
	e, _ := newEditor(t)
	e.SetTool(state.ToolEraser)
	down(e, 15, 12)
	up(e)
	assert.False(t, e.CanUndo())
}

func TestStaleTargetIsIgnored(t *testing.T) {
	e, _ := newEditor(t)
	placeRect(t, e, 100, 100)

	down(e, 110, 110)
	// removed behind the gesture's back
	require.True(t, e.Active().DeleteElement(0))
	move(e, 200, 200)
	up(e)
	assert.Empty(t, e.Active().Elements())
}

func TestUndoRedoInverse(t *testing.T) {
	e, _ := newEditor(t)
	initial := e.Active().Content().Clone()

	placeRect(t, e, 100, 100)
	placeRect(t, e, 300, 300)
	e.UpdateElement(0, state.ElementPatch{Rotation: state.Ptr(45.0)})
	e.SetTool(state.ToolLine)
	down(e, 1, 1)
	move(e, 2, 2)
	up(e)
	e.DeleteElement(1)
	final := e.Active().Content().Clone()

	n := 0
	for e.Undo() {
		n++
	}
	assert.Equal(t, 5, n)
	assert.Equal(t, initial, e.Active().Content())

	for i := 0; i < n; i++ {
		require.True(t, e.Redo())
	}
	assert.Equal(t, final, e.Active().Content())
}

func TestNewEditAfterUndoDropsRedo(t *testing.T) {
	e, _ := newEditor(t)
	placeRect(t, e, 100, 100)
	placeRect(t, e, 200, 200)

	require.True(t, e.Undo())
	assert.True(t, e.CanRedo())
	placeRect(t, e, 300, 300)
	assert.False(t, e.CanRedo())
	assert.False(t, e.Redo())
}

func TestHistoryIsPerSlide(t *testing.T) {
	e, _ := newEditor(t)
	first := e.Active().ID
	placeRect(t, e, 100, 100)

	e.AddSlide()
	assert.False(t, e.CanUndo())
	placeRect(t, e, 1, 1)
	placeRect(t, e, 2, 2)

	require.True(t, e.SelectSlide(first))
	require.True(t, e.Undo())
	assert.Empty(t, e.Active().Elements())
	assert.False(t, e.CanUndo())
}

func TestRemoveSlide(t *testing.T) {
	e, _ := newEditor(t)
	first := e.Active().ID
	second := e.AddSlide().ID

	require.True(t, e.RemoveSlide(second))
	assert.Equal(t, first, e.Active().ID)
	require.True(t, e.RemoveSlide(first))
	assert.Equal(t, 1, e.Slides().Len())
	assert.NotEqual(t, first, e.Active().ID)
	assert.False(t, e.RemoveSlide("missing"))
}

func TestDeleteKeyRemovesSelection(t *testing.T) {
	e, _ := newEditor(t)
	placeRect(t, e, 100, 100)

	assert.True(t, e.HandleKey(KeyDelete, Modifiers{}))
	assert.Empty(t, e.Active().Elements())
	assert.False(t, e.HandleKey(KeyBackspace, Modifiers{}), "nothing selected")

	assert.True(t, e.HandleKey(KeyZ, Modifiers{Ctrl: true}))
	assert.Len(t, e.Active().Elements(), 1)
	assert.True(t, e.HandleKey(KeyZ, Modifiers{Ctrl: true, Shift: true}))
	assert.Empty(t, e.Active().Elements())
	assert.True(t, e.HandleKey(KeyZ, Modifiers{Ctrl: true}))
	assert.True(t, e.HandleKey(KeyY, Modifiers{Ctrl: true}))
	assert.Empty(t, e.Active().Elements())
}

func TestEscapeCancelsThenClears(t *testing.T) {
	e, c := newEditor(t)
	placeRect(t, e, 100, 100)

	down(e, 110, 110)
	move(e, 120, 120)
	assert.True(t, e.HandleKey(KeyEscape, Modifiers{}))
	assert.Equal(t, gesture.Idle, e.Gesture())
	assert.Equal(t, 0, c.held)
	_, selected := e.Active().SelectedElementIndex()
	assert.True(t, selected)

	e.HandleKey(KeyEscape, Modifiers{})
	_, selected = e.Active().SelectedElementIndex()
	assert.False(t, selected)
}

func TestWheel(t *testing.T) {
	e, _ := newEditor(t)
	e.Wheel(geometry.Pt(0, -3), true)
	assert.InDelta(t, 1.1, e.Viewport().Zoom, 1e-9)
	e.Wheel(geometry.Pt(0, 3), true)
	assert.InDelta(t, 1, e.Viewport().Zoom, 1e-9)

	e.Wheel(geometry.Pt(4, -3), false)
	assert.Equal(t, geometry.Pt(4, -3), e.Viewport().Pan)

	for i := 0; i < 60; i++ {
		e.ZoomIn()
	}
	assert.Greater(t, e.Viewport().Zoom, 1000.0, "zoom is unbounded")
	e.ResetZoom()
	assert.Equal(t, 1.0, e.Viewport().Zoom)
	assert.Equal(t, geometry.Point{}, e.Viewport().Pan)
}

func TestSetElementColor(t *testing.T) {
	e, _ := newEditor(t)
	placeRect(t, e, 100, 100)

	require.True(t, e.SetElementColor(0, "#00FF00"))
	el, _ := e.Active().Element(0)
	assert.Contains(t, el.Body.(state.Shape).Markup, `fill="#00FF00"`)

	assert.False(t, e.SetElementColor(0, `"><script>`))
	assert.False(t, e.SetElementColor(4, "#00FF00"))

	_, err := e.Drop([]byte(`{"type":"chart","name":"c","config":{"chart":{"type":"line"}}}`), geometry.Pt(0, 0))
	require.NoError(t, err)
	assert.False(t, e.SetElementColor(1, "#00FF00"))
}

func TestSetColorValidates(t *testing.T) {
	e, _ := newEditor(t)
	assert.ErrorIs(t, e.SetColor(""), ErrInvalidColor)
	assert.ErrorIs(t, e.SetColor(`red"`), ErrInvalidColor)
	assert.Equal(t, "#000000", e.Viewport().Color)
}

func TestReplaceSlides(t *testing.T) {
	e, _ := newEditor(t)
	placeRect(t, e, 1, 1)

	s := state.NewSlide()
	require.NoError(t, e.ReplaceSlides([]*state.Slide{s}))
	assert.Equal(t, s.ID, e.Active().ID)
	assert.False(t, e.CanUndo())

	assert.Error(t, e.ReplaceSlides(nil))
	assert.Equal(t, s.ID, e.Active().ID)
}

func TestChangeNotifications(t *testing.T) {
	e, _ := newEditor(t)
	var kinds []ChangeKind
	e.OnChange(func(c Change) { kinds = append(kinds, c.Kind) })

	rev := e.Revision()
	placeRect(t, e, 100, 100)
	assert.Equal(t, rev+1, e.Revision())

	kinds = nil
	down(e, 110, 110)
	move(e, 120, 120)
	up(e)
	assert.Equal(t, []ChangeKind{ChangeSelection, ChangePreview, ChangeCommit}, kinds)
}
