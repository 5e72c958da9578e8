package ui

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LocalSlides/internal/editor"
	"LocalSlides/internal/markup"
	"LocalSlides/internal/render"
	"LocalSlides/internal/state"
)

var toolNames = []struct {
	tool  state.Tool
	label string
}{
	{state.ToolNone, "Select"},
	{state.ToolPan, "Pan"},
	{state.ToolLine, "Line"},
	{state.ToolText, "Text"},
	{state.ToolEraser, "Eraser"},
}

func toolLabel(t state.Tool) string {
	for _, n := range toolNames {
		if n.tool == t {
			return n.label
		}
	}
	return toolNames[0].label
}

func toolFor(label string) state.Tool {
	for _, n := range toolNames {
		if n.label == label {
			return n.tool
		}
	}
	return state.ToolNone
}

type colorSwatch struct {
	widget.BaseWidget
	Hex      string
	Selected bool
	OnTapped func(hex string)

	border *canvas.Rectangle
}

func newColorSwatch(hex string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Hex: hex, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(render.Color(s.Hex))
	rect.SetMinSize(fyne.NewSize(24, 24))

	s.border = canvas.NewRectangle(color.Transparent)
	s.updateBorder()
	return widget.NewSimpleRenderer(container.NewStack(rect, s.border))
}

func (s *colorSwatch) updateBorder() {
	if s.border == nil {
		return
	}
	if s.Selected {
		s.border.StrokeColor = theme.Color(theme.ColorNamePrimary)
		s.border.StrokeWidth = 3
	} else {
		s.border.StrokeColor = color.Gray{Y: 150}
		s.border.StrokeWidth = 1
	}
	s.border.Refresh()
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

// FileActions are the document commands the toolbar offers
type FileActions struct {
	Open      func()
	Save      func()
	ExportPDF func()
}

// Toolbar holds the tool, history, zoom and colour controls and follows
// the editor state
type Toolbar struct {
	editor   *editor.Editor
	tools    *widget.RadioGroup
	swatches []*colorSwatch
	undo     *widget.ToolbarAction
	redo     *widget.ToolbarAction
	zoom     *widget.Label
	root     fyne.CanvasObject
	syncing  bool
}

func NewToolbar(ed *editor.Editor, files FileActions) *Toolbar {
	t := &Toolbar{editor: ed}

	labels := make([]string, len(toolNames))
	for i, n := range toolNames {
		labels[i] = n.label
	}
	t.tools = widget.NewRadioGroup(labels, func(label string) {
		if t.syncing || label == "" {
			return
		}
		ed.SetTool(toolFor(label))
	})
	t.tools.Horizontal = true
	t.tools.Required = true

	t.undo = widget.NewToolbarAction(theme.ContentUndoIcon(), func() { ed.Undo() })
	t.redo = widget.NewToolbarAction(theme.ContentRedoIcon(), func() { ed.Redo() })
	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), files.Open),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), files.Save),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), files.ExportPDF),
		widget.NewToolbarSeparator(),
		t.undo,
		t.redo,
		widget.NewToolbarAction(theme.DeleteIcon(), func() { ed.DeleteSelected() }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomOutIcon(), ed.ZoomOut),
		widget.NewToolbarAction(theme.ZoomFitIcon(), ed.ResetZoom),
		widget.NewToolbarAction(theme.ZoomInIcon(), ed.ZoomIn),
	)
	t.zoom = widget.NewLabel("")

	colorBox := container.NewHBox()
	for _, hex := range state.Palette {
		s := newColorSwatch(hex, t.pickColor)
		t.swatches = append(t.swatches, s)
		colorBox.Add(s)
	}

	t.root = container.NewVBox(
		container.NewHBox(actions, t.zoom, layout.NewSpacer()),
		container.NewHBox(
			widget.NewLabel("Tool:"),
			t.tools,
			widget.NewSeparator(),
			widget.NewLabel("Color:"),
			colorBox,
			layout.NewSpacer(),
		),
	)

	ed.OnChange(func(editor.Change) { t.Refresh() })
	t.Refresh()
	return t
}

func (t *Toolbar) Object() fyne.CanvasObject {
	return t.root
}

// pickColor sets the drawing colour and recolours a selected shape or text
func (t *Toolbar) pickColor(hex string) {
	if err := t.editor.SetColor(hex); err != nil {
		return
	}
	s := t.editor.Active()
	if i, ok := s.SelectedElementIndex(); ok {
		t.editor.SetElementColor(i, hex)
	} else if a, ok := s.SelectedAnnotation(); ok {
		t.editor.UpdateAnnotation(a.ID, state.AnnotationPatch{Color: &hex})
	}
}

// currentColor is the fill of the selected shape or the colour of the
// selected text, falling back to the drawing colour
func (t *Toolbar) currentColor() string {
	s := t.editor.Active()
	if el, ok := s.SelectedElement(); ok {
		if shape, ok := el.Body.(state.Shape); ok {
			if fill, ok := markup.Fill(shape.Markup); ok {
				return fill
			}
		}
	}
	if a, ok := s.SelectedAnnotation(); ok {
		return a.Color
	}
	return t.editor.Viewport().Color
}

// Refresh mirrors the editor state into the controls
func (t *Toolbar) Refresh() {
	v := t.editor.Viewport()

	t.syncing = true
	t.tools.SetSelected(toolLabel(v.Tool))
	t.syncing = false

	current := t.currentColor()
	for _, s := range t.swatches {
		selected := strings.EqualFold(s.Hex, current)
		if s.Selected != selected {
			s.Selected = selected
			s.updateBorder()
		}
	}

	if t.editor.CanUndo() {
		t.undo.Enable()
	} else {
		t.undo.Disable()
	}
	if t.editor.CanRedo() {
		t.redo.Enable()
	} else {
		t.redo.Disable()
	}
	t.zoom.SetText(zoomText(v.Zoom))
}

func zoomText(zoom float64) string {
	return fmt.Sprintf("%.0f%%", zoom*100)
}
