package ui

import (
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"LocalSlides/internal/editor"
	"LocalSlides/internal/state"
)

var alignments = []string{state.AlignLeft, state.AlignCenter, state.AlignRight}

// Magnification sliders work in percent
const (
	minMagnification = 50
	maxMagnification = 200
)

// percentSlider edits a magnification in percent and remembers where it
// started, so an untouched slider never rewrites an out-of-range value
type percentSlider struct {
	*widget.Slider
	start float64
}

func newPercentSlider(scale float64) percentSlider {
	s := percentSlider{Slider: widget.NewSlider(minMagnification, maxMagnification)}
	s.Step = 1
	s.SetValue(math.Round(scale * 100))
	s.start = s.Value
	return s
}

// scale returns the new scale factor, ok is false while unchanged
func (s percentSlider) scale() (float64, bool) {
	if s.Value == s.start {
		return 0, false
	}
	return s.Value / 100, true
}

// textForm is the editable state of a text annotation
type textForm struct {
	text  *widget.Entry
	font  *widget.Select
	size  *widget.Slider
	align *widget.RadioGroup
	color *widget.Select
	scale percentSlider
}

func newTextForm(color string, t state.Text) *textForm {
	f := &textForm{
		text:  widget.NewMultiLineEntry(),
		font:  widget.NewSelect(state.Fonts, nil),
		size:  widget.NewSlider(state.MinFontSize, state.MaxFontSize),
		align: widget.NewRadioGroup(alignments, nil),
		color: widget.NewSelect(state.Palette, nil),
		scale: newPercentSlider(t.Scale),
	}
	f.text.SetText(t.Text)
	f.text.SetMinRowsVisible(3)
	f.font.SetSelected(t.FontFamily)
	f.size.Step = 1
	f.size.SetValue(t.FontSize)
	f.align.Horizontal = true
	f.align.Required = true
	f.align.SetSelected(t.TextAlign)
	f.color.SetSelected(color)
	return f
}

func (f *textForm) items() []*widget.FormItem {
	return []*widget.FormItem{
		widget.NewFormItem("Text", f.text),
		widget.NewFormItem("Font", f.font),
		widget.NewFormItem("Size", f.size),
		widget.NewFormItem("Align", f.align),
		widget.NewFormItem("Color", f.color),
		widget.NewFormItem("Magnification", f.scale.Slider),
	}
}

func (f *textForm) patch() state.AnnotationPatch {
	p := state.AnnotationPatch{
		Text:     state.Ptr(f.text.Text),
		FontSize: state.Ptr(f.size.Value),
	}
	if f.font.Selected != "" {
		p.FontFamily = state.Ptr(f.font.Selected)
	}
	if f.align.Selected != "" {
		p.TextAlign = state.Ptr(f.align.Selected)
	}
	if f.color.Selected != "" {
		p.Color = state.Ptr(f.color.Selected)
	}
	if scale, ok := f.scale.scale(); ok {
		p.Scale = &scale
	}
	return p
}

// ShowTextDialog edits the text annotation id on the active slide
func ShowTextDialog(ed *editor.Editor, id string, parent fyne.Window) {
	a, ok := ed.Active().Annotation(id)
	if !ok {
		return
	}
	t, ok := a.Text()
	if !ok {
		return
	}

	f := newTextForm(a.Color, t)
	d := dialog.NewForm("Edit text", "Apply", "Cancel", f.items(), func(apply bool) {
		if apply {
			ed.UpdateAnnotation(id, f.patch())
		}
	}, parent)
	d.Resize(fyne.NewSize(420, 400))
	d.Show()
}

type elementForm struct {
	name          *widget.Entry
	scale         percentSlider
	rotation      *widget.Slider
	startRotation float64
	centerText    *widget.Entry
}

func newElementForm(el state.Element) *elementForm {
	f := &elementForm{
		name:     widget.NewEntry(),
		scale:    newPercentSlider(el.Scale),
		rotation: widget.NewSlider(0, 360),
	}
	f.name.SetText(el.Name)

	// rotation is unbounded, the slider shows it in [0, 360)
	r := math.Mod(el.Rotation, 360)
	if r < 0 {
		r += 360
	}
	f.rotation.Step = 1
	f.rotation.SetValue(r)
	f.startRotation = f.rotation.Value

	if c, ok := el.Body.(state.Chart); ok {
		f.centerText = widget.NewEntry()
		f.centerText.SetText(c.CenterText)
	}
	return f
}

func (f *elementForm) items() []*widget.FormItem {
	items := []*widget.FormItem{
		widget.NewFormItem("Name", f.name),
		widget.NewFormItem("Magnification", f.scale.Slider),
		widget.NewFormItem("Rotation", f.rotation),
	}
	if f.centerText != nil {
		items = append(items, widget.NewFormItem("Center text", f.centerText))
	}
	return items
}

func (f *elementForm) patch() state.ElementPatch {
	p := state.ElementPatch{Name: state.Ptr(f.name.Text)}
	if scale, ok := f.scale.scale(); ok {
		p.Scale = &scale
	}
	if f.rotation.Value != f.startRotation {
		p.Rotation = state.Ptr(f.rotation.Value)
	}
	if f.centerText != nil {
		p.CenterText = state.Ptr(f.centerText.Text)
	}
	return p
}

// ShowElementDialog edits the name, magnification and rotation, and for
// charts the center text, of an element on the active slide
func ShowElementDialog(ed *editor.Editor, id string, parent fyne.Window) {
	el, ok := ed.Active().ElementByID(id)
	if !ok {
		return
	}

	f := newElementForm(el)
	dialog.ShowForm("Edit element", "Apply", "Cancel", f.items(), func(apply bool) {
		if !apply {
			return
		}
		// the element may have moved in the stack while the form was open
		if index, ok := ed.Active().ElementIndex(id); ok {
			ed.UpdateElement(index, f.patch())
		}
	}, parent)
}
