package ui

import (
	"encoding/json"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"LocalSlides/internal/geometry"
	"LocalSlides/internal/render"
	"LocalSlides/internal/state"
)

const paletteIconSize = 56

// Library is the built in set of elements offered in the palette
var Library = []state.Descriptor{
	{Type: state.KindShape, Name: "Rectangle", SVG: `<svg xmlns="http://www.w3.org/2000/svg" width="160" height="100" viewBox="0 0 160 100"><rect x="2" y="2" width="156" height="96" fill="#4A90D9" stroke="#000000" stroke-width="2"/></svg>`},
	{Type: state.KindShape, Name: "Circle", SVG: `<svg xmlns="http://www.w3.org/2000/svg" width="120" height="120" viewBox="0 0 120 120"><circle cx="60" cy="60" r="56" fill="#F5A623" stroke="#000000" stroke-width="2"/></svg>`},
	{Type: state.KindShape, Name: "Triangle", SVG: `<svg xmlns="http://www.w3.org/2000/svg" width="120" height="110" viewBox="0 0 120 110"><path d="M60 4 L116 106 L4 106 Z" fill="#7ED321" stroke="#000000" stroke-width="2"/></svg>`},
	{Type: state.KindShape, Name: "Arrow", SVG: `<svg xmlns="http://www.w3.org/2000/svg" width="160" height="80" viewBox="0 0 160 80"><path d="M4 28 H108 V6 L156 40 L108 74 V52 H4 Z" fill="#BD10E0" stroke="#000000" stroke-width="2"/></svg>`},
	{Type: state.KindChart, Name: "Line chart", Config: json.RawMessage(`{"chart":{"type":"line","width":400,"height":300},"title":{"text":"Sales"},"xAxis":{"categories":["Jan","Feb","Mar","Apr","May"]},"series":[{"name":"2024","data":[29,71,106,129,144]}]}`)},
	{Type: state.KindChart, Name: "Pie chart", Config: json.RawMessage(`{"chart":{"type":"pie","width":300,"height":300},"title":{"text":"Share"},"series":[{"name":"Share","data":[{"name":"A","y":45},{"name":"B","y":30},{"name":"C","y":25}]}]}`)},
	{Type: state.KindChart, Name: "Donut chart", CenterText: "75%", Config: json.RawMessage(`{"chart":{"type":"pie","width":300,"height":300},"plotOptions":{"pie":{"innerSize":"60%"}},"series":[{"name":"Done","data":[{"name":"Done","y":75,"color":"#4A90D9"},{"name":"Left","y":25,"color":"#DDDDDD"}]}]}`)},
}

// paletteItem shows one library element. Tapping drops it in the middle of
// the view, dragging drops it where the pointer is released.
type paletteItem struct {
	widget.BaseWidget
	descriptor state.Descriptor
	payload    []byte
	cache      *render.Cache
	onDrop     func(payload []byte, absolute fyne.Position)
	onTapped   func(payload []byte)

	dragAt   fyne.Position
	dragging bool
}

func newPaletteItem(d state.Descriptor, cache *render.Cache, onTapped func([]byte), onDrop func([]byte, fyne.Position)) (*paletteItem, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	p := &paletteItem{descriptor: d, payload: payload, cache: cache, onTapped: onTapped, onDrop: onDrop}
	p.ExtendBaseWidget(p)
	return p, nil
}

func (p *paletteItem) CreateRenderer() fyne.WidgetRenderer {
	preview := canvas.NewImageFromImage(nil)
	preview.FillMode = canvas.ImageFillContain
	preview.SetMinSize(fyne.NewSize(paletteIconSize, paletteIconSize))
	el := state.NewElement(p.descriptor, geometry.Point{})
	scale := paletteIconSize / max(el.Size().W, el.Size().H)
	if img, err := p.cache.Element(el, scale*2); err == nil {
		preview.Image = img
	}

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 200}
	border.StrokeWidth = 1
	border.CornerRadius = 4

	label := widget.NewLabel(p.descriptor.Name)
	label.Alignment = fyne.TextAlignCenter
	label.Truncation = fyne.TextTruncateEllipsis
	return widget.NewSimpleRenderer(container.NewBorder(nil, label, nil, nil, container.NewStack(border, preview)))
}

func (p *paletteItem) Tapped(*fyne.PointEvent) {
	if p.onTapped != nil {
		p.onTapped(p.payload)
	}
}

func (p *paletteItem) Dragged(e *fyne.DragEvent) {
	p.dragging = true
	p.dragAt = e.AbsolutePosition
}

func (p *paletteItem) DragEnd() {
	if !p.dragging {
		return
	}
	p.dragging = false
	if p.onDrop != nil {
		p.onDrop(p.payload, p.dragAt)
	}
}

// NewPalette lists the library, dropping onto target
func NewPalette(target *SlideCanvas, cache *render.Cache, logger *zap.Logger) fyne.CanvasObject {
	tapped := func(payload []byte) {
		size := target.Size()
		if err := target.Drop(payload, fyne.NewPos(size.Width/2, size.Height/2)); err != nil {
			logger.Warn("Palette drop failed", zap.Error(err))
		}
	}
	dropped := func(payload []byte, at fyne.Position) {
		origin := fyne.CurrentApp().Driver().AbsolutePositionForObject(target)
		pos := at.Subtract(origin)
		size := target.Size()
		if pos.X < 0 || pos.Y < 0 || pos.X > size.Width || pos.Y > size.Height {
			return
		}
		if err := target.Drop(payload, pos); err != nil {
			logger.Warn("Palette drop failed", zap.Error(err))
		}
	}

	items := container.NewVBox(widget.NewLabelWithStyle("Elements", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	for _, d := range Library {
		item, err := newPaletteItem(d, cache, tapped, dropped)
		if err != nil {
			logger.Error("Palette entry skipped", zap.String("name", d.Name), zap.Error(err))
			continue
		}
		items.Add(item)
	}
	return container.NewVScroll(items)
}
