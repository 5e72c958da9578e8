package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"LocalSlides/internal/editor"
	"LocalSlides/internal/render"
)

// slideTile is a thumbnail in the slide list
type slideTile struct {
	widget.BaseWidget
	id       string
	number   int
	active   bool
	image    *canvas.Image
	OnTapped func(id string)
}

func newSlideTile(onTapped func(string)) *slideTile {
	t := &slideTile{OnTapped: onTapped}
	t.image = canvas.NewImageFromImage(nil)
	t.image.FillMode = canvas.ImageFillContain
	t.image.SetMinSize(fyne.NewSize(render.ThumbnailWidth, render.ThumbnailHeight))
	t.ExtendBaseWidget(t)
	return t
}

func (t *slideTile) CreateRenderer() fyne.WidgetRenderer {
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeWidth = 2
	number := canvas.NewText("", theme.Color(theme.ColorNameForeground))
	number.TextSize = theme.CaptionTextSize()

	r := &slideTileRenderer{tile: t, border: border, number: number}
	r.Refresh()
	return r
}

func (t *slideTile) Tapped(*fyne.PointEvent) {
	if t.OnTapped != nil {
		t.OnTapped(t.id)
	}
}

type slideTileRenderer struct {
	tile   *slideTile
	border *canvas.Rectangle
	number *canvas.Text
}

func (r *slideTileRenderer) Layout(size fyne.Size) {
	r.tile.image.Resize(size)
	r.border.Resize(size)
	r.number.Move(fyne.NewPos(4, 2))
}

func (r *slideTileRenderer) MinSize() fyne.Size {
	return r.tile.image.MinSize().AddWidthHeight(4, 4)
}

func (r *slideTileRenderer) Refresh() {
	r.number.Text = fmt.Sprint(r.tile.number)
	if r.tile.active {
		r.border.StrokeColor = theme.Color(theme.ColorNamePrimary)
	} else {
		r.border.StrokeColor = color.Gray{Y: 190}
	}
	r.number.Refresh()
	r.border.Refresh()
	r.tile.image.Refresh()
}

func (r *slideTileRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.tile.image, r.border, r.number}
}

func (r *slideTileRenderer) Destroy() {}

// SlideList is the side bar of slide thumbnails
type SlideList struct {
	editor *editor.Editor
	cache  *render.Cache
	logger *zap.Logger

	list   *fyne.Container
	tiles  []*slideTile
	remove *widget.Button
	up     *widget.Button
	down   *widget.Button
	root   fyne.CanvasObject
}

func NewSlideList(ed *editor.Editor, cache *render.Cache, logger *zap.Logger) *SlideList {
	l := &SlideList{editor: ed, cache: cache, logger: logger}
	l.list = container.NewVBox()

	add := widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() { ed.AddSlide() })
	l.remove = widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), func() {
		ed.RemoveSlide(ed.Active().ID)
	})
	l.up = widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() { l.move(-1) })
	l.down = widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() { l.move(1) })

	buttons := container.NewGridWithColumns(4, add, l.remove, l.up, l.down)
	l.root = container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(l.list))

	ed.OnChange(func(ch editor.Change) {
		switch ch.Kind {
		case editor.ChangeCommit, editor.ChangeSlides:
			l.Refresh()
		}
	})
	l.Refresh()
	return l
}

func (l *SlideList) Object() fyne.CanvasObject {
	return l.root
}

func (l *SlideList) move(by int) {
	from := l.editor.Slides().ActiveIndex()
	l.editor.MoveSlide(from, from+by)
}

// Refresh rebuilds the thumbnails from the collection
func (l *SlideList) Refresh() {
	slides := l.editor.Slides()
	all := slides.Slides()
	for len(l.tiles) < len(all) {
		t := newSlideTile(func(id string) { l.editor.SelectSlide(id) })
		l.tiles = append(l.tiles, t)
		l.list.Add(t)
	}
	for len(l.tiles) > len(all) {
		last := l.tiles[len(l.tiles)-1]
		l.list.Remove(last)
		l.tiles = l.tiles[:len(l.tiles)-1]
	}

	size := l.editor.Options().SlideSize
	for i, s := range all {
		t := l.tiles[i]
		t.id, t.number, t.active = s.ID, i+1, s.ID == slides.ActiveID()
		img, err := l.cache.Thumbnail(s.Content(), size)
		if err != nil {
			l.logger.Debug("Thumbnail rendered with errors", zap.String("slide", s.ID), zap.Error(err))
		}
		t.image.Image = img
		t.Refresh()
	}

	index := slides.ActiveIndex()
	setEnabled(l.remove, slides.Len() > 1)
	setEnabled(l.up, index > 0)
	setEnabled(l.down, index < slides.Len()-1)
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

// tile returns the thumbnail of a slide
func (l *SlideList) tile(id string) (*slideTile, bool) {
	for _, t := range l.tiles {
		if t.id == id {
			return t, true
		}
	}
	return nil, false
}
