package ui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"LocalSlides/internal/config"
	"LocalSlides/internal/document"
	"LocalSlides/internal/geometry"
	slidenet "LocalSlides/internal/net"
	"LocalSlides/internal/render"
	"LocalSlides/internal/state"
)

// Viewer is a read only window onto a deck, either followed live from a
// presenter or browsed from a file
type Viewer struct {
	logger *zap.Logger
	cache  *render.Cache
	size   geometry.Size

	slides []*state.Slide
	index  int
	count  int

	image  *canvas.Image
	status *widget.Label
	root   fyne.CanvasObject
}

func NewViewer(cfg *config.Config, logger *zap.Logger) *Viewer {
	v := &Viewer{
		logger: logger,
		cache:  render.NewCache(),
		size:   cfg.Editor().SlideSize,
		image:  canvas.NewImageFromImage(nil),
		status: widget.NewLabel("Waiting for slides"),
	}
	v.image.FillMode = canvas.ImageFillContain
	v.image.SetMinSize(fyne.NewSize(480, 320))
	v.root = container.NewBorder(nil, v.status, nil, nil, v.image)
	return v
}

func (v *Viewer) Object() fyne.CanvasObject {
	return v.root
}

// ShowFrame displays a slide received from the presenter
func (v *Viewer) ShowFrame(f slidenet.Frame) error {
	s, err := f.Decode()
	if err != nil {
		return err
	}
	v.slides = nil
	v.index, v.count = f.Index, f.Count
	v.show(s)
	return nil
}

// SetSlides replaces the browsed deck, keeping the position where possible
func (v *Viewer) SetSlides(slides []*state.Slide) {
	v.slides = slides
	v.count = len(slides)
	v.index = min(max(v.index, 0), max(len(slides)-1, 0))
	if len(slides) > 0 {
		v.show(slides[v.index])
	}
}

// Step moves through a browsed deck
func (v *Viewer) Step(by int) bool {
	next := v.index + by
	if len(v.slides) == 0 || next < 0 || next >= len(v.slides) {
		return false
	}
	v.index = next
	v.show(v.slides[next])
	return true
}

func (v *Viewer) TypedKey(e *fyne.KeyEvent) {
	switch e.Name {
	case fyne.KeyRight, fyne.KeyDown, fyne.KeyPageDown, fyne.KeySpace:
		v.Step(1)
	case fyne.KeyLeft, fyne.KeyUp, fyne.KeyPageUp:
		v.Step(-1)
	}
}

func (v *Viewer) show(s *state.Slide) {
	img, err := v.cache.Slide(s.Content(), v.size, 1)
	if err != nil {
		v.logger.Warn("Slide rendered with errors", zap.String("slide", s.ID), zap.Error(err))
	}
	v.image.Image = img
	v.image.Refresh()
	v.status.SetText(fmt.Sprintf("Slide %d of %d", v.index+1, v.count))
}

// RunViewer follows the presenter at addr, discovering one on the local
// network when addr is empty
func RunViewer(cfg *config.Config, logger *zap.Logger, addr string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if addr == "" {
		found, err := slidenet.Discover(ctx, logger)
		if err != nil {
			return err
		}
		addr = found
	}

	fa := app.NewWithID("io.localslides.viewer")
	w := fa.NewWindow(fmt.Sprintf("%s - %s", addr, title))
	v := NewViewer(cfg, logger)
	w.SetContent(v.Object())
	w.Resize(fyne.NewSize(1024, 700))

	go func() {
		err := slidenet.Subscribe(ctx, addr, func(f slidenet.Frame) {
			fyne.Do(func() {
				if err := v.ShowFrame(f); err != nil {
					logger.Warn("Frame rejected", zap.Uint64("revision", f.Revision), zap.Error(err))
				}
			})
		})
		fyne.Do(func() {
			if err != nil {
				logger.Error("Presenter connection lost", zap.Error(err))
				v.status.SetText("Disconnected: " + err.Error())
				return
			}
			v.status.SetText("Presentation ended")
		})
	}()

	w.SetCloseIntercept(func() {
		cancel()
		w.Close()
	})
	w.ShowAndRun()
	return nil
}

// RunFileViewer browses the document at path and follows changes to it
func RunFileViewer(cfg *config.Config, logger *zap.Logger, path string) error {
	slides, err := document.ReadFile(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fa := app.NewWithID("io.localslides.viewer")
	w := fa.NewWindow(fmt.Sprintf("%s - %s", path, title))
	v := NewViewer(cfg, logger)
	v.SetSlides(slides)
	w.SetContent(v.Object())
	w.Canvas().SetOnTypedKey(v.TypedKey)
	w.Resize(fyne.NewSize(1024, 700))

	go func() {
		err := document.Watch(ctx, path, logger, func(slides []*state.Slide) {
			fyne.Do(func() { v.SetSlides(slides) })
		})
		if err != nil {
			logger.Error("Live reload stopped", zap.String("path", path), zap.Error(err))
		}
	}()

	w.SetCloseIntercept(func() {
		cancel()
		w.Close()
	})
	w.ShowAndRun()
	return nil
}
