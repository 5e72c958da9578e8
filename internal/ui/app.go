package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/hashicorp/mdns"
	"go.uber.org/zap"

	"LocalSlides/internal/config"
	"LocalSlides/internal/document"
	"LocalSlides/internal/editor"
	"LocalSlides/internal/export"
	slidenet "LocalSlides/internal/net"
	"LocalSlides/internal/render"
	"LocalSlides/internal/state"
)

const title = "LocalSlides"

// App is the editor window
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	editor *editor.Editor
	cache  *render.Cache
	feed   *slidenet.Feed

	window fyne.Window
	canvas *SlideCanvas
	slides *SlideList
	tools  *Toolbar
	status *widget.Label
	path   string
}

// NewApp builds the editor window on fa, without showing it
func NewApp(fa fyne.App, cfg *config.Config, logger *zap.Logger) *App {
	ed := editor.New(cfg.Editor(), logger)
	a := &App{
		cfg:    cfg,
		logger: logger,
		editor: ed,
		cache:  render.NewCache(),
		window: fa.NewWindow(title),
		status: widget.NewLabel(""),
	}
	a.window.Resize(fyne.NewSize(1280, 800))

	a.canvas = NewSlideCanvas(ed, a.cache, logger)
	a.canvas.OnEditText = func(id string) { ShowTextDialog(ed, id, a.window) }
	a.canvas.OnEditElement = func(id string) { ShowElementDialog(ed, id, a.window) }
	a.slides = NewSlideList(ed, a.cache, logger)
	a.tools = NewToolbar(ed, FileActions{
		Open:      a.showOpen,
		Save:      a.showSave,
		ExportPDF: a.showExport,
	})
	palette := NewPalette(a.canvas, a.cache, logger)

	a.window.SetContent(container.NewBorder(
		a.tools.Object(), a.status, a.slides.Object(), palette, a.canvas))
	a.window.SetOnDropped(a.dropped)
	a.addShortcuts()

	ed.OnChange(a.changed)
	a.updateStatus()
	return a
}

func (a *App) Editor() *editor.Editor { return a.editor }
func (a *App) Window() fyne.Window    { return a.window }

func (a *App) addShortcuts() {
	c := a.window.Canvas()
	for _, s := range []*desktop.CustomShortcut{
		{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift},
		{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
	} {
		c.AddShortcut(s, func(typed fyne.Shortcut) {
			if cs, ok := typed.(*desktop.CustomShortcut); ok {
				handleShortcut(a.editor, cs)
			}
		})
	}
}

func (a *App) changed(ch editor.Change) {
	switch ch.Kind {
	case editor.ChangeCommit, editor.ChangeSlides:
		a.publish()
	}
	a.updateStatus()
}

func (a *App) updateStatus() {
	slides := a.editor.Slides()
	text := fmt.Sprintf("Slide %d of %d", slides.ActiveIndex()+1, slides.Len())
	if a.feed != nil {
		text += fmt.Sprintf("   %d viewers", a.feed.Viewers())
	}
	a.status.SetText(text)
}

// publish sends the active slide to connected viewers
func (a *App) publish() {
	if a.feed == nil {
		return
	}
	slides := a.editor.Slides()
	frame, err := slidenet.NewFrame(a.editor.Revision(), slides.ActiveIndex(), slides.Len(), slides.Active())
	if err != nil {
		a.logger.Error("Frame not built", zap.Error(err))
		return
	}
	if err := a.feed.Publish(frame); err != nil {
		a.logger.Warn("Frame not published", zap.Error(err))
	}
}

// Open replaces the deck with the document at path
func (a *App) Open(path string) error {
	slides, err := document.ReadFile(path)
	if err != nil {
		return err
	}
	if err := a.editor.ReplaceSlides(slides); err != nil {
		return err
	}
	a.setPath(path)
	a.logger.Info("Opened document", zap.String("path", path), zap.Int("slides", len(slides)))
	return nil
}

func (a *App) Save(path string) error {
	if err := document.WriteFile(path, a.editor.Slides().Slides()); err != nil {
		return err
	}
	a.setPath(path)
	a.logger.Info("Saved document", zap.String("path", path))
	return nil
}

func (a *App) setPath(path string) {
	a.path = path
	a.window.SetTitle(fmt.Sprintf("%s - %s", filepath.Base(path), title))
}

func (a *App) pdfOptions() export.Options {
	name := title
	if a.path != "" {
		name = strings.TrimSuffix(filepath.Base(a.path), filepath.Ext(a.path))
	}
	return export.Options{Size: a.editor.Options().SlideSize, Title: name}
}

func (a *App) showOpen() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if r == nil {
			return
		}
		defer r.Close()
		if err := a.load(r); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.setPath(r.URI().Path())
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

func (a *App) load(r io.Reader) error {
	slides, err := document.Import(r)
	if err != nil {
		return err
	}
	return a.editor.ReplaceSlides(slides)
}

func (a *App) showSave() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if w == nil {
			return
		}
		defer w.Close()
		if err := document.Export(w, a.editor.Slides().Slides()); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.setPath(w.URI().Path())
	}, a.window)
	d.SetFileName("slides.json")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

func (a *App) showExport() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if w == nil {
			return
		}
		defer w.Close()
		// a partial export still writes the document
		if err := export.PDF(w, a.editor.Slides().Slides(), a.pdfOptions(), a.cache); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export", "Slides exported to "+w.URI().Name(), a.window)
	}, a.window)
	d.SetFileName("slides.pdf")
	d.Show()
}

// dropped opens dropped documents and places dropped SVG files as shapes
func (a *App) dropped(pos fyne.Position, uris []fyne.URI) {
	for _, u := range uris {
		var err error
		switch strings.ToLower(u.Extension()) {
		case ".json":
			err = a.Open(u.Path())
		case ".svg":
			err = a.dropShape(u, pos)
		default:
			a.logger.Debug("Ignored dropped file", zap.String("uri", u.String()))
			continue
		}
		if err != nil {
			a.logger.Warn("Dropped file rejected", zap.String("uri", u.String()), zap.Error(err))
			dialog.ShowError(err, a.window)
		}
	}
}

func (a *App) dropShape(u fyne.URI, pos fyne.Position) error {
	r, err := storage.Reader(u)
	if err != nil {
		return err
	}
	defer r.Close()
	src, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(state.Descriptor{
		Type: state.KindShape,
		Name: strings.TrimSuffix(u.Name(), u.Extension()),
		SVG:  string(src),
	})
	if err != nil {
		return err
	}
	origin := fyne.CurrentApp().Driver().AbsolutePositionForObject(a.canvas)
	return a.canvas.Drop(payload, pos.Subtract(origin))
}

// serve starts the presenter feed and its mDNS record until ctx is done
func (a *App) serve(ctx context.Context) {
	a.feed = slidenet.NewFeed(a.logger)
	a.feed.SetOnViewers(func(int) { fyne.Do(a.updateStatus) })
	a.publish()

	go func() {
		addr := fmt.Sprintf(":%d", a.cfg.FeedPort)
		if err := slidenet.ListenAndServe(ctx, addr, a.feed, a.logger); err != nil {
			a.logger.Error("Presenter feed stopped", zap.Error(err))
		}
	}()

	if !a.cfg.MDNSEnabled {
		return
	}
	server, err := slidenet.Advertise(a.cfg.FeedPort, a.logger)
	if err != nil {
		a.logger.Warn("Presenter feed not advertised", zap.Error(err))
		return
	}
	go func(s *mdns.Server) {
		<-ctx.Done()
		_ = s.Shutdown()
	}(server)
	a.logger.Info("Viewers can join", zap.String("link", slidenet.ShareLink(a.cfg.FeedPort)))
}

// RunApp opens the editor window, loading path when given, and blocks until
// it is closed
func RunApp(cfg *config.Config, logger *zap.Logger, path string) error {
	fa := app.NewWithID("io.localslides.editor")
	a := NewApp(fa, cfg, logger)
	if path != "" {
		if err := a.Open(path); err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.FeedEnabled {
		a.serve(ctx)
	}

	a.window.SetCloseIntercept(func() {
		cancel()
		a.window.Close()
	})
	a.window.ShowAndRun()
	return nil
}
