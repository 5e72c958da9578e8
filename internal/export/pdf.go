// Package export writes slide decks to PDF with gofpdf. Each slide becomes
// one page the size of the slide, elements are embedded as rendered images
// and annotations are drawn as vector lines and core-font text.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"LocalSlides/internal/geometry"
	"LocalSlides/internal/render"
	"LocalSlides/internal/state"
)

// PointsPerPixel converts canvas pixels at 96 dpi to PDF points
const PointsPerPixel = 0.75

// ImageScale is the oversampling used for embedded element images
const ImageScale = 2

type Options struct {
	Size  geometry.Size
	Title string
}

// PDF writes one page per slide to w. Elements that fail to render are left
// out of the page and reported in the returned error once the document has
// been written.
func PDF(w io.Writer, slides []*state.Slide, opts Options, cache *render.Cache) error {
	if len(slides) == 0 {
		return errors.New("no slides to export")
	}
	if cache == nil {
		cache = render.NewCache()
	}

	page := gofpdf.SizeType{Wd: opts.Size.W * PointsPerPixel, Ht: opts.Size.H * PointsPerPixel}
	p := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt", Size: page})
	p.SetAutoPageBreak(false, 0)
	p.SetCreator("LocalSlides", true)
	if opts.Title != "" {
		p.SetTitle(opts.Title, true)
	}

	var errs []error
	for i, s := range slides {
		// "P" keeps page exactly as given, "L" would swap it
		p.AddPageFormat("P", page)

		content := s.Content()
		for _, el := range content.Elements {
			if err := drawElement(p, cache, fmt.Sprintf("s%d-%s", i, el.ID), el); err != nil {
				errs = append(errs, fmt.Errorf("slide %d element %s: %w", i+1, el.ID, err))
			}
		}
		for _, a := range content.Annotations {
			drawAnnotation(p, a)
		}
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return errors.Join(errs...)
}

// PDFFile is PDF into a file at path
func PDFFile(path string, slides []*state.Slide, opts Options, cache *render.Cache) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	werr := PDF(f, slides, opts, cache)
	if err := f.Close(); err != nil && werr == nil {
		return err
	}
	return werr
}

func pt(v float64) float64 {
	return v * PointsPerPixel
}

func drawElement(p *gofpdf.Fpdf, cache *render.Cache, name string, el state.Element) error {
	img, err := cache.Element(el, ImageScale)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	p.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
	if err := p.Error(); err != nil {
		return err
	}

	size := el.Size().Scale(el.Scale)
	center := el.Center()
	x, y := center.X-size.W/2, center.Y-size.H/2

	p.TransformBegin()
	p.TransformRotate(-el.Rotation, pt(center.X), pt(center.Y))
	p.ImageOptions(name, pt(x), pt(y), pt(size.W), pt(size.H), false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	if ch, ok := el.Body.(state.Chart); ok && ch.HasCenterOverlay() {
		p.SetFont("Helvetica", "B", pt(render.CenterTextSize*el.Scale))
		p.SetTextColor(0, 0, 0)
		tw := p.GetStringWidth(ch.CenterText)
		p.Text(pt(center.X)-tw/2, pt(center.Y)+pt(render.CenterTextSize*el.Scale)/3, ch.CenterText)
	}
	p.TransformEnd()
	return nil
}

func drawAnnotation(p *gofpdf.Fpdf, a state.Annotation) {
	r, g, b := rgb(render.Color(a.Color))

	if path, ok := a.Path(); ok {
		p.SetDrawColor(r, g, b)
		p.SetFillColor(r, g, b)
		p.SetLineWidth(pt(render.StrokeWidth))
		p.SetLineCapStyle("round")
		p.SetLineJoinStyle("round")
		if len(path.Points) == 1 {
			c := path.Points[0]
			p.Circle(pt(c.X), pt(c.Y), pt(render.StrokeWidth), "F")
			return
		}
		for i := 1; i < len(path.Points); i++ {
			from, to := path.Points[i-1], path.Points[i]
			p.Line(pt(from.X), pt(from.Y), pt(to.X), pt(to.Y))
		}
		return
	}

	if t, ok := a.Text(); ok {
		scale := t.Scale
		if scale <= 0 {
			scale = 1
		}
		size := pt(t.FontSize * scale)
		p.SetFont(coreFont(t.FontFamily), "", size)
		p.SetTextColor(r, g, b)

		lines := strings.Split(t.Text, "\n")
		widest := 0.0
		for _, line := range lines {
			widest = math.Max(widest, p.GetStringWidth(line))
		}
		lineHeight := size * 1.4
		for i, line := range lines {
			x := pt(t.Position.X)
			switch t.TextAlign {
			case state.AlignCenter:
				x += (widest - p.GetStringWidth(line)) / 2
			case state.AlignRight:
				x += widest - p.GetStringWidth(line)
			}
			y := pt(t.Position.Y) + float64(i)*lineHeight + (lineHeight+size)/2 - size*0.2
			p.Text(x, y, line)
		}
	}
}

// coreFont maps an editor font family to one of the PDF core fonts
func coreFont(family string) string {
	switch strings.ToLower(family) {
	case "times new roman", "georgia":
		return "Times"
	case "courier new":
		return "Courier"
	default:
		return "Helvetica"
	}
}

func rgb(c color.Color) (int, int, int) {
	v := color.RGBAModel.Convert(c).(color.RGBA)
	return int(v.R), int(v.G), int(v.B)
}
