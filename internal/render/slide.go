package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"sync"

	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"LocalSlides/internal/geometry"
	"LocalSlides/internal/state"
)

const (
	StrokeWidth          = 2
	CenterTextSize       = 24
	ThumbnailWidth       = 160
	ThumbnailHeight      = 90
	lineSpacing          = 1.4
	singlePointDotRadius = StrokeWidth
)

var regular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// Slide composites content onto a white slide of the given size, scaled by
// scale. Elements that fail to render are skipped and reported in the
// joined error; the image is always returned.
func (c *Cache) Slide(content state.Content, size geometry.Size, scale float64) (*image.RGBA, error) {
	px := size.Scale(scale)
	w, h := max(1, int(math.Round(px.W))), max(1, int(math.Round(px.H)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	var errs []error
	for _, el := range content.Elements {
		if err := c.drawElement(dst, el, scale); err != nil {
			errs = append(errs, fmt.Errorf("element %s: %w", el.ID, err))
		}
	}
	for _, a := range content.Annotations {
		if err := drawAnnotation(dst, a, scale); err != nil {
			errs = append(errs, fmt.Errorf("annotation %s: %w", a.ID, err))
		}
	}
	return dst, errors.Join(errs...)
}

// Thumbnail renders content to fit the slide list tile
func (c *Cache) Thumbnail(content state.Content, size geometry.Size) (*image.RGBA, error) {
	return c.Slide(content, size, ThumbnailScale(size))
}

func ThumbnailScale(size geometry.Size) float64 {
	if size.Empty() {
		return 1
	}
	return math.Min(ThumbnailWidth/size.W, ThumbnailHeight/size.H)
}

func (c *Cache) drawElement(dst draw.Image, el state.Element, scale float64) error {
	k := math.Max(scale*el.Scale, 0.01)
	img, err := c.Element(el, k)
	if err != nil {
		return err
	}

	m := geometry.Scale(scale, scale).Multiply(el.Transform()).Multiply(geometry.Scale(1/k, 1/k))
	xdraw.BiLinear.Transform(dst, m.Aff3(), img, img.Bounds(), xdraw.Over, nil)

	if ch, ok := el.Body.(state.Chart); ok && ch.HasCenterOverlay() {
		center := el.Center().Mul(scale)
		return drawText(dst, []string{ch.CenterText}, center, CenterTextSize*scale*el.Scale, state.AlignCenter, color.Black, true)
	}
	return nil
}

func drawAnnotation(dst *image.RGBA, a state.Annotation, scale float64) error {
	col := Color(a.Color)
	if p, ok := a.Path(); ok {
		strokePath(dst, p.Points, scale, col)
		return nil
	}
	if t, ok := a.Text(); ok {
		s := t.Scale
		if s <= 0 {
			s = 1
		}
		return drawText(dst, strings.Split(t.Text, "\n"), t.Position.Mul(scale), t.FontSize*s*scale, t.TextAlign, col, false)
	}
	return nil
}

func strokePath(dst *image.RGBA, points []geometry.Point, scale float64, col color.Color) {
	if len(points) == 0 {
		return
	}
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	if len(points) == 1 {
		f := rasterx.NewFiller(b.Dx(), b.Dy(), scanner)
		p := points[0].Mul(scale)
		rasterx.AddCircle(p.X, p.Y, singlePointDotRadius*scale, f)
		f.SetColor(col)
		f.Draw()
		return
	}

	d := rasterx.NewDasher(b.Dx(), b.Dy(), scanner)
	width := fixed.Int26_6(math.Max(StrokeWidth*scale, 1) * 64)
	d.SetStroke(width, 4*64, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round, nil, 0)
	start := points[0].Mul(scale)
	d.Start(rasterx.ToFixedP(start.X, start.Y))
	for _, p := range points[1:] {
		p = p.Mul(scale)
		d.Line(rasterx.ToFixedP(p.X, p.Y))
	}
	d.Stop(false)
	d.SetColor(col)
	d.Draw()
}

// drawText lays lines out from origin, the top-left of the box, or its
// centre when centered is set
func drawText(dst draw.Image, lines []string, origin geometry.Point, size float64, align string, col color.Color, centered bool) error {
	if size < 1 {
		return nil
	}
	f, err := regular()
	if err != nil {
		return err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return err
	}
	defer face.Close()

	widths := make([]float64, len(lines))
	widest := 0.0
	for i, line := range lines {
		widths[i] = float64(font.MeasureString(face, line)) / 64
		widest = math.Max(widest, widths[i])
	}
	lineHeight := size * lineSpacing
	ascent := float64(face.Metrics().Ascent) / 64

	top := origin
	if centered {
		top = origin.Sub(geometry.Pt(widest/2, lineHeight*float64(len(lines))/2))
	}

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	for i, line := range lines {
		x := top.X
		switch align {
		case state.AlignCenter:
			x += (widest - widths[i]) / 2
		case state.AlignRight:
			x += widest - widths[i]
		}
		y := top.Y + float64(i)*lineHeight + (lineHeight-size)/2 + ascent
		d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
		d.DrawString(line)
	}
	return nil
}
