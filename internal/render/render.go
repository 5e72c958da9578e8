// Package render rasterizes slide content: shapes through oksvg, charts
// through go-chart, annotations through rasterx, and whole slides by
// compositing the element images with their transforms.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"LocalSlides/internal/chart"
	"LocalSlides/internal/markup"
	"LocalSlides/internal/state"
)

var ErrEmptyImage = errors.New("empty image size")

// Color parses a CSS style colour. Unknown names and malformed hex codes
// fall back to black.
func Color(s string) color.Color {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") && len(s) != 4 && len(s) != 7 {
		return color.Black
	}
	c := drawing.ParseColor(s)
	if c.IsZero() {
		return color.Black
	}
	return c
}

// Shape rasterizes SVG markup into a w×h image
func Shape(src string, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, w, h)
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(src), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse shape markup: %w", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		x, y, vw, vh := markup.ViewBox(src)
		if vw <= 0 || vh <= 0 {
			size := markup.Size(src)
			x, y, vw, vh = 0, 0, size.W, size.H
		}
		icon.ViewBox.X, icon.ViewBox.Y, icon.ViewBox.W, icon.ViewBox.H = x, y, vw, vh
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

// Chart renders a chart config into a w×h image
func Chart(config []byte, w, h int) (image.Image, error) {
	cfg, err := chart.Parse(config)
	if err != nil {
		return nil, err
	}
	return chart.RenderImage(cfg, w, h)
}

// Element renders the body of el at its untransformed size times scale
func Element(el state.Element, scale float64) (image.Image, error) {
	w, h := pixels(el, scale)
	switch b := el.Body.(type) {
	case state.Shape:
		return Shape(b.Markup, w, h)
	case state.Chart:
		return Chart(b.Config, w, h)
	default:
		return nil, fmt.Errorf("unknown element body %T", el.Body)
	}
}

func pixels(el state.Element, scale float64) (int, int) {
	size := el.Size().Scale(scale)
	return max(1, int(math.Ceil(size.W))), max(1, int(math.Ceil(size.H)))
}

type cacheKey struct {
	body string
	w, h int
}

// Cache memoizes element images by body content and pixel size. Entries are
// evicted oldest first once Limit is reached.
type Cache struct {
	Limit int

	mu    sync.Mutex
	items map[cacheKey]image.Image
	order []cacheKey
}

const DefaultCacheLimit = 128

func NewCache() *Cache {
	return &Cache{Limit: DefaultCacheLimit, items: make(map[cacheKey]image.Image)}
}

func (c *Cache) Element(el state.Element, scale float64) (image.Image, error) {
	w, h := pixels(el, scale)
	key := cacheKey{w: w, h: h}
	switch b := el.Body.(type) {
	case state.Shape:
		key.body = "svg:" + b.Markup
	case state.Chart:
		key.body = "chart:" + string(b.Config)
	}

	c.mu.Lock()
	img, ok := c.items[key]
	c.mu.Unlock()
	if ok {
		return img, nil
	}

	img, err := Element(el, scale)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; !ok {
		c.items[key] = img
		c.order = append(c.order, key)
		for c.Limit > 0 && len(c.order) > c.Limit {
			delete(c.items, c.order[0])
			c.order = c.order[1:]
		}
	}
	return img, nil
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
