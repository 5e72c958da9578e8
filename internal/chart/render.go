package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Render draws the chart at the given pixel size and returns it as PNG
func Render(cfg Config, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: empty size %dx%d", ErrInvalidConfig, width, height)
	}

	var buf bytes.Buffer
	var err error
	switch strings.ToLower(cfg.Chart.Type) {
	case "pie":
		err = renderPie(cfg, width, height, &buf)
	default:
		err = renderLine(cfg, width, height, &buf)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s chart: %w", cfg.Chart.Type, err)
	}
	return buf.Bytes(), nil
}

// RenderImage is Render decoded into an image
func RenderImage(cfg Config, width, height int) (image.Image, error) {
	b, err := Render(cfg, width, height)
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(b))
}

func renderLine(cfg Config, width, height int, buf *bytes.Buffer) error {
	c := gochart.Chart{
		Title:  cfg.Title.Text,
		Width:  width,
		Height: height,
	}
	for i, label := range cfg.XAxis.Categories {
		c.XAxis.Ticks = append(c.XAxis.Ticks, gochart.Tick{Value: float64(i), Label: label})
	}

	for _, s := range cfg.Series {
		xs := make([]float64, len(s.Data))
		ys := make([]float64, len(s.Data))
		for i, p := range s.Data {
			xs[i] = float64(i)
			ys[i] = p.Y
		}
		if len(xs) == 1 {
			// a single sample has no range to plot against
			xs = append(xs, 1)
			ys = append(ys, ys[0])
		}
		if len(xs) == 0 {
			continue
		}
		c.Series = append(c.Series, gochart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
		})
	}
	if len(c.Series) == 0 {
		return fmt.Errorf("%w: no series", ErrInvalidConfig)
	}
	if flat(c.Series) {
		c.YAxis.Range = &gochart.ContinuousRange{Min: 0, Max: math.Max(1, 2*firstY(c.Series))}
	}
	return c.Render(gochart.PNG, buf)
}

func flat(series []gochart.Series) bool {
	first := firstY(series)
	for _, s := range series {
		for _, y := range s.(gochart.ContinuousSeries).YValues {
			if y != first {
				return false
			}
		}
	}
	return true
}

func firstY(series []gochart.Series) float64 {
	return series[0].(gochart.ContinuousSeries).YValues[0]
}

func renderPie(cfg Config, width, height int, buf *bytes.Buffer) error {
	s, ok := firstSeries(cfg)
	if !ok {
		return fmt.Errorf("%w: no series", ErrInvalidConfig)
	}

	values := make([]gochart.Value, 0, len(s.Data))
	for _, p := range s.Data {
		v := gochart.Value{Label: p.Name, Value: p.Y}
		if p.Color != "" {
			v.Style = gochart.Style{FillColor: drawing.ParseColor(p.Color)}
		}
		values = append(values, v)
	}

	if cfg.PlotOptions.Pie.InnerSize != "" {
		return gochart.DonutChart{
			Title:  cfg.Title.Text,
			Width:  width,
			Height: height,
			Values: values,
		}.Render(gochart.PNG, buf)
	}
	return gochart.PieChart{
		Title:  cfg.Title.Text,
		Width:  width,
		Height: height,
		Values: values,
	}.Render(gochart.PNG, buf)
}

func firstSeries(cfg Config) (Series, bool) {
	if len(cfg.Series) == 0 || len(cfg.Series[0].Data) == 0 {
		return Series{}, false
	}
	return cfg.Series[0], true
}
