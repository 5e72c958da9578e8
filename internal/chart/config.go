// Package chart is the boundary to the chart renderer. The editor only asks it
// for dimensions and for the first data series, the full configuration is
// decoded here for drawing and nowhere else.
package chart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"LocalSlides/internal/geometry"
)

var ErrInvalidConfig = errors.New("invalid chart config")

// DefaultSize is used when the config has no chart.width/height
var DefaultSize = geometry.Size{W: 400, H: 300}

type Config struct {
	Chart struct {
		Type   string  `json:"type"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"chart"`
	Title struct {
		Text string `json:"text"`
	} `json:"title"`
	XAxis struct {
		Categories []string `json:"categories"`
	} `json:"xAxis"`
	PlotOptions struct {
		Pie struct {
			InnerSize string `json:"innerSize"`
		} `json:"pie"`
	} `json:"plotOptions"`
	Series []Series `json:"series"`
}

type Series struct {
	Name string      `json:"name"`
	Data []DataPoint `json:"data"`
}

// DataPoint is either a bare number or an object with a name, y and color
type DataPoint struct {
	Name  string  `json:"name,omitempty"`
	Y     float64 `json:"y"`
	Color string  `json:"color,omitempty"`
}

func (p *DataPoint) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] != '{' {
		return json.Unmarshal(b, &p.Y)
	}
	type plain DataPoint
	return json.Unmarshal(b, (*plain)(p))
}

// Parse decodes a chart configuration
func Parse(raw json.RawMessage) (Config, error) {
	var cfg Config
	if !IsObject(raw) {
		return cfg, ErrInvalidConfig
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// IsObject reports whether raw holds a JSON object
func IsObject(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && b[0] == '{' && json.Valid(b)
}

// Dimensions returns chart.width and chart.height, or DefaultSize
func Dimensions(raw json.RawMessage) geometry.Size {
	var dims struct {
		Chart struct {
			Width  float64 `json:"width"`
			Height float64 `json:"height"`
		} `json:"chart"`
	}
	if err := json.Unmarshal(raw, &dims); err != nil {
		return DefaultSize
	}

	size := DefaultSize
	if dims.Chart.Width > 0 {
		size.W = dims.Chart.Width
	}
	if dims.Chart.Height > 0 {
		size.H = dims.Chart.Height
	}
	return size
}

// FirstSeries locates the first data series, used to place the center text overlay
func FirstSeries(raw json.RawMessage) (Series, bool) {
	var cfg struct {
		Series []Series `json:"series"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil || len(cfg.Series) == 0 {
		return Series{}, false
	}
	return cfg.Series[0], len(cfg.Series[0].Data) > 0
}
