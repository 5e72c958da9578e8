// Package config loads editor settings from defaults, an optional YAML file
// and LOCALSLIDES_* environment variables, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"LocalSlides/internal/editor"
	"LocalSlides/internal/geometry"
	"LocalSlides/internal/state"
	"LocalSlides/internal/validation"
)

var ErrInvalidConfig = errors.New("invalid config")

const EnvPrefix = "LOCALSLIDES_"

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

type Config struct {
	SlideWidth    float64     `yaml:"slide_width" validate:"gte=100,lte=1000000"`
	SlideHeight   float64     `yaml:"slide_height" validate:"gte=100,lte=1000000"`
	BaseScale     float64     `yaml:"base_scale" validate:"gt=0"`
	ClampToSlide  bool        `yaml:"clamp_to_slide"`
	MinScale      float64     `yaml:"min_scale" validate:"gt=0"`
	MaxScale      float64     `yaml:"max_scale" validate:"gtfield=MinScale"`
	EraserRadius  float64     `yaml:"eraser_radius" validate:"gt=0"`
	HandleRadius  float64     `yaml:"handle_radius" validate:"gt=0"`
	HandleOffset  float64     `yaml:"handle_offset" validate:"gte=0"`
	ZoomStep      float64     `yaml:"zoom_step" validate:"gt=1"`
	WheelZoomStep float64     `yaml:"wheel_zoom_step" validate:"gt=1"`
	HistoryLimit  int         `yaml:"history_limit" validate:"gte=0"`
	DefaultColor  string      `yaml:"default_color" validate:"required,color"`
	LogLevel      string      `yaml:"log_level" validate:"oneof=debug info warn error"`
	Environment   Environment `yaml:"environment" validate:"oneof=development production"`
	FeedEnabled   bool        `yaml:"feed_enabled"`
	FeedPort      int         `yaml:"feed_port" validate:"min=1,max=65535"`
	MDNSEnabled   bool        `yaml:"mdns_enabled"`
}

func Default() *Config {
	opts := editor.DefaultOptions()
	return &Config{
		SlideWidth:    opts.SlideSize.W,
		SlideHeight:   opts.SlideSize.H,
		BaseScale:     opts.BaseScale,
		ClampToSlide:  opts.ClampToSlide,
		MinScale:      opts.MinScale,
		MaxScale:      opts.MaxScale,
		EraserRadius:  opts.EraserRadius,
		HandleRadius:  opts.HandleRadius,
		HandleOffset:  opts.HandleOffset,
		ZoomStep:      opts.ZoomStep,
		WheelZoomStep: opts.WheelZoomStep,
		HistoryLimit:  opts.HistoryLimit,
		DefaultColor:  state.Palette[0],
		LogLevel:      "info",
		Environment:   Development,
		FeedPort:      8888,
		MDNSEnabled:   true,
	}
}

// Load builds the configuration. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	v := validation.New(ErrInvalidConfig)
	applyEnv(cfg, os.LookupEnv, v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	v := validation.New(ErrInvalidConfig)
	v.Struct("", c)
	return v.Err()
}

// Editor converts the settings into editor options
func (c *Config) Editor() editor.Options {
	return editor.Options{
		SlideSize:     geometry.Size{W: c.SlideWidth, H: c.SlideHeight},
		BaseScale:     c.BaseScale,
		ClampToSlide:  c.ClampToSlide,
		MinScale:      c.MinScale,
		MaxScale:      c.MaxScale,
		EraserRadius:  c.EraserRadius,
		HandleRadius:  c.HandleRadius,
		HandleOffset:  c.HandleOffset,
		ZoomStep:      c.ZoomStep,
		WheelZoomStep: c.WheelZoomStep,
		HistoryLimit:  c.HistoryLimit,
		DefaultColor:  c.DefaultColor,
	}
}

// EnvName is the variable overriding the field with the given yaml key
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// applyEnv overlays every field whose variable is set. Values that do not
// parse are recorded in v.
func applyEnv(cfg *Config, lookup func(string) (string, bool), v *validation.Errors) {
	rv := reflect.ValueOf(cfg).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		key := strings.SplitN(rt.Field(i).Tag.Get("yaml"), ",", 2)[0]
		name := EnvName(key)
		raw, ok := lookup(name)
		if !ok {
			continue
		}
		raw = strings.TrimSpace(raw)

		field := rv.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				v.Add(name, "must be a boolean")
				continue
			}
			field.SetBool(b)
		case reflect.Int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				v.Add(name, "must be an integer")
				continue
			}
			field.SetInt(int64(n))
		case reflect.Float64:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				v.Add(name, "must be a number")
				continue
			}
			field.SetFloat(f)
		}
	}
}
