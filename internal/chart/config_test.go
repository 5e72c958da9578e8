package chart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSlides/internal/geometry"
)

const lineConfig = `{
  "chart": {"type": "line", "width": 400, "height": 300},
  "title": {"text": "Line Chart Example"},
  "xAxis": {"categories": ["Jan", "Feb", "Mar", "Apr"]},
  "series": [
    {"data": [15, 20, 35, 50], "name": "Sales"},
    {"data": [5, 15, 25, 35], "name": "Revenue"}
  ]
}`

const donutConfig = `{
  "chart": {"type": "pie", "width": 300, "height": 300},
  "title": {"text": ""},
  "plotOptions": {"pie": {"innerSize": "70%", "borderWidth": 2, "dataLabels": {"enabled": false}}},
  "series": [{
    "name": "Data",
    "data": [
      {"name": "Moderate", "y": 182, "color": "#f6c23e"},
      {"name": "Other", "y": 100, "color": "#e4e4e4"}
    ]
  }]
}`

func TestParse(t *testing.T) {
	cfg, err := Parse(json.RawMessage(lineConfig))
	require.NoError(t, err)
	assert.Equal(t, "line", cfg.Chart.Type)
	assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr"}, cfg.XAxis.Categories)
	require.Len(t, cfg.Series, 2)
	assert.Equal(t, []DataPoint{{Y: 15}, {Y: 20}, {Y: 35}, {Y: 50}}, cfg.Series[0].Data)

	cfg, err = Parse(json.RawMessage(donutConfig))
	require.NoError(t, err)
	assert.Equal(t, "70%", cfg.PlotOptions.Pie.InnerSize)
	assert.Equal(t, DataPoint{Name: "Moderate", Y: 182, Color: "#f6c23e"}, cfg.Series[0].Data[0])
}

func TestParseRejectsNonObject(t *testing.T) {
	for _, raw := range []string{``, `null`, `[1,2]`, `{"chart":`} {
		_, err := Parse(json.RawMessage(raw))
		assert.ErrorIs(t, err, ErrInvalidConfig, raw)
	}
}

func TestDimensions(t *testing.T) {
	assert.Equal(t, geometry.Size{W: 400, H: 300}, Dimensions(json.RawMessage(lineConfig)))
	assert.Equal(t, geometry.Size{W: 250, H: 300}, Dimensions(json.RawMessage(`{"chart":{"width":250}}`)))
	assert.Equal(t, DefaultSize, Dimensions(json.RawMessage(`nope`)))
}

func TestFirstSeries(t *testing.T) {
	s, ok := FirstSeries(json.RawMessage(donutConfig))
	require.True(t, ok)
	assert.Equal(t, "Data", s.Name)
	assert.Len(t, s.Data, 2)

	_, ok = FirstSeries(json.RawMessage(`{"series": []}`))
	assert.False(t, ok)
	_, ok = FirstSeries(json.RawMessage(`{"series": [{"name": "x", "data": []}]}`))
	assert.False(t, ok)
}
