package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSlides/internal/geometry"
)

const blueRect = `<svg xmlns='http://www.w3.org/2000/svg' width='120' height='60'>
      <rect width='120' height='60' fill='blue' stroke='black' stroke-width='3' rx='10' ry='10' />
    </svg>`

func TestSetFill(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		color string
		want  string
	}{
		{
			name:  "rewrites existing fill",
			src:   blueRect,
			color: "#FF0000",
			want: `<svg xmlns='http://www.w3.org/2000/svg' width='120' height='60'>
      <rect width='120' height='60' fill="#FF0000" stroke='black' stroke-width='3' rx='10' ry='10' />
    </svg>`,
		},
		{
			name:  "inserts missing fill",
			src:   `<svg><circle cx="5" cy="5" r="4"/></svg>`,
			color: "red",
			want:  `<svg><circle fill="red" cx="5" cy="5" r="4"/></svg>`,
		},
		{
			name:  "only the first shape node",
			src:   `<svg><g fill="none"><path d="M0 0" fill="#000"/><rect fill="#111"/></g></svg>`,
			color: "#abcdef",
			want:  `<svg><g fill="none"><path d="M0 0" fill="#abcdef"/><rect fill="#111"/></g></svg>`,
		},
		{
			name:  "unquoted value",
			src:   `<svg><rect fill=green></rect></svg>`,
			color: "#00FF00",
			want:  `<svg><rect fill="#00FF00"></rect></svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SetFill(tt.src, tt.color)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			fill, ok := Fill(got)
			assert.True(t, ok)
			assert.Equal(t, tt.color, fill)
		})
	}
}

func TestSetFillNoShape(t *testing.T) {
	src := `<svg><ellipse rx="3" ry="2" fill="blue"/></svg>`
	got, err := SetFill(src, "#FF0000")
	assert.ErrorIs(t, err, ErrNoShapeNode)
	assert.Equal(t, src, got)
}

func TestSetFillRejectsMarkupInColor(t *testing.T) {
	got, err := SetFill(blueRect, `red" onload="x`)
	assert.ErrorIs(t, err, ErrInvalidColor)
	assert.Equal(t, blueRect, got)

	_, err = SetFill(blueRect, "  ")
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestSize(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want geometry.Size
	}{
		{"width and height", blueRect, geometry.Size{W: 120, H: 60}},
		{"px units", `<svg width="40px" height="30px"></svg>`, geometry.Size{W: 40, H: 30}},
		{"view box", `<svg viewBox="0 0 24 12"><path d="M0 0"/></svg>`, geometry.Size{W: 24, H: 12}},
		{"percent falls back", `<svg width="100%" height="50%" viewBox="0,0,80,40"></svg>`, geometry.Size{W: 80, H: 40}},
		{"nothing", `<svg><rect/></svg>`, DefaultSize},
		{"not markup", `hello`, DefaultSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Size(tt.src))
		})
	}
}

func TestViewBox(t *testing.T) {
	x, y, w, h := ViewBox(`<svg viewBox="-5 -5 10 20"></svg>`)
	assert.Equal(t, []float64{-5, -5, 10, 20}, []float64{x, y, w, h})

	x, y, w, h = ViewBox(blueRect)
	assert.Equal(t, []float64{0, 0, 120, 60}, []float64{x, y, w, h})
}
