package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/math/f64"
)

func TestToCanvasPoint(t *testing.T) {
	tests := []struct {
		name      string
		client    Point
		origin    Point
		zoom      float64
		baseScale float64
		want      Point
	}{
		{"identity", Pt(120, 80), Pt(0, 0), 1, 1, Pt(120, 80)},
		{"panned", Pt(170, 100), Pt(50, 20), 1, 1, Pt(120, 80)},
		{"zoomed in", Pt(240, 160), Pt(0, 0), 2, 1, Pt(120, 80)},
		{"thumbnail scale", Pt(16, 9), Pt(0, 0), 1, 0.1, Pt(160, 90)},
		{"panned and zoomed", Pt(10, 10), Pt(-230, -150), 2, 1, Pt(120, 80)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToCanvasPoint(tt.client, tt.origin, tt.zoom, tt.baseScale)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)

			back := ToClientPoint(got, tt.origin, tt.zoom, tt.baseScale)
			assert.InDelta(t, tt.client.X, back.X, 1e-9)
			assert.InDelta(t, tt.client.Y, back.Y, 1e-9)
		})
	}
}

func TestElementTransform(t *testing.T) {
	size := Size{W: 100, H: 50}

	t.Run("no rotation or scale is a translation", func(t *testing.T) {
		m := ElementTransform(Pt(10, 20), size, 0, 1)
		p := m.Apply(Pt(0, 0))
		assert.InDelta(t, 10, p.X, 1e-9)
		assert.InDelta(t, 20, p.Y, 1e-9)
	})

	t.Run("center is fixed under rotation and scale", func(t *testing.T) {
		m := ElementTransform(Pt(10, 20), size, 37, 1.7)
		c := m.Apply(size.Center())
		want := ElementCenter(Pt(10, 20), size)
		assert.InDelta(t, want.X, c.X, 1e-9)
		assert.InDelta(t, want.Y, c.Y, 1e-9)
	})

	t.Run("quarter turn is clockwise on screen", func(t *testing.T) {
		m := ElementTransform(Pt(0, 0), size, 90, 1)
		// right middle edge moves to bottom middle
		p := m.Apply(Pt(100, 25))
		assert.InDelta(t, 50, p.X, 1e-9)
		assert.InDelta(t, 75, p.Y, 1e-9)
	})

	t.Run("inverse round trips", func(t *testing.T) {
		m := ElementTransform(Pt(-5, 300), size, -212, 0.6)
		local := Pt(13, 41)
		back := m.Invert().Apply(m.Apply(local))
		assert.InDelta(t, local.X, back.X, 1e-9)
		assert.InDelta(t, local.Y, back.Y, 1e-9)
	})
}

func TestMatrixInvertSingular(t *testing.T) {
	assert.Equal(t, Identity(), Scale(0, 1).Invert())
}

func TestMatrixAff3Layout(t *testing.T) {
	m := Translate(10, 20).Multiply(Scale(2, 3))
	assert.Equal(t, f64.Aff3{2, 0, 10, 0, 3, 20}, m.Aff3())

	p := m.Apply(Pt(1, 1))
	assert.Equal(t, Pt(12, 23), p)
}

func TestRotationContinuity(t *testing.T) {
	center := Pt(200, 200)
	for _, r0 := range []float64{0, 45, -30, 180, 400, -725.5} {
		for _, pointer := range []Point{Pt(200, 150), Pt(260, 210), Pt(100, 300)} {
			offset := RotationOffset(pointer, center, r0)
			got := RotationAt(pointer, center, offset)
			assert.InDelta(t, r0, got, 1e-9, "r0=%v pointer=%v", r0, pointer)
		}
	}
}

func TestRotationFollowsPointer(t *testing.T) {
	center := Pt(0, 0)
	offset := RotationOffset(Pt(10, 0), center, 15)
	got := RotationAt(Pt(0, 10), center, offset)
	assert.InDelta(t, 105, got, 1e-9)
}

func TestScaleAt(t *testing.T) {
	center := Pt(100, 100)
	start := Pt(100, 150)
	startDistance := start.Distance(center)

	t.Run("identity at the start point", func(t *testing.T) {
		for _, s0 := range []float64{0.5, 1, 1.37, 2} {
			got, ok := ScaleAt(start, center, startDistance, s0, 0.5, 2)
			assert.True(t, ok)
			assert.InDelta(t, s0, got, 1e-9)
		}
	})

	t.Run("ratio of distances", func(t *testing.T) {
		got, ok := ScaleAt(Pt(100, 175), center, startDistance, 1, 0.5, 2)
		assert.True(t, ok)
		assert.InDelta(t, 1.5, got, 1e-9)
	})

	t.Run("independent of rotation", func(t *testing.T) {
		got, _ := ScaleAt(Pt(175, 100), center, startDistance, 1, 0.5, 2)
		assert.InDelta(t, 1.5, got, 1e-9)
	})

	t.Run("clamped", func(t *testing.T) {
		got, _ := ScaleAt(Pt(100, 500), center, startDistance, 1, 0.5, 2)
		assert.Equal(t, 2.0, got)
		got, _ = ScaleAt(Pt(100, 101), center, startDistance, 1, 0.5, 2)
		assert.Equal(t, 0.5, got)
	})

	t.Run("out of range start scale keeps identity", func(t *testing.T) {
		got, ok := ScaleAt(start, center, startDistance, 3, 0.5, 2)
		assert.True(t, ok)
		assert.InDelta(t, 3, got, 1e-9)
	})

	t.Run("zero start distance", func(t *testing.T) {
		got, ok := ScaleAt(Pt(300, 300), center, 0, 1.2, 0.5, 2)
		assert.False(t, ok)
		assert.Equal(t, 1.2, got)
		assert.False(t, math.IsNaN(got))
	})
}
