package geometry

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Matrix is a 2D affine transform stored the way x/image/draw takes it:
//
//	| m[0] m[1] m[2] |
//	| m[3] m[4] m[5] |
//	|  0    0    1   |
//
// Apply maps (x, y) to (m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]).
type Matrix f64.Aff3

func Identity() Matrix {
	return Matrix{1, 0, 0, 0, 1, 0}
}

func Translate(x, y float64) Matrix {
	return Matrix{1, 0, x, 0, 1, y}
}

func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, 0, sy, 0}
}

// Rotate returns a rotation by angle radians, clockwise on a y-down canvas
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{cos, -sin, 0, sin, cos, 0}
}

// Aff3 returns m for x/image/draw transformers
func (m Matrix) Aff3() f64.Aff3 {
	return f64.Aff3(m)
}

// Multiply returns m·other, so other is applied first
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[3],
		m[0]*other[1] + m[1]*other[4],
		m[0]*other[2] + m[1]*other[5] + m[2],
		m[3]*other[0] + m[4]*other[3],
		m[3]*other[1] + m[4]*other[4],
		m[3]*other[2] + m[4]*other[5] + m[5],
	}
}

func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// Invert returns the inverse transform. A singular matrix inverts to the identity.
func (m Matrix) Invert() Matrix {
	det := m[0]*m[4] - m[1]*m[3]
	if math.Abs(det) < 1e-10 {
		return Identity()
	}

	inv := 1 / det
	return Matrix{
		m[4] * inv,
		-m[1] * inv,
		(m[1]*m[5] - m[4]*m[2]) * inv,
		-m[3] * inv,
		m[0] * inv,
		(m[3]*m[2] - m[0]*m[5]) * inv,
	}
}
