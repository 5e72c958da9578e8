package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position in client or canvas space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the width and height of a slide or an element
type Size struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

func fromVec(v r2.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

func (p Point) Add(q Point) Point {
	return fromVec(r2.Add(p.vec(), q.vec()))
}

func (p Point) Sub(q Point) Point {
	return fromVec(r2.Sub(p.vec(), q.vec()))
}

func (p Point) Mul(f float64) Point {
	return fromVec(r2.Scale(f, p.vec()))
}

// Distance returns the euclidean distance between p and q
func (p Point) Distance(q Point) float64 {
	return r2.Norm(r2.Sub(p.vec(), q.vec()))
}

// Within reports whether q lies inside the circle of the given radius around p
func (p Point) Within(q Point, radius float64) bool {
	return r2.Norm2(r2.Sub(p.vec(), q.vec())) <= radius*radius
}

// Clamp limits p to the rectangle [0,size.W]x[0,size.H]
func (p Point) Clamp(size Size) Point {
	return Point{
		X: math.Max(0, math.Min(size.W, p.X)),
		Y: math.Max(0, math.Min(size.H, p.Y)),
	}
}

// Center returns the middle of a box of this size anchored at the origin
func (s Size) Center() Point {
	return Point{X: s.W / 2, Y: s.H / 2}
}

func (s Size) Scale(f float64) Size {
	return Size{W: s.W * f, H: s.H * f}
}

// Empty reports whether the size has no area
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}
