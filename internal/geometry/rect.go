package geometry

import "gonum.org/v1/gonum/spatial/r2"

// Rect is an axis aligned rectangle in canvas space
type Rect struct {
	Min Point
	Max Point
}

func RectFromSize(origin Point, size Size) Rect {
	return Rect{Min: origin, Max: Point{X: origin.X + size.W, Y: origin.Y + size.H}}
}

// BoundsOf returns the bounding box of a set of points
func BoundsOf(points []Point) (Rect, bool) {
	if len(points) == 0 {
		return Rect{}, false
	}

	box := r2.Box{Min: points[0].vec(), Max: points[0].vec()}
	for _, p := range points[1:] {
		box = box.Union(r2.Box{Min: p.vec(), Max: p.vec()})
	}
	return Rect{Min: fromVec(box.Min), Max: fromVec(box.Max)}, true
}

func (r Rect) box() r2.Box {
	return r2.Box{Min: r.Min.vec(), Max: r.Max.vec()}
}

// Inflate grows the rectangle by padding on every side
func (r Rect) Inflate(padding float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X - padding, Y: r.Min.Y - padding},
		Max: Point{X: r.Max.X + padding, Y: r.Max.Y + padding},
	}
}

func (r Rect) Contains(p Point) bool {
	return r.box().Contains(p.vec())
}

// Intersects reports whether two rectangles overlap
func (r Rect) Intersects(o Rect) bool {
	return !(r.Max.X < o.Min.X || o.Max.X < r.Min.X ||
		r.Max.Y < o.Min.Y || o.Max.Y < r.Min.Y)
}

func (r Rect) Center() Point {
	return fromVec(r.box().Center())
}

func (r Rect) Size() Size {
	s := r.box().Size()
	return Size{W: s.X, H: s.Y}
}
