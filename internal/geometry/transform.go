package geometry

import "math"

// ToCanvasPoint converts a client-space pointer position to canvas space.
// origin is the client position of the canvas origin (pan included).
func ToCanvasPoint(client, origin Point, zoom, baseScale float64) Point {
	s := baseScale * zoom
	return Point{
		X: (client.X - origin.X) / s,
		Y: (client.Y - origin.Y) / s,
	}
}

// ToClientPoint is the inverse of ToCanvasPoint
func ToClientPoint(canvas, origin Point, zoom, baseScale float64) Point {
	s := baseScale * zoom
	return Point{
		X: canvas.X*s + origin.X,
		Y: canvas.Y*s + origin.Y,
	}
}

func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// ElementTransform maps element-local coordinates (0..size) to canvas space:
// translate(position), then rotate and scale about the element's own center.
func ElementTransform(position Point, size Size, rotation, scale float64) Matrix {
	c := size.Center()
	return Translate(position.X+c.X, position.Y+c.Y).
		Multiply(Rotate(Radians(rotation))).
		Multiply(Scale(scale, scale)).
		Multiply(Translate(-c.X, -c.Y))
}

// ElementCenter returns the canvas-space center of a transformed element.
// Rotation and scale are about the center, so it only depends on position.
func ElementCenter(position Point, size Size) Point {
	return position.Add(size.Center())
}

func angle(pointer, center Point) float64 {
	return math.Atan2(pointer.Y-center.Y, pointer.X-center.X)
}

// RotationOffset is recorded when a rotate gesture starts. Feeding it back to
// RotationAt with the same pointer yields rotation again.
func RotationOffset(pointer, center Point, rotation float64) float64 {
	return angle(pointer, center) - Radians(rotation)
}

// RotationAt returns the element rotation in degrees for the current pointer
func RotationAt(pointer, center Point, offset float64) float64 {
	return Degrees(angle(pointer, center) - offset)
}

// ScaleAt returns the ratio based scale for the current pointer:
// distance(pointer, center) / startDistance * startScale, clamped to
// [min, max]. The bounds are widened to contain startScale so returning to the
// start point always restores it. ok is false when startDistance is zero.
func ScaleAt(pointer, center Point, startDistance, startScale, min, max float64) (scale float64, ok bool) {
	if startDistance <= 1e-9 {
		return startScale, false
	}

	min = math.Min(min, startScale)
	max = math.Max(max, startScale)
	scale = pointer.Distance(center) / startDistance * startScale
	return math.Max(min, math.Min(max, scale)), true
}
