package drawing

import (
	"LocalSlides/internal/geometry"
	"LocalSlides/internal/state"
)

// DefaultEraserRadius is the erase distance in canvas units
const DefaultEraserRadius = 10

// Hits reports whether any point of the path lies within radius of p
func Hits(path state.Path, p geometry.Point, radius float64) bool {
	bounds, ok := geometry.BoundsOf(path.Points)
	if !ok || !bounds.Inflate(radius).Contains(p) {
		return false
	}
	for _, q := range path.Points {
		if q.Within(p, radius) {
			return true
		}
	}
	return false
}

// Erase removes every path annotation touched at p, whole paths only. Text
// annotations are never erased. When nothing is hit the input slice is
// returned as is.
func Erase(annotations []state.Annotation, p geometry.Point, radius float64) (kept []state.Annotation, removed []string) {
	for i, a := range annotations {
		path, ok := a.Path()
		if !ok || !Hits(path, p, radius) {
			if removed != nil {
				kept = append(kept, a)
			}
			continue
		}
		if removed == nil {
			kept = append(make([]state.Annotation, 0, len(annotations)-1), annotations[:i]...)
		}
		removed = append(removed, a.ID)
	}
	if removed == nil {
		return annotations, nil
	}
	return kept, removed
}
