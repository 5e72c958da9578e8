package state

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSlides/internal/geometry"
)

var rectDescriptor = Descriptor{
	Type: KindShape,
	Name: "Blue Rectangle",
	SVG:  `<svg width='120' height='60'><rect width='120' height='60' fill='blue'/></svg>`,
}

func TestAddElement(t *testing.T) {
	s := NewSlide()
	s.AddElement(rectDescriptor, geometry.Pt(10, 10))
	i := s.AddElement(rectDescriptor, geometry.Pt(120, 80))

	assert.Equal(t, 1, i)
	e, ok := s.Element(i)
	require.True(t, ok)
	assert.Equal(t, geometry.Pt(120, 80), e.Position)
	assert.Equal(t, 0.0, e.Rotation)
	assert.Equal(t, 1.0, e.Scale)
	assert.Equal(t, Shape{Markup: rectDescriptor.SVG}, e.Body)
	assert.Equal(t, geometry.Size{W: 120, H: 60}, e.Size())

	sel, ok := s.SelectedElementIndex()
	assert.True(t, ok)
	assert.Equal(t, 1, sel)
}

func TestSelectionIsExclusive(t *testing.T) {
	s := NewSlide()
	s.AddElement(rectDescriptor, geometry.Pt(0, 0))
	require.True(t, s.AddAnnotation(Annotation{ID: "a1", Color: "#000000", Body: Text{Text: "hi"}}))

	require.True(t, s.SelectAnnotation("a1"))
	_, ok := s.SelectedElementIndex()
	assert.False(t, ok)

	require.True(t, s.SelectElement(0))
	_, ok = s.SelectedAnnotation()
	assert.False(t, ok)

	s.ClearSelection()
	assert.Equal(t, Selection{}, s.Selection())
}

func TestDeleteSelectedClearsSelection(t *testing.T) {
	s := NewSlide()
	s.AddElement(rectDescriptor, geometry.Pt(0, 0))
	s.AddElement(rectDescriptor, geometry.Pt(5, 5))
	s.AddElement(rectDescriptor, geometry.Pt(9, 9))
	require.True(t, s.SelectElement(1))

	require.True(t, s.DeleteElement(1))
	_, ok := s.SelectedElementIndex()
	assert.False(t, ok)
	assert.Len(t, s.Elements(), 2)
}

func TestDeleteAboveSelectionKeepsTarget(t *testing.T) {
	s := NewSlide()
	s.AddElement(rectDescriptor, geometry.Pt(0, 0))
	s.AddElement(rectDescriptor, geometry.Pt(5, 5))
	selected, _ := s.SelectedElement()

	require.True(t, s.DeleteElement(0))
	i, ok := s.SelectedElementIndex()
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, selected.ID, s.Elements()[i].ID)
}

func TestSelectionStaysValidUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewSlide()

	for step := 0; step < 500; step++ {
		n := len(s.Elements())
		switch rng.Intn(4) {
		case 0, 1:
			s.AddElement(rectDescriptor, geometry.Pt(rng.Float64()*100, rng.Float64()*100))
		case 2:
			sel, hadSel := s.SelectedElementIndex()
			i := rng.Intn(n + 2)
			deleted := s.DeleteElement(i)
			if deleted && hadSel && sel == i {
				_, ok := s.SelectedElementIndex()
				assert.False(t, ok, "deleting the selected element must clear selection")
			}
		case 3:
			s.SelectElement(rng.Intn(n + 1))
		}

		if i, ok := s.SelectedElementIndex(); ok {
			assert.True(t, i >= 0 && i < len(s.Elements()), "step %d index %d", step, i)
		} else {
			assert.NotEqual(t, SelectElement, s.Selection().Kind, "dangling selection at step %d", step)
		}
	}
}

func TestUpdateElement(t *testing.T) {
	s := NewSlide()
	s.AddElement(rectDescriptor, geometry.Pt(0, 0))
	before := s.Content()

	ok := s.UpdateElement(0, ElementPatch{
		Position: Ptr(geometry.Pt(3, 4)),
		Rotation: Ptr(-45.0),
		Scale:    Ptr(1.5),
		Name:     Ptr("renamed"),
	})
	require.True(t, ok)

	e, _ := s.Element(0)
	assert.Equal(t, geometry.Pt(3, 4), e.Position)
	assert.Equal(t, -45.0, e.Rotation)
	assert.Equal(t, 1.5, e.Scale)
	assert.Equal(t, "renamed", e.Name)

	// read-copy-write: the earlier content is untouched
	assert.Equal(t, geometry.Pt(0, 0), before.Elements[0].Position)
}

func TestUpdateElementStaleIndex(t *testing.T) {
	s := NewSlide()
	s.AddElement(rectDescriptor, geometry.Pt(0, 0))
	before := s.Content().Clone()

	assert.False(t, s.UpdateElement(3, ElementPatch{Rotation: Ptr(10.0)}))
	assert.False(t, s.UpdateElement(-1, ElementPatch{Rotation: Ptr(10.0)}))
	assert.False(t, s.UpdateElementByID("gone", ElementPatch{Rotation: Ptr(10.0)}))
	assert.Equal(t, before, s.Content())
}

func TestUpdateElementIgnoresNonPositiveScale(t *testing.T) {
	s := NewSlide()
	s.AddElement(rectDescriptor, geometry.Pt(0, 0))
	s.UpdateElement(0, ElementPatch{Scale: Ptr(0.0)})
	e, _ := s.Element(0)
	assert.Equal(t, 1.0, e.Scale)
}

func TestAnnotations(t *testing.T) {
	s := NewSlide()
	assert.False(t, s.AddAnnotation(Annotation{Body: Path{}}), "empty path is never committed")

	require.True(t, s.AddAnnotation(Annotation{ID: "p", Color: "#FF0000", Body: Path{Points: []geometry.Point{{X: 1, Y: 1}}}}))
	require.True(t, s.AddAnnotation(Annotation{ID: "t", Color: "#000000", Body: Text{Text: "x", FontSize: 16, Scale: 1}}))

	require.True(t, s.UpdateAnnotation("t", AnnotationPatch{Position: Ptr(geometry.Pt(5, 6)), Text: Ptr("hello")}))
	a, _ := s.Annotation("t")
	text, _ := a.Text()
	assert.Equal(t, geometry.Pt(5, 6), text.Position)
	assert.Equal(t, "hello", text.Text)

	// paths only take a colour
	require.True(t, s.UpdateAnnotation("p", AnnotationPatch{Position: Ptr(geometry.Pt(50, 50)), Color: Ptr("#0000FF")}))
	a, _ = s.Annotation("p")
	path, _ := a.Path()
	assert.Equal(t, []geometry.Point{{X: 1, Y: 1}}, path.Points)
	assert.Equal(t, "#0000FF", a.Color)

	require.True(t, s.SelectAnnotation("t"))
	require.True(t, s.DeleteAnnotation("t"))
	assert.Equal(t, Selection{}, s.Selection())
	assert.False(t, s.DeleteAnnotation("t"))
}

func TestRestoreDropsDanglingSelection(t *testing.T) {
	s := NewSlide()
	empty := s.Content().Clone()
	s.AddElement(rectDescriptor, geometry.Pt(0, 0))

	s.Restore(empty)
	assert.Empty(t, s.Elements())
	assert.Equal(t, Selection{}, s.Selection())
}

func TestTextBounds(t *testing.T) {
	text := Text{Position: geometry.Pt(10, 10), Text: "hi", FontSize: 16, Scale: 2}
	b := text.Bounds()
	assert.Equal(t, geometry.Pt(10, 10), b.Min)
	assert.Equal(t, geometry.Size{W: 200, H: 48}, b.Size())
}
