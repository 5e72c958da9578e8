package state

import (
	"slices"

	"LocalSlides/internal/geometry"
)

// SelectionKind says what, if anything, is selected on a slide
type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectElement
	SelectAnnotation
)

// Selection refers to at most one element or annotation by id
type Selection struct {
	Kind SelectionKind
	ID   string
}

// Slide is one independent page: its content plus its selection.
// Every mutation replaces the content slices instead of writing into them,
// so a Content returned earlier is never changed underneath its holder.
type Slide struct {
	ID        string
	content   Content
	selection Selection
}

func NewSlide() *Slide {
	return &Slide{ID: NewID()}
}

// RestoreSlide rebuilds a slide from stored content
func RestoreSlide(id string, content Content) *Slide {
	return &Slide{ID: id, content: content}
}

// Content returns the current content, to be treated as read-only
func (s *Slide) Content() Content {
	return s.content
}

func (s *Slide) Elements() []Element {
	return s.content.Elements
}

func (s *Slide) Annotations() []Annotation {
	return s.content.Annotations
}

// Restore replaces the content, e.g. with an undo snapshot. A selection whose
// target no longer exists is dropped.
func (s *Slide) Restore(c Content) {
	s.content = c
	if !s.selectionValid() {
		s.selection = Selection{}
	}
}

func (s *Slide) Element(index int) (Element, bool) {
	if index < 0 || index >= len(s.content.Elements) {
		return Element{}, false
	}
	return s.content.Elements[index], true
}

// ElementIndex resolves an element id to its current index
func (s *Slide) ElementIndex(id string) (int, bool) {
	i := slices.IndexFunc(s.content.Elements, func(e Element) bool { return e.ID == id })
	return i, i >= 0
}

func (s *Slide) ElementByID(id string) (Element, bool) {
	i, ok := s.ElementIndex(id)
	if !ok {
		return Element{}, false
	}
	return s.content.Elements[i], true
}

func (s *Slide) annotationIndex(id string) (int, bool) {
	i := slices.IndexFunc(s.content.Annotations, func(a Annotation) bool { return a.ID == id })
	return i, i >= 0
}

func (s *Slide) Annotation(id string) (Annotation, bool) {
	i, ok := s.annotationIndex(id)
	if !ok {
		return Annotation{}, false
	}
	return s.content.Annotations[i], true
}

// Selection

func (s *Slide) Selection() Selection {
	return s.selection
}

// SelectedElementIndex derives the index of the selected element
func (s *Slide) SelectedElementIndex() (int, bool) {
	if s.selection.Kind != SelectElement {
		return -1, false
	}
	return s.ElementIndex(s.selection.ID)
}

func (s *Slide) SelectedElement() (Element, bool) {
	if s.selection.Kind != SelectElement {
		return Element{}, false
	}
	return s.ElementByID(s.selection.ID)
}

func (s *Slide) SelectedAnnotation() (Annotation, bool) {
	if s.selection.Kind != SelectAnnotation {
		return Annotation{}, false
	}
	return s.Annotation(s.selection.ID)
}

// SelectElement selects the element at index, replacing any other selection
func (s *Slide) SelectElement(index int) bool {
	e, ok := s.Element(index)
	if !ok {
		return false
	}
	s.selection = Selection{Kind: SelectElement, ID: e.ID}
	return true
}

func (s *Slide) SelectElementByID(id string) bool {
	i, ok := s.ElementIndex(id)
	return ok && s.SelectElement(i)
}

func (s *Slide) SelectAnnotation(id string) bool {
	if _, ok := s.annotationIndex(id); !ok {
		return false
	}
	s.selection = Selection{Kind: SelectAnnotation, ID: id}
	return true
}

func (s *Slide) ClearSelection() {
	s.selection = Selection{}
}

func (s *Slide) selectionValid() bool {
	switch s.selection.Kind {
	case SelectElement:
		_, ok := s.ElementIndex(s.selection.ID)
		return ok
	case SelectAnnotation:
		_, ok := s.annotationIndex(s.selection.ID)
		return ok
	default:
		return true
	}
}

// Elements

// AddElement appends an element built from d at pos and selects it
func (s *Slide) AddElement(d Descriptor, pos geometry.Point) int {
	return s.InsertElement(NewElement(d, pos))
}

// InsertElement appends e and selects it
func (s *Slide) InsertElement(e Element) int {
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.Scale <= 0 {
		e.Scale = 1
	}
	s.content.Elements = append(slices.Clip(s.content.Elements), e)
	index := len(s.content.Elements) - 1
	s.SelectElement(index)
	return index
}

// UpdateElement merges patch into the element at index. An index that went
// stale is a no-op.
func (s *Slide) UpdateElement(index int, patch ElementPatch) bool {
	e, ok := s.Element(index)
	if !ok {
		return false
	}
	elements := slices.Clone(s.content.Elements)
	elements[index] = patch.apply(e)
	s.content.Elements = elements
	return true
}

func (s *Slide) UpdateElementByID(id string, patch ElementPatch) bool {
	i, ok := s.ElementIndex(id)
	return ok && s.UpdateElement(i, patch)
}

// DeleteElement removes the element at index. If it was selected the
// selection is cleared, never moved to a neighbour.
func (s *Slide) DeleteElement(index int) bool {
	e, ok := s.Element(index)
	if !ok {
		return false
	}
	s.content.Elements = slices.Delete(slices.Clone(s.content.Elements), index, index+1)
	if s.selection.Kind == SelectElement && s.selection.ID == e.ID {
		s.selection = Selection{}
	}
	return true
}

func (s *Slide) DeleteElementByID(id string) bool {
	i, ok := s.ElementIndex(id)
	return ok && s.DeleteElement(i)
}

// Annotations

// AddAnnotation appends a, a path without points is refused
func (s *Slide) AddAnnotation(a Annotation) bool {
	if p, ok := a.Path(); ok && len(p.Points) == 0 {
		return false
	}
	if a.ID == "" {
		a.ID = NewID()
	}
	s.content.Annotations = append(slices.Clip(s.content.Annotations), a)
	return true
}

func (s *Slide) UpdateAnnotation(id string, patch AnnotationPatch) bool {
	i, ok := s.annotationIndex(id)
	if !ok {
		return false
	}
	annotations := slices.Clone(s.content.Annotations)
	annotations[i] = patch.apply(annotations[i])
	s.content.Annotations = annotations
	return true
}

func (s *Slide) DeleteAnnotation(id string) bool {
	i, ok := s.annotationIndex(id)
	if !ok {
		return false
	}
	s.content.Annotations = slices.Delete(slices.Clone(s.content.Annotations), i, i+1)
	if s.selection.Kind == SelectAnnotation && s.selection.ID == id {
		s.selection = Selection{}
	}
	return true
}

// ReplaceAnnotations swaps the annotation list, used by the eraser
func (s *Slide) ReplaceAnnotations(annotations []Annotation) {
	s.content.Annotations = annotations
	if !s.selectionValid() {
		s.selection = Selection{}
	}
}
