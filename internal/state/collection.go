package state

import (
	"errors"
	"slices"
)

var ErrEmptyCollection = errors.New("collection needs at least one slide")

// Collection is the ordered set of slides plus the active one. It is never empty.
type Collection struct {
	slides   []*Slide
	activeID string
}

func NewCollection() *Collection {
	s := NewSlide()
	return &Collection{slides: []*Slide{s}, activeID: s.ID}
}

// Slides returns the slides in order
func (c *Collection) Slides() []*Slide {
	return slices.Clone(c.slides)
}

func (c *Collection) Len() int {
	return len(c.slides)
}

func (c *Collection) Active() *Slide {
	s, _ := c.Slide(c.activeID)
	return s
}

func (c *Collection) ActiveID() string {
	return c.activeID
}

func (c *Collection) ActiveIndex() int {
	_, i := c.Slide(c.activeID)
	return i
}

// Slide finds a slide by id, the index is -1 when it does not exist
func (c *Collection) Slide(id string) (*Slide, int) {
	for i, s := range c.slides {
		if s.ID == id {
			return s, i
		}
	}
	return nil, -1
}

func (c *Collection) At(index int) (*Slide, bool) {
	if index < 0 || index >= len(c.slides) {
		return nil, false
	}
	return c.slides[index], true
}

func (c *Collection) SetActive(id string) bool {
	if _, i := c.Slide(id); i < 0 {
		return false
	}
	c.activeID = id
	return true
}

// Add appends an empty slide and makes it active
func (c *Collection) Add() *Slide {
	s := NewSlide()
	c.slides = append(c.slides, s)
	c.activeID = s.ID
	return s
}

// Remove deletes a slide. When the active slide goes, the previous one
// becomes active, or the first. Removing the last slide seeds a new empty one.
func (c *Collection) Remove(id string) bool {
	_, i := c.Slide(id)
	if i < 0 {
		return false
	}

	c.slides = slices.Delete(c.slides, i, i+1)
	if len(c.slides) == 0 {
		c.slides = []*Slide{NewSlide()}
	}
	if id == c.activeID {
		next := c.slides[0]
		if i-1 >= 0 && i-1 < len(c.slides) {
			next = c.slides[i-1]
		}
		c.activeID = next.ID
	}
	return true
}

// Move takes the slide at from out and reinserts it at to
func (c *Collection) Move(from, to int) bool {
	if from < 0 || from >= len(c.slides) || to < 0 || to >= len(c.slides) {
		return false
	}
	s := c.slides[from]
	c.slides = slices.Delete(c.slides, from, from+1)
	c.slides = slices.Insert(c.slides, to, s)
	return true
}

// Replace swaps in a whole new set of slides, as after an import
func (c *Collection) Replace(slides []*Slide, activeID string) error {
	if len(slides) == 0 {
		return ErrEmptyCollection
	}
	c.slides = slices.Clone(slides)
	c.activeID = slides[0].ID
	c.SetActive(activeID)
	return nil
}
