// Package document reads and writes slide collections as JSON: an array of
// slide records with their elements and drawing elements.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"LocalSlides/internal/chart"
	"LocalSlides/internal/geometry"
	"LocalSlides/internal/state"
	"LocalSlides/internal/validation"
)

var ErrInvalidDocument = errors.New("invalid document")

// Export writes every slide in order
func Export(w io.Writer, slides []*state.Slide) error {
	out := make([]slideOut, 0, len(slides))
	for _, s := range slides {
		out = append(out, encodeSlide(s))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// MarshalSlide encodes a single slide record
func MarshalSlide(s *state.Slide) ([]byte, error) {
	return json.Marshal(encodeSlide(s))
}

// UnmarshalSlide decodes and validates a single slide record
func UnmarshalSlide(b []byte) (*state.Slide, error) {
	v := validation.New(ErrInvalidDocument)
	s := decodeSlide(v, "slide", b)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Import parses and validates a whole document. Nothing is returned unless
// every slide is valid, so a failed import never leaves a partial result.
func Import(r io.Reader) ([]*state.Slide, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var records []json.RawMessage
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected an array of slides", ErrInvalidDocument)
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no slides", ErrInvalidDocument)
	}

	v := validation.New(ErrInvalidDocument)
	slides := make([]*state.Slide, 0, len(records))
	seen := make(map[string]bool)
	for i, raw := range records {
		field := fmt.Sprintf("slides[%d]", i)
		s := decodeSlide(v, field, raw)
		if s == nil {
			continue
		}
		if seen[s.ID] {
			v.Add(field+".id", "is a duplicate")
			continue
		}
		seen[s.ID] = true
		slides = append(slides, s)
	}

	if err := v.Err(); err != nil {
		return nil, err
	}
	return slides, nil
}

// ReadFile imports the document at path
func ReadFile(path string) ([]*state.Slide, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Import(f)
}

// WriteFile exports slides to path
func WriteFile(path string, slides []*state.Slide) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Export(f, slides); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func decodeSlide(v *validation.Errors, field string, raw json.RawMessage) *state.Slide {
	var rec slideJSON
	if err := json.Unmarshal(raw, &rec); err != nil {
		v.Add(field, fmt.Sprintf("is malformed: %v", err))
		return nil
	}
	before := len(v.Fields)
	v.Struct(field, rec)
	if len(v.Fields) > before {
		return nil
	}

	var content state.Content
	ids := make(map[string]bool)
	for i, raw := range *rec.Elements {
		e, ok := decodeElement(v, fmt.Sprintf("%s.elements[%d]", field, i), raw)
		if !ok {
			continue
		}
		if e.ID == "" || ids[e.ID] {
			e.ID = state.NewID()
		}
		ids[e.ID] = true
		content.Elements = append(content.Elements, e)
	}
	for i, raw := range rec.DrawingElements {
		a, ok := decodeAnnotation(v, fmt.Sprintf("%s.drawingElements[%d]", field, i), raw)
		if !ok {
			continue
		}
		if a.ID == "" || ids[a.ID] {
			a.ID = state.NewID()
		}
		ids[a.ID] = true
		content.Annotations = append(content.Annotations, a)
	}
	if len(v.Fields) > before {
		return nil
	}

	s := state.RestoreSlide(rec.ID, content)
	if rec.SelectedElementIndex != nil {
		s.SelectElement(*rec.SelectedElementIndex)
	}
	return s
}

func decodeElement(v *validation.Errors, field string, raw json.RawMessage) (state.Element, bool) {
	var rec elementJSON
	if err := json.Unmarshal(raw, &rec); err != nil {
		v.Add(field, fmt.Sprintf("is malformed: %v", err))
		return state.Element{}, false
	}
	before := len(v.Fields)
	v.Struct(field, rec)
	if rec.Type == state.KindChart && len(rec.Config) > 0 && !chart.IsObject(rec.Config) {
		v.Add(field+".config", "must be an object")
	}
	if len(v.Fields) > before {
		return state.Element{}, false
	}

	e := state.Element{
		ID:       rec.ID,
		Name:     rec.Name,
		Position: geometry.Pt(rec.X, rec.Y),
		Rotation: rec.Rotation,
		Scale:    1,
	}
	if rec.Magn != nil {
		e.Scale = *rec.Magn
	}
	switch rec.Type {
	case state.KindChart:
		var config bytes.Buffer
		if err := json.Compact(&config, rec.Config); err != nil {
			v.Add(field+".config", "is malformed")
			return state.Element{}, false
		}
		e.Body = state.Chart{Config: config.Bytes(), CenterText: rec.CenterText}
	default:
		e.Body = state.Shape{Markup: rec.SVG}
	}
	return e, true
}

func decodeAnnotation(v *validation.Errors, field string, raw json.RawMessage) (state.Annotation, bool) {
	var rec annotationJSON
	if err := json.Unmarshal(raw, &rec); err != nil {
		v.Add(field, fmt.Sprintf("is malformed: %v", err))
		return state.Annotation{}, false
	}
	before := len(v.Fields)
	v.Struct(field, rec)
	if rec.Type == state.KindPath && len(rec.Points) == 0 {
		v.Add(field+".points", "must have at least one point")
	}
	if len(v.Fields) > before {
		return state.Annotation{}, false
	}

	a := state.Annotation{ID: rec.ID, Color: rec.Color}
	if a.Color == "" {
		a.Color = state.Palette[0]
	}
	switch rec.Type {
	case state.KindText:
		t := state.Text{
			Position:   geometry.Pt(rec.X, rec.Y),
			Text:       rec.Text,
			FontSize:   rec.FontSize,
			FontFamily: rec.FontFamily,
			TextAlign:  rec.TextAlign,
			Scale:      rec.Magn,
		}
		if t.FontSize == 0 {
			t.FontSize = state.DefaultFontSize
		}
		if t.FontFamily == "" {
			t.FontFamily = state.DefaultFont
		}
		if t.TextAlign == "" {
			t.TextAlign = state.AlignLeft
		}
		if t.Scale == 0 {
			t.Scale = 1
		}
		a.Body = t
	default:
		a.Body = state.Path{Points: rec.Points}
	}
	return a, true
}
