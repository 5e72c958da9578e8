// Package markup edits the opaque vector fragments of shape elements. It only
// ever touches the fill attribute of the first shape node and the size
// attributes of the root node, the rest of the text is kept byte for byte.
package markup

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/strconv"
	"github.com/tdewolff/parse/v2/xml"

	"LocalSlides/internal/geometry"
)

var (
	ErrNoShapeNode  = errors.New("markup has no rect, circle or path node")
	ErrInvalidColor = errors.New("invalid colour")
)

// DefaultSize is used when the root node carries neither width/height nor a viewBox
var DefaultSize = geometry.Size{W: 100, H: 100}

var shapeTags = map[string]bool{
	"rect":   true,
	"circle": true,
	"path":   true,
}

// attr is an attribute of a start tag with the byte span of its value
type attr struct {
	name       string
	value      string
	start, end int
}

// tag is a start tag with the offset right after its name
type tag struct {
	name    string
	nameEnd int
	attrs   []attr
}

func (t tag) attr(name string) (attr, bool) {
	for _, a := range t.attrs {
		if a.name == name {
			return a, true
		}
	}
	return attr{}, false
}

// walk calls fn for every start tag until fn returns false
func walk(src string, fn func(tag) bool) error {
	z := parse.NewInputString(src)
	l := xml.NewLexer(z)

	var cur *tag
	for {
		tt, _ := l.Next()
		switch tt {
		case xml.ErrorToken:
			if err := l.Err(); err != io.EOF {
				return err
			}
			return nil
		case xml.StartTagToken:
			cur = &tag{name: string(l.Text()), nameEnd: z.Offset()}
		case xml.AttributeToken:
			if cur == nil {
				continue
			}
			val := l.AttrVal()
			cur.attrs = append(cur.attrs, attr{
				name:  string(l.Text()),
				value: unquote(val),
				start: z.Offset() - len(val),
				end:   z.Offset(),
			})
		case xml.StartTagCloseToken, xml.StartTagCloseVoidToken:
			if cur != nil && !fn(*cur) {
				return nil
			}
			cur = nil
		}
	}
}

func unquote(b []byte) string {
	if len(b) >= 2 && (b[0] == '"' || b[0] == '\'') && b[len(b)-1] == b[0] {
		b = b[1 : len(b)-1]
	}
	return string(b)
}

func firstShape(src string) (tag, bool, error) {
	var found tag
	ok := false
	err := walk(src, func(t tag) bool {
		if shapeTags[strings.ToLower(t.name)] {
			found, ok = t, true
			return false
		}
		return true
	})
	return found, ok, err
}

// ValidColor reports whether c can be written into an attribute value as is
func ValidColor(c string) bool {
	return strings.TrimSpace(c) != "" && !strings.ContainsAny(c, "\"'<>&")
}

// SetFill sets the fill of the first rect, circle or path node. An existing
// fill attribute is rewritten in place, otherwise one is inserted after the tag name.
func SetFill(src, color string) (string, error) {
	if !ValidColor(color) {
		return src, ErrInvalidColor
	}

	t, ok, err := firstShape(src)
	if err != nil {
		return src, err
	}
	if !ok {
		return src, ErrNoShapeNode
	}

	if a, ok := t.attr("fill"); ok {
		return src[:a.start] + `"` + color + `"` + src[a.end:], nil
	}
	return src[:t.nameEnd] + ` fill="` + color + `"` + src[t.nameEnd:], nil
}

// Fill returns the fill of the first shape node
func Fill(src string) (string, bool) {
	t, ok, err := firstShape(src)
	if err != nil || !ok {
		return "", false
	}
	a, ok := t.attr("fill")
	return a.value, ok
}

// Size returns the intrinsic size of the fragment from the root width/height
// attributes, falling back to the viewBox and finally to DefaultSize.
func Size(src string) geometry.Size {
	size := DefaultSize
	_ = walk(src, func(t tag) bool {
		if !strings.EqualFold(t.name, "svg") {
			return true
		}

		var vb []float64
		if a, ok := t.attr("viewBox"); ok {
			vb = numbers(a.value)
		}
		if len(vb) == 4 && vb[2] > 0 && vb[3] > 0 {
			size = geometry.Size{W: vb[2], H: vb[3]}
		}

		if a, ok := t.attr("width"); ok {
			if w, ok := length(a.value); ok {
				size.W = w
			}
		}
		if a, ok := t.attr("height"); ok {
			if h, ok := length(a.value); ok {
				size.H = h
			}
		}
		return false
	})
	return size
}

// ViewBox returns the viewBox of the root node, or a box covering size
func ViewBox(src string) (x, y, w, h float64) {
	size := Size(src)
	x, y, w, h = 0, 0, size.W, size.H
	_ = walk(src, func(t tag) bool {
		if !strings.EqualFold(t.name, "svg") {
			return true
		}
		if a, ok := t.attr("viewBox"); ok {
			if vb := numbers(a.value); len(vb) == 4 && vb[2] > 0 && vb[3] > 0 {
				x, y, w, h = vb[0], vb[1], vb[2], vb[3]
			}
		}
		return false
	})
	return
}

// length parses a user unit or px length, percentages are rejected
func length(s string) (float64, bool) {
	b := bytes.TrimSpace([]byte(s))
	b = bytes.TrimSuffix(b, []byte("px"))
	f, n := strconv.ParseFloat(b)
	if n == 0 || n != len(b) || f <= 0 {
		return 0, false
	}
	return f, true
}

func numbers(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, n := strconv.ParseFloat([]byte(f))
		if n != len(f) {
			return nil
		}
		out = append(out, v)
	}
	return out
}
