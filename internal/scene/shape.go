package scene

import (
	"github.com/google/uuid"
)

// Kind identifies one of the drawable shape variants.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindDiamond   Kind = "diamond"
	KindEllipse   Kind = "ellipse"
	KindLine      Kind = "line"
	KindArrow     Kind = "arrow"
	KindPencil    Kind = "pencil"
	KindText      Kind = "text"
	KindImage     Kind = "image"
)

// Point is a coordinate pair. Depending on context it is either a document
// coordinate or a shape-local offset.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape is the element union. Which of the optional fields are meaningful
// depends on Type: line/arrow/pencil carry Points (relative to X,Y), text
// carries Text and FontSize, image carries an opaque ImageData handle.
//
// Width/Height may be negative while a shape is being drawn (pointer moved
// left/up from the anchor); rendering and hit-testing go through Bounds,
// which normalizes to magnitudes.
type Shape struct {
	ID        string  `json:"id"`
	Type      Kind    `json:"type"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Style     Style   `json:"style"`
	Points    []Point `json:"points,omitempty"`
	Text      string  `json:"text,omitempty"`
	FontSize  float64 `json:"fontSize,omitempty"`
	ImageData string  `json:"imageData,omitempty"`
}

// NewShape creates a zero-size shape of the given kind anchored at (x, y)
// with a fresh identifier. The id is immutable for the shape's lifetime.
func NewShape(kind Kind, x, y float64, style Style) Shape {
	s := Shape{
		ID:    uuid.NewString(),
		Type:  kind,
		X:     x,
		Y:     y,
		Style: style,
	}
	switch kind {
	case KindLine, KindArrow, KindPencil:
		s.Points = []Point{{X: 0, Y: 0}}
	case KindText:
		s.Height = 24
		s.FontSize = 20
	}
	return s
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	out := s
	if s.Points != nil {
		out.Points = make([]Point, len(s.Points))
		copy(out.Points, s.Points)
	}
	return out
}

// Bounds returns the shape's axis-aligned bounding box with non-negative
// width and height.
func (s Shape) Bounds() Rect {
	return NormalizedRect(s.X, s.Y, s.Width, s.Height)
}

// HasPoints reports whether the shape variant carries a point sequence.
func (s Shape) HasPoints() bool {
	switch s.Type {
	case KindLine, KindArrow, KindPencil:
		return true
	}
	return false
}

// CloneShapes deep-copies an element sequence.
func CloneShapes(els []Shape) []Shape {
	out := make([]Shape, len(els))
	for i, s := range els {
		out[i] = s.Clone()
	}
	return out
}
