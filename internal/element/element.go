// Package element defines the drawable element model: strokes, shapes, text,
// and images, each a distinct variant sharing a common set of attributes.
package element

import (
	"image/color"

	"github.com/google/uuid"

	"sketchpad/pkg/geometry"
)

// ShapeKind identifies the geometric shape variants.
type ShapeKind int

const (
	ShapeRectangle ShapeKind = iota
	ShapeCircle
	ShapeLine
	ShapeArrow
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeRectangle:
		return "rectangle"
	case ShapeCircle:
		return "circle"
	case ShapeLine:
		return "line"
	case ShapeArrow:
		return "arrow"
	default:
		return "unknown"
	}
}

// Common holds the attributes shared by every element.
type Common struct {
	ID          string
	StrokeColor color.RGBA
	FillColor   color.RGBA
	Width       float64 // stroke width in world units
	Opacity     float64 // 0.0 - 1.0
}

// NewID returns a fresh unique element identifier.
func NewID() string {
	return uuid.NewString()
}

// Element is one persisted drawable unit. Implementations are pointer types;
// consumers dispatch on the concrete variant with a type switch.
type Element interface {
	// Attrs returns the element's common attributes for reading or mutation.
	Attrs() *Common
	// Clone returns a deep copy whose geometry is independent of the original.
	Clone() Element
	// Translated returns a copy moved by the given delta in world units.
	Translated(delta geometry.Point2D) Element
	// DefiningPoints returns the points that define the element's geometry.
	DefiningPoints() []geometry.Point2D
}

// Stroke is a freehand polyline through ordered world points.
type Stroke struct {
	Common
	Points []geometry.Point2D
}

func (s *Stroke) Attrs() *Common { return &s.Common }

func (s *Stroke) Clone() Element {
	c := *s
	c.Points = make([]geometry.Point2D, len(s.Points))
	copy(c.Points, s.Points)
	return &c
}

func (s *Stroke) Translated(delta geometry.Point2D) Element {
	c := s.Clone().(*Stroke)
	for i := range c.Points {
		c.Points[i] = c.Points[i].Add(delta)
	}
	return c
}

func (s *Stroke) DefiningPoints() []geometry.Point2D { return s.Points }

// Shape is a two-point geometric figure: an anchor and the opposite point.
type Shape struct {
	Common
	Kind     ShapeKind
	Anchor   geometry.Point2D
	Opposite geometry.Point2D
}

func (s *Shape) Attrs() *Common { return &s.Common }

func (s *Shape) Clone() Element {
	c := *s
	return &c
}

func (s *Shape) Translated(delta geometry.Point2D) Element {
	c := s.Clone().(*Shape)
	c.Anchor = c.Anchor.Add(delta)
	c.Opposite = c.Opposite.Add(delta)
	return c
}

func (s *Shape) DefiningPoints() []geometry.Point2D {
	return []geometry.Point2D{s.Anchor, s.Opposite}
}

// TextFormat describes how a text element is rendered.
type TextFormat struct {
	Font          string
	Size          float64
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
}

// Text is a string placed at a typographic baseline anchor.
type Text struct {
	Common
	Content string
	Format  TextFormat
	Anchor  geometry.Point2D
}

func (t *Text) Attrs() *Common { return &t.Common }

func (t *Text) Clone() Element {
	c := *t
	return &c
}

func (t *Text) Translated(delta geometry.Point2D) Element {
	c := t.Clone().(*Text)
	c.Anchor = c.Anchor.Add(delta)
	return c
}

func (t *Text) DefiningPoints() []geometry.Point2D {
	return []geometry.Point2D{t.Anchor}
}

// Image is a bitmap drawn at an anchor with an explicit size.
type Image struct {
	Common
	Bitmap    *Bitmap
	Anchor    geometry.Point2D
	Width     float64
	Height    float64
	Generated bool // produced by an external generator rather than imported
	Overlay   bool // rendered as a translucent overlay
}

func (im *Image) Attrs() *Common { return &im.Common }

// Clone copies the element; the bitmap handle is shared, its pixels are immutable.
func (im *Image) Clone() Element {
	c := *im
	return &c
}

func (im *Image) Translated(delta geometry.Point2D) Element {
	c := im.Clone().(*Image)
	c.Anchor = c.Anchor.Add(delta)
	return c
}

func (im *Image) DefiningPoints() []geometry.Point2D {
	return []geometry.Point2D{im.Anchor}
}

// Bounds returns the image's world-space rectangle.
func (im *Image) Bounds() geometry.Rect {
	return geometry.NewRect(im.Anchor.X, im.Anchor.Y, im.Width, im.Height)
}

// CloneList deep-copies a committed element list.
func CloneList(list []Element) []Element {
	out := make([]Element, len(list))
	for i, el := range list {
		out[i] = el.Clone()
	}
	return out
}
