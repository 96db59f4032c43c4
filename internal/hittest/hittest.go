// Package hittest provides point-containment queries against element geometry.
package hittest

import (
	"sketchpad/internal/element"
	"sketchpad/pkg/geometry"
)

const (
	// shapeMargin widens a shape's bounding box so thin lines stay clickable.
	shapeMargin = 10.0
	// strokeSlack is added to half the stroke width for path proximity.
	strokeSlack = 5.0
	// textSlack widens the horizontal span of the approximated glyph box.
	textSlack = 5.0
)

// Tester answers hit queries over a committed element list. MeasureText
// supplies the rendered width of a text element in world units; it is wired
// to the renderer's font metrics in the application and stubbed in tests.
type Tester struct {
	MeasureText func(t *element.Text) float64
}

// FindTopmostAt scans the list in reverse so later (topmost) elements win,
// returning the first element containing the world point, or nil.
func (ht *Tester) FindTopmostAt(list []element.Element, p geometry.Point2D) element.Element {
	for i := len(list) - 1; i >= 0; i-- {
		if ht.Hit(list[i], p) {
			return list[i]
		}
	}
	return nil
}

// Hit reports whether the world point falls inside the element's hit region.
func (ht *Tester) Hit(el element.Element, p geometry.Point2D) bool {
	switch e := el.(type) {
	case *element.Image:
		return e.Bounds().Contains(p)
	case *element.Text:
		return ht.hitText(e, p)
	case *element.Shape:
		box := geometry.RectFromPoints(e.Anchor, e.Opposite)
		return box.Expand(shapeMargin).Contains(p)
	case *element.Stroke:
		radius := e.Width/2 + strokeSlack
		for _, sp := range e.Points {
			if sp.Distance(p) <= radius {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// hitText approximates the glyph box relative to the baseline anchor: the
// vertical span covers one font size above the baseline and 0.3 of it below.
func (ht *Tester) hitText(t *element.Text, p geometry.Point2D) bool {
	width := 0.0
	if ht.MeasureText != nil {
		width = ht.MeasureText(t)
	}
	if p.X < t.Anchor.X-textSlack || p.X > t.Anchor.X+width+textSlack {
		return false
	}
	return p.Y >= t.Anchor.Y-t.Format.Size && p.Y <= t.Anchor.Y+0.3*t.Format.Size
}
