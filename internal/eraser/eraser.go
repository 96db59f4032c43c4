// Package eraser implements the two erase policies applied to a committed
// element list: pixel erasing, which splits strokes around the erased region,
// and stroke erasing, which deletes intersected elements whole.
package eraser

import (
	"sketchpad/internal/element"
	"sketchpad/pkg/geometry"
)

// nearPath reports whether p lies within radius of any sampled eraser point.
func nearPath(p geometry.Point2D, path []geometry.Point2D, radius float64) bool {
	for _, ep := range path {
		if p.Distance(ep) <= radius {
			return true
		}
	}
	return false
}

// anyPointNear reports whether any of the element's defining points lies
// within radius of the eraser path.
func anyPointNear(el element.Element, path []geometry.Point2D, radius float64) bool {
	for _, p := range el.DefiningPoints() {
		if nearPath(p, path, radius) {
			return true
		}
	}
	return false
}

// ErasePixel applies the pixel policy and returns the rewritten list.
//
// Strokes are partitioned into maximal runs of points lying farther than
// radius from every eraser point; each surviving run of more than one point
// becomes an independent stroke with the original style. The first surviving
// run keeps the original identifier, later runs receive new ones. Any other
// element kind is deleted whole when one of its defining points is within
// radius, and kept unchanged otherwise.
func ErasePixel(list []element.Element, path []geometry.Point2D, radius float64) []element.Element {
	out := make([]element.Element, 0, len(list))
	for _, el := range list {
		st, ok := el.(*element.Stroke)
		if !ok {
			if !anyPointNear(el, path, radius) {
				out = append(out, el)
			}
			continue
		}
		out = append(out, splitStroke(st, path, radius)...)
	}
	return out
}

// splitStroke returns the surviving fragments of a stroke after pixel erasing.
// A stroke the eraser never touched is returned as-is.
func splitStroke(st *element.Stroke, path []geometry.Point2D, radius float64) []element.Element {
	touched := false
	for _, p := range st.Points {
		if nearPath(p, path, radius) {
			touched = true
			break
		}
	}
	if !touched {
		return []element.Element{st}
	}

	var fragments []element.Element
	var run []geometry.Point2D

	flush := func() {
		if len(run) > 1 {
			frag := st.Clone().(*element.Stroke)
			frag.Points = run
			if len(fragments) > 0 {
				frag.ID = element.NewID()
			}
			fragments = append(fragments, frag)
		}
		run = nil
	}

	for _, p := range st.Points {
		if nearPath(p, path, radius) {
			flush()
			continue
		}
		run = append(run, p)
	}
	flush()
	return fragments
}

// EraseStroke applies the stroke policy: any element with a defining point
// within radius of the eraser path is deleted in its entirety. Strokes are
// never split.
func EraseStroke(list []element.Element, path []geometry.Point2D, radius float64) []element.Element {
	out := make([]element.Element, 0, len(list))
	for _, el := range list {
		if !anyPointNear(el, path, radius) {
			out = append(out, el)
		}
	}
	return out
}
