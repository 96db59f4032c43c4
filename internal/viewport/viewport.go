// Package viewport maps between screen and world coordinates under pan/zoom.
package viewport

import (
	"sketchpad/pkg/geometry"
)

const (
	// MinScale and MaxScale clamp the zoom factor.
	MinScale = 0.1
	MaxScale = 5.0

	zoomInFactor  = 1.1
	zoomOutFactor = 0.9
)

// Transform is the scale+offset mapping between screen and world space.
// Scale and offset change only through Zoom and the pan protocol.
type Transform struct {
	scale  float64
	offset geometry.Point2D

	panning    bool
	panAnchor  geometry.Point2D
	lastOffset geometry.Point2D
}

// New returns an identity transform.
func New() *Transform {
	return &Transform{scale: 1.0}
}

// Scale returns the current zoom factor.
func (t *Transform) Scale() float64 {
	return t.scale
}

// Offset returns the current translation in screen units.
func (t *Transform) Offset() geometry.Point2D {
	return t.offset
}

// ToWorld converts a screen point to world coordinates.
func (t *Transform) ToWorld(p geometry.Point2D) geometry.Point2D {
	return p.Sub(t.offset).Scale(1 / t.scale)
}

// ToScreen converts a world point to screen coordinates.
func (t *Transform) ToScreen(p geometry.Point2D) geometry.Point2D {
	return p.Scale(t.scale).Add(t.offset)
}

// Zoom applies wheel notches: positive notches zoom in by 1.1 per notch,
// negative zoom out by 0.9, with the result clamped to [MinScale, MaxScale].
func (t *Transform) Zoom(notches int) {
	for ; notches > 0; notches-- {
		t.scale *= zoomInFactor
	}
	for ; notches < 0; notches++ {
		t.scale *= zoomOutFactor
	}
	if t.scale < MinScale {
		t.scale = MinScale
	}
	if t.scale > MaxScale {
		t.scale = MaxScale
	}
}

// Restore replaces the transform with saved values, clamping the scale.
func (t *Transform) Restore(scale float64, offset geometry.Point2D) {
	if scale < MinScale {
		scale = MinScale
	}
	if scale > MaxScale {
		scale = MaxScale
	}
	t.scale = scale
	t.offset = offset
	t.panning = false
}

// BeginPan starts a pan gesture anchored at the given screen point.
func (t *Transform) BeginPan(anchor geometry.Point2D) {
	t.panning = true
	t.panAnchor = anchor
	t.lastOffset = t.offset
}

// PanTo replaces the offset while a pan gesture is active.
func (t *Transform) PanTo(pointer geometry.Point2D) {
	if !t.panning {
		return
	}
	t.offset = t.lastOffset.Add(pointer.Sub(t.panAnchor))
}

// EndPan finishes the pan gesture.
func (t *Transform) EndPan() {
	t.panning = false
}

// Panning reports whether a pan gesture is active.
func (t *Transform) Panning() bool {
	return t.panning
}
