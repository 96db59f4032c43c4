// Package canvas provides the Fyne widget that renders the drawing engine and
// feeds pointer gestures into it.
package canvas

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"sketchpad/internal/board"
	"sketchpad/pkg/geometry"
)

// BoardCanvas is the drawing surface widget. All pointer events are translated
// into engine gestures in screen coordinates; the engine renders each frame
// through the raster callback.
type BoardCanvas struct {
	widget.BaseWidget

	board  *board.Board
	raster *fynecanvas.Raster

	// pixelScale maps widget units to raster pixels on hidpi displays.
	pixelScale float64
	pressed    bool
}

var _ desktop.Mouseable = (*BoardCanvas)(nil)
var _ desktop.Hoverable = (*BoardCanvas)(nil)
var _ fyne.Scrollable = (*BoardCanvas)(nil)

// New creates a canvas bound to the engine. The engine's change signal drives
// raster refreshes.
func New(b *board.Board) *BoardCanvas {
	bc := &BoardCanvas{board: b, pixelScale: 1.0}
	bc.raster = fynecanvas.NewRaster(bc.draw)
	bc.raster.ScaleMode = fynecanvas.ImageScalePixels
	bc.raster.SetMinSize(fyne.NewSize(400, 300))

	b.On(board.EventChanged, func(interface{}) {
		bc.raster.Refresh()
	})

	bc.ExtendBaseWidget(bc)
	return bc
}

// CreateRenderer implements fyne.Widget.
func (bc *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(bc.raster)
}

// draw is the raster callback: it keeps the engine's surface size current and
// renders the scene at the requested pixel size.
func (bc *BoardCanvas) draw(w, h int) image.Image {
	if size := bc.Size(); size.Width > 0 {
		bc.pixelScale = float64(w) / float64(size.Width)
	}
	bc.board.SetSurfaceSize(w, h)
	return bc.board.Render(w, h)
}

func (bc *BoardCanvas) screenPos(pos fyne.Position) geometry.Point2D {
	return geometry.Point2D{
		X: float64(pos.X) * bc.pixelScale,
		Y: float64(pos.Y) * bc.pixelScale,
	}
}

// MouseDown starts a gesture. The middle button or a ctrl-drag pans the
// viewport regardless of the active tool.
func (bc *BoardCanvas) MouseDown(ev *desktop.MouseEvent) {
	pan := ev.Button == desktop.MouseButtonTertiary ||
		ev.Modifier&fyne.KeyModifierControl != 0
	bc.pressed = true
	bc.board.PointerDown(bc.screenPos(ev.Position), pan)
}

// MouseUp finishes the gesture.
func (bc *BoardCanvas) MouseUp(ev *desktop.MouseEvent) {
	if !bc.pressed {
		return
	}
	bc.pressed = false
	bc.board.PointerUp(bc.screenPos(ev.Position))
}

// MouseIn implements desktop.Hoverable.
func (bc *BoardCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseMoved advances the gesture while a button is held.
func (bc *BoardCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if !bc.pressed {
		return
	}
	bc.board.PointerMove(bc.screenPos(ev.Position))
}

// MouseOut cancels any in-flight gesture; leaving the surface never commits
// partial state.
func (bc *BoardCanvas) MouseOut() {
	if bc.pressed {
		bc.pressed = false
		bc.board.PointerLeave()
	}
}

// Scrolled zooms the viewport one notch per wheel step.
func (bc *BoardCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		bc.board.Wheel(1)
	} else if ev.Scrolled.DY < 0 {
		bc.board.Wheel(-1)
	}
}

// Refresh redraws the surface.
func (bc *BoardCanvas) Refresh() {
	bc.raster.Refresh()
	bc.BaseWidget.Refresh()
}
