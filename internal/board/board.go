// Package board implements the drawing engine: the gesture state machine,
// the committed history, selection, the eraser policies, and the command and
// signal surface exposed to the surrounding application.
package board

import (
	"image/color"

	"sketchpad/internal/element"
	"sketchpad/internal/history"
	"sketchpad/internal/hittest"
	"sketchpad/internal/render"
	"sketchpad/internal/viewport"
	"sketchpad/pkg/geometry"
)

// Tool selects how pointer gestures are interpreted. Tools are mutually
// exclusive; exactly one applies to a gesture.
type Tool int

const (
	ToolBrush Tool = iota
	ToolShape
	ToolText
	ToolSelect
	ToolEraserPixel
	ToolEraserStroke
	ToolRegion // selection-rectangle capture
)

// EventType identifies engine signals.
type EventType int

const (
	// EventChanged fires whenever the next frame would differ: content,
	// overlays, or viewport changed.
	EventChanged EventType = iota
	// EventHistoryChanged fires after commit, undo, redo, or clear.
	EventHistoryChanged
	// EventSelectionCompleted fires when a selection-rectangle gesture ends;
	// the listener is expected to issue a crop request next. No payload.
	EventSelectionCompleted
	// EventTextEditRequested carries a *TextEditRequest for the external
	// formatting surface.
	EventTextEditRequested
	// EventTextEditClosed instructs the external formatting surface to close
	// before a drag moves the element under edit.
	EventTextEditClosed
	// EventElementSelected carries the newly selected element, or nil.
	EventElementSelected
)

// EventListener is called when an event occurs.
type EventListener func(data any)

// TextEditRequest seeds the external text formatting surface.
type TextEditRequest struct {
	ExistingID string // empty when placing new text
	Content    string
	Format     element.TextFormat
	Anchor     geometry.Point2D
}

// gestureKind tracks the active pointer interpretation.
type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureDraw
	gestureShape
	gestureText
	gestureErase
	gesturePan
	gestureRegion
	gestureDragCandidate
	gestureDragActive
)

// dragThreshold is the click/drag disambiguation distance in screen units.
const dragThreshold = 3.0

// smoothingSpacing is the resample interval for smoothed brush strokes,
// in world units.
const smoothingSpacing = 4.0

// Board is the single engine context: it owns the committed history, the
// viewport transform, the gesture state machine, and the observer hub. All
// methods must be called from the event loop; there are no concurrent writers.
type Board struct {
	history  *history.Store
	view     *viewport.Transform
	renderer *render.Renderer
	hit      *hittest.Tester

	// Externally owned configuration, read at gesture start.
	tool        Tool
	shapeKind   element.ShapeKind
	strokeColor color.RGBA
	fillColor   color.RGBA
	brushSize   float64
	opacity     float64
	smoothing   bool
	textFormat  element.TextFormat

	// Gesture state.
	gesture      gestureKind
	provisional  element.Element
	eraserPath   []geometry.Point2D
	eraserRadius float64
	erasePolicy  render.ErasePolicy
	pressScreen  geometry.Point2D
	lastWorld    geometry.Point2D

	// Drag state.
	dragList  []element.Element
	dragEl    element.Element
	dragIndex int
	netDelta  geometry.Point2D

	// Selection.
	selectedID   string
	selection    *geometry.Rect
	regionArmed  bool
	regionAnchor geometry.Point2D

	// Text editing protocol.
	textEditing bool
	textEditID  string
	textAnchor  geometry.Point2D

	// Surface size in screen pixels, kept current by the widget.
	surfaceW, surfaceH int

	listeners map[EventType][]EventListener
}

// New creates a board with an empty history and an identity viewport.
func New() *Board {
	b := &Board{
		history:     history.NewStore(),
		view:        viewport.New(),
		renderer:    render.New(),
		strokeColor: color.RGBA{A: 255},
		brushSize:   3.0,
		opacity:     1.0,
		textFormat:  element.TextFormat{Font: "Latin Modern", Size: 16},
		surfaceW:    800,
		surfaceH:    600,
		listeners:   make(map[EventType][]EventListener),
	}
	b.hit = &hittest.Tester{MeasureText: b.renderer.TextWidth}
	b.renderer.RequestRedraw = func() { b.emit(EventChanged, nil) }
	return b
}

// On registers an event listener for the specified event type.
func (b *Board) On(event EventType, listener EventListener) {
	b.listeners[event] = append(b.listeners[event], listener)
}

func (b *Board) emit(event EventType, data any) {
	for _, listener := range b.listeners[event] {
		listener(data)
	}
}

// Elements returns the live committed list. Callers must treat it as
// read-only.
func (b *Board) Elements() []element.Element {
	return b.history.Current()
}

// View returns the viewport transform.
func (b *Board) View() *viewport.Transform {
	return b.view
}

// Selection returns the current selection rectangle, or nil.
func (b *Board) Selection() *geometry.Rect {
	return b.selection
}

// SelectedElement returns the currently selected element, or nil if the
// selection no longer resolves against the committed list.
func (b *Board) SelectedElement() element.Element {
	if b.selectedID == "" {
		return nil
	}
	for _, el := range b.liveList() {
		if el.Attrs().ID == b.selectedID {
			return el
		}
	}
	return nil
}

// liveList is what the renderer and hit-tester see: the drag working copy
// while a drag is in flight, the committed list otherwise.
func (b *Board) liveList() []element.Element {
	if b.gesture == gestureDragActive {
		return b.dragList
	}
	return b.history.Current()
}

// SetSurfaceSize records the widget's pixel size for export sizing.
func (b *Board) SetSurfaceSize(w, h int) {
	if w > 0 && h > 0 {
		b.surfaceW, b.surfaceH = w, h
	}
}

// SetTool switches the active tool. Any in-flight gesture is cancelled so a
// tool change can never commit half a gesture.
func (b *Board) SetTool(tool Tool) {
	if b.gesture != gestureNone {
		b.PointerLeave()
	}
	b.tool = tool
}

// Tool returns the active tool.
func (b *Board) Tool() Tool {
	return b.tool
}

// SetShapeKind selects the figure drawn by the shape tool.
func (b *Board) SetShapeKind(kind element.ShapeKind) { b.shapeKind = kind }

// SetStrokeColor sets the stroke color for new elements.
func (b *Board) SetStrokeColor(c color.RGBA) { b.strokeColor = c }

// SetFillColor sets the fill color for new shapes.
func (b *Board) SetFillColor(c color.RGBA) { b.fillColor = c }

// SetBrushSize sets the stroke width and eraser diameter in world units.
func (b *Board) SetBrushSize(size float64) {
	if size > 0 {
		b.brushSize = size
	}
}

// SetOpacity sets the opacity applied to new elements, clamped to [0, 1].
func (b *Board) SetOpacity(opacity float64) {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	b.opacity = opacity
}

// SetSmoothing toggles spline resampling of finished brush strokes.
func (b *Board) SetSmoothing(on bool) { b.smoothing = on }

// SetTextFormat sets the default format seeded into the text surface.
func (b *Board) SetTextFormat(f element.TextFormat) { b.textFormat = f }

// TextFormat returns the current text defaults.
func (b *Board) TextFormat() element.TextFormat { return b.textFormat }

func (b *Board) style() element.Common {
	return element.Common{
		ID:          element.NewID(),
		StrokeColor: b.strokeColor,
		FillColor:   b.fillColor,
		Width:       b.brushSize,
		Opacity:     b.opacity,
	}
}
