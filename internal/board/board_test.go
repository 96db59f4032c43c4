package board

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchpad/internal/element"
	"sketchpad/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D { return geometry.Point2D{X: x, Y: y} }

// drawStroke runs a complete brush gesture through the given points.
func drawStroke(b *Board, points ...geometry.Point2D) {
	b.SetTool(ToolBrush)
	b.PointerDown(points[0], false)
	for _, p := range points[1:] {
		b.PointerMove(p)
	}
	b.PointerUp(points[len(points)-1])
}

func TestBrushGestureCommitsOnRelease(t *testing.T) {
	b := New()
	drawStroke(b, pt(0, 0), pt(10, 10), pt(20, 5))

	require.Len(t, b.Elements(), 1)
	st := b.Elements()[0].(*element.Stroke)
	assert.Len(t, st.Points, 3)
	assert.NotEmpty(t, st.ID)
	assert.True(t, b.CanUndo())
}

func TestGestureCancelLeavesNoProvisional(t *testing.T) {
	b := New()
	b.SetTool(ToolBrush)
	b.PointerDown(pt(0, 0), false)
	b.PointerMove(pt(10, 10))
	b.PointerLeave()

	assert.Empty(t, b.Elements())
	assert.False(t, b.CanUndo())

	// The next gesture starts cleanly.
	drawStroke(b, pt(0, 0), pt(5, 5))
	assert.Len(t, b.Elements(), 1)
}

func TestDragRoundTripRestoresGeometry(t *testing.T) {
	b := New()
	drawStroke(b, pt(10, 10), pt(30, 30), pt(50, 10))
	orig := b.Elements()[0].(*element.Stroke).Clone().(*element.Stroke)

	b.SetTool(ToolSelect)
	b.PointerDown(pt(30, 30), false)
	b.PointerMove(pt(50, 45)) // exceed threshold, move by (20, 15)
	b.PointerMove(pt(30, 30)) // and back
	b.PointerUp(pt(30, 30))

	got := b.Elements()[0].(*element.Stroke)
	require.Len(t, got.Points, len(orig.Points))
	for i := range got.Points {
		assert.InDelta(t, orig.Points[i].X, got.Points[i].X, 1e-9)
		assert.InDelta(t, orig.Points[i].Y, got.Points[i].Y, 1e-9)
	}
}

func TestDragWithNetDisplacementCommits(t *testing.T) {
	b := New()
	drawStroke(b, pt(10, 10), pt(30, 30))
	before := b.Elements()[0].(*element.Stroke).Points[0]

	b.SetTool(ToolSelect)
	b.PointerDown(pt(10, 10), false)
	b.PointerMove(pt(40, 50))
	b.PointerUp(pt(40, 50))

	after := b.Elements()[0].(*element.Stroke).Points[0]
	assert.InDelta(t, before.X+30, after.X, 1e-9)
	assert.InDelta(t, before.Y+40, after.Y, 1e-9)

	// The move is one undoable step.
	b.Undo()
	restored := b.Elements()[0].(*element.Stroke).Points[0]
	assert.InDelta(t, before.X, restored.X, 1e-9)
}

func TestSubThresholdMovementIsAClick(t *testing.T) {
	b := New()
	drawStroke(b, pt(10, 10), pt(30, 30))
	snapshots := 0
	b.On(EventHistoryChanged, func(any) { snapshots++ })

	b.SetTool(ToolSelect)
	b.PointerDown(pt(10, 10), false)
	b.PointerMove(pt(12, 11)) // under the 3-unit threshold
	b.PointerUp(pt(12, 11))

	assert.Zero(t, snapshots)
	assert.Equal(t, pt(10, 10), b.Elements()[0].(*element.Stroke).Points[0])
}

func TestEraseGestureRewritesHistoryOnce(t *testing.T) {
	b := New()
	b.SetBrushSize(10)
	drawStroke(b, pt(0, 0), pt(10, 0), pt(20, 0))

	commits := 0
	b.On(EventHistoryChanged, func(any) { commits++ })

	b.SetTool(ToolEraserStroke)
	b.PointerDown(pt(10, 2), false)
	b.PointerUp(pt(10, 2))

	assert.Empty(t, b.Elements())
	assert.Equal(t, 1, commits)

	b.Undo()
	assert.Len(t, b.Elements(), 1)
}

func TestEraseMissProducesNoSnapshot(t *testing.T) {
	b := New()
	drawStroke(b, pt(0, 0), pt(10, 0))

	commits := 0
	b.On(EventHistoryChanged, func(any) { commits++ })

	b.SetTool(ToolEraserPixel)
	b.PointerDown(pt(500, 500), false)
	b.PointerMove(pt(510, 510))
	b.PointerUp(pt(510, 510))

	assert.Zero(t, commits)
	assert.Len(t, b.Elements(), 1)
}

func TestSelectionGestureEmitsCompletion(t *testing.T) {
	b := New()
	completed := 0
	b.On(EventSelectionCompleted, func(any) { completed++ })

	b.StartSelectionMode()
	b.PointerDown(pt(10, 10), false)
	b.PointerMove(pt(110, 60))
	b.PointerUp(pt(110, 60))

	assert.Equal(t, 1, completed)
	require.NotNil(t, b.Selection())
	assert.Equal(t, geometry.NewRect(10, 10, 100, 50), *b.Selection())

	// Selection mode is one-shot; the next drag with the select tool does
	// not replace the rectangle.
	b.SetTool(ToolSelect)
	b.PointerDown(pt(200, 200), false)
	b.PointerUp(pt(200, 200))
	assert.NotNil(t, b.Selection())
}

func TestSelectionCropExportDimensionsAndWhiteness(t *testing.T) {
	b := New()
	b.SetSurfaceSize(400, 300)

	b.StartSelectionMode()
	b.PointerDown(pt(10, 10), false)
	b.PointerMove(pt(110, 60))
	b.PointerUp(pt(110, 60))

	var data []byte
	calls := 0
	b.RequestSelectionCrop(func(d []byte, ok bool) {
		calls++
		require.True(t, ok)
		data = d
	})
	require.Equal(t, 1, calls)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())

	// An empty board exports as opaque white everywhere.
	for _, p := range []image.Point{{0, 0}, {50, 25}, {99, 49}} {
		r, g, bl, a := img.At(p.X, p.Y).RGBA()
		assert.GreaterOrEqual(t, r>>8, uint32(250))
		assert.GreaterOrEqual(t, g>>8, uint32(250))
		assert.GreaterOrEqual(t, bl>>8, uint32(250))
		assert.Equal(t, uint32(255), a>>8)
	}
}

func TestCropWithoutSelectionAnswersAbsent(t *testing.T) {
	b := New()
	calls := 0
	b.RequestSelectionCrop(func(d []byte, ok bool) {
		calls++
		assert.False(t, ok)
		assert.Nil(t, d)
	})
	assert.Equal(t, 1, calls)
}

func TestFullExportAnswersOnce(t *testing.T) {
	b := New()
	b.SetSurfaceSize(320, 240)
	calls := 0
	b.RequestFullExport(func(d []byte, ok bool) {
		calls++
		require.True(t, ok)
		img, err := jpeg.Decode(bytes.NewReader(d))
		require.NoError(t, err)
		assert.Equal(t, 320, img.Bounds().Dx())
		assert.Equal(t, 240, img.Bounds().Dy())
	})
	assert.Equal(t, 1, calls)
}

func TestTextProtocolCreateAndEdit(t *testing.T) {
	b := New()
	var req *TextEditRequest
	b.On(EventTextEditRequested, func(data any) { req = data.(*TextEditRequest) })

	b.SetTool(ToolText)
	b.PointerDown(pt(40, 80), false)
	b.PointerUp(pt(40, 80))
	require.NotNil(t, req)
	assert.Empty(t, req.ExistingID)
	assert.Equal(t, pt(40, 80), req.Anchor)

	b.ConfirmText("hello", element.TextFormat{Size: 20, Bold: true})
	require.Len(t, b.Elements(), 1)
	created := b.Elements()[0].(*element.Text)
	assert.Equal(t, "hello", created.Content)
	assert.True(t, created.Format.Bold)

	// Clicking the element with the select tool reopens the surface seeded
	// with its stored content and format.
	req = nil
	b.SetTool(ToolSelect)
	b.PointerDown(pt(45, 78), false)
	b.PointerUp(pt(45, 78))
	require.NotNil(t, req)
	assert.Equal(t, created.ID, req.ExistingID)
	assert.Equal(t, "hello", req.Content)

	// Confirming updates in place under the same identifier.
	b.ConfirmText("edited", element.TextFormat{Size: 24})
	require.Len(t, b.Elements(), 1)
	updated := b.Elements()[0].(*element.Text)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "edited", updated.Content)
	assert.InDelta(t, 24.0, updated.Format.Size, 1e-9)
}

func TestCancelTextEditMutatesNothing(t *testing.T) {
	b := New()
	b.SetTool(ToolText)
	b.PointerDown(pt(10, 10), false)
	b.PointerUp(pt(10, 10))
	b.CancelTextEdit()

	b.ConfirmText("too late", element.TextFormat{Size: 12})
	assert.Empty(t, b.Elements())
}

func TestDragClosesOpenTextSurface(t *testing.T) {
	b := New()
	b.SetTool(ToolText)
	b.PointerDown(pt(40, 80), false)
	b.PointerUp(pt(40, 80))
	b.ConfirmText("movable", element.TextFormat{Size: 20})

	closed := 0
	b.On(EventTextEditClosed, func(any) { closed++ })

	// Open the surface by clicking the element, then drag it.
	b.SetTool(ToolSelect)
	b.PointerDown(pt(45, 78), false)
	b.PointerUp(pt(45, 78))

	b.PointerDown(pt(45, 78), false)
	b.PointerMove(pt(90, 120))
	b.PointerUp(pt(90, 120))

	assert.Equal(t, 1, closed)

	// A confirm from the stale surface is ignored after the close.
	moved := b.Elements()[0].(*element.Text)
	b.ConfirmText("stale", element.TextFormat{Size: 8})
	assert.Equal(t, "movable", b.Elements()[0].(*element.Text).Content)
	assert.Equal(t, moved.Anchor, b.Elements()[0].(*element.Text).Anchor)
}

func TestImportImageCommitsOnResolve(t *testing.T) {
	b := New()
	bmp := element.NewPendingBitmap()
	b.ImportImage(bmp, geometry.NewRect(10, 10, 0, 0))
	assert.Empty(t, b.Elements())

	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	bmp.Resolve(src, nil)

	require.Len(t, b.Elements(), 1)
	im := b.Elements()[0].(*element.Image)
	assert.Equal(t, 8.0, im.Width)
	assert.Equal(t, 6.0, im.Height)
	assert.Equal(t, pt(10, 10), im.Anchor)
}

func TestImportImageDecodeFailureDropsElement(t *testing.T) {
	b := New()
	bmp := element.NewPendingBitmap()
	b.ImportImage(bmp, geometry.NewRect(0, 0, 0, 0))
	bmp.Resolve(nil, errors.New("bad data"))
	assert.Empty(t, b.Elements())
}

func TestConvertImageToOverlaySetsTranslucency(t *testing.T) {
	b := New()
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	b.ConvertImageToOverlay(element.NewBitmap(src), geometry.NewRect(0, 0, 4, 4))

	require.Len(t, b.Elements(), 1)
	im := b.Elements()[0].(*element.Image)
	assert.True(t, im.Overlay)
	assert.InDelta(t, 0.7, im.Opacity, 1e-9)
}

func TestUndoRedoScenarioThroughBoard(t *testing.T) {
	b := New()
	drawStroke(b, pt(0, 0), pt(10, 0))
	drawStroke(b, pt(0, 20), pt(10, 20))
	require.Len(t, b.Elements(), 2)

	b.Undo()
	assert.Len(t, b.Elements(), 1)
	b.Redo()
	assert.Len(t, b.Elements(), 2)
}

func TestClearPreservesHistory(t *testing.T) {
	b := New()
	drawStroke(b, pt(0, 0), pt(10, 0))
	b.Clear()
	assert.Empty(t, b.Elements())
	b.Undo()
	assert.Len(t, b.Elements(), 1)
}

func TestRenderedStrokeLeavesInk(t *testing.T) {
	b := New()
	b.SetStrokeColor(color.RGBA{A: 255})
	b.SetBrushSize(6)
	drawStroke(b, pt(20, 20), pt(80, 80))

	out := b.Render(100, 100)
	r, g, bl, _ := out.At(50, 50).RGBA()
	assert.Less(t, r>>8, uint32(50))
	assert.Less(t, g>>8, uint32(50))
	assert.Less(t, bl>>8, uint32(50))
}
