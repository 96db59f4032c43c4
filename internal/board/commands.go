package board

import (
	"image"
	"io"
	"log"
	"math"

	"sketchpad/internal/element"
	"sketchpad/internal/export"
	"sketchpad/internal/render"
	"sketchpad/pkg/geometry"
)

// overlayOpacity is the opacity applied to images converted to overlays.
const overlayOpacity = 0.7

// Undo steps history back one snapshot. Silent no-op at the first snapshot.
func (b *Board) Undo() {
	b.history.Undo()
	b.emit(EventHistoryChanged, nil)
	b.emit(EventChanged, nil)
}

// Redo steps history forward one snapshot. Silent no-op at the last snapshot.
func (b *Board) Redo() {
	b.history.Redo()
	b.emit(EventHistoryChanged, nil)
	b.emit(EventChanged, nil)
}

// Clear commits an empty list; prior snapshots stay undoable.
func (b *Board) Clear() {
	b.history.Clear()
	b.selectedID = ""
	b.emit(EventHistoryChanged, nil)
	b.emit(EventChanged, nil)
}

// CanUndo reports whether undo would change the live list.
func (b *Board) CanUndo() bool { return b.history.CanUndo() }

// CanRedo reports whether redo would change the live list.
func (b *Board) CanRedo() bool { return b.history.CanRedo() }

// ImportImage inserts a bitmap at the given placement. A pending bitmap
// commits its element the moment decoding completes; a failed decode drops
// the element entirely.
func (b *Board) ImportImage(bmp *element.Bitmap, placement geometry.Rect) {
	b.insertImage(bmp, placement, false, false, b.opacity)
}

// InsertGeneratedImage inserts a bitmap flagged as externally generated.
func (b *Board) InsertGeneratedImage(bmp *element.Bitmap, placement geometry.Rect) {
	b.insertImage(bmp, placement, true, false, b.opacity)
}

// ConvertImageToOverlay inserts a bitmap as a translucent overlay.
func (b *Board) ConvertImageToOverlay(bmp *element.Bitmap, placement geometry.Rect) {
	b.insertImage(bmp, placement, false, true, overlayOpacity)
}

func (b *Board) insertImage(bmp *element.Bitmap, placement geometry.Rect, generated, overlay bool, opacity float64) {
	if bmp == nil {
		return
	}
	commit := func() {
		img, ok := bmp.Image()
		if !ok {
			log.Printf("board: dropping image element, decode failed: %v", bmp.Err())
			return
		}
		w, h := placement.Width, placement.Height
		if w <= 0 || h <= 0 {
			bounds := img.Bounds()
			w, h = float64(bounds.Dx()), float64(bounds.Dy())
		}
		common := b.style()
		common.Opacity = opacity
		b.commitAppend(&element.Image{
			Common:    common,
			Bitmap:    bmp,
			Anchor:    placement.TopLeft(),
			Width:     w,
			Height:    h,
			Generated: generated,
			Overlay:   overlay,
		})
		b.emit(EventChanged, nil)
	}
	// OnResolve fires immediately for bitmaps that arrive decoded.
	bmp.OnResolve(commit)
}

// ReplaceAll commits an entirely new element list, as when a document is
// opened. The previous content stays undoable.
func (b *Board) ReplaceAll(list []element.Element) {
	if b.gesture != gestureNone {
		b.PointerLeave()
	}
	b.selectedID = ""
	b.selection = nil
	b.history.Commit(list)
	b.emit(EventHistoryChanged, nil)
	b.emit(EventChanged, nil)
}

// RestoreView restores a saved viewport transform.
func (b *Board) RestoreView(scale float64, offset geometry.Point2D) {
	b.view.Restore(scale, offset)
	b.emit(EventChanged, nil)
}

// StartSelectionMode arms the next drag to capture a selection rectangle,
// regardless of the active tool.
func (b *Board) StartSelectionMode() {
	b.regionArmed = true
	b.selection = nil
	b.emit(EventChanged, nil)
}

// ClearSelection discards the selection rectangle.
func (b *Board) ClearSelection() {
	b.selection = nil
	b.emit(EventChanged, nil)
}

// ConfirmText applies the external formatting surface's result: it creates a
// new text element, or updates every attribute of the element under edit in
// place, keeping its identifier.
func (b *Board) ConfirmText(content string, format element.TextFormat) {
	editID := b.textEditID
	editing := b.textEditing
	b.textEditing = false
	b.textEditID = ""
	if !editing || content == "" {
		return
	}

	if editID == "" {
		common := b.style()
		common.Width = 1
		b.commitAppend(&element.Text{
			Common:  common,
			Content: content,
			Format:  format,
			Anchor:  b.textAnchor,
		})
		b.emit(EventChanged, nil)
		return
	}

	current := b.history.Current()
	next := make([]element.Element, len(current))
	copy(next, current)
	for i, el := range next {
		txt, ok := el.(*element.Text)
		if !ok || txt.ID != editID {
			continue
		}
		updated := txt.Clone().(*element.Text)
		updated.Content = content
		updated.Format = format
		next[i] = updated
		b.history.Commit(next)
		b.emit(EventHistoryChanged, nil)
		b.emit(EventChanged, nil)
		return
	}
}

// CancelTextEdit closes the protocol without mutating anything.
func (b *Board) CancelTextEdit() {
	b.textEditing = false
	b.textEditID = ""
}

// Render rasterizes the current scene at the given pixel size.
func (b *Board) Render(w, h int) *image.RGBA {
	scene := render.Scene{
		Elements:     b.liveList(),
		Provisional:  b.provisional,
		EraserPath:   b.eraserPath,
		EraserRadius: b.eraserRadius,
		EraserPolicy: b.erasePolicy,
		Selection:    b.selection,
		Selected:     b.SelectedElement(),
		View:         b.view,
	}
	return b.renderer.Draw(scene, w, h)
}

// RequestSelectionCrop renders the surface, crops the completed selection,
// and answers the callback exactly once: the encoded JPEG, or (nil, false)
// when no selection exists or the region has no pixels.
func (b *Board) RequestSelectionCrop(cb func(data []byte, ok bool)) {
	if b.selection == nil {
		cb(nil, false)
		return
	}
	data, ok := b.encodeRegion(*b.selection, export.FormatJPEG)
	cb(data, ok)
}

// RequestFullExport renders and encodes the entire surface, answering the
// callback exactly once.
func (b *Board) RequestFullExport(cb func(data []byte, ok bool)) {
	surface := b.Render(b.surfaceW, b.surfaceH)
	data, ok := export.Full(surface, export.FormatJPEG)
	cb(data, ok)
}

// ExportRaster encodes the surface in the given format, restricted to the
// world-space selection when one is provided.
func (b *Board) ExportRaster(format export.Format, selection *geometry.Rect) ([]byte, bool) {
	if selection != nil {
		return b.encodeRegion(*selection, format)
	}
	surface := b.Render(b.surfaceW, b.surfaceH)
	return export.Full(surface, format)
}

// encodeRegion converts a world rectangle to screen pixel bounds, flattens
// that region of the rendered surface onto white, and encodes it.
func (b *Board) encodeRegion(sel geometry.Rect, format export.Format) ([]byte, bool) {
	a := b.view.ToScreen(sel.TopLeft())
	c := b.view.ToScreen(sel.BottomRight())
	region := image.Rect(
		int(math.Round(a.X)), int(math.Round(a.Y)),
		int(math.Round(c.X)), int(math.Round(c.Y)),
	)
	if region.Dx() <= 0 || region.Dy() <= 0 {
		return nil, false
	}
	surface := b.Render(b.surfaceW, b.surfaceH)
	return export.Region(surface, region, format)
}

// ExportPDF writes a vector PDF of the committed list.
func (b *Board) ExportPDF(w io.Writer) error {
	return export.PDF(b.history.Current(), w)
}
