package board

import (
	"sketchpad/internal/element"
	"sketchpad/internal/eraser"
	"sketchpad/internal/render"
	"sketchpad/pkg/geometry"
)

// PointerDown begins a gesture at a screen position. When pan is true the
// gesture pans the viewport regardless of the active tool.
func (b *Board) PointerDown(screen geometry.Point2D, pan bool) {
	if b.gesture != gestureNone {
		// A stray second press while a gesture is active cancels it.
		b.PointerLeave()
	}
	b.pressScreen = screen
	world := b.view.ToWorld(screen)
	b.lastWorld = world

	if pan {
		b.view.BeginPan(screen)
		b.gesture = gesturePan
		return
	}

	if b.regionArmed || b.tool == ToolRegion {
		b.gesture = gestureRegion
		b.regionAnchor = world
		sel := geometry.RectFromPoints(world, world)
		b.selection = &sel
		b.emit(EventChanged, nil)
		return
	}

	switch b.tool {
	case ToolBrush:
		b.provisional = &element.Stroke{
			Common: b.style(),
			Points: []geometry.Point2D{world},
		}
		b.gesture = gestureDraw
	case ToolShape:
		b.provisional = &element.Shape{
			Common:   b.style(),
			Kind:     b.shapeKind,
			Anchor:   world,
			Opposite: world,
		}
		b.gesture = gestureShape
	case ToolText:
		b.textAnchor = world
		b.gesture = gestureText
	case ToolEraserPixel, ToolEraserStroke:
		b.eraserPath = []geometry.Point2D{world}
		b.eraserRadius = b.brushSize / 2
		b.erasePolicy = render.ErasePixel
		if b.tool == ToolEraserStroke {
			b.erasePolicy = render.EraseStroke
		}
		b.gesture = gestureErase
	case ToolSelect:
		b.beginSelect(world)
	}
	b.emit(EventChanged, nil)
}

// beginSelect resolves the press against the committed list and starts a
// candidate drag on a hit.
func (b *Board) beginSelect(world geometry.Point2D) {
	hit := b.hit.FindTopmostAt(b.history.Current(), world)
	if hit == nil {
		b.selectedID = ""
		b.emit(EventElementSelected, nil)
		return
	}
	b.selectedID = hit.Attrs().ID
	b.gesture = gestureDragCandidate
	b.emit(EventElementSelected, hit)
}

// PointerMove advances the active gesture.
func (b *Board) PointerMove(screen geometry.Point2D) {
	world := b.view.ToWorld(screen)

	switch b.gesture {
	case gesturePan:
		b.view.PanTo(screen)
	case gestureDraw:
		st := b.provisional.(*element.Stroke)
		st.Points = append(st.Points, world)
	case gestureShape:
		b.provisional.(*element.Shape).Opposite = world
	case gestureErase:
		b.eraserPath = append(b.eraserPath, world)
	case gestureRegion:
		sel := geometry.RectFromPoints(b.regionAnchor, world)
		b.selection = &sel
	case gestureDragCandidate:
		if screen.Distance(b.pressScreen) <= dragThreshold {
			return
		}
		if !b.beginDrag() {
			return
		}
		b.translateDrag(world)
	case gestureDragActive:
		b.translateDrag(world)
	default:
		return
	}
	b.lastWorld = world
	b.emit(EventChanged, nil)
}

// beginDrag promotes a candidate drag to an active one once the threshold is
// exceeded. If the external text surface is editing the dragged element it is
// closed first, so a stale edit cannot later overwrite moved geometry.
func (b *Board) beginDrag() bool {
	current := b.history.Current()
	index := -1
	for i, el := range current {
		if el.Attrs().ID == b.selectedID {
			index = i
			break
		}
	}
	if index < 0 {
		b.gesture = gestureNone
		return false
	}

	if b.textEditing {
		b.textEditing = false
		b.textEditID = ""
		b.emit(EventTextEditClosed, nil)
	}

	b.dragList = make([]element.Element, len(current))
	copy(b.dragList, current)
	b.dragIndex = index
	b.dragEl = current[index].Clone()
	b.dragList[index] = b.dragEl
	b.netDelta = geometry.Point2D{}
	b.gesture = gestureDragActive
	return true
}

// translateDrag moves the dragged element by the pointer delta since the
// previous move.
func (b *Board) translateDrag(world geometry.Point2D) {
	delta := world.Sub(b.lastWorld)
	b.netDelta = b.netDelta.Add(delta)
	b.dragEl = b.dragEl.Translated(delta)
	b.dragList[b.dragIndex] = b.dragEl
}

// PointerUp finishes the active gesture and commits its result, if any.
func (b *Board) PointerUp(screen geometry.Point2D) {
	world := b.view.ToWorld(screen)
	gesture := b.gesture
	b.gesture = gestureNone

	switch gesture {
	case gesturePan:
		b.view.EndPan()
	case gestureDraw:
		b.finishStroke()
	case gestureShape:
		b.finishShape()
	case gestureText:
		b.textEditing = true
		b.textEditID = ""
		b.emit(EventTextEditRequested, &TextEditRequest{
			Format: b.textFormat,
			Anchor: b.textAnchor,
		})
	case gestureErase:
		b.finishErase()
	case gestureRegion:
		b.finishRegion()
	case gestureDragCandidate:
		b.finishClick()
	case gestureDragActive:
		b.finishDrag(world)
	}
	b.emit(EventChanged, nil)
}

func (b *Board) finishStroke() {
	st, ok := b.provisional.(*element.Stroke)
	b.provisional = nil
	if !ok || len(st.Points) < 2 {
		return
	}
	if b.smoothing {
		st.Points = geometry.SmoothPath(st.Points, smoothingSpacing)
	}
	b.commitAppend(st)
}

func (b *Board) finishShape() {
	sh, ok := b.provisional.(*element.Shape)
	b.provisional = nil
	if !ok || sh.Anchor == sh.Opposite {
		return
	}
	b.commitAppend(sh)
}

// finishErase consumes the sampled eraser path at gesture end. The path
// itself is never persisted; only the rewritten list is, and only when the
// erase actually removed or split something.
func (b *Board) finishErase() {
	path := b.eraserPath
	b.eraserPath = nil
	policy := b.erasePolicy
	b.erasePolicy = render.EraseNone
	if len(path) == 0 {
		return
	}

	current := b.history.Current()
	var next []element.Element
	if policy == render.ErasePixel {
		next = eraser.ErasePixel(current, path, b.eraserRadius)
	} else {
		next = eraser.EraseStroke(current, path, b.eraserRadius)
	}
	if !listChanged(current, next) {
		return
	}
	b.history.Commit(next)
	b.emit(EventHistoryChanged, nil)
}

func (b *Board) finishRegion() {
	b.regionArmed = false
	if b.selection != nil && b.selection.Empty() {
		b.selection = nil
		return
	}
	b.emit(EventSelectionCompleted, nil)
}

// finishClick handles a sub-threshold press/release on a selected element.
// Clicking a text element reopens the formatting surface with its stored
// content and format.
func (b *Board) finishClick() {
	sel := b.SelectedElement()
	if txt, ok := sel.(*element.Text); ok {
		b.textEditing = true
		b.textEditID = txt.ID
		b.emit(EventTextEditRequested, &TextEditRequest{
			ExistingID: txt.ID,
			Content:    txt.Content,
			Format:     txt.Format,
			Anchor:     txt.Anchor,
		})
	}
}

// finishDrag commits the moved geometry, but only when net displacement
// occurred; a drag that returns to its origin produces no history entry.
func (b *Board) finishDrag(world geometry.Point2D) {
	b.translateDrag(world)
	list := b.dragList
	net := b.netDelta
	b.dragList = nil
	b.dragEl = nil

	if net == (geometry.Point2D{}) {
		return
	}
	b.history.Commit(list)
	b.emit(EventHistoryChanged, nil)
}

// PointerLeave cancels the active gesture: no provisional element survives
// and no partial commit is made.
func (b *Board) PointerLeave() {
	gesture := b.gesture
	b.gesture = gestureNone
	b.provisional = nil
	b.eraserPath = nil
	b.erasePolicy = render.EraseNone
	b.dragList = nil
	b.dragEl = nil

	switch gesture {
	case gesturePan:
		b.view.EndPan()
	case gestureRegion:
		b.selection = nil
		b.regionArmed = false
	case gestureNone:
		return
	}
	b.emit(EventChanged, nil)
}

// Wheel zooms the viewport by the given notches.
func (b *Board) Wheel(notches int) {
	b.view.Zoom(notches)
	b.emit(EventChanged, nil)
}

// commitAppend commits the current list plus one new element.
func (b *Board) commitAppend(el element.Element) {
	current := b.history.Current()
	next := make([]element.Element, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, el)
	b.history.Commit(next)
	b.emit(EventHistoryChanged, nil)
}

// listChanged reports whether an erase rewrote the list. Untouched elements
// survive by identity, so a pointer comparison is sufficient.
func listChanged(before, after []element.Element) bool {
	if len(before) != len(after) {
		return true
	}
	for i := range before {
		if before[i] != after[i] {
			return true
		}
	}
	return false
}
