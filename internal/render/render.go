// Package render rasterizes the committed element list, the provisional
// element, and the interaction overlays into an RGBA surface.
package render

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"

	"sketchpad/internal/element"
	"sketchpad/internal/viewport"
	"sketchpad/pkg/geometry"
)

// ErasePolicy selects the eraser-preview tint.
type ErasePolicy int

const (
	EraseNone ErasePolicy = iota
	ErasePixel
	EraseStroke
)

// Preview tints so the user can see the erase radius and which policy is live.
var (
	pixelEraserTint  = color.RGBA{R: 236, G: 99, B: 91, A: 90}
	strokeEraserTint = color.RGBA{R: 100, G: 149, B: 237, A: 90}
	selectionFill    = color.RGBA{R: 30, G: 144, B: 255, A: 40}
	selectionBorder  = color.RGBA{R: 30, G: 144, B: 255, A: 255}
	highlightColor   = color.RGBA{R: 70, G: 70, B: 70, A: 255}
)

// Scene is everything drawn in one frame.
type Scene struct {
	Elements    []element.Element
	Provisional element.Element // in-progress element, nil when idle

	EraserPath   []geometry.Point2D // provisional eraser gesture, world space
	EraserRadius float64            // world units
	EraserPolicy ErasePolicy

	Selection *geometry.Rect  // selection rectangle, world space
	Selected  element.Element // element to highlight, nil when none

	View *viewport.Transform
}

// Renderer draws scenes into RGBA buffers. It caches parsed fonts and faces;
// it is not safe for concurrent use, matching the engine's single-threaded
// event model.
type Renderer struct {
	// RequestRedraw is invoked once when a pending bitmap resolves after its
	// element was skipped during a draw.
	RequestRedraw func()

	fonts map[fontKey]*sfnt.Font
	faces map[faceKey]font.Face
}

type pixelPoint struct{ x, y int }

// New creates a renderer.
func New() *Renderer {
	return &Renderer{
		fonts: make(map[fontKey]*sfnt.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Draw renders the scene into a w by h surface with a white background.
func (r *Renderer) Draw(scene Scene, w, h int) *image.RGBA {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	fillWhite(output)

	for _, el := range scene.Elements {
		r.drawElement(output, scene.View, el)
	}
	if scene.Provisional != nil {
		r.drawElement(output, scene.View, scene.Provisional)
	}
	if len(scene.EraserPath) > 0 && scene.EraserPolicy != EraseNone {
		r.drawEraserPreview(output, scene)
	}
	if scene.Selection != nil {
		r.drawSelection(output, scene.View, *scene.Selection)
	}
	if scene.Selected != nil {
		r.drawHighlight(output, scene.View, scene.Selected)
	}
	return output
}

func fillWhite(output *image.RGBA) {
	for i := range output.Pix {
		output.Pix[i] = 0xff
	}
}

func (r *Renderer) toPixel(view *viewport.Transform, p geometry.Point2D) pixelPoint {
	s := view.ToScreen(p)
	return pixelPoint{x: int(math.Round(s.X)), y: int(math.Round(s.Y))}
}

// drawElement dispatches on the element variant. Malformed elements are
// skipped so one bad record cannot halt the frame.
func (r *Renderer) drawElement(output *image.RGBA, view *viewport.Transform, el element.Element) {
	switch e := el.(type) {
	case *element.Stroke:
		r.drawStroke(output, view, e)
	case *element.Shape:
		r.drawShape(output, view, e)
	case *element.Text:
		r.drawText(output, e, view.Scale(), r.toPixel(view, e.Anchor))
	case *element.Image:
		r.drawImage(output, view, e)
	}
}

// drawStroke draws a polyline with round joins and caps: a filled disc at
// every sampled point and thick segments between consecutive points.
func (r *Renderer) drawStroke(output *image.RGBA, view *viewport.Transform, s *element.Stroke) {
	if len(s.Points) < 2 {
		return
	}
	col := applyOpacity(s.StrokeColor, s.Opacity)
	width := s.Width * view.Scale()
	thickness := int(width + 0.5)
	if thickness < 1 {
		thickness = 1
	}

	prev := r.toPixel(view, s.Points[0])
	drawFilledCircle(output, float64(prev.x), float64(prev.y), width/2, col)
	for _, wp := range s.Points[1:] {
		cur := r.toPixel(view, wp)
		drawLine(output, prev.x, prev.y, cur.x, cur.y, col, thickness)
		drawFilledCircle(output, float64(cur.x), float64(cur.y), width/2, col)
		prev = cur
	}
}

func (r *Renderer) drawShape(output *image.RGBA, view *viewport.Transform, s *element.Shape) {
	col := applyOpacity(s.StrokeColor, s.Opacity)
	thickness := int(s.Width*view.Scale() + 0.5)
	if thickness < 1 {
		thickness = 1
	}
	a := r.toPixel(view, s.Anchor)
	b := r.toPixel(view, s.Opposite)

	switch s.Kind {
	case element.ShapeRectangle:
		if s.FillColor.A > 0 {
			fillRect(output, a.x, a.y, b.x, b.y, applyOpacity(s.FillColor, s.Opacity))
		}
		drawRectOutline(output, a.x, a.y, b.x, b.y, col, thickness)
	case element.ShapeCircle:
		radius := s.Anchor.Distance(s.Opposite) * view.Scale()
		if s.FillColor.A > 0 {
			drawFilledCircle(output, float64(a.x), float64(a.y), radius, applyOpacity(s.FillColor, s.Opacity))
		}
		drawCircleOutline(output, float64(a.x), float64(a.y), radius, col, float64(thickness))
	case element.ShapeLine:
		drawLine(output, a.x, a.y, b.x, b.y, col, thickness)
	case element.ShapeArrow:
		drawLine(output, a.x, a.y, b.x, b.y, col, thickness)
		for _, head := range arrowHeads(s.Anchor, s.Opposite) {
			hp := r.toPixel(view, head)
			drawLine(output, b.x, b.y, hp.x, hp.y, col, thickness)
		}
	}
}

// arrowHeadLength is the head stroke length in world units.
const arrowHeadLength = 15.0

// arrowHeads returns the two head stroke endpoints, at +-30 degrees from the
// shaft direction, measured back from the tip.
func arrowHeads(anchor, tip geometry.Point2D) []geometry.Point2D {
	d := tip.Sub(anchor)
	length := math.Hypot(d.X, d.Y)
	if length == 0 {
		return nil
	}
	base := math.Atan2(d.Y, d.X) + math.Pi // point back toward the anchor
	heads := make([]geometry.Point2D, 0, 2)
	for _, da := range []float64{-math.Pi / 6, math.Pi / 6} {
		heads = append(heads, geometry.Point2D{
			X: tip.X + arrowHeadLength*math.Cos(base+da),
			Y: tip.Y + arrowHeadLength*math.Sin(base+da),
		})
	}
	return heads
}

// drawImage blits the bitmap scaled into its world rectangle. A bitmap that
// has not finished decoding is skipped for this frame; a one-shot redraw is
// requested for when it resolves.
func (r *Renderer) drawImage(output *image.RGBA, view *viewport.Transform, im *element.Image) {
	if im.Bitmap == nil || im.Width <= 0 || im.Height <= 0 {
		return
	}
	src, ok := im.Bitmap.Image()
	if !ok {
		if im.Bitmap.Err() == element.ErrNotResolved && r.RequestRedraw != nil {
			im.Bitmap.OnResolve(r.RequestRedraw)
		}
		return
	}

	a := r.toPixel(view, im.Anchor)
	b := r.toPixel(view, im.Anchor.Add(geometry.Point2D{X: im.Width, Y: im.Height}))
	dr := image.Rect(a.x, a.y, b.x, b.y)
	if dr.Empty() {
		return
	}

	opts := &xdraw.Options{}
	if im.Opacity < 1 {
		alpha := im.Opacity
		if alpha < 0 {
			alpha = 0
		}
		opts.SrcMask = image.NewUniform(color.Alpha{A: uint8(alpha * 255)})
	}
	xdraw.ApproxBiLinear.Scale(output, dr, src, src.Bounds(), xdraw.Over, opts)
}

// drawEraserPreview draws the in-progress eraser gesture: a translucent
// path plus a disc of the erase radius at every sampled point, tinted per
// policy so the user can see what will be erased.
func (r *Renderer) drawEraserPreview(output *image.RGBA, scene Scene) {
	tint := pixelEraserTint
	if scene.EraserPolicy == EraseStroke {
		tint = strokeEraserTint
	}
	radius := scene.EraserRadius * scene.View.Scale()
	thickness := int(radius/2 + 0.5)
	if thickness < 1 {
		thickness = 1
	}

	prev := r.toPixel(scene.View, scene.EraserPath[0])
	drawFilledCircle(output, float64(prev.x), float64(prev.y), radius, tint)
	for _, wp := range scene.EraserPath[1:] {
		cur := r.toPixel(scene.View, wp)
		drawLine(output, prev.x, prev.y, cur.x, cur.y, tint, thickness)
		drawFilledCircle(output, float64(cur.x), float64(cur.y), radius, tint)
		prev = cur
	}
}

// drawSelection draws the selection rectangle overlay: translucent fill and
// a dashed border with constant screen-space dashes.
func (r *Renderer) drawSelection(output *image.RGBA, view *viewport.Transform, sel geometry.Rect) {
	a := r.toPixel(view, sel.TopLeft())
	b := r.toPixel(view, sel.BottomRight())
	fillRect(output, a.x, a.y, b.x, b.y, selectionFill)
	drawDashedRect(output, a.x, a.y, b.x, b.y, selectionBorder)
}

// drawHighlight draws a dashed bounding box around the selected element. The
// box lives in world space; the dash stroke stays one pixel regardless of
// zoom, the line width being divided by the scale.
func (r *Renderer) drawHighlight(output *image.RGBA, view *viewport.Transform, el element.Element) {
	box, ok := r.elementBounds(el)
	if !ok {
		return
	}
	box = box.Expand(4)
	a := r.toPixel(view, box.TopLeft())
	b := r.toPixel(view, box.BottomRight())
	drawDashedRect(output, a.x, a.y, b.x, b.y, highlightColor)
}

// elementBounds returns the world-space bounding box used for highlighting.
func (r *Renderer) elementBounds(el element.Element) (geometry.Rect, bool) {
	switch e := el.(type) {
	case *element.Stroke:
		if len(e.Points) == 0 {
			return geometry.Rect{}, false
		}
		return geometry.BoundingBox(e.Points).Expand(e.Width / 2), true
	case *element.Shape:
		if e.Kind == element.ShapeCircle {
			radius := e.Anchor.Distance(e.Opposite)
			return geometry.NewRect(e.Anchor.X-radius, e.Anchor.Y-radius, 2*radius, 2*radius), true
		}
		return geometry.RectFromPoints(e.Anchor, e.Opposite), true
	case *element.Text:
		width := r.TextWidth(e)
		return geometry.NewRect(e.Anchor.X, e.Anchor.Y-e.Format.Size, width, 1.3*e.Format.Size), true
	case *element.Image:
		return e.Bounds(), true
	default:
		return geometry.Rect{}, false
	}
}
