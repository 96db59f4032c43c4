package export

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"

	"sketchpad/internal/element"
	"sketchpad/pkg/geometry"
)

const pdfMargin = 10.0 // mm

// PDF writes a vector rendition of the committed element list to w, scaled to
// fit a landscape A4 page. Pending bitmaps are skipped.
func PDF(elements []element.Element, w io.Writer) error {
	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()
	pageW, pageH := p.GetPageSize()

	box := contentBounds(elements)
	scale := 1.0
	if !box.Empty() {
		sx := (pageW - 2*pdfMargin) / box.Width
		sy := (pageH - 2*pdfMargin) / box.Height
		scale = sx
		if sy < sx {
			scale = sy
		}
	}
	mm := func(pt geometry.Point2D) (float64, float64) {
		return pdfMargin + (pt.X-box.X)*scale, pdfMargin + (pt.Y-box.Y)*scale
	}

	for i, el := range elements {
		if err := pdfElement(p, el, mm, scale, i); err != nil {
			return err
		}
	}
	if p.Err() {
		return fmt.Errorf("pdf generation failed: %w", p.Error())
	}
	return p.Output(w)
}

func pdfElement(p *gofpdf.Fpdf, el element.Element, mm func(geometry.Point2D) (float64, float64), scale float64, index int) error {
	attrs := el.Attrs()
	p.SetDrawColor(int(attrs.StrokeColor.R), int(attrs.StrokeColor.G), int(attrs.StrokeColor.B))
	p.SetLineWidth(attrs.Width * scale)
	p.SetAlpha(attrs.Opacity, "Normal")

	switch e := el.(type) {
	case *element.Stroke:
		for i := 1; i < len(e.Points); i++ {
			x1, y1 := mm(e.Points[i-1])
			x2, y2 := mm(e.Points[i])
			p.Line(x1, y1, x2, y2)
		}
	case *element.Shape:
		pdfShape(p, e, mm, scale)
	case *element.Text:
		style := ""
		if e.Format.Bold {
			style += "B"
		}
		if e.Format.Italic {
			style += "I"
		}
		p.SetFont("Helvetica", style, e.Format.Size*scale*2.835) // mm to pt
		p.SetTextColor(int(attrs.StrokeColor.R), int(attrs.StrokeColor.G), int(attrs.StrokeColor.B))
		x, y := mm(e.Anchor)
		p.Text(x, y, e.Content)
	case *element.Image:
		if e.Bitmap == nil {
			return nil
		}
		img, ok := e.Bitmap.Image()
		if !ok {
			return nil
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("failed to encode embedded image: %w", err)
		}
		name := fmt.Sprintf("img-%d", index)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		p.RegisterImageOptionsReader(name, opts, &buf)
		x, y := mm(e.Anchor)
		p.ImageOptions(name, x, y, e.Width*scale, e.Height*scale, false, opts, 0, "")
	}
	return nil
}

func pdfShape(p *gofpdf.Fpdf, e *element.Shape, mm func(geometry.Point2D) (float64, float64), scale float64) {
	x1, y1 := mm(e.Anchor)
	x2, y2 := mm(e.Opposite)
	switch e.Kind {
	case element.ShapeRectangle:
		box := geometry.RectFromPoints(e.Anchor, e.Opposite)
		x, y := mm(box.TopLeft())
		p.Rect(x, y, box.Width*scale, box.Height*scale, "D")
	case element.ShapeCircle:
		p.Circle(x1, y1, e.Anchor.Distance(e.Opposite)*scale, "D")
	case element.ShapeLine:
		p.Line(x1, y1, x2, y2)
	case element.ShapeArrow:
		p.Line(x1, y1, x2, y2)
		d := e.Opposite.Sub(e.Anchor)
		if d.X != 0 || d.Y != 0 {
			tip := e.Opposite
			for _, head := range arrowHeadPoints(e.Anchor, tip) {
				hx, hy := mm(head)
				p.Line(x2, y2, hx, hy)
			}
		}
	}
}

// arrowHeadPoints mirrors the renderer's head geometry in world units.
func arrowHeadPoints(anchor, tip geometry.Point2D) []geometry.Point2D {
	const headLen = 15.0
	d := tip.Sub(anchor)
	length := anchor.Distance(tip)
	if length == 0 {
		return nil
	}
	ux, uy := d.X/length, d.Y/length
	// Rotate the reversed direction by +-30 degrees.
	cos, sin := 0.8660254037844387, 0.5
	bx, by := -ux, -uy
	return []geometry.Point2D{
		{X: tip.X + headLen*(bx*cos-by*sin), Y: tip.Y + headLen*(bx*sin+by*cos)},
		{X: tip.X + headLen*(bx*cos+by*sin), Y: tip.Y + headLen*(-bx*sin+by*cos)},
	}
}

// contentBounds returns the world bounding box across all defining points.
func contentBounds(elements []element.Element) geometry.Rect {
	var pts []geometry.Point2D
	for _, el := range elements {
		pts = append(pts, el.DefiningPoints()...)
		if im, ok := el.(*element.Image); ok {
			pts = append(pts, im.Bounds().BottomRight())
		}
	}
	return geometry.BoundingBox(pts)
}
