package render

import (
	"image"
	"image/color"
)

// blendPixel composites col over the output pixel with src-over blending.
// Color components are treated as straight (non-premultiplied); fully opaque
// colors are written directly.
func blendPixel(output *image.RGBA, x, y int, col color.RGBA) {
	bounds := output.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	if col.A == 0xff {
		output.SetRGBA(x, y, col)
		return
	}
	if col.A == 0 {
		return
	}
	dst := output.RGBAAt(x, y)
	alpha := float64(col.A) / 255.0
	inv := 1 - alpha
	output.SetRGBA(x, y, color.RGBA{
		R: uint8(float64(col.R)*alpha + float64(dst.R)*inv),
		G: uint8(float64(col.G)*alpha + float64(dst.G)*inv),
		B: uint8(float64(col.B)*alpha + float64(dst.B)*inv),
		A: 255,
	})
}

// drawLine draws a line between two points using Bresenham's algorithm,
// stamping a square of the given thickness at each step.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	if thickness < 1 {
		thickness = 1
	}

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				blendPixel(output, x1+s, y1+t, col)
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawFilledCircle fills a circle of radius r centered at (cx, cy).
func drawFilledCircle(output *image.RGBA, cx, cy, r float64, col color.RGBA) {
	if r <= 0 {
		return
	}
	minX := int(cx - r - 1)
	maxX := int(cx + r + 1)
	minY := int(cy - r - 1)
	maxY := int(cy + r + 1)
	r2 := r * r

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r2 {
				blendPixel(output, x, y, col)
			}
		}
	}
}

// drawCircleOutline draws a ring of the given stroke thickness centered at
// (cx, cy) with outer radius r.
func drawCircleOutline(output *image.RGBA, cx, cy, r float64, col color.RGBA, thickness float64) {
	if r <= 0 {
		return
	}
	if thickness < 1 {
		thickness = 1
	}
	minX := int(cx - r - 1)
	maxX := int(cx + r + 1)
	minY := int(cy - r - 1)
	maxY := int(cy + r + 1)
	r2 := r * r
	inner := r - thickness
	if inner < 0 {
		inner = 0
	}
	innerR2 := inner * inner

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			dist2 := dx*dx + dy*dy
			if dist2 <= r2 && dist2 >= innerR2 {
				blendPixel(output, x, y, col)
			}
		}
	}
}

// fillRect fills an axis-aligned rectangle given inclusive pixel corners.
func fillRect(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			blendPixel(output, x, y, col)
		}
	}
}

// drawRectOutline draws an axis-aligned rectangle outline.
func drawRectOutline(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	drawLine(output, x1, y1, x2, y1, col, thickness)
	drawLine(output, x1, y2, x2, y2, col, thickness)
	drawLine(output, x1, y1, x1, y2, col, thickness)
	drawLine(output, x2, y1, x2, y2, col, thickness)
}

// drawDashedRect draws a dashed axis-aligned rectangle outline. Dashes
// alternate on a fixed pixel pattern so they stay constant under zoom.
func drawDashedRect(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for x := x1; x <= x2; x++ {
		if (x+y1)%8 < 4 {
			blendPixel(output, x, y1, col)
		}
		if (x+y2)%8 < 4 {
			blendPixel(output, x, y2, col)
		}
	}
	for y := y1; y <= y2; y++ {
		if (x1+y)%8 < 4 {
			blendPixel(output, x1, y, col)
		}
		if (x2+y)%8 < 4 {
			blendPixel(output, x2, y, col)
		}
	}
}
