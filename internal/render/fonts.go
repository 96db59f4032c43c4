package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"sketchpad/internal/element"
)

type fontKey struct {
	bold   bool
	italic bool
}

type faceKey struct {
	bold   bool
	italic bool
	size   float64
}

// fontData maps style flags to the embedded Latin Modern TTFs.
var fontData = map[fontKey][]byte{
	{false, false}: lmroman10regular.TTF,
	{true, false}:  lmroman10bold.TTF,
	{false, true}:  lmroman10italic.TTF,
	{true, true}:   lmroman10bolditalic.TTF,
}

// parsedFont returns the parsed font for the given style, caching the result.
func (r *Renderer) parsedFont(bold, italic bool) (*sfnt.Font, error) {
	key := fontKey{bold, italic}
	if f, ok := r.fonts[key]; ok {
		return f, nil
	}
	f, err := opentype.Parse(fontData[key])
	if err != nil {
		return nil, fmt.Errorf("failed to parse font (bold=%v italic=%v): %w", bold, italic, err)
	}
	r.fonts[key] = f
	return f, nil
}

// face returns a cached font.Face for the format at the given pixel size.
func (r *Renderer) face(format element.TextFormat, size float64) (font.Face, error) {
	key := faceKey{format.Bold, format.Italic, size}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	fnt, err := r.parsedFont(format.Bold, format.Italic)
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}
	r.faces[key] = f
	return f, nil
}

// TextWidth measures the rendered width of a text element in world units.
// It satisfies the hit-tester's measure hook.
func (r *Renderer) TextWidth(t *element.Text) float64 {
	if t.Content == "" || t.Format.Size <= 0 {
		return 0
	}
	face, err := r.face(t.Format, t.Format.Size)
	if err != nil {
		return 0
	}
	return fixedToFloat(font.MeasureString(face, t.Content))
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

// drawText renders a text element: the string at its baseline anchor, plus
// underline and strikethrough decorations from the stored format.
func (r *Renderer) drawText(output *image.RGBA, t *element.Text, scale float64, anchor pixelPoint) {
	if t.Content == "" || t.Format.Size <= 0 {
		return
	}
	size := t.Format.Size * scale
	face, err := r.face(t.Format, size)
	if err != nil {
		return
	}
	col := applyOpacity(t.StrokeColor, t.Opacity)

	drawer := font.Drawer{
		Dst:  output,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(anchor.x, anchor.y),
	}
	drawer.DrawString(t.Content)

	if !t.Format.Underline && !t.Format.Strikethrough {
		return
	}

	width := int(fixedToFloat(font.MeasureString(face, t.Content)))
	deco := int(math.Max(1, t.Format.Size/16) * scale)
	if deco < 1 {
		deco = 1
	}
	if t.Format.Underline {
		y := anchor.y + int(0.1*size)
		drawLine(output, anchor.x, y, anchor.x+width, y, col, deco)
	}
	if t.Format.Strikethrough {
		y := anchor.y - int(0.3*size)
		drawLine(output, anchor.x, y, anchor.x+width, y, col, deco)
	}
}

// applyOpacity scales a color's alpha by the element opacity.
func applyOpacity(col color.RGBA, opacity float64) color.RGBA {
	if opacity >= 1 {
		return col
	}
	if opacity < 0 {
		opacity = 0
	}
	col.A = uint8(float64(col.A) * opacity)
	return col
}
