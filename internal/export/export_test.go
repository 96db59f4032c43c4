package export

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchpad/internal/element"
	"sketchpad/pkg/geometry"
)

func TestFlattenFillsTransparencyWithWhite(t *testing.T) {
	surface := image.NewRGBA(image.Rect(0, 0, 20, 20))
	surface.SetRGBA(5, 5, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	out := Flatten(surface, image.Rect(0, 0, 20, 20))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, out.RGBAAt(5, 5))
}

func TestFlattenCropsRegion(t *testing.T) {
	surface := image.NewRGBA(image.Rect(0, 0, 100, 100))
	surface.SetRGBA(30, 40, color.RGBA{R: 200, A: 255})

	out := Flatten(surface, image.Rect(10, 10, 60, 50))
	assert.Equal(t, 50, out.Bounds().Dx())
	assert.Equal(t, 40, out.Bounds().Dy())
	assert.Equal(t, color.RGBA{200, 0, 0, 255}, out.RGBAAt(20, 30))
}

func TestRegionRejectsDegenerateInput(t *testing.T) {
	surface := image.NewRGBA(image.Rect(0, 0, 10, 10))

	_, ok := Region(nil, image.Rect(0, 0, 5, 5), FormatJPEG)
	assert.False(t, ok)

	_, ok = Region(surface, image.Rect(5, 5, 5, 9), FormatJPEG)
	assert.False(t, ok)
}

func TestEncodeRoundTripsPNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 7, 3))
	src.SetRGBA(2, 1, color.RGBA{R: 9, G: 8, B: 7, A: 255})

	data, err := Encode(src, FormatPNG)
	require.NoError(t, err)

	got, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), got.Bounds())
	r, g, b, _ := got.At(2, 1).RGBA()
	assert.Equal(t, uint32(9), r>>8)
	assert.Equal(t, uint32(8), g>>8)
	assert.Equal(t, uint32(7), b>>8)
}

func TestEncodeRejectsUnknownFormat(t *testing.T) {
	_, err := Encode(image.NewRGBA(image.Rect(0, 0, 1, 1)), Format("bmp"))
	assert.Error(t, err)
}

func TestFullExportDimensions(t *testing.T) {
	surface := image.NewRGBA(image.Rect(0, 0, 64, 48))
	data, ok := Full(surface, FormatJPEG)
	require.True(t, ok)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 48, cfg.Height)
}

func TestPDFWritesDocument(t *testing.T) {
	list := []element.Element{
		&element.Stroke{
			Common: element.Common{StrokeColor: color.RGBA{A: 255}, Width: 2, Opacity: 1},
			Points: []geometry.Point2D{{X: 10, Y: 10}, {X: 50, Y: 40}},
		},
		&element.Shape{
			Common:   element.Common{StrokeColor: color.RGBA{B: 255, A: 255}, Width: 1, Opacity: 0.5},
			Kind:     element.ShapeArrow,
			Anchor:   geometry.Point2D{X: 0, Y: 0},
			Opposite: geometry.Point2D{X: 100, Y: 0},
		},
		&element.Text{
			Common:  element.Common{StrokeColor: color.RGBA{A: 255}, Opacity: 1},
			Content: "label",
			Format:  element.TextFormat{Size: 14, Underline: true},
			Anchor:  geometry.Point2D{X: 20, Y: 60},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, PDF(list, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 500)
}

func TestPDFOnEmptyList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(nil, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
