package app

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchpad/internal/element"
	"sketchpad/pkg/geometry"
)

func TestDocumentRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.SetRGBA(1, 1, color.RGBA{R: 128, G: 64, B: 32, A: 255})

	elements := []element.Element{
		&element.Stroke{
			Common: element.Common{ID: "s1", StrokeColor: color.RGBA{A: 255}, Width: 3, Opacity: 1},
			Points: []geometry.Point2D{{X: 1, Y: 2}, {X: 3, Y: 4}},
		},
		&element.Shape{
			Common:   element.Common{ID: "s2", StrokeColor: color.RGBA{B: 255, A: 255}, FillColor: color.RGBA{R: 255, A: 128}, Width: 2, Opacity: 0.5},
			Kind:     element.ShapeArrow,
			Anchor:   geometry.Point2D{X: 0, Y: 0},
			Opposite: geometry.Point2D{X: 10, Y: 10},
		},
		&element.Text{
			Common:  element.Common{ID: "s3", StrokeColor: color.RGBA{A: 255}, Width: 1, Opacity: 1},
			Content: "note",
			Format:  element.TextFormat{Font: "Latin Modern", Size: 18, Bold: true, Strikethrough: true},
			Anchor:  geometry.Point2D{X: 5, Y: 6},
		},
		&element.Image{
			Common: element.Common{ID: "s4", Opacity: 0.7},
			Bitmap: element.NewBitmap(src),
			Anchor: geometry.Point2D{X: 20, Y: 30},
			Width:  3, Height: 2,
			Overlay: true,
		},
	}

	path := filepath.Join(t.TempDir(), "roundtrip.sketch")
	require.NoError(t, SaveDocument(path, elements, 1.5, geometry.Point2D{X: 7, Y: -2}))

	got, scale, offset, err := LoadDocument(path)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, scale, 1e-9)
	assert.Equal(t, geometry.Point2D{X: 7, Y: -2}, offset)
	require.Len(t, got, 4)

	st := got[0].(*element.Stroke)
	assert.Equal(t, "s1", st.ID)
	assert.Equal(t, elements[0].(*element.Stroke).Points, st.Points)

	sh := got[1].(*element.Shape)
	assert.Equal(t, element.ShapeArrow, sh.Kind)
	assert.Equal(t, color.RGBA{R: 255, A: 128}, sh.FillColor)
	assert.InDelta(t, 0.5, sh.Opacity, 1e-9)

	tx := got[2].(*element.Text)
	assert.Equal(t, "note", tx.Content)
	assert.True(t, tx.Format.Bold)
	assert.True(t, tx.Format.Strikethrough)
	assert.InDelta(t, 18.0, tx.Format.Size, 1e-9)

	im := got[3].(*element.Image)
	assert.True(t, im.Overlay)
	decoded, ok := im.Bitmap.Image()
	require.True(t, ok)
	r, g, b, _ := decoded.At(1, 1).RGBA()
	assert.Equal(t, uint32(128), r>>8)
	assert.Equal(t, uint32(64), g>>8)
	assert.Equal(t, uint32(32), b>>8)
}

func TestSaveDocumentSkipsUnresolvedImages(t *testing.T) {
	elements := []element.Element{
		&element.Image{Common: element.Common{ID: "p"}, Bitmap: element.NewPendingBitmap(), Width: 4, Height: 4},
	}
	path := filepath.Join(t.TempDir(), "pending.sketch")
	require.NoError(t, SaveDocument(path, elements, 1, geometry.Point2D{}))

	got, _, _, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadDocumentRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.sketch")
	require.NoError(t, SaveDocument(path, nil, 1, geometry.Point2D{}))

	_, _, _, err := LoadDocument(filepath.Join(t.TempDir(), "missing.sketch"))
	assert.Error(t, err)
}

func TestStatePreferencesSurviveDefaults(t *testing.T) {
	s := NewState()
	assert.Equal(t, 3.0, s.BrushSize)
	assert.Equal(t, 1.0, s.Opacity)
	assert.Equal(t, uint8(255), s.StrokeColor.A)
	assert.False(t, s.Smoothing)
}
