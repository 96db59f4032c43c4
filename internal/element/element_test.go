package element

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchpad/pkg/geometry"
)

func TestStrokeCloneIsDeep(t *testing.T) {
	orig := &Stroke{
		Common: Common{ID: NewID(), Width: 3, Opacity: 1},
		Points: []geometry.Point2D{{X: 1, Y: 2}, {X: 3, Y: 4}},
	}
	c := orig.Clone().(*Stroke)
	c.Points[0].X = 99

	assert.Equal(t, 1.0, orig.Points[0].X)
	assert.Equal(t, orig.ID, c.ID)
}

func TestTranslatedMovesEveryVariant(t *testing.T) {
	d := geometry.Point2D{X: 5, Y: -3}

	st := (&Stroke{Points: []geometry.Point2D{{X: 1, Y: 1}}}).Translated(d).(*Stroke)
	assert.Equal(t, geometry.Point2D{X: 6, Y: -2}, st.Points[0])

	sh := (&Shape{Anchor: geometry.Point2D{X: 0, Y: 0}, Opposite: geometry.Point2D{X: 2, Y: 2}}).Translated(d).(*Shape)
	assert.Equal(t, geometry.Point2D{X: 5, Y: -3}, sh.Anchor)
	assert.Equal(t, geometry.Point2D{X: 7, Y: -1}, sh.Opposite)

	tx := (&Text{Anchor: geometry.Point2D{X: 10, Y: 10}}).Translated(d).(*Text)
	assert.Equal(t, geometry.Point2D{X: 15, Y: 7}, tx.Anchor)

	im := (&Image{Anchor: geometry.Point2D{X: 0, Y: 0}, Width: 4, Height: 4}).Translated(d).(*Image)
	assert.Equal(t, geometry.Point2D{X: 5, Y: -3}, im.Anchor)
}

func TestCloneListIndependence(t *testing.T) {
	list := []Element{
		&Stroke{Common: Common{ID: "s"}, Points: []geometry.Point2D{{X: 1}}},
		&Shape{Common: Common{ID: "r"}},
	}
	copied := CloneList(list)
	copied[0].(*Stroke).Points[0].X = 42
	copied[1].Attrs().ID = "changed"

	assert.Equal(t, 1.0, list[0].(*Stroke).Points[0].X)
	assert.Equal(t, "r", list[1].Attrs().ID)
}

func TestNewIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		require.NotEmpty(t, id)
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestImageBounds(t *testing.T) {
	im := &Image{Anchor: geometry.Point2D{X: 10, Y: 20}, Width: 30, Height: 40}
	assert.Equal(t, geometry.NewRect(10, 20, 30, 40), im.Bounds())
}

func TestBitmapPendingThenResolved(t *testing.T) {
	bmp := NewPendingBitmap()
	_, ok := bmp.Image()
	assert.False(t, ok)
	assert.ErrorIs(t, bmp.Err(), ErrNotResolved)

	fired := 0
	bmp.OnResolve(func() { fired++ })
	assert.Zero(t, fired)

	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	bmp.Resolve(src, nil)
	assert.Equal(t, 1, fired)

	got, ok := bmp.Image()
	require.True(t, ok)
	assert.Equal(t, src, got)
	assert.NoError(t, bmp.Err())
}

func TestBitmapResolveFailure(t *testing.T) {
	bmp := NewPendingBitmap()
	bmp.Resolve(nil, errors.New("truncated"))

	_, ok := bmp.Image()
	assert.False(t, ok)
	assert.EqualError(t, bmp.Err(), "truncated")
}

func TestBitmapOnResolveFiresImmediatelyWhenDone(t *testing.T) {
	bmp := NewBitmap(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	fired := 0
	bmp.OnResolve(func() { fired++ })
	assert.Equal(t, 1, fired)
}
