package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectFromPointsNormalizes(t *testing.T) {
	r := RectFromPoints(Point2D{X: 110, Y: 60}, Point2D{X: 10, Y: 10})
	assert.Equal(t, NewRect(10, 10, 100, 50), r)
}

func TestRectContainsIncludesEdges(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	assert.True(t, r.Contains(Point2D{X: 0, Y: 0}))
	assert.True(t, r.Contains(Point2D{X: 10, Y: 10}))
	assert.False(t, r.Contains(Point2D{X: 10.01, Y: 5}))
}

func TestRectExpand(t *testing.T) {
	r := NewRect(10, 10, 20, 20).Expand(5)
	assert.Equal(t, NewRect(5, 5, 30, 30), r)
}

func TestBoundingBox(t *testing.T) {
	pts := []Point2D{{X: 3, Y: 7}, {X: -1, Y: 2}, {X: 5, Y: 4}}
	assert.Equal(t, NewRect(-1, 2, 6, 5), BoundingBox(pts))
	assert.True(t, BoundingBox(nil).Empty())
}

func TestSmoothPathPreservesEndpoints(t *testing.T) {
	pts := []Point2D{
		{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 20, Y: -3},
		{X: 30, Y: 8}, {X: 40, Y: 0}, {X: 50, Y: 2},
	}
	out := SmoothPath(pts, 4)
	require.GreaterOrEqual(t, len(out), 2)

	assert.InDelta(t, 0.0, out[0].X, 1e-9)
	assert.InDelta(t, 0.0, out[0].Y, 1e-9)
	last := out[len(out)-1]
	assert.InDelta(t, 50.0, last.X, 1e-9)
	assert.InDelta(t, 2.0, last.Y, 1e-9)
}

func TestSmoothPathResamplesEvenly(t *testing.T) {
	pts := make([]Point2D, 11)
	for i := range pts {
		pts[i] = Point2D{X: float64(i) * 10}
	}
	out := SmoothPath(pts, 4)
	require.Greater(t, len(out), len(pts))

	// A straight path resamples onto the same line.
	for _, p := range out {
		assert.InDelta(t, 0.0, p.Y, 1e-6)
	}
	// Consecutive samples are close to the requested spacing, except possibly
	// the final appended endpoint.
	for i := 1; i < len(out)-1; i++ {
		assert.InDelta(t, 4.0, out[i].Distance(out[i-1]), 0.5)
	}
}

func TestSmoothPathLeavesShortPathsAlone(t *testing.T) {
	pts := []Point2D{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}
	assert.Equal(t, pts, SmoothPath(pts, 4))

	dup := []Point2D{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0}}
	assert.Equal(t, dup, SmoothPath(dup, 4)) // under 2x spacing total length
}
