package geometry

import (
	"gonum.org/v1/gonum/interp"
)

// SmoothPath resamples a polyline through an Akima spline fitted over cumulative
// arc length, producing a path with evenly spaced points. The first and last
// points are preserved exactly. Paths too short to fit a spline are returned
// unchanged.
func SmoothPath(points []Point2D, spacing float64) []Point2D {
	if spacing <= 0 {
		return points
	}

	// Drop consecutive duplicates so the parameterization stays strictly increasing.
	pts := make([]Point2D, 0, len(points))
	for _, p := range points {
		if len(pts) > 0 && pts[len(pts)-1].Distance(p) < 1e-9 {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) < 5 {
		return points
	}

	ts := make([]float64, len(pts))
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		if i > 0 {
			ts[i] = ts[i-1] + pts[i-1].Distance(p)
		}
		xs[i] = p.X
		ys[i] = p.Y
	}
	total := ts[len(ts)-1]
	if total < spacing*2 {
		return points
	}

	var sx, sy interp.AkimaSpline
	if err := sx.Fit(ts, xs); err != nil {
		return points
	}
	if err := sy.Fit(ts, ys); err != nil {
		return points
	}

	n := int(total/spacing) + 1
	out := make([]Point2D, 0, n+1)
	for i := 0; i < n; i++ {
		t := float64(i) * total / float64(n)
		out = append(out, Point2D{X: sx.Predict(t), Y: sy.Predict(t)})
	}
	out = append(out, pts[len(pts)-1])
	return out
}
