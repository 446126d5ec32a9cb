package snap

import (
	"math"

	"seatmap-editor/internal/editor/geometry"
	"seatmap-editor/internal/editor/models"
)

// ============================================================
// Polygon snapping
// ============================================================

const (
	defaultMergeTolerance = 8.0 // радиус склейки соседних вершин
	defaultAxisTolerance  = 4.0 // насколько ребро может отходить от оси
)

// Snapper cleans user-drawn or imported polygon outlines before they become
// zone shapes.
type Snapper struct {
	MergeTolerance float64
	AxisTolerance  float64
}

func New() *Snapper {
	return &Snapper{
		MergeTolerance: defaultMergeTolerance,
		AxisTolerance:  defaultAxisTolerance,
	}
}

// Clean drops an explicit closing vertex, merges consecutive vertices closer
// than MergeTolerance and straightens nearly horizontal/vertical edges.
// The input slice is not modified.
func (s *Snapper) Clean(points []models.Point) []models.Point {
	out := dropClosingVertex(points)
	out = s.mergeClose(out)
	if len(out) < 3 {
		return out
	}
	s.snapAxisAligned(out)
	return out
}

func dropClosingVertex(points []models.Point) []models.Point {
	out := append([]models.Point(nil), points...)
	if len(out) > 1 {
		first, last := out[0], out[len(out)-1]
		if almostEqual(first.X, last.X) && almostEqual(first.Y, last.Y) {
			out = out[:len(out)-1]
		}
	}
	return out
}

// mergeClose collapses runs of vertices that sit within MergeTolerance of the
// last kept vertex, including the wrap-around from the last to the first.
func (s *Snapper) mergeClose(points []models.Point) []models.Point {
	if len(points) == 0 {
		return points
	}
	out := points[:1]
	for _, p := range points[1:] {
		if geometry.Distance(out[len(out)-1], p) <= s.MergeTolerance {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && geometry.Distance(out[0], out[len(out)-1]) <= s.MergeTolerance {
		out = out[:len(out)-1]
	}
	return out
}

// snapAxisAligned фиксирует координаты вершин для почти горизонтальных и
// вертикальных рёбер замкнутого контура.
func (s *Snapper) snapAxisAligned(points []models.Point) {
	type agg struct {
		sumX float64
		cntX int
		sumY float64
		cntY int
	}

	aggs := make([]agg, len(points))
	n := len(points)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		v1, v2 := points[i], points[j]
		dx := v1.X - v2.X
		dy := v1.Y - v2.Y

		if math.Abs(dy) <= s.AxisTolerance && math.Abs(dx) > s.AxisTolerance {
			targetY := (v1.Y + v2.Y) / 2
			for _, idx := range []int{i, j} {
				aggs[idx].sumY += targetY
				aggs[idx].cntY++
			}
		} else if math.Abs(dx) <= s.AxisTolerance && math.Abs(dy) > s.AxisTolerance {
			targetX := (v1.X + v2.X) / 2
			for _, idx := range []int{i, j} {
				aggs[idx].sumX += targetX
				aggs[idx].cntX++
			}
		}
	}

	for i, a := range aggs {
		if a.cntX > 0 {
			points[i].X = a.sumX / float64(a.cntX)
		}
		if a.cntY > 0 {
			points[i].Y = a.sumY / float64(a.cntY)
		}
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
