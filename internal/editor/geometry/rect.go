package geometry

import (
	"math"

	"seatmap-editor/internal/editor/models"
)

// Rect is an axis-aligned box in scene coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

func (r Rect) Center() models.Point {
	return models.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) Contains(p models.Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Union returns the smallest rect containing both. Zero-size rects still
// contribute their position so that point-like bounds are not lost.
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.MaxX(), other.MaxX())
	maxY := math.Max(r.MaxY(), other.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// CenteredRect returns a w x h box centered on c.
func CenteredRect(c models.Point, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

// BoundsOf returns the bounding box of points; ok is false for an empty list.
func BoundsOf(points []models.Point) (Rect, bool) {
	if len(points) == 0 {
		return Rect{}, false
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// TransformRect maps the corners of a local box through m and returns their
// scene-space bounding box.
func TransformRect(m Matrix, local Rect) Rect {
	corners := []models.Point{
		m.Apply(models.Point{X: local.X, Y: local.Y}),
		m.Apply(models.Point{X: local.MaxX(), Y: local.Y}),
		m.Apply(models.Point{X: local.MaxX(), Y: local.MaxY()}),
		m.Apply(models.Point{X: local.X, Y: local.MaxY()}),
	}
	r, _ := BoundsOf(corners)
	return r
}
