package geometry

import (
	"math"

	"seatmap-editor/internal/editor/models"
)

// ============================================================
// Containment shapes
// ============================================================

type ShapeKind int

const (
	ShapeRect ShapeKind = iota + 1
	ShapePolygon
	ShapeCircle
)

// Shape is a zone outline resolved to scene space: the local geometry plus
// the full local-to-scene matrix of the object that owns it.
type Shape struct {
	Kind     ShapeKind
	Width    float64
	Height   float64
	Radius   float64
	Vertices []models.Point
	World    Matrix
}

func NewRect(width, height float64, world Matrix) Shape {
	return Shape{Kind: ShapeRect, Width: width, Height: height, World: world}
}

func NewPolygon(vertices []models.Point, world Matrix) Shape {
	return Shape{Kind: ShapePolygon, Vertices: vertices, World: world}
}

func NewCircle(radius float64, world Matrix) Shape {
	return Shape{Kind: ShapeCircle, Radius: radius, World: world}
}

// WorldVertices returns the outline in scene coordinates.
func (s Shape) WorldVertices() []models.Point {
	switch s.Kind {
	case ShapeRect:
		return []models.Point{
			s.World.Apply(models.Point{X: 0, Y: 0}),
			s.World.Apply(models.Point{X: s.Width, Y: 0}),
			s.World.Apply(models.Point{X: s.Width, Y: s.Height}),
			s.World.Apply(models.Point{X: 0, Y: s.Height}),
		}
	case ShapePolygon:
		out := make([]models.Point, len(s.Vertices))
		for i, v := range s.Vertices {
			out[i] = s.World.Apply(v)
		}
		return out
	}
	return nil
}

// Bounds returns the scene-space bounding box of the shape.
func (s Shape) Bounds() Rect {
	if s.Kind == ShapeCircle {
		return TransformRect(s.World, Rect{Width: 2 * s.Radius, Height: 2 * s.Radius})
	}
	r, _ := BoundsOf(s.WorldVertices())
	return r
}

// ContainsPoint reports whether p (scene coordinates) lies inside s.
//
// Rectangles and circles are tested in their own local frame, so rotation and
// non-uniform scale are handled exactly. Polygons are resolved to scene
// vertices and ray cast. Points exactly on an edge may land on either side.
func ContainsPoint(s Shape, p models.Point) bool {
	switch s.Kind {
	case ShapeRect:
		inv, err := s.World.Invert()
		if err != nil {
			return false
		}
		local := inv.Apply(p)
		return local.X >= 0 && local.X <= s.Width && local.Y >= 0 && local.Y <= s.Height
	case ShapeCircle:
		inv, err := s.World.Invert()
		if err != nil {
			return false
		}
		local := inv.Apply(p)
		return math.Hypot(local.X-s.Radius, local.Y-s.Radius) <= s.Radius
	case ShapePolygon:
		return PointInPolygon(s.WorldVertices(), p)
	}
	return false
}

// PointInPolygon is an even-odd ray cast towards +X. Fewer than three
// vertices never contain anything.
func PointInPolygon(vertices []models.Point, p models.Point) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := vertices[i], vertices[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xCross := (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y) + vi.X
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// Distance between two points.
func Distance(a, b models.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func Midpoint(a, b models.Point) models.Point {
	return models.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
