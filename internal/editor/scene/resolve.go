package scene

import (
	"unicode/utf8"

	"seatmap-editor/internal/editor/geometry"
	"seatmap-editor/internal/editor/models"
)

// ============================================================
// Transform resolution
// ============================================================

// textWidthFactor approximates glyph advance as a fraction of font size.
const textWidthFactor = 0.6

// TransformChain returns the transforms from the outermost ancestor group
// down to the object itself.
func (s *Scene) TransformChain(id string) ([]models.Transform, bool) {
	o, ok := s.index[id]
	if !ok {
		return nil, false
	}
	var chain []models.Transform
	seen := make(map[string]bool)
	for o != nil && !seen[o.ID] {
		seen[o.ID] = true
		chain = append(chain, o.Transform)
		o = s.index[o.ParentID]
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, true
}

// WorldMatrix is the object's local-to-scene matrix.
func (s *Scene) WorldMatrix(id string) (geometry.Matrix, bool) {
	chain, ok := s.TransformChain(id)
	if !ok {
		return geometry.Identity(), false
	}
	return geometry.Compose(chain), true
}

// ShapeOf resolves an object to a containment shape in scene space. A group
// resolves to its first polygon or rectangle child so that a polygon zone
// selected as a whole can be used as a seat-generation target.
func (s *Scene) ShapeOf(id string) (geometry.Shape, bool) {
	o, ok := s.index[id]
	if !ok || o.IsGuide() {
		return geometry.Shape{}, false
	}
	switch o.Shape.Type {
	case models.ShapeRect:
		world, _ := s.WorldMatrix(id)
		return geometry.NewRect(o.Shape.Width, o.Shape.Height, world), true
	case models.ShapeCircle:
		world, _ := s.WorldMatrix(id)
		return geometry.NewCircle(o.Shape.Radius, world), true
	case models.ShapePolygon:
		if len(o.Shape.Points) < 3 {
			return geometry.Shape{}, false
		}
		world, _ := s.WorldMatrix(id)
		return geometry.NewPolygon(append([]models.Point(nil), o.Shape.Points...), world), true
	case models.ShapeGroup:
		for _, child := range o.Shape.Children {
			c, ok := s.index[child]
			if !ok {
				continue
			}
			if c.Shape.Type == models.ShapePolygon || c.Shape.Type == models.ShapeRect {
				return s.ShapeOf(child)
			}
		}
	}
	return geometry.Shape{}, false
}

// Bounds returns the object's axis-aligned bounding box in scene space.
func (s *Scene) Bounds(id string) (geometry.Rect, bool) {
	o, ok := s.index[id]
	if !ok {
		return geometry.Rect{}, false
	}
	if o.Shape.Type == models.ShapeGroup {
		var out geometry.Rect
		found := false
		for _, child := range o.Shape.Children {
			b, ok := s.Bounds(child)
			if !ok {
				continue
			}
			if !found {
				out, found = b, true
				continue
			}
			out = out.Union(b)
		}
		return out, found
	}

	local, ok := localBox(o.Shape)
	if !ok {
		return geometry.Rect{}, false
	}
	world, _ := s.WorldMatrix(id)
	if o.Shape.Type == models.ShapePolygon || o.Shape.Type == models.ShapeLine {
		pts := make([]models.Point, len(o.Shape.Points))
		for i, p := range o.Shape.Points {
			pts[i] = world.Apply(p)
		}
		return geometry.BoundsOf(pts)
	}
	return geometry.TransformRect(world, local), true
}

// SelectionBounds is the union of the bounds of every listed object.
func (s *Scene) SelectionBounds(ids []string) (geometry.Rect, bool) {
	var out geometry.Rect
	found := false
	for _, id := range ids {
		b, ok := s.Bounds(id)
		if !ok {
			continue
		}
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, found
}

func localBox(shape models.Shape) (geometry.Rect, bool) {
	switch shape.Type {
	case models.ShapeRect:
		return geometry.Rect{Width: shape.Width, Height: shape.Height}, true
	case models.ShapeCircle:
		return geometry.Rect{Width: 2 * shape.Radius, Height: 2 * shape.Radius}, true
	case models.ShapeText:
		return TextBox(shape.Text, shape.FontSize), true
	case models.ShapePolygon, models.ShapeLine:
		return geometry.BoundsOf(shape.Points)
	}
	return geometry.Rect{}, false
}

// TextBox approximates the local box of a single-line label.
func TextBox(text string, fontSize float64) geometry.Rect {
	return geometry.Rect{
		Width:  float64(utf8.RuneCountInString(text)) * fontSize * textWidthFactor,
		Height: fontSize,
	}
}
