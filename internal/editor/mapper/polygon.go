// Package mapper converts between scene objects and outside representations:
// polygon outlines, imported venue plans and exported SVG.
package mapper

import (
	"errors"
	"fmt"
	"strings"

	"seatmap-editor/internal/editor/geometry"
	"seatmap-editor/internal/editor/models"
	"seatmap-editor/internal/editor/scene"
)

var ErrTooFewPoints = errors.New("polygon needs at least 3 points")

const (
	OutlineStrokeWidth = 2.0
	EdgeLabelFontSize  = 12.0
	EdgeLabelFill      = "#1e293b"
)

// Translucent returns color at roughly 50% alpha when it is a #RRGGBB hex.
func Translucent(color string) string {
	if len(color) == 7 && strings.HasPrefix(color, "#") {
		return color + "80"
	}
	return color
}

// AddPolygonZone adds a polygon zone to sc: a group positioned at the
// outline's bounding-box origin, the outline itself in group-local space and
// one length label per edge. points are in the parent's frame (the scene,
// or the group named by parentID). Every object is tagged with zone.ID.
// Returns the group id.
func AddPolygonZone(sc *scene.Scene, points []models.Point, zone models.Zone, parentID string) (string, error) {
	if len(points) < 3 {
		return "", ErrTooFewPoints
	}
	box, _ := geometry.BoundsOf(points)

	local := make([]models.Point, len(points))
	for i, p := range points {
		local[i] = models.Point{X: p.X - box.X, Y: p.Y - box.Y}
	}

	groupID := sc.NewID("group")
	group := models.SceneObject{
		ID:          groupID,
		Kind:        models.KindZoneShape,
		ZoneID:      zone.ID,
		ParentID:    parentID,
		Transform:   models.TranslateTransform(box.X, box.Y),
		Shape:       models.Shape{Type: models.ShapeGroup},
		Style:       models.Style{Opacity: 1},
		Meta:        models.Metadata{Name: zone.Name},
		Visible:     zone.Visible,
		Interactive: true,
	}
	outline := models.SceneObject{
		ID:        sc.NewID("polygon"),
		Kind:      models.KindZoneShape,
		ZoneID:    zone.ID,
		ParentID:  groupID,
		Transform: models.IdentityTransform(),
		Shape:     models.Shape{Type: models.ShapePolygon, Points: local},
		Style: models.Style{
			Fill:        Translucent(zone.Color),
			Stroke:      zone.Color,
			StrokeWidth: OutlineStrokeWidth,
			Opacity:     1,
		},
		Meta:    models.Metadata{Name: zone.Name},
		Visible: zone.Visible,
	}

	objects := []models.SceneObject{group, outline}
	for i := range local {
		a, b := local[i], local[(i+1)%len(local)]
		text := fmt.Sprintf("%.0f", geometry.Distance(a, b))
		mid := geometry.Midpoint(a, b)
		tb := scene.TextBox(text, EdgeLabelFontSize)
		objects = append(objects, models.SceneObject{
			ID:        sc.NewID("label"),
			Kind:      models.KindLabel,
			ZoneID:    zone.ID,
			ParentID:  groupID,
			Transform: models.TranslateTransform(mid.X-tb.Width/2, mid.Y-tb.Height/2),
			Shape:     models.Shape{Type: models.ShapeText, Text: text, FontSize: EdgeLabelFontSize},
			Style:     models.Style{Fill: EdgeLabelFill, Opacity: 1},
			Visible:   zone.Visible,
		})
	}

	for i, o := range objects {
		if err := sc.AddObject(o); err != nil {
			if i > 0 {
				sc.RemoveObjects([]string{groupID})
			}
			return "", fmt.Errorf("add polygon zone: %w", err)
		}
	}
	return groupID, nil
}
