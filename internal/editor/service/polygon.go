package service

import (
	"errors"
	"fmt"

	"seatmap-editor/internal/editor/mapper"
	"seatmap-editor/internal/editor/models"
	"seatmap-editor/internal/editor/scene"
)

// ============================================================
// Polygon tool
// ============================================================

const (
	guideMarkerRadius = 3.0
	guideLineWidth    = 1.0
)

// polygonTool holds the clicked points and the guide objects drawn for them.
type polygonTool struct {
	points []models.Point
	guides []string
}

func (p *polygonTool) active() bool { return len(p.points) > 0 }

// reset drops the in-progress outline and its guides.
func (p *polygonTool) reset(sc *scene.Scene) {
	if len(p.guides) > 0 {
		sc.RemoveObjects(p.guides)
	}
	p.points = nil
	p.guides = nil
}

// AddPolygonPoint appends a vertex, drawing a marker and a preview edge from
// the previous vertex. Guides never reach the history.
func (e *Editor) AddPolygonPoint(pt models.Point) (Notice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	marker := models.SceneObject{
		ID:        e.scene.NewID("guide"),
		Kind:      models.KindGuide,
		Transform: models.TranslateTransform(pt.X-guideMarkerRadius, pt.Y-guideMarkerRadius),
		Shape:     models.Shape{Type: models.ShapeCircle, Radius: guideMarkerRadius},
		Style:     models.Style{Fill: e.activeColor, Opacity: 1},
		Visible:   true,
	}
	if err := e.scene.AddObject(marker); err != nil {
		return Notice{}, err
	}
	e.polygon.guides = append(e.polygon.guides, marker.ID)

	if n := len(e.polygon.points); n > 0 {
		prev := e.polygon.points[n-1]
		line := models.SceneObject{
			ID:        e.scene.NewID("guide"),
			Kind:      models.KindGuide,
			Transform: models.IdentityTransform(),
			Shape:     models.Shape{Type: models.ShapeLine, Points: []models.Point{prev, pt}},
			Style:     models.Style{Stroke: e.activeColor, StrokeWidth: guideLineWidth, Opacity: 1},
			Visible:   true,
		}
		if err := e.scene.AddObject(line); err != nil {
			return Notice{}, err
		}
		e.polygon.guides = append(e.polygon.guides, line.ID)
	}

	e.polygon.points = append(e.polygon.points, pt)
	if len(e.polygon.points) == 1 {
		return info("Click to add points. Finish to close the polygon or cancel to discard it"), nil
	}
	return info(fmt.Sprintf("%d points", len(e.polygon.points))), nil
}

// FinishPolygon closes the outline into a custom zone, cleaned with the
// PolygonSnap tolerances. Fewer than 3 points after cleaning keeps the tool
// running.
func (e *Editor) FinishPolygon() (models.Zone, Notice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.polygon.active() {
		return models.Zone{}, Notice{}, ErrNoPolygonInProgress
	}
	snapper := e.opts.PolygonSnap
	points := snapper.Clean(e.polygon.points)
	if len(points) < 3 {
		return models.Zone{}, Notice{}, ErrPolygonTooFewPoints
	}

	var zone models.Zone
	err := e.atomically(func() error {
		z, err := e.scene.CreateZone(models.ZoneCustom, e.activeColor, "")
		if err != nil {
			return err
		}
		if _, err := mapper.AddPolygonZone(e.scene, points, z, ""); err != nil {
			if errors.Is(err, mapper.ErrTooFewPoints) {
				return ErrPolygonTooFewPoints
			}
			return err
		}
		zone = z
		return nil
	})
	if err != nil {
		return models.Zone{}, Notice{}, err
	}

	e.polygon.reset(e.scene)
	e.commit("polygon")
	return zone, success(fmt.Sprintf("Custom zone %q created", zone.Name)), nil
}

func (e *Editor) CancelPolygon() (Notice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.polygon.active() {
		return Notice{}, ErrNoPolygonInProgress
	}
	e.polygon.reset(e.scene)
	return info("Polygon cancelled"), nil
}
