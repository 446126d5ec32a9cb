package mapper

import (
	"errors"
	"fmt"
	"io"
	"math"

	"seatmap-editor/internal/editor/geometry"
	"seatmap-editor/internal/editor/models"
	"seatmap-editor/internal/editor/parser"
	"seatmap-editor/internal/editor/scene"
)

// ============================================================
// Importer
// ============================================================

const (
	DefaultZoneColor = "#3B82F6"
	DefaultSeatFill  = "#0EA5E9"
	SeatStroke       = "#1e293b"
	TextFill         = "#1e293b"
)

type ImportOptions struct {
	ZoneColor string
	SeatFill  string
}

// ImportSummary counts what an import added.
type ImportSummary struct {
	Zones   int     `json:"zones"`
	Objects int     `json:"objects"`
	Seats   int     `json:"seats"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

type Importer struct {
	opts    ImportOptions
	sc      *scene.Scene
	summary ImportSummary
}

// NewImporter builds an importer that writes into sc. Callers that need an
// all-or-nothing import pass a scratch scene and adopt its snapshot on success.
func NewImporter(sc *scene.Scene, opts ImportOptions) *Importer {
	if opts.ZoneColor == "" {
		opts.ZoneColor = DefaultZoneColor
	}
	if opts.SeatFill == "" {
		opts.SeatFill = DefaultSeatFill
	}
	return &Importer{opts: opts, sc: sc}
}

// Import parses an SVG venue plan and adds it to the scene.
func (im *Importer) Import(r io.Reader) (ImportSummary, error) {
	doc, err := parser.ParseSVG(r)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("parse SVG: %w", err)
	}
	return im.ImportDocument(doc)
}

func (im *Importer) ImportDocument(doc *parser.Document) (ImportSummary, error) {
	im.summary = ImportSummary{Width: doc.Width, Height: doc.Height}
	for _, el := range doc.Elements {
		if err := im.walk(el, "", nil, geometry.Identity()); err != nil {
			return im.summary, err
		}
	}
	return im.summary, nil
}

// walk adds el under parentID. pending holds ancestor transforms that could
// not be kept as a group (skew), so they are baked into el instead.
func (im *Importer) walk(el parser.Element, parentID string, zone *models.Zone, pending geometry.Matrix) error {
	m := el.Matrix.Multiply(pending)

	if zone == nil && el.Type != parser.ElementCircle && el.Type != parser.ElementText {
		z, err := im.zoneFor(el)
		if err != nil {
			return err
		}
		zone = z
	}

	switch el.Type {
	case parser.ElementGroup:
		t, ok := geometry.Decompose(m)
		if !ok {
			for _, child := range el.Children {
				if err := im.walk(child, parentID, zone, m); err != nil {
					return err
				}
			}
			return nil
		}
		group := models.SceneObject{
			ID:          im.sc.NewID("group"),
			Kind:        models.KindZoneShape,
			ParentID:    parentID,
			Transform:   t,
			Shape:       models.Shape{Type: models.ShapeGroup},
			Style:       models.Style{Opacity: 1},
			Visible:     true,
			Interactive: true,
		}
		im.tag(&group, zone)
		if err := im.add(group); err != nil {
			return err
		}
		for _, child := range el.Children {
			if err := im.walk(child, group.ID, zone, geometry.Identity()); err != nil {
				return err
			}
		}

	case parser.ElementRect:
		obj := models.SceneObject{
			Kind:        models.KindZoneShape,
			ParentID:    parentID,
			Style:       im.outlineStyle(el, zone),
			Meta:        models.Metadata{Price: el.Price, Capacity: el.Capacity},
			Visible:     true,
			Interactive: true,
		}
		if t, ok := geometry.Decompose(m); ok {
			obj.ID = im.sc.NewID("rect")
			obj.Transform = t
			obj.Shape = models.Shape{Type: models.ShapeRect, Width: el.Width, Height: el.Height}
		} else {
			obj.ID = im.sc.NewID("polygon")
			obj.Transform = models.IdentityTransform()
			obj.Shape = models.Shape{Type: models.ShapePolygon, Points: applyAll(m, []models.Point{
				{X: 0, Y: 0}, {X: el.Width, Y: 0}, {X: el.Width, Y: el.Height}, {X: 0, Y: el.Height},
			})}
		}
		im.tag(&obj, zone)
		return im.add(obj)

	case parser.ElementPolygon:
		points := applyAll(m, dropClosingVertex(el.Points))
		z := models.Zone{ID: "", Color: im.opts.ZoneColor, Visible: true}
		if zone != nil {
			z = *zone
		}
		if el.Fill != "" && el.Fill != "none" {
			z.Color = el.Fill
		}
		before := im.sc.Len()
		if _, err := AddPolygonZone(im.sc, points, z, parentID); err != nil {
			if errors.Is(err, ErrTooFewPoints) {
				return nil
			}
			return err
		}
		im.summary.Objects += im.sc.Len() - before

	case parser.ElementCircle:
		scale := math.Sqrt(math.Abs(m.Determinant()))
		r := el.Radius * scale
		center := m.Apply(models.Point{X: el.Radius, Y: el.Radius})
		fill := im.opts.SeatFill
		if el.Fill != "" && el.Fill != "none" {
			fill = el.Fill
		}
		im.summary.Seats++
		seat := models.SceneObject{
			ID:        im.sc.NewID("seat"),
			Kind:      models.KindSeat,
			ParentID:  parentID,
			Transform: models.TranslateTransform(center.X-r, center.Y-r),
			Shape:     models.Shape{Type: models.ShapeCircle, Radius: r},
			Style:     models.Style{Fill: fill, Stroke: SeatStroke, StrokeWidth: OutlineStrokeWidth, Opacity: 1},
			Meta:      models.Metadata{Name: el.Name, Price: el.Price},
			Seat: &models.SeatInfo{
				Number: im.summary.Seats,
				Kind:   models.SeatRegular,
				Marker: models.SeatCircle,
			},
			Visible:     true,
			Interactive: true,
		}
		im.tag(&seat, zone)
		if err := im.add(seat); err != nil {
			return err
		}
		if zone != nil && zone.Kind == models.ZoneSection {
			im.sc.IncrementCapacity(zone.ID, 1)
		}

	case parser.ElementText:
		fill := TextFill
		if el.Fill != "" && el.Fill != "none" {
			fill = el.Fill
		}
		t, ok := geometry.Decompose(m)
		if !ok {
			origin := m.Apply(models.Point{})
			t = models.TranslateTransform(origin.X, origin.Y)
		}
		label := models.SceneObject{
			ID:        im.sc.NewID("label"),
			Kind:      models.KindLabel,
			ParentID:  parentID,
			Transform: t,
			Shape:     models.Shape{Type: models.ShapeText, Text: el.Text, FontSize: el.FontSize},
			Style:     models.Style{Fill: fill, Opacity: 1},
			Visible:   true,
		}
		im.tag(&label, zone)
		return im.add(label)
	}
	return nil
}

// zoneFor creates the zone an element's id asks for, or returns nil when the
// element carries no id.
func (im *Importer) zoneFor(el parser.Element) (*models.Zone, error) {
	kind, ok := parser.ClassifyID(el.ID)
	if !ok {
		return nil, nil
	}
	color := im.opts.ZoneColor
	if el.Fill != "" && el.Fill != "none" {
		color = el.Fill
	}
	name := el.Name
	if name == "" {
		name = parser.DisplayName(el.ID)
	}
	z, err := im.sc.CreateZone(kind, color, name)
	if err != nil {
		return nil, fmt.Errorf("element %q: %w", el.ID, err)
	}
	if el.Price != nil {
		im.sc.UpdateZone(z.ID, scene.ZonePatch{Price: el.Price})
		z.Price = el.Price
	}
	im.summary.Zones++
	return &z, nil
}

func (im *Importer) outlineStyle(el parser.Element, zone *models.Zone) models.Style {
	color := im.opts.ZoneColor
	if zone != nil {
		color = zone.Color
	}
	fill := Translucent(color)
	if el.Fill != "" {
		fill = el.Fill
	}
	return models.Style{Fill: fill, Stroke: color, StrokeWidth: OutlineStrokeWidth, Opacity: 1}
}

func (im *Importer) tag(o *models.SceneObject, zone *models.Zone) {
	if zone == nil {
		return
	}
	o.ZoneID = zone.ID
	if o.Kind == models.KindZoneShape && o.Meta.Name == "" {
		o.Meta.Name = zone.Name
	}
}

func (im *Importer) add(o models.SceneObject) error {
	if err := im.sc.AddObject(o); err != nil {
		return err
	}
	im.summary.Objects++
	return nil
}

func applyAll(m geometry.Matrix, points []models.Point) []models.Point {
	out := make([]models.Point, len(points))
	for i, p := range points {
		out[i] = m.Apply(p)
	}
	return out
}

func dropClosingVertex(points []models.Point) []models.Point {
	n := len(points)
	if n > 1 && geometry.Distance(points[0], points[n-1]) < 1e-9 {
		return points[:n-1]
	}
	return points
}
