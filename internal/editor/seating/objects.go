package seating

import (
	"seatmap-editor/internal/editor/models"
	"seatmap-editor/internal/editor/scene"
)

const (
	seatStroke  = "#1e293b"
	labelFill   = "#ffffff"
	seatOutline = 2.0
)

// Objects turns a descriptor into the seat marker and its decorative label.
func Objects(d models.SeatDescriptor) (seat, label models.SceneObject) {
	shape := models.Shape{Type: models.ShapeCircle, Radius: d.Radius}
	if d.Marker == models.SeatSquare {
		shape = models.Shape{Type: models.ShapeRect, Width: 2 * d.Radius, Height: 2 * d.Radius}
	}

	seat = models.SceneObject{
		ID:        d.ID,
		Kind:      models.KindSeat,
		ZoneID:    d.ZoneID,
		Transform: models.TranslateTransform(d.Center.X-d.Radius, d.Center.Y-d.Radius),
		Shape:     shape,
		Style: models.Style{
			Fill:        d.Fill,
			Stroke:      seatStroke,
			StrokeWidth: seatOutline,
			Opacity:     1,
		},
		Meta: models.Metadata{Name: d.Label.Text},
		Seat: &models.SeatInfo{
			Row:     d.Row,
			Number:  d.Number,
			Kind:    d.Kind,
			Marker:  d.Marker,
			LabelID: d.Label.ID,
		},
		Visible:     true,
		Interactive: true,
	}

	box := scene.TextBox(d.Label.Text, d.Label.FontSize)
	label = models.SceneObject{
		ID:        d.Label.ID,
		Kind:      models.KindLabel,
		ZoneID:    d.ZoneID,
		Transform: models.TranslateTransform(d.Label.Center.X-box.Width/2, d.Label.Center.Y-box.Height/2),
		Shape: models.Shape{
			Type:     models.ShapeText,
			Text:     d.Label.Text,
			FontSize: d.Label.FontSize,
		},
		Style:   models.Style{Fill: labelFill, Opacity: 1},
		Visible: true,
	}
	return seat, label
}
