package handlers

import (
	"seatmap-editor/internal/editor/models"
	"seatmap-editor/internal/editor/scene"
)

// ============================================================
// Request DTOs
// ============================================================

type viewportRequest struct {
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
	PanX   float64 `json:"panX"`
	PanY   float64 `json:"panY"`
	Zoom   float64 `json:"zoom" validate:"gte=0"`
}

func (r viewportRequest) viewport() models.Viewport {
	return models.Viewport{Width: r.Width, Height: r.Height, PanX: r.PanX, PanY: r.PanY, Zoom: r.Zoom}
}

type colorRequest struct {
	Color string `json:"color" validate:"required,hexcolor"`
}

type createZoneRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=section stage aisle custom"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Name  string `json:"name" validate:"max=120"`
}

type visibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

type orderRequest struct {
	IDs []string `json:"ids" validate:"dive,required"`
	Op  string   `json:"op" validate:"required,oneof=forward backward front back"`
}

type seatRequest struct {
	ZoneID string `json:"zoneId"`
}

type labelRequest struct {
	Text string `json:"text" validate:"max=200"`
}

// Selections are not required to be non-empty: an empty selection is a user
// notice, not a malformed request.
type idsRequest struct {
	IDs []string `json:"ids" validate:"dive,required"`
}

type patchRequest struct {
	IDs   []string    `json:"ids" validate:"dive,required"`
	Patch scene.Patch `json:"patch"`
}

type lockRequest struct {
	IDs    []string `json:"ids" validate:"dive,required"`
	Locked bool     `json:"locked"`
}

type alignRequest struct {
	IDs       []string `json:"ids" validate:"dive,required"`
	Direction string   `json:"direction" validate:"required,oneof=left center right top middle bottom"`
}

type pointRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

// generateRequest leaves grid numbers unvalidated: out-of-range values are
// clamped by the generator. Nil means "use the editor default".
type generateRequest struct {
	Rows        *int     `json:"rows"`
	Columns     *int     `json:"columns"`
	RowSpacing  *float64 `json:"rowSpacing"`
	SeatSpacing *float64 `json:"seatSpacing"`
	StartRow    *string  `json:"startRow"`
	SeatKind    *string  `json:"seatKind"`
	SeatShape   *string  `json:"seatShape"`
	TargetID    string   `json:"targetId"`
}

func (r generateRequest) params(defaults models.GridParams) models.GridParams {
	p := defaults
	if r.Rows != nil {
		p.Rows = *r.Rows
	}
	if r.Columns != nil {
		p.Columns = *r.Columns
	}
	if r.RowSpacing != nil {
		p.RowSpacing = *r.RowSpacing
	}
	if r.SeatSpacing != nil {
		p.SeatSpacing = *r.SeatSpacing
	}
	if r.StartRow != nil {
		p.StartRow = *r.StartRow
	}
	if r.SeatKind != nil {
		p.SeatKind = models.SeatKind(*r.SeatKind)
	}
	if r.SeatShape != nil {
		p.SeatShape = models.SeatShape(*r.SeatShape)
	}
	return p
}

type opacityRequest struct {
	Opacity *float64 `json:"opacity" validate:"required"`
}
