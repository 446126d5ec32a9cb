package service

import (
	"fmt"

	"seatmap-editor/internal/editor/geometry"
	"seatmap-editor/internal/editor/models"
	"seatmap-editor/internal/editor/seating"
)

// GenerateRequest asks for a seat grid. TargetID names the selected zone
// shape that bounds the grid; empty means an unfiltered block centered in
// the viewport.
type GenerateRequest struct {
	Params   models.GridParams
	TargetID string
}

type GenerateResult struct {
	Zone      models.Zone       `json:"zone"`
	Count     int               `json:"count"`
	Seats     []string          `json:"seats"`
	Bounds    geometry.Rect     `json:"bounds"`
	Grid      models.GridParams `json:"grid"`
	Truncated bool              `json:"truncated"`
}

// GenerateSeats fills the target shape (or a fresh block) with seats. Seats
// land in the target's zone when it has one, otherwise in a new section zone.
// Zero accepted seats is a valid outcome.
func (e *Editor) GenerateSeats(req GenerateRequest) (GenerateResult, Notice, error) {
	params := seating.Normalize(req.Params)

	e.mu.Lock()
	defer e.mu.Unlock()

	genReq := seating.Request{
		Params: params,
		Center: e.viewport.VisibleCenter(),
	}

	var zone models.Zone
	haveZone := false
	if req.TargetID != "" {
		target, ok := e.scene.Object(req.TargetID)
		if !ok || target.IsGuide() {
			return GenerateResult{}, Notice{}, fmt.Errorf("target %s: %w", req.TargetID, ErrEmptySelection)
		}
		shape, ok := e.scene.ShapeOf(req.TargetID)
		if !ok {
			return GenerateResult{}, Notice{}, fmt.Errorf("target %s has no fillable outline: %w", req.TargetID, ErrInvalidInput)
		}
		genReq.Target = &shape
		zone, haveZone = e.scene.Zone(target.ZoneID)
	}

	var res seating.Result
	var seatIDs []string
	err := e.atomically(func() error {
		if !haveZone {
			fill := e.opts.Palette.ColorFor(params.SeatKind, e.activeColor)
			name := fmt.Sprintf("Section %d (%dx%d)", len(e.scene.Zones())+1, params.Rows, params.Columns)
			z, err := e.scene.CreateZone(models.ZoneSection, fill, name)
			if err != nil {
				return err
			}
			zone = z
		}
		genReq.ZoneID = zone.ID
		genReq.BaseColor = zone.Color
		genReq.Batch = e.scene.NewID("batch")

		res = e.generator.Generate(genReq)
		for _, d := range res.Seats {
			seat, label := seating.Objects(d)
			seat.Visible = zone.Visible
			label.Visible = zone.Visible
			if err := e.scene.AddObject(seat); err != nil {
				return err
			}
			if err := e.scene.AddObject(label); err != nil {
				return err
			}
			seatIDs = append(seatIDs, seat.ID)
		}
		e.scene.IncrementCapacity(zone.ID, res.Count)
		return nil
	})
	if err != nil {
		return GenerateResult{}, Notice{}, err
	}

	e.commit("generate seats")
	zone, _ = e.scene.Zone(zone.ID)
	e.log.Info("seats generated", "zone", zone.ID, "count", res.Count, "filtered", genReq.Target != nil)

	out := GenerateResult{Zone: zone, Count: res.Count, Seats: seatIDs, Bounds: res.Bounds, Grid: params, Truncated: res.Truncated}
	if res.Count == 0 {
		return out, info("No seat fits inside the selected shape"), nil
	}
	if res.Truncated {
		return out, Notice{Level: NoticeWarning, Message: fmt.Sprintf("Grid too large, %d seats generated", res.Count)}, nil
	}
	return out, success(fmt.Sprintf("%d seats generated", res.Count)), nil
}
