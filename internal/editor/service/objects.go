package service

import (
	"fmt"

	"seatmap-editor/internal/editor/mapper"
	"seatmap-editor/internal/editor/models"
	"seatmap-editor/internal/editor/scene"
)

// ============================================================
// Zones
// ============================================================

func (e *Editor) CreateZone(kind models.ZoneKind, color, name string) (models.Zone, Notice, error) {
	if !kind.Valid() {
		return models.Zone{}, Notice{}, fmt.Errorf("zone kind %q: %w", kind, ErrInvalidInput)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if color == "" {
		color = e.activeColor
	}
	z, err := e.scene.CreateZone(kind, color, name)
	if err != nil {
		return models.Zone{}, Notice{}, err
	}
	e.commit("create zone")
	return z, success(fmt.Sprintf("Zone %q created", z.Name)), nil
}

func (e *Editor) DeleteZone(zoneID string) (Notice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	z, ok := e.scene.Zone(zoneID)
	if !ok {
		return info("Zone no longer exists"), nil
	}
	removed := e.scene.DeleteZone(zoneID)
	e.commit("delete zone")
	return success(fmt.Sprintf("Zone %q deleted with %d objects", z.Name, len(removed))), nil
}

func (e *Editor) SetZoneVisibility(zoneID string, visible bool) (Notice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.scene.Zone(zoneID); !ok {
		return info("Zone no longer exists"), nil
	}
	n := e.scene.SetZoneVisibility(zoneID, visible)
	e.commit("zone visibility")
	state := "hidden"
	if visible {
		state = "shown"
	}
	return success(fmt.Sprintf("%d objects %s", n, state)), nil
}

func (e *Editor) UpdateZone(zoneID string, patch scene.ZonePatch) (Notice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.scene.UpdateZone(zoneID, patch) {
		return info("Zone no longer exists"), nil
	}
	e.commit("update zone")
	return success("Zone updated"), nil
}

func (e *Editor) ReorderZone(zoneID string, op scene.OrderOp) (Notice, error) {
	if !op.Valid() {
		return Notice{}, fmt.Errorf("order %q: %w", op, ErrInvalidInput)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.scene.ReorderZone(zoneID, op) {
		return info("Zone has no objects to reorder"), nil
	}
	e.commit("reorder zone")
	return success("Zone reordered"), nil
}

// ============================================================
// Tools
// ============================================================

// AddRectangle drops a default-sized section shape and its zone.
func (e *Editor) AddRectangle() (models.SceneObject, Notice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var obj models.SceneObject
	err := e.atomically(func() error {
		z, err := e.scene.CreateZone(models.ZoneSection, e.activeColor, "")
		if err != nil {
			return err
		}
		obj = models.SceneObject{
			ID:        e.scene.NewID("rect"),
			Kind:      models.KindZoneShape,
			ZoneID:    z.ID,
			Transform: models.TranslateTransform(ToolOriginX, ToolOriginY),
			Shape:     models.Shape{Type: models.ShapeRect, Width: RectangleWidth, Height: RectangleHeight},
			Style: models.Style{
				Fill:        mapper.Translucent(e.activeColor),
				Stroke:      e.activeColor,
				StrokeWidth: RectangleStrokeWidth,
				Opacity:     1,
			},
			Meta:        models.Metadata{Name: z.Name},
			Visible:     true,
			Interactive: true,
		}
		return e.scene.AddObject(obj)
	})
	if err != nil {
		return models.SceneObject{}, Notice{}, err
	}
	e.commit("rectangle")
	return obj, success("Rectangle zone added"), nil
}

// AddSeat places one seat marker, optionally tagged to a zone.
func (e *Editor) AddSeat(zoneID string) (models.SceneObject, Notice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	obj := models.SceneObject{
		ID:        e.scene.NewID("seat"),
		Kind:      models.KindSeat,
		Transform: models.TranslateTransform(ToolOriginX, ToolOriginY),
		Shape:     models.Shape{Type: models.ShapeCircle, Radius: SingleSeatRadius},
		Style: models.Style{
			Fill:        e.activeColor,
			Stroke:      mapper.SeatStroke,
			StrokeWidth: mapper.OutlineStrokeWidth,
			Opacity:     1,
		},
		Seat:        &models.SeatInfo{Kind: models.SeatRegular, Marker: models.SeatCircle},
		Visible:     true,
		Interactive: true,
	}
	if err := e.scene.AddObject(obj); err != nil {
		return models.SceneObject{}, Notice{}, err
	}
	if zoneID != "" {
		// TagObject moves section capacity along with the seat
		e.scene.TagObject(obj.ID, zoneID)
	}
	obj, _ = e.scene.Object(obj.ID)
	e.commit("seat")
	return obj, success("Seat added"), nil
}

func (e *Editor) AddLabel(text string) (models.SceneObject, Notice, error) {
	if text == "" {
		text = DefaultLabelText
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	obj := models.SceneObject{
		ID:          e.scene.NewID("label"),
		Kind:        models.KindLabel,
		Transform:   models.TranslateTransform(ToolOriginX, ToolOriginY),
		Shape:       models.Shape{Type: models.ShapeText, Text: text, FontSize: LabelFontSize},
		Style:       models.Style{Fill: TextColor, Opacity: 1},
		Visible:     true,
		Interactive: true,
	}
	if err := e.scene.AddObject(obj); err != nil {
		return models.SceneObject{}, Notice{}, err
	}
	e.commit("label")
	return obj, success("Label added"), nil
}

// ============================================================
// Selection operations
// ============================================================

// UpdateProperties is the properties panel: one patch for every selected
// object. A locked object in the selection aborts the whole edit.
func (e *Editor) UpdateProperties(ids []string, patch scene.Patch) (Notice, error) {
	if len(ids) == 0 {
		return Notice{}, ErrEmptySelection
	}
	if patch.Empty() {
		return info("Nothing to change"), nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	n, err := e.scene.UpdateProperties(ids, patch)
	if err != nil {
		return Notice{}, err
	}
	if n == 0 {
		return info("Selected objects no longer exist"), nil
	}
	e.commit("properties")
	return success(fmt.Sprintf("%d objects updated", n)), nil
}

func (e *Editor) DeleteObjects(ids []string) (Notice, error) {
	if len(ids) == 0 {
		return Notice{}, ErrEmptySelection
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	removed := e.scene.RemoveObjects(ids)
	if len(removed) == 0 {
		return info("Selected objects no longer exist"), nil
	}
	e.commit("delete objects")
	return success(fmt.Sprintf("%d objects deleted", len(removed))), nil
}

func (e *Editor) SetLocked(ids []string, locked bool) (Notice, error) {
	if len(ids) == 0 {
		return Notice{}, ErrEmptySelection
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.scene.SetLocked(ids, locked)
	if n == 0 {
		return info("Selected objects no longer exist"), nil
	}
	e.commit("lock")
	verb := "unlocked"
	if locked {
		verb = "locked"
	}
	return success(fmt.Sprintf("%d objects %s", n, verb)), nil
}

func (e *Editor) Duplicate(ids []string) ([]string, Notice, error) {
	if len(ids) == 0 {
		return nil, Notice{}, ErrEmptySelection
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	created := e.scene.Duplicate(ids)
	if len(created) == 0 {
		return nil, info("Selected objects no longer exist"), nil
	}
	e.commit("duplicate")
	return created, success(fmt.Sprintf("%d objects duplicated", len(created))), nil
}

func (e *Editor) Align(ids []string, dir scene.AlignDirection) (Notice, error) {
	if len(ids) == 0 {
		return Notice{}, ErrEmptySelection
	}
	if !dir.Valid() {
		return Notice{}, fmt.Errorf("align %q: %w", dir, ErrInvalidInput)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	moved := e.scene.Align(ids, dir)
	if moved == 0 {
		return info("Already aligned"), nil
	}
	e.commit("align")
	return success(fmt.Sprintf("%d objects aligned %s", moved, dir)), nil
}

func (e *Editor) Reorder(ids []string, op scene.OrderOp) (Notice, error) {
	if len(ids) == 0 {
		return Notice{}, ErrEmptySelection
	}
	if !op.Valid() {
		return Notice{}, fmt.Errorf("order %q: %w", op, ErrInvalidInput)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.scene.Reorder(ids, op) {
		return info("Selected objects no longer exist"), nil
	}
	e.commit("reorder")
	return success("Order updated"), nil
}

// SetTransform records a finished drag, resize or rotate.
func (e *Editor) SetTransform(id string, t models.Transform) (Notice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.scene.Has(id) {
		return info("Object no longer exists"), nil
	}
	if err := e.scene.SetTransform(id, t); err != nil {
		return Notice{}, err
	}
	e.commit("transform")
	return Notice{}, nil
}
