package scene

import (
	"fmt"

	"seatmap-editor/internal/editor/models"
)

// ============================================================
// Zones
// ============================================================

// CreateZone registers a new zone. An empty name becomes "Zone N" where N is
// the zone count after creation, so names can repeat numbers after deletes.
func (s *Scene) CreateZone(kind models.ZoneKind, color, name string) (models.Zone, error) {
	if !kind.Valid() {
		return models.Zone{}, fmt.Errorf("create zone %q: %w", kind, ErrInvalidKind)
	}
	if name == "" {
		name = fmt.Sprintf("Zone %d", len(s.zones)+1)
	}
	z := models.Zone{
		ID:      s.newID("zone"),
		Name:    name,
		Color:   color,
		Kind:    kind,
		Visible: true,
	}
	if kind == models.ZoneSection {
		zero := 0
		z.Capacity = &zero
	}
	s.zones = append(s.zones, z)
	return z.Clone(), nil
}

func (s *Scene) Zone(id string) (models.Zone, bool) {
	if z := s.zoneRef(id); z != nil {
		return z.Clone(), true
	}
	return models.Zone{}, false
}

func (s *Scene) Zones() []models.Zone {
	out := make([]models.Zone, 0, len(s.zones))
	for _, z := range s.zones {
		out = append(out, z.Clone())
	}
	return out
}

// DeleteZone removes the zone and every object tagged with it, plus the
// descendants of tagged groups. A descendant tagged with another existing zone
// survives and is lifted out of the removed group. Returns the removed objects.
func (s *Scene) DeleteZone(zoneID string) []models.SceneObject {
	idx := s.zoneIndex(zoneID)
	if idx < 0 {
		return nil
	}
	doomed := make(map[string]bool)
	for _, id := range s.ObjectsInZone(zoneID) {
		s.collectZoneMembers(id, zoneID, doomed)
	}
	removed := s.removeSet(doomed)
	s.zones = append(s.zones[:idx], s.zones[idx+1:]...)
	return removed
}

// collectZoneMembers is collectDescendants that stops at subtrees owned by a
// different live zone.
func (s *Scene) collectZoneMembers(id, zoneID string, into map[string]bool) {
	o, ok := s.index[id]
	if !ok || into[id] {
		return
	}
	if o.ZoneID != "" && o.ZoneID != zoneID && s.zoneIndex(o.ZoneID) >= 0 {
		return
	}
	into[id] = true
	for _, child := range o.Shape.Children {
		s.collectZoneMembers(child, zoneID, into)
	}
}

// SetZoneVisibility flips the zone flag and the render flag of every tagged
// object. Untagged objects are not affected.
func (s *Scene) SetZoneVisibility(zoneID string, visible bool) int {
	z := s.zoneRef(zoneID)
	if z == nil {
		return 0
	}
	z.Visible = visible
	n := 0
	for _, o := range s.objects {
		if o.ZoneID == zoneID {
			o.Visible = visible
			n++
		}
	}
	return n
}

// IncrementCapacity adds delta to the zone capacity, never going below zero.
func (s *Scene) IncrementCapacity(zoneID string, delta int) {
	z := s.zoneRef(zoneID)
	if z == nil {
		return
	}
	c := delta
	if z.Capacity != nil {
		c += *z.Capacity
	}
	if c < 0 {
		c = 0
	}
	z.Capacity = &c
}

// ZonePatch edits zone-level attributes from the zone manager.
type ZonePatch struct {
	Name  *string  `json:"name,omitempty"`
	Color *string  `json:"color,omitempty"`
	Price *float64 `json:"price,omitempty"`
}

func (s *Scene) UpdateZone(zoneID string, patch ZonePatch) bool {
	z := s.zoneRef(zoneID)
	if z == nil {
		return false
	}
	if patch.Name != nil && *patch.Name != "" {
		z.Name = *patch.Name
	}
	if patch.Color != nil {
		z.Color = *patch.Color
	}
	if patch.Price != nil {
		p := *patch.Price
		z.Price = &p
	}
	return true
}

// ============================================================
// Helpers
// ============================================================

func (s *Scene) zoneIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.zones {
		if s.zones[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Scene) zoneRef(id string) *models.Zone {
	if i := s.zoneIndex(id); i >= 0 {
		return &s.zones[i]
	}
	return nil
}

// adjustSeatCapacity keeps capacity equal to the seat count for zones that
// track it: every section, plus any zone that was given a capacity by seat
// generation.
func (s *Scene) adjustSeatCapacity(zoneID string, delta int) {
	z := s.zoneRef(zoneID)
	if z == nil || (z.Kind != models.ZoneSection && z.Capacity == nil) {
		return
	}
	s.IncrementCapacity(zoneID, delta)
}
