// Package scene is the mutable scene graph of one editor: z-ordered objects,
// the zone list and the background image placement.
//
// Every exported mutation validates before it touches state, so a rejected
// call leaves the scene exactly as it was. Unknown ids are not errors.
package scene

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"seatmap-editor/internal/editor/geometry"
	"seatmap-editor/internal/editor/models"
)

var (
	ErrDuplicateID  = errors.New("object id already exists")
	ErrObjectLocked = errors.New("object is locked")
	ErrInvalidKind  = errors.New("invalid zone kind")
)

// ============================================================
// Scene
// ============================================================

type Scene struct {
	objects    []*models.SceneObject
	index      map[string]*models.SceneObject
	zones      []models.Zone
	background *models.Background
	newID      func(prefix string) string
}

type Option func(*Scene)

// WithIDGenerator overrides how zone and object ids are minted.
func WithIDGenerator(f func(prefix string) string) Option {
	return func(s *Scene) {
		if f != nil {
			s.newID = f
		}
	}
}

func New(opts ...Option) *Scene {
	s := &Scene{
		index: make(map[string]*models.SceneObject),
		newID: func(prefix string) string { return prefix + "-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID mints an id with the scene's generator.
func (s *Scene) NewID(prefix string) string {
	return s.newID(prefix)
}

// ============================================================
// Objects
// ============================================================

// AddObject appends obj on top of the z-order. A child of an existing group is
// placed directly above the group's current topmost descendant and registered
// in the group's child list.
func (s *Scene) AddObject(obj models.SceneObject) error {
	if obj.ID == "" {
		return fmt.Errorf("add object: empty id")
	}
	if _, exists := s.index[obj.ID]; exists {
		return fmt.Errorf("add object %s: %w", obj.ID, ErrDuplicateID)
	}

	o := obj.Clone()
	parent, hasParent := s.index[o.ParentID]
	if o.ParentID != "" && (!hasParent || parent.Shape.Type != models.ShapeGroup) {
		o.ParentID = ""
	}

	if o.ParentID == "" {
		s.objects = append(s.objects, &o)
		s.index[o.ID] = &o
		return nil
	}

	pos := s.blockEnd(o.ParentID)
	s.objects = append(s.objects, nil)
	copy(s.objects[pos+1:], s.objects[pos:])
	s.objects[pos] = &o
	s.index[o.ID] = &o
	parent.Shape.Children = append(parent.Shape.Children, o.ID)
	return nil
}

func (s *Scene) Object(id string) (models.SceneObject, bool) {
	o, ok := s.index[id]
	if !ok {
		return models.SceneObject{}, false
	}
	return o.Clone(), true
}

func (s *Scene) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Objects returns copies of every object, guides included, bottom first.
func (s *Scene) Objects() []models.SceneObject {
	out := make([]models.SceneObject, 0, len(s.objects))
	for _, o := range s.objects {
		out = append(out, o.Clone())
	}
	return out
}

func (s *Scene) Len() int {
	return len(s.objects)
}

// ObjectsInZone returns the ids of every object tagged with zoneID.
func (s *Scene) ObjectsInZone(zoneID string) []string {
	var ids []string
	for _, o := range s.objects {
		if zoneID != "" && o.ZoneID == zoneID {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// RemoveObjects deletes the given objects and, for groups, all their
// descendants. A seat takes its linked label with it. Seats tagged to a
// section zone give their place back to the zone capacity. Zones themselves
// are never removed here.
func (s *Scene) RemoveObjects(ids []string) []models.SceneObject {
	doomed := make(map[string]bool)
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			s.collectDescendants(id, doomed)
		}
	}
	return s.removeSet(doomed)
}

// removeSet deletes exactly the objects in doomed plus the labels linked from
// doomed seats. Survivors whose parent group goes away are lifted to the top
// level with their world placement.
func (s *Scene) removeSet(doomed map[string]bool) []models.SceneObject {
	if len(doomed) == 0 {
		return nil
	}
	for id := range s.linkedLabels(doomed) {
		doomed[id] = true
	}

	orphans := make(map[string]models.Transform)
	for _, o := range s.objects {
		if doomed[o.ID] || o.ParentID == "" || !doomed[o.ParentID] {
			continue
		}
		world, _ := s.WorldMatrix(o.ID)
		if t, ok := geometry.Decompose(world); ok {
			orphans[o.ID] = t
		} else {
			orphans[o.ID] = o.Transform
		}
	}

	var removed []models.SceneObject
	kept := s.objects[:0]
	for _, o := range s.objects {
		if !doomed[o.ID] {
			kept = append(kept, o)
			continue
		}
		removed = append(removed, *o)
		delete(s.index, o.ID)
		if o.Kind == models.KindSeat {
			s.adjustSeatCapacity(o.ZoneID, -1)
		}
	}
	for i := len(kept); i < len(s.objects); i++ {
		s.objects[i] = nil
	}
	s.objects = kept

	for _, o := range s.objects {
		if t, ok := orphans[o.ID]; ok {
			o.ParentID = ""
			o.Transform = t
		}
		if o.Shape.Type == models.ShapeGroup && len(o.Shape.Children) > 0 {
			o.Shape.Children = filterIDs(o.Shape.Children, doomed)
		}
	}
	return removed
}

// RemoveGuides drops every transient object.
func (s *Scene) RemoveGuides() int {
	var ids []string
	for _, o := range s.objects {
		if o.IsGuide() {
			ids = append(ids, o.ID)
		}
	}
	return len(s.RemoveObjects(ids))
}

// TagObject points an object at a zone. The zone does not have to exist.
// Seats move their capacity contribution from the old section to the new one.
func (s *Scene) TagObject(objectID, zoneID string) {
	o, ok := s.index[objectID]
	if !ok || o.ZoneID == zoneID {
		return
	}
	if o.Kind == models.KindSeat {
		s.adjustSeatCapacity(o.ZoneID, -1)
		s.adjustSeatCapacity(zoneID, +1)
	}
	o.ZoneID = zoneID
	if z := s.zoneRef(zoneID); z != nil {
		o.Visible = z.Visible
	}
}

// SetTransform replaces an object's placement; used when an interactive
// drag, resize or rotate is finalized.
func (s *Scene) SetTransform(id string, t models.Transform) error {
	o, ok := s.index[id]
	if !ok {
		return nil
	}
	if o.Locked {
		return fmt.Errorf("set transform %s: %w", id, ErrObjectLocked)
	}
	if t.ScaleX == 0 {
		t.ScaleX = 1
	}
	if t.ScaleY == 0 {
		t.ScaleY = 1
	}
	o.Transform = t
	return nil
}

// SetLocked toggles the lock flag and returns how many objects were touched.
func (s *Scene) SetLocked(ids []string, locked bool) int {
	n := 0
	for _, id := range ids {
		if o, ok := s.index[id]; ok {
			o.Locked = locked
			n++
		}
	}
	return n
}

// ============================================================
// Property patches
// ============================================================

// Patch is a partial property update; nil fields are left untouched.
type Patch struct {
	Name     *string  `json:"name,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Capacity *int     `json:"capacity,omitempty"`
	ZoneID   *string  `json:"zoneId,omitempty"`
	Fill     *string  `json:"fill,omitempty"`
	Text     *string  `json:"text,omitempty"`
}

func (p Patch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Capacity == nil &&
		p.ZoneID == nil && p.Fill == nil && p.Text == nil
}

// UpdateProperties applies patch to every listed object. If any listed object
// is locked nothing is applied. A renamed or repriced zone shape carries the
// new value over to its zone so the zone list stays in sync with the shape.
func (s *Scene) UpdateProperties(ids []string, patch Patch) (int, error) {
	var targets []*models.SceneObject
	seen := make(map[string]bool)
	for _, id := range ids {
		o, ok := s.index[id]
		if !ok || seen[id] {
			continue
		}
		if o.Locked {
			return 0, fmt.Errorf("update %s: %w", id, ErrObjectLocked)
		}
		seen[id] = true
		targets = append(targets, o)
	}

	for _, o := range targets {
		if patch.Name != nil {
			o.Meta.Name = *patch.Name
		}
		if patch.Price != nil {
			p := *patch.Price
			o.Meta.Price = &p
		}
		if patch.Capacity != nil && o.Kind != models.KindSeat {
			c := *patch.Capacity
			o.Meta.Capacity = &c
		}
		if patch.Fill != nil {
			o.Style.Fill = *patch.Fill
		}
		if patch.Text != nil && o.Shape.Type == models.ShapeText {
			o.Shape.Text = *patch.Text
		}
		if patch.ZoneID != nil {
			s.TagObject(o.ID, *patch.ZoneID)
		}

		if o.Kind == models.KindZoneShape && o.ZoneID != "" {
			if z := s.zoneRef(o.ZoneID); z != nil {
				if patch.Name != nil && *patch.Name != "" {
					z.Name = *patch.Name
				}
				if patch.Price != nil {
					p := *patch.Price
					z.Price = &p
				}
			}
		}
	}
	return len(targets), nil
}

// ============================================================
// Background
// ============================================================

func (s *Scene) Background() (models.Background, bool) {
	if s.background == nil {
		return models.Background{}, false
	}
	return *s.background, true
}

func (s *Scene) SetBackground(bg *models.Background) {
	if bg == nil {
		s.background = nil
		return
	}
	cp := *bg
	s.background = &cp
}

// Clear removes all objects, zones and the background.
func (s *Scene) Clear() {
	s.objects = nil
	s.index = make(map[string]*models.SceneObject)
	s.zones = nil
	s.background = nil
}

// ============================================================
// Helpers
// ============================================================

// collectDescendants marks id and every object below it in the group tree.
func (s *Scene) collectDescendants(id string, into map[string]bool) {
	if into[id] {
		return
	}
	o, ok := s.index[id]
	if !ok {
		return
	}
	into[id] = true
	for _, child := range o.Shape.Children {
		s.collectDescendants(child, into)
	}
}

// linkedLabels returns the ids of live labels linked from seats in members
// that are not members themselves.
func (s *Scene) linkedLabels(members map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for id := range members {
		o, ok := s.index[id]
		if !ok || o.Seat == nil || o.Seat.LabelID == "" || members[o.Seat.LabelID] {
			continue
		}
		if label, ok := s.index[o.Seat.LabelID]; ok && label.Kind == models.KindLabel {
			out[label.ID] = true
		}
	}
	return out
}

// blockEnd returns the list position just above id and its descendants.
func (s *Scene) blockEnd(id string) int {
	members := make(map[string]bool)
	s.collectDescendants(id, members)
	end := len(s.objects)
	for i, o := range s.objects {
		if members[o.ID] {
			end = i + 1
		}
	}
	return end
}

func filterIDs(ids []string, drop map[string]bool) []string {
	out := ids[:0]
	for _, id := range ids {
		if !drop[id] {
			out = append(out, id)
		}
	}
	return out
}
