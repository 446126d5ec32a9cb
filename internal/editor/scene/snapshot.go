package scene

import (
	"seatmap-editor/internal/editor/models"
)

// ============================================================
// Snapshot & restore
// ============================================================

// Snapshot captures a deep copy of objects, zones and background. Guides
// are left out.
func (s *Scene) Snapshot() models.Snapshot {
	snap := models.Snapshot{
		Objects: make([]models.SceneObject, 0, len(s.objects)),
		Zones:   make([]models.Zone, 0, len(s.zones)),
	}
	for _, o := range s.objects {
		if o.IsGuide() {
			continue
		}
		snap.Objects = append(snap.Objects, o.Clone())
	}
	for _, z := range s.zones {
		snap.Zones = append(snap.Zones, z.Clone())
	}
	if s.background != nil {
		bg := *s.background
		snap.Background = &bg
	}
	return snap
}

// Restore replaces the whole scene, zones included, with a copy of snap.
func (s *Scene) Restore(snap models.Snapshot) {
	c := snap.Clone()
	s.objects = make([]*models.SceneObject, 0, len(c.Objects))
	s.index = make(map[string]*models.SceneObject, len(c.Objects))
	for i := range c.Objects {
		o := &c.Objects[i]
		if _, dup := s.index[o.ID]; dup || o.ID == "" {
			continue
		}
		s.objects = append(s.objects, o)
		s.index[o.ID] = o
	}
	s.zones = c.Zones
	s.background = c.Background
}
