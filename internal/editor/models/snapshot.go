package models

import "time"

// ============================================================
// Snapshots & persisted state
// ============================================================

// Snapshot is one captured instant of the scene and zone list. Guides are
// never part of a snapshot.
type Snapshot struct {
	Objects    []SceneObject `json:"objects"`
	Zones      []Zone        `json:"zones"`
	Background *Background   `json:"background,omitempty"`
}

func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Objects: make([]SceneObject, 0, len(s.Objects)),
		Zones:   make([]Zone, 0, len(s.Zones)),
	}
	for _, o := range s.Objects {
		if o.IsGuide() {
			continue
		}
		out.Objects = append(out.Objects, o.Clone())
	}
	for _, z := range s.Zones {
		out.Zones = append(out.Zones, z.Clone())
	}
	if s.Background != nil {
		bg := *s.Background
		out.Background = &bg
	}
	return out
}

const SavedMapVersion = 1

// SavedScene is the persisted scene graph: objects in z-order plus the
// background image placement.
type SavedScene struct {
	Objects    []SceneObject `json:"objects"`
	Background *Background   `json:"background,omitempty"`
}

// SavedMap is the single-slot persisted record.
type SavedMap struct {
	Version int        `json:"version"`
	SavedAt time.Time  `json:"savedAt"`
	Scene   SavedScene `json:"scene"`
	Zones   []Zone     `json:"zones"`
}

func NewSavedMap(s Snapshot, at time.Time) SavedMap {
	c := s.Clone()
	return SavedMap{
		Version: SavedMapVersion,
		SavedAt: at,
		Scene:   SavedScene{Objects: c.Objects, Background: c.Background},
		Zones:   c.Zones,
	}
}

// Snapshot converts the saved record back into a restorable snapshot.
func (m SavedMap) Snapshot() Snapshot {
	return Snapshot{
		Objects:    m.Scene.Objects,
		Zones:      m.Zones,
		Background: m.Scene.Background,
	}.Clone()
}
