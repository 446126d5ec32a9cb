package history

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seatmap-editor/internal/editor/models"
	"seatmap-editor/internal/editor/scene"
)

func newScene() *scene.Scene {
	n := 0
	return scene.New(scene.WithIDGenerator(func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}))
}

func rect(id, zoneID string, x float64) models.SceneObject {
	return models.SceneObject{
		ID:          id,
		Kind:        models.KindZoneShape,
		ZoneID:      zoneID,
		Transform:   models.TranslateTransform(x, 0),
		Shape:       models.Shape{Type: models.ShapeRect, Width: 10, Height: 10},
		Visible:     true,
		Interactive: true,
	}
}

func guide(id string) models.SceneObject {
	return models.SceneObject{
		ID:      id,
		Kind:    models.KindGuide,
		Shape:   models.Shape{Type: models.ShapeCircle, Radius: 3},
		Visible: true,
	}
}

func encode(t *testing.T, s models.Snapshot) string {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return string(b)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	sc := newScene()
	h := New(sc, 0)

	zone, err := sc.CreateZone(models.ZoneSection, "#ff0000", "")
	require.NoError(t, err)
	require.NoError(t, sc.AddObject(rect("r1", zone.ID, 0)))
	require.NoError(t, sc.AddObject(guide("g1")))
	require.True(t, h.Commit())
	first := encode(t, sc.Snapshot())

	require.NoError(t, sc.AddObject(rect("r2", zone.ID, 50)))
	sc.SetZoneVisibility(zone.ID, false)
	require.True(t, h.Commit())
	second := encode(t, sc.Snapshot())

	require.True(t, h.Undo())
	assert.Equal(t, first, encode(t, sc.Snapshot()))
	assert.False(t, sc.Has("g1"), "guides never come back from history")
	z, ok := sc.Zone(zone.ID)
	require.True(t, ok)
	assert.True(t, z.Visible)

	require.True(t, h.Redo())
	assert.Equal(t, second, encode(t, sc.Snapshot()))
}

func TestRestoreReplacesZonesToo(t *testing.T) {
	sc := newScene()
	h := New(sc, 0)
	h.Commit()

	sc.CreateZone(models.ZoneStage, "#000", "Stage")
	h.Commit()
	require.Len(t, sc.Zones(), 1)

	h.Undo()
	assert.Empty(t, sc.Zones())
	assert.Zero(t, sc.Len())
}

func TestCommitAfterUndoTruncatesRedo(t *testing.T) {
	sc := newScene()
	h := New(sc, 0)

	h.Commit()
	sc.AddObject(rect("a", "", 0))
	h.Commit()
	sc.AddObject(rect("b", "", 0))
	h.Commit()

	require.True(t, h.Undo())
	sc.AddObject(rect("c", "", 0))
	h.Commit()

	assert.False(t, h.CanRedo())
	assert.False(t, h.Redo())
	assert.Equal(t, 3, h.Len())
	assert.True(t, sc.Has("c"))
	assert.False(t, sc.Has("b"))
}

func TestBoundedHistory(t *testing.T) {
	sc := newScene()
	h := New(sc, DefaultLimit)

	for i := 0; i < 60; i++ {
		sc.AddObject(rect(fmt.Sprintf("o%d", i), "", float64(i)))
		h.Commit()
	}
	assert.Equal(t, 50, h.Len())
	assert.Equal(t, 49, h.Index())

	undos := 0
	for h.Undo() {
		undos++
	}
	assert.Equal(t, 49, undos)
	// oldest retained entry is the 11th commit: objects o0..o10
	assert.Equal(t, 11, sc.Len())
	assert.False(t, h.CanUndo())
}

func TestUndoRedoAtEdgesAreNoOps(t *testing.T) {
	sc := newScene()
	h := New(sc, 0)

	assert.False(t, h.Undo())
	assert.False(t, h.Redo())

	h.Commit()
	assert.False(t, h.Undo())
	assert.False(t, h.Redo())
	assert.Equal(t, 0, h.Index())
}

// reentrantTarget commits from inside Restore, the way a change hook on the
// live scene would.
type reentrantTarget struct {
	*scene.Scene
	h       *Manager
	dropped int
	seen    []Mode
}

func (r *reentrantTarget) Restore(s models.Snapshot) {
	r.seen = append(r.seen, r.h.Mode())
	r.Scene.Restore(s)
	if !r.h.Commit() {
		r.dropped++
	}
}

func TestCommitDuringRestoreIsDropped(t *testing.T) {
	target := &reentrantTarget{Scene: newScene()}
	h := New(target, 0)
	target.h = h

	h.Commit()
	target.AddObject(rect("a", "", 0))
	h.Commit()

	require.True(t, h.Undo())
	assert.Equal(t, 1, target.dropped)
	assert.Equal(t, []Mode{Restoring}, target.seen)
	assert.Equal(t, 2, h.Len())
	assert.True(t, h.CanRedo())
	assert.Equal(t, Idle, h.Mode())

	require.True(t, h.Redo())
	assert.Equal(t, 2, target.dropped)
	assert.True(t, target.Has("a"))
}

func TestSnapshotsAreIsolatedFromLiveScene(t *testing.T) {
	sc := newScene()
	h := New(sc, 0)
	sc.AddObject(rect("a", "", 0))
	h.Commit()

	require.NoError(t, sc.SetTransform("a", models.TranslateTransform(99, 99)))
	cur, ok := h.Current()
	require.True(t, ok)
	require.Len(t, cur.Objects, 1)
	assert.Equal(t, 0.0, cur.Objects[0].Transform.X)
}

func TestReset(t *testing.T) {
	sc := newScene()
	h := New(sc, 0)
	h.Commit()
	h.Commit()
	h.Reset()
	assert.Zero(t, h.Len())
	assert.Equal(t, -1, h.Index())
	_, ok := h.Current()
	assert.False(t, ok)
}
