package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seatmap-editor/internal/editor/models"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "editor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := New(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func sampleMap(name string) models.SavedMap {
	capacity := 3
	return models.NewSavedMap(models.Snapshot{
		Objects: []models.SceneObject{
			{ID: "r1", Kind: models.KindZoneShape, ZoneID: "z1",
				Shape: models.Shape{Type: models.ShapeRect, Width: 10, Height: 10}, Visible: true},
			{ID: "g1", Kind: models.KindGuide, Shape: models.Shape{Type: models.ShapeCircle, Radius: 3}},
		},
		Zones: []models.Zone{{ID: "z1", Name: name, Kind: models.ZoneSection, Capacity: &capacity, Visible: true}},
	}, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, DefaultKey, sampleMap("Main")))
	got, err := repo.Load(ctx, DefaultKey)
	require.NoError(t, err)

	assert.Equal(t, models.SavedMapVersion, got.Version)
	require.Len(t, got.Scene.Objects, 1, "guides are never persisted")
	assert.Equal(t, "r1", got.Scene.Objects[0].ID)
	require.Len(t, got.Zones, 1)
	assert.Equal(t, 3, *got.Zones[0].Capacity)
	assert.True(t, got.SavedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestSaveOverwrites(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, DefaultKey, sampleMap("First")))
	require.NoError(t, repo.Save(ctx, DefaultKey, sampleMap("Second")))

	got, err := repo.Load(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Zones[0].Name)

	var rows int
	require.NoError(t, repo.db.QueryRow(`SELECT COUNT(*) FROM saved_maps`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestLoadMissing(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.Load(context.Background(), DefaultKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadCorrupt(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.db.Exec(`INSERT INTO saved_maps (key, version, payload, saved_at) VALUES (?, 1, ?, '')`,
		DefaultKey, `{"version":1,"scene":`)
	require.NoError(t, err)
	_, err = repo.Load(ctx, DefaultKey)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = repo.db.Exec(`UPDATE saved_maps SET payload = ? WHERE key = ?`, `{"version":99}`, DefaultKey)
	require.NoError(t, err)
	_, err = repo.Load(ctx, DefaultKey)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestDelete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, DefaultKey, sampleMap("X")))
	require.NoError(t, repo.Delete(ctx, DefaultKey))
	_, err := repo.Load(ctx, DefaultKey)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, repo.Ping(ctx))
}
