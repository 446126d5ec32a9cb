package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENV", "EDITOR_CONFIG", "HISTORY_LIMIT", "VIEWPORT_WIDTH"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, 1280.0, cfg.ViewportWidth)
	assert.Equal(t, "data/db/editor.db", cfg.DBPath)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EDITOR_CONFIG", "")
	t.Setenv("HISTORY_LIMIT", "10")
	t.Setenv("VIEWPORT_WIDTH", "1920.5")
	t.Setenv("MAX_UPLOAD_MB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, 1920.5, cfg.ViewportWidth)
	assert.Equal(t, 20, cfg.MaxUploadMB)
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
palette:
  vip: "#FFD700"
zone_color: "#222222"
seat_radius: 9
grid:
  rows: 8
  start_row: C
polygon_snap:
  merge_tolerance: 6
`), 0o644))
	t.Setenv("EDITOR_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "#FFD700", cfg.Editor.Palette.VIP)
	assert.Equal(t, "#222222", cfg.Editor.ZoneColor)
	assert.Equal(t, 9.0, cfg.Editor.SeatRadius)
	assert.Equal(t, 8, cfg.Editor.Grid.Rows)
	assert.Equal(t, "C", cfg.Editor.Grid.StartRow)
	assert.Equal(t, 6.0, cfg.Editor.PolygonSnap.MergeTolerance)
	assert.Zero(t, cfg.Editor.PolygonSnap.AxisTolerance)
}

func TestLoadYAMLErrors(t *testing.T) {
	t.Setenv("EDITOR_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("grid: [unclosed"), 0o644))
	t.Setenv("EDITOR_CONFIG", bad)
	_, err = Load()
	assert.Error(t, err)
}
