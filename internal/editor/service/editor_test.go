package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seatmap-editor/internal/editor/geometry"
	"seatmap-editor/internal/editor/models"
	"seatmap-editor/internal/editor/repository"
	"seatmap-editor/internal/editor/scene"
)

// memStore is an in-memory single-slot MapStore.
type memStore struct {
	saved   map[string]models.SavedMap
	loadErr error
}

func newMemStore() *memStore {
	return &memStore{saved: make(map[string]models.SavedMap)}
}

func (s *memStore) Save(_ context.Context, key string, m models.SavedMap) error {
	s.saved[key] = m
	return nil
}

func (s *memStore) Load(_ context.Context, key string) (models.SavedMap, error) {
	if s.loadErr != nil {
		return models.SavedMap{}, s.loadErr
	}
	m, ok := s.saved[key]
	if !ok {
		return models.SavedMap{}, repository.ErrNotFound
	}
	return m, nil
}

func testOptions() Options {
	n := 0
	opts := DefaultOptions()
	opts.SceneOptions = []scene.Option{scene.WithIDGenerator(func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	})}
	opts.Now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return opts
}

func newTestEditor(t *testing.T) (*Editor, *memStore) {
	t.Helper()
	store := newMemStore()
	return NewEditor("s1", testOptions(), store, NewFileStorage(t.TempDir()), nil), store
}

func encode(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func seatLabels(ed *Editor, zoneID string) []string {
	var out []string
	for _, o := range ed.State().Objects {
		if o.Kind == models.KindLabel && o.ZoneID == zoneID {
			out = append(out, o.Shape.Text)
		}
	}
	return out
}

// drawPolygon draws and closes a polygon with the polygon tool.
func drawPolygon(t *testing.T, ed *Editor, pts ...models.Point) models.Zone {
	t.Helper()
	for _, p := range pts {
		_, err := ed.AddPolygonPoint(p)
		require.NoError(t, err)
	}
	zone, _, err := ed.FinishPolygon()
	require.NoError(t, err)
	return zone
}

func groupOf(t *testing.T, ed *Editor, zoneID string) string {
	t.Helper()
	for _, o := range ed.State().Objects {
		if o.ZoneID == zoneID && o.Shape.Type == models.ShapeGroup {
			return o.ID
		}
	}
	t.Fatalf("no group for zone %s", zoneID)
	return ""
}

// ============================================================
// Seat generation
// ============================================================

func TestGenerateUnfilteredGrid(t *testing.T) {
	ed, _ := newTestEditor(t)

	res, notice, err := ed.GenerateSeats(GenerateRequest{Params: models.GridParams{
		Rows: 3, Columns: 4, RowSpacing: 40, SeatSpacing: 35, StartRow: "A",
	}})
	require.NoError(t, err)
	assert.Equal(t, NoticeSuccess, notice.Level)

	assert.Equal(t, 12, res.Count)
	assert.Equal(t, models.ZoneSection, res.Zone.Kind)
	assert.Equal(t, "Section 1 (3x4)", res.Zone.Name)
	require.NotNil(t, res.Zone.Capacity)
	assert.Equal(t, 12, *res.Zone.Capacity)
	assert.Equal(t, []string{
		"A1", "A2", "A3", "A4", "B1", "B2", "B3", "B4", "C1", "C2", "C3", "C4",
	}, seatLabels(ed, res.Zone.ID))

	// centered on the visible middle of a 1280x800 viewport
	assert.InDelta(t, 640, res.Bounds.Center().X, 1e-9)
	assert.InDelta(t, 400, res.Bounds.Center().Y, 1e-9)
	assert.True(t, ed.State().CanUndo)
}

func TestGenerateIntoTriangle(t *testing.T) {
	ed, _ := newTestEditor(t)
	zone := drawPolygon(t, ed,
		models.Point{X: 100, Y: 100}, models.Point{X: 500, Y: 100}, models.Point{X: 100, Y: 400})
	groupID := groupOf(t, ed, zone.ID)

	// move the polygon zone after creation, as a drag would
	obj, _ := ed.scene.Object(groupID)
	tr := obj.Transform
	tr.X += 50
	tr.Rotation = 15
	_, err := ed.SetTransform(groupID, tr)
	require.NoError(t, err)

	res, _, err := ed.GenerateSeats(GenerateRequest{
		Params:   models.GridParams{RowSpacing: 30, SeatSpacing: 30},
		TargetID: groupID,
	})
	require.NoError(t, err)

	shape, ok := ed.scene.ShapeOf(groupID)
	require.True(t, ok)
	b := shape.Bounds()
	unfiltered := int(b.Width/30+0.999) * int(b.Height/30+0.999)

	require.Greater(t, res.Count, 0)
	assert.Less(t, res.Count, unfiltered)
	assert.Equal(t, zone.ID, res.Zone.ID, "seats join the target's zone")
	require.NotNil(t, res.Zone.Capacity)
	assert.Equal(t, res.Count, *res.Zone.Capacity)

	for _, id := range res.Seats {
		seat, ok := ed.scene.Object(id)
		require.True(t, ok)
		center := models.Point{X: seat.Transform.X + seat.Shape.Radius, Y: seat.Transform.Y + seat.Shape.Radius}
		assert.True(t, geometry.ContainsPoint(shape, center))
	}
}

func TestGenerateZeroSeatsCreatesEmptyZone(t *testing.T) {
	ed, _ := newTestEditor(t)
	zone := drawPolygon(t, ed,
		models.Point{X: 0, Y: 0}, models.Point{X: 300, Y: 0}, models.Point{X: 300, Y: 20})

	res, notice, err := ed.GenerateSeats(GenerateRequest{
		Params:   models.GridParams{RowSpacing: 200, SeatSpacing: 200},
		TargetID: groupOf(t, ed, zone.ID),
	})
	require.NoError(t, err)
	assert.Zero(t, res.Count)
	assert.Equal(t, NoticeInfo, notice.Level)
}

func TestGenerateStaleTarget(t *testing.T) {
	ed, _ := newTestEditor(t)
	before := encode(t, ed.Snapshot())
	_, _, err := ed.GenerateSeats(GenerateRequest{TargetID: "gone"})
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, before, encode(t, ed.Snapshot()))
}

func TestDeleteSeatsShrinksCapacity(t *testing.T) {
	ed, _ := newTestEditor(t)
	res, _, err := ed.GenerateSeats(GenerateRequest{Params: models.GridParams{Rows: 2, Columns: 2, RowSpacing: 40, SeatSpacing: 40}})
	require.NoError(t, err)

	_, err = ed.DeleteObjects(res.Seats[:3])
	require.NoError(t, err)
	z, _ := ed.scene.Zone(res.Zone.ID)
	assert.Equal(t, 1, *z.Capacity)
}

func TestDeleteSeatRemovesItsLabel(t *testing.T) {
	ed, _ := newTestEditor(t)
	res, _, err := ed.GenerateSeats(GenerateRequest{Params: models.GridParams{Rows: 1, Columns: 2, RowSpacing: 40, SeatSpacing: 40}})
	require.NoError(t, err)
	require.Equal(t, []string{"A1", "A2"}, seatLabels(ed, res.Zone.ID))

	_, err = ed.DeleteObjects(res.Seats[:1])
	require.NoError(t, err)
	assert.Equal(t, []string{"A2"}, seatLabels(ed, res.Zone.ID))
}

// ============================================================
// History through the editor
// ============================================================

func TestUndoRedoRoundTrip(t *testing.T) {
	ed, _ := newTestEditor(t)
	rect, _, err := ed.AddRectangle()
	require.NoError(t, err)
	first := encode(t, ed.Snapshot())

	name := "Balcony"
	_, err = ed.UpdateProperties([]string{rect.ID}, scene.Patch{Name: &name})
	require.NoError(t, err)
	second := encode(t, ed.Snapshot())
	assert.Equal(t, "Balcony", ed.State().Zones[0].Name)

	_, err = ed.Undo()
	require.NoError(t, err)
	assert.Equal(t, first, encode(t, ed.Snapshot()))
	assert.Equal(t, "Zone 1", ed.State().Zones[0].Name, "zones are restored with the scene")

	_, err = ed.Redo()
	require.NoError(t, err)
	assert.Equal(t, second, encode(t, ed.Snapshot()))
}

func TestUndoBranchTruncation(t *testing.T) {
	ed, _ := newTestEditor(t)
	ed.AddRectangle()
	ed.AddLabel("")
	ed.Undo()
	ed.AddSeat("")

	notice, err := ed.Redo()
	require.NoError(t, err)
	assert.Equal(t, "Nothing to redo", notice.Message)
	assert.False(t, ed.State().CanRedo)
}

func TestUndoToEmptyScene(t *testing.T) {
	ed, _ := newTestEditor(t)
	ed.AddRectangle()
	ed.Undo()
	st := ed.State()
	assert.Empty(t, st.Objects)
	assert.Empty(t, st.Zones)
	assert.False(t, st.CanUndo)

	notice, _ := ed.Undo()
	assert.Equal(t, NoticeInfo, notice.Level)
}

func TestHistoryLimit(t *testing.T) {
	ed, _ := newTestEditor(t)
	for i := 0; i < 60; i++ {
		ed.AddLabel(fmt.Sprintf("L%d", i))
	}
	st := ed.State()
	assert.Equal(t, 50, st.HistoryLength)
	assert.Equal(t, 49, st.HistoryIndex)
}

// ============================================================
// Polygon tool
// ============================================================

func TestPolygonGuidesNeverReachHistory(t *testing.T) {
	ed, _ := newTestEditor(t)
	ed.AddPolygonPoint(models.Point{X: 0, Y: 0})
	ed.AddPolygonPoint(models.Point{X: 100, Y: 0})

	st := ed.State()
	assert.Len(t, st.PolygonPoints, 2)
	assert.Len(t, st.Objects, 3, "two markers and one preview line")
	assert.Empty(t, ed.Snapshot().Objects)
	assert.Equal(t, 1, st.HistoryLength)
}

func TestFinishPolygonNeedsThreePoints(t *testing.T) {
	ed, _ := newTestEditor(t)
	_, _, err := ed.FinishPolygon()
	assert.ErrorIs(t, err, ErrNoPolygonInProgress)

	ed.AddPolygonPoint(models.Point{X: 0, Y: 0})
	ed.AddPolygonPoint(models.Point{X: 100, Y: 0})
	// a repeated vertex collapses even with snapping off
	ed.AddPolygonPoint(models.Point{X: 100, Y: 0})

	_, _, err = ed.FinishPolygon()
	assert.ErrorIs(t, err, ErrPolygonTooFewPoints)
	assert.Len(t, ed.State().PolygonPoints, 3, "tool stays active")
	assert.Empty(t, ed.State().Zones)
}

func polygonPoints(t *testing.T, ed *Editor, zoneID string) []models.Point {
	t.Helper()
	for _, o := range ed.State().Objects {
		if o.ZoneID == zoneID && o.Shape.Type == models.ShapePolygon {
			return o.Shape.Points
		}
	}
	t.Fatalf("no polygon for zone %s", zoneID)
	return nil
}

func TestFinishPolygonKeepsDrawnVerticesByDefault(t *testing.T) {
	ed, _ := newTestEditor(t)
	zone := drawPolygon(t, ed,
		models.Point{X: 0, Y: 0}, models.Point{X: 100, Y: 0}, models.Point{X: 102, Y: 1},
		models.Point{X: 100, Y: 100}, models.Point{X: 0, Y: 103})

	assert.Len(t, polygonPoints(t, ed, zone.ID), 5)
}

func TestFinishPolygonWithSnapTolerances(t *testing.T) {
	opts := testOptions()
	opts.PolygonSnap.MergeTolerance = 8
	opts.PolygonSnap.AxisTolerance = 4
	ed := NewEditor("s1", opts, newMemStore(), NewFileStorage(t.TempDir()), nil)

	ed.AddPolygonPoint(models.Point{X: 0, Y: 0})
	ed.AddPolygonPoint(models.Point{X: 100, Y: 0})
	ed.AddPolygonPoint(models.Point{X: 102, Y: 1})
	_, _, err := ed.FinishPolygon()
	assert.ErrorIs(t, err, ErrPolygonTooFewPoints)

	ed.AddPolygonPoint(models.Point{X: 100, Y: 100})
	ed.AddPolygonPoint(models.Point{X: 0, Y: 103})
	zone, _, err := ed.FinishPolygon()
	require.NoError(t, err)
	assert.Len(t, polygonPoints(t, ed, zone.ID), 4)
}

func TestFinishPolygon(t *testing.T) {
	ed, _ := newTestEditor(t)
	zone := drawPolygon(t, ed,
		models.Point{X: 10, Y: 10}, models.Point{X: 110, Y: 10}, models.Point{X: 110, Y: 110}, models.Point{X: 10, Y: 110})

	assert.Equal(t, models.ZoneCustom, zone.Kind)
	assert.Equal(t, "Zone 1", zone.Name)
	st := ed.State()
	assert.Empty(t, st.PolygonPoints)
	for _, o := range st.Objects {
		assert.False(t, o.IsGuide())
		assert.Equal(t, zone.ID, o.ZoneID)
	}
	// group + outline + 4 edge labels
	assert.Len(t, st.Objects, 6)
	assert.Equal(t, 2, st.HistoryLength)
}

func TestCancelPolygon(t *testing.T) {
	ed, _ := newTestEditor(t)
	_, err := ed.CancelPolygon()
	assert.ErrorIs(t, err, ErrNoPolygonInProgress)

	ed.AddPolygonPoint(models.Point{X: 0, Y: 0})
	_, err = ed.CancelPolygon()
	require.NoError(t, err)
	assert.Empty(t, ed.State().Objects)
}

// ============================================================
// Selection & properties
// ============================================================

func TestEmptySelection(t *testing.T) {
	ed, _ := newTestEditor(t)
	name := "x"
	_, err := ed.UpdateProperties(nil, scene.Patch{Name: &name})
	assert.ErrorIs(t, err, ErrEmptySelection)
	_, _, err = ed.Duplicate(nil)
	assert.ErrorIs(t, err, ErrEmptySelection)
	_, err = ed.Align(nil, scene.AlignLeft)
	assert.ErrorIs(t, err, ErrEmptySelection)
	_, err = ed.DeleteObjects(nil)
	assert.ErrorIs(t, err, ErrEmptySelection)

	n, ok := NoticeFor(err)
	assert.True(t, ok)
	assert.Equal(t, NoticeInfo, n.Level)
}

func TestLockedSelectionAbortsEdit(t *testing.T) {
	ed, _ := newTestEditor(t)
	a, _, _ := ed.AddLabel("a")
	b, _, _ := ed.AddLabel("b")
	_, err := ed.SetLocked([]string{b.ID}, true)
	require.NoError(t, err)
	before := encode(t, ed.Snapshot())
	length := ed.State().HistoryLength

	fill := "#000000"
	_, err = ed.UpdateProperties([]string{a.ID, b.ID}, scene.Patch{Fill: &fill})
	assert.ErrorIs(t, err, ErrObjectLocked)
	assert.Equal(t, before, encode(t, ed.Snapshot()))
	assert.Equal(t, length, ed.State().HistoryLength)

	_, err = ed.SetTransform(b.ID, models.TranslateTransform(1, 1))
	assert.ErrorIs(t, err, ErrObjectLocked)
}

func TestStaleIDsAreNoOps(t *testing.T) {
	ed, _ := newTestEditor(t)
	notice, err := ed.DeleteZone("missing")
	require.NoError(t, err)
	assert.Equal(t, NoticeInfo, notice.Level)

	_, err = ed.SetTransform("missing", models.IdentityTransform())
	assert.NoError(t, err)
	assert.Equal(t, 1, ed.State().HistoryLength)
}

func TestZoneLifecycle(t *testing.T) {
	ed, _ := newTestEditor(t)
	res, _, err := ed.GenerateSeats(GenerateRequest{Params: models.GridParams{Rows: 1, Columns: 3, RowSpacing: 40, SeatSpacing: 40}})
	require.NoError(t, err)
	label, _, _ := ed.AddLabel("free")

	_, err = ed.SetZoneVisibility(res.Zone.ID, false)
	require.NoError(t, err)
	for _, o := range ed.State().Objects {
		if o.ZoneID == res.Zone.ID {
			assert.False(t, o.Visible)
		}
	}

	_, err = ed.DeleteZone(res.Zone.ID)
	require.NoError(t, err)
	st := ed.State()
	require.Len(t, st.Objects, 1)
	assert.Equal(t, label.ID, st.Objects[0].ID)
	assert.Empty(t, st.Zones)
}

func TestAddSeatIntoSection(t *testing.T) {
	ed, _ := newTestEditor(t)
	rect, _, _ := ed.AddRectangle()
	seat, _, err := ed.AddSeat(rect.ZoneID)
	require.NoError(t, err)
	assert.Equal(t, rect.ZoneID, seat.ZoneID)
	z, _ := ed.scene.Zone(rect.ZoneID)
	assert.Equal(t, 1, *z.Capacity)
}

func TestDuplicateAndAlign(t *testing.T) {
	ed, _ := newTestEditor(t)
	rect, _, _ := ed.AddRectangle()
	created, _, err := ed.Duplicate([]string{rect.ID})
	require.NoError(t, err)
	require.Len(t, created, 1)
	dup, _ := ed.scene.Object(created[0])
	assert.Equal(t, 120.0, dup.Transform.X)

	_, err = ed.Align([]string{rect.ID, dup.ID}, scene.AlignLeft)
	require.NoError(t, err)
	dup, _ = ed.scene.Object(created[0])
	assert.Equal(t, 100.0, dup.Transform.X)
}

// ============================================================
// Persistence
// ============================================================

func TestSaveLoad(t *testing.T) {
	ed, store := newTestEditor(t)
	_, err := ed.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSavedMap)

	ed.AddRectangle()
	saved := encode(t, ed.Snapshot())
	_, err = ed.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SavedMapVersion, store.saved[repository.DefaultKey].Version)

	ed.Clear()
	assert.Empty(t, ed.State().Objects)

	_, err = ed.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, saved, encode(t, ed.Snapshot()))

	// load is undoable
	ed.Undo()
	assert.Empty(t, ed.State().Objects)
}

func TestLoadCorruptLeavesSceneAlone(t *testing.T) {
	ed, store := newTestEditor(t)
	ed.AddRectangle()
	before := encode(t, ed.Snapshot())

	store.loadErr = fmt.Errorf("%w: unexpected end of JSON input", repository.ErrCorrupt)
	_, err := ed.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorruptSavedMap)
	assert.Equal(t, before, encode(t, ed.Snapshot()))

	n, ok := NoticeFor(err)
	assert.True(t, ok)
	assert.Equal(t, NoticeError, n.Level)
}

// ============================================================
// Background & SVG
// ============================================================

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestBackground(t *testing.T) {
	ed, _ := newTestEditor(t)
	_, err := ed.SetBackgroundOpacity(0.3)
	assert.ErrorIs(t, err, ErrNoBackground)

	bg, _, err := ed.SetBackground(bytes.NewReader(pngBytes(t, 200, 100)))
	require.NoError(t, err)
	assert.Equal(t, "png", bg.Format)
	assert.InDelta(t, 6.4, bg.Scale, 1e-9)
	assert.InDelta(t, 0, bg.X, 1e-9)
	assert.InDelta(t, 80, bg.Y, 1e-9)
	assert.FileExists(t, bg.Path)

	_, err = ed.SetBackgroundOpacity(7)
	require.NoError(t, err)
	assert.Equal(t, 1.0, ed.State().Background.Opacity)
	_, err = ed.SetBackgroundOpacity(-1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ed.State().Background.Opacity)

	_, err = ed.RemoveBackground()
	require.NoError(t, err)
	assert.Nil(t, ed.State().Background)
	ed.Undo()
	assert.NotNil(t, ed.State().Background)
}

func TestBackgroundRejectsGarbage(t *testing.T) {
	ed, _ := newTestEditor(t)
	_, _, err := ed.SetBackground(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.Nil(t, ed.State().Background)
}

func TestFitBackground(t *testing.T) {
	bg := FitBackground(4000, 1000, models.Viewport{Width: 1000, Height: 800})
	assert.InDelta(t, 0.25, bg.Scale, 1e-9)
	assert.InDelta(t, 0, bg.X, 1e-9)
	assert.InDelta(t, 275, bg.Y, 1e-9)
	assert.Equal(t, DefaultBackgroundOpacity, bg.Opacity)
}

func TestImportAndExportSVG(t *testing.T) {
	ed, _ := newTestEditor(t)
	before := encode(t, ed.Snapshot())
	_, _, err := ed.ImportSVG(strings.NewReader(`<svg><rect width="1"`))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, before, encode(t, ed.Snapshot()))

	summary, _, err := ed.ImportSVG(strings.NewReader(`<svg width="400" height="300">
  <rect id="Stage_Main" x="100" y="10" width="200" height="40"/>
  <polygon id="Section_Floor" points="50,100 350,100 350,280 50,280"/>
</svg>`))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Zones)
	assert.Len(t, ed.State().Zones, 2)

	out, err := ed.ExportSVG()
	require.NoError(t, err)
	assert.Contains(t, out, `<svg xmlns="http://www.w3.org/2000/svg"`)
	assert.Contains(t, out, `data-name="Main"`)
}

func TestViewportAndColor(t *testing.T) {
	ed, _ := newTestEditor(t)
	require.NoError(t, ed.SetViewport(models.Viewport{Width: 1000, Height: 600, PanX: 100, PanY: 0, Zoom: 2}))
	c := ed.State().VisibleCenter
	assert.InDelta(t, 200, c.X, 1e-9)
	assert.InDelta(t, 150, c.Y, 1e-9)

	assert.ErrorIs(t, ed.SetViewport(models.Viewport{}), ErrInvalidInput)
	assert.ErrorIs(t, ed.SetActiveColor(""), ErrInvalidInput)
	require.NoError(t, ed.SetActiveColor("#abcdef"))
	seat, _, _ := ed.AddSeat("")
	assert.Equal(t, "#abcdef", seat.Style.Fill)
}

// ============================================================
// Sessions
// ============================================================

func TestSessionManager(t *testing.T) {
	files := NewFileStorage(t.TempDir())
	m := NewSessionManager(testOptions(), newMemStore(), files, nil)

	ed := m.Issue()
	got, err := m.Resolve(ed.ID())
	require.NoError(t, err)
	assert.Same(t, ed, got)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Close(ed.ID()))
	_, err = m.Resolve(ed.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Close(ed.ID()), ErrSessionNotFound)
}

func TestNoticeForUnknownError(t *testing.T) {
	_, ok := NoticeFor(fmt.Errorf("disk on fire"))
	assert.False(t, ok)
	_, ok = NoticeFor(nil)
	assert.False(t, ok)
}
