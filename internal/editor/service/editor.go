// Package service wires the scene graph, edit history, seat generator and
// persistence into one interactive editor per session.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"seatmap-editor/internal/common/logger"
	"seatmap-editor/internal/editor/history"
	"seatmap-editor/internal/editor/mapper"
	"seatmap-editor/internal/editor/models"
	"seatmap-editor/internal/editor/repository"
	"seatmap-editor/internal/editor/scene"
	"seatmap-editor/internal/editor/seating"
	"seatmap-editor/internal/editor/snap"
)

// MapStore is the single-slot persistence behind save and load.
type MapStore interface {
	Save(ctx context.Context, key string, m models.SavedMap) error
	Load(ctx context.Context, key string) (models.SavedMap, error)
}

// ============================================================
// Options
// ============================================================

const (
	ToolOriginX = 100.0
	ToolOriginY = 100.0

	RectangleWidth       = 200.0
	RectangleHeight      = 150.0
	RectangleStrokeWidth = 3.0
	SingleSeatRadius     = 15.0
	LabelFontSize        = 20.0
	DefaultLabelText     = "Label"
	TextColor            = "#1e293b"
)

type Options struct {
	Palette        seating.Palette
	ZoneColor      string
	SeatRadius     float64
	Grid           models.GridParams
	HistoryLimit   int
	Viewport       models.Viewport
	SaveKey        string
	MaxUploadBytes int64
	// PolygonSnap cleans outlines closed with the polygon tool. The zero
	// value only drops repeated vertices.
	PolygonSnap    snap.Snapper
	SceneOptions   []scene.Option
	Now            func() time.Time
}

func DefaultOptions() Options {
	return Options{
		Palette:        seating.DefaultPalette(),
		ZoneColor:      mapper.DefaultZoneColor,
		SeatRadius:     seating.DefaultSeatRadius,
		Grid:           seating.DefaultParams(),
		HistoryLimit:   history.DefaultLimit,
		Viewport:       models.Viewport{Width: 1280, Height: 800, Zoom: 1},
		SaveKey:        repository.DefaultKey,
		MaxUploadBytes: 20 << 20,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Palette == (seating.Palette{}) {
		o.Palette = d.Palette
	}
	if o.ZoneColor == "" {
		o.ZoneColor = d.ZoneColor
	}
	if o.SeatRadius <= 0 {
		o.SeatRadius = d.SeatRadius
	}
	if o.Grid == (models.GridParams{}) {
		o.Grid = d.Grid
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = d.HistoryLimit
	}
	if o.Viewport.Width <= 0 || o.Viewport.Height <= 0 {
		o.Viewport = d.Viewport
	}
	if o.SaveKey == "" {
		o.SaveKey = d.SaveKey
	}
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = d.MaxUploadBytes
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// ============================================================
// Editor
// ============================================================

// Editor is one interactive editing session. Every exported method holds the
// editor lock for its whole run, so handlers never interleave.
type Editor struct {
	mu sync.Mutex

	id        string
	opts      Options
	scene     *scene.Scene
	history   *history.Manager
	generator *seating.Generator
	store     MapStore
	files     *FileStorage
	log       *logger.Logger

	viewport    models.Viewport
	activeColor string
	polygon     polygonTool
}

func NewEditor(id string, opts Options, store MapStore, files *FileStorage, log *logger.Logger) *Editor {
	opts = opts.withDefaults()
	if log == nil {
		log = logger.Nop()
	}
	sc := scene.New(opts.SceneOptions...)
	e := &Editor{
		id:          id,
		opts:        opts,
		scene:       sc,
		history:     history.New(sc, opts.HistoryLimit),
		generator:   seating.NewGenerator(opts.Palette, opts.SeatRadius),
		store:       store,
		files:       files,
		log:         log.WithComponent("editor").WithSession(id),
		viewport:    opts.Viewport,
		activeColor: opts.Palette.Regular,
	}
	// базовый снимок пустой сцены, чтобы первую правку можно было отменить
	e.history.Commit()
	return e
}

func (e *Editor) ID() string { return e.id }

// State is what the UI needs to redraw.
type State struct {
	SessionID     string               `json:"sessionId"`
	Objects       []models.SceneObject `json:"objects"`
	Zones         []models.Zone        `json:"zones"`
	Background    *models.Background   `json:"background,omitempty"`
	Viewport      models.Viewport      `json:"viewport"`
	VisibleCenter models.Point         `json:"visibleCenter"`
	ActiveColor   string               `json:"activeColor"`
	CanUndo       bool                 `json:"canUndo"`
	CanRedo       bool                 `json:"canRedo"`
	HistoryLength int                  `json:"historyLength"`
	HistoryIndex  int                  `json:"historyIndex"`
	PolygonPoints []models.Point       `json:"polygonPoints"`
	GridDefaults  models.GridParams    `json:"gridDefaults"`
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Editor) stateLocked() State {
	st := State{
		SessionID:     e.id,
		Objects:       e.scene.Objects(),
		Zones:         e.scene.Zones(),
		Viewport:      e.viewport,
		VisibleCenter: e.viewport.VisibleCenter(),
		ActiveColor:   e.activeColor,
		CanUndo:       e.history.CanUndo(),
		CanRedo:       e.history.CanRedo(),
		HistoryLength: e.history.Len(),
		HistoryIndex:  e.history.Index(),
		PolygonPoints: append([]models.Point{}, e.polygon.points...),
		GridDefaults:  e.opts.Grid,
	}
	if bg, ok := e.scene.Background(); ok {
		st.Background = &bg
	}
	return st
}

// Snapshot returns the committed-shape view of the scene (no guides).
func (e *Editor) Snapshot() models.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene.Snapshot()
}

// ============================================================
// View state (not part of history)
// ============================================================

func (e *Editor) SetViewport(v models.Viewport) error {
	if v.Width <= 0 || v.Height <= 0 || v.Zoom < 0 {
		return fmt.Errorf("viewport %vx%v zoom %v: %w", v.Width, v.Height, v.Zoom, ErrInvalidInput)
	}
	if v.Zoom == 0 {
		v.Zoom = 1
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport = v
	return nil
}

func (e *Editor) SetActiveColor(color string) error {
	if color == "" {
		return fmt.Errorf("empty color: %w", ErrInvalidInput)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.activeColor = color
	return nil
}

// ============================================================
// Commit helpers
// ============================================================

// commit records the current scene. A commit refused by the history (a
// restore is in flight) is logged and otherwise ignored.
func (e *Editor) commit(action string) {
	if !e.history.Commit() {
		e.log.Debug("commit dropped during restore", "action", action)
		return
	}
	e.log.Debug("committed", "action", action, "objects", e.scene.Len(), "history", e.history.Len())
}

// atomically runs f and rolls the scene back if f fails, keeping any
// in-progress guides on screen.
func (e *Editor) atomically(f func() error) error {
	before := e.scene.Snapshot()
	guides := e.guides()
	if err := f(); err != nil {
		e.scene.Restore(before)
		for _, g := range guides {
			_ = e.scene.AddObject(g)
		}
		return err
	}
	return nil
}

func (e *Editor) guides() []models.SceneObject {
	var out []models.SceneObject
	for _, o := range e.scene.Objects() {
		if o.IsGuide() {
			out = append(out, o)
		}
	}
	return out
}

// ============================================================
// Undo / redo / clear
// ============================================================

func (e *Editor) Undo() (Notice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.polygon.reset(e.scene)
	if !e.history.Undo() {
		return info("Nothing to undo"), nil
	}
	return success("Undone"), nil
}

func (e *Editor) Redo() (Notice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.polygon.reset(e.scene)
	if !e.history.Redo() {
		return info("Nothing to redo"), nil
	}
	return success("Redone"), nil
}

func (e *Editor) Clear() (Notice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.polygon.reset(e.scene)
	e.scene.Clear()
	e.commit("clear")
	return success("Canvas cleared"), nil
}

// ============================================================
// Persistence
// ============================================================

// Save overwrites the single saved slot with the current scene and zones.
func (e *Editor) Save(ctx context.Context) (Notice, error) {
	e.mu.Lock()
	snap := e.scene.Snapshot()
	e.mu.Unlock()

	saved := models.NewSavedMap(snap, e.opts.Now())
	if err := e.store.Save(ctx, e.opts.SaveKey, saved); err != nil {
		e.log.WithError(err).Error("save failed")
		return Notice{}, fmt.Errorf("save: %w", err)
	}
	e.log.Info("map saved", "objects", len(saved.Scene.Objects), "zones", len(saved.Zones))
	return success(fmt.Sprintf("Map saved (%d objects, %d zones)", len(saved.Scene.Objects), len(saved.Zones))), nil
}

// Load replaces the scene and zones with the saved slot. A missing or
// unreadable record leaves everything as it was.
func (e *Editor) Load(ctx context.Context) (Notice, error) {
	saved, err := e.store.Load(ctx, e.opts.SaveKey)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return Notice{}, ErrNoSavedMap
	case errors.Is(err, repository.ErrCorrupt):
		e.log.WithError(err).Warn("saved map is corrupt")
		return Notice{}, fmt.Errorf("%w: %v", ErrCorruptSavedMap, err)
	case err != nil:
		return Notice{}, fmt.Errorf("load: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.polygon.reset(e.scene)
	e.scene.Restore(saved.Snapshot())
	e.commit("load")
	return success(fmt.Sprintf("Map loaded (saved %s)", saved.SavedAt.Format(time.RFC3339))), nil
}
