package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"seatmap-editor/internal/editor/models"
)

// DefaultKey is the well-known slot the editor saves into.
const DefaultKey = "seatmap-editor:current"

var (
	ErrNotFound = errors.New("saved map not found")
	ErrCorrupt  = errors.New("saved map is corrupt")
)

//go:embed migrations/001_init_editor.sql
var initMigration string

// ============================================================
// SQLite Repository
// ============================================================

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init применяет миграции.
func (r *Repository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, initMigration); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// Save полностью перезаписывает слот key.
func (r *Repository) Save(ctx context.Context, key string, m models.SavedMap) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode saved map: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO saved_maps (key, version, payload, saved_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET
            version = excluded.version,
            payload = excluded.payload,
            saved_at = excluded.saved_at
    `, key, m.Version, string(payload), m.SavedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save map: %w", err)
	}
	return nil
}

// Load читает слот key. Отсутствие записи даёт ErrNotFound, нечитаемая
// запись даёт ErrCorrupt; в обоих случаях вызывающий ничего не меняет.
func (r *Repository) Load(ctx context.Context, key string) (models.SavedMap, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT payload
        FROM saved_maps
        WHERE key = ?
    `, key)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SavedMap{}, ErrNotFound
		}
		return models.SavedMap{}, err
	}

	var m models.SavedMap
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return models.SavedMap{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if m.Version < 1 || m.Version > models.SavedMapVersion {
		return models.SavedMap{}, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, m.Version)
	}
	return m, nil
}

func (r *Repository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM saved_maps WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete map: %w", err)
	}
	return nil
}

// Ping проверяет соединение для /health/ready.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
