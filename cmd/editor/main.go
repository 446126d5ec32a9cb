package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"seatmap-editor/internal/common/config"
	"seatmap-editor/internal/common/logger"
	"seatmap-editor/internal/common/middleware"
	"seatmap-editor/internal/editor/handlers"
	"seatmap-editor/internal/editor/models"
	"seatmap-editor/internal/editor/repository"
	"seatmap-editor/internal/editor/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"
)

// ============================================================
// Seat Map Editor Service
// ============================================================

func main() {
	// .env необязателен: в контейнере переменные приходят из окружения
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)
	if envErr != nil {
		log.Debug("no .env file, using process environment")
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.WithError(err).Error("open db", "path", cfg.DBPath)
		os.Exit(1)
	}
	defer db.Close()

	repo := repository.New(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = repo.Init(ctx)
	cancel()
	if err != nil {
		log.WithError(err).Error("init db")
		os.Exit(1)
	}

	fileStorage := service.NewFileStorage(cfg.StorageRoot)
	sessions := service.NewSessionManager(editorOptions(cfg), repo, fileStorage, log)

	editorHandler := handlers.NewEditorHandler(sessions, log)
	healthHandler := handlers.NewHealthHandler(repo)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    (cfg.MaxUploadMB + 1) << 20,
		AppName:      "Seat Map Editor",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// ============================================================
	// Routes
	// ============================================================

	healthHandler.Register(app)
	editorHandler.Register(app.Group("/api/v1"))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info("starting seat map editor", "addr", addr, "env", cfg.Environment, "db", cfg.DBPath)

	if err := app.Listen(addr); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}

// editorOptions overlays the YAML editor defaults on the built-in ones.
func editorOptions(cfg *config.Config) service.Options {
	opts := service.DefaultOptions()
	opts.HistoryLimit = cfg.HistoryLimit
	opts.Viewport = models.Viewport{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight, Zoom: 1}
	opts.MaxUploadBytes = int64(cfg.MaxUploadMB) << 20

	d := cfg.Editor
	if d.Palette.Regular != "" {
		opts.Palette.Regular = d.Palette.Regular
	}
	if d.Palette.VIP != "" {
		opts.Palette.VIP = d.Palette.VIP
	}
	if d.Palette.Accessible != "" {
		opts.Palette.Accessible = d.Palette.Accessible
	}
	if d.Palette.Blocked != "" {
		opts.Palette.Blocked = d.Palette.Blocked
	}
	if d.ZoneColor != "" {
		opts.ZoneColor = d.ZoneColor
	}
	if d.SeatRadius > 0 {
		opts.SeatRadius = d.SeatRadius
	}
	if d.Grid.Rows > 0 {
		opts.Grid.Rows = d.Grid.Rows
	}
	if d.Grid.Columns > 0 {
		opts.Grid.Columns = d.Grid.Columns
	}
	if d.Grid.RowSpacing > 0 {
		opts.Grid.RowSpacing = d.Grid.RowSpacing
	}
	if d.Grid.SeatSpacing > 0 {
		opts.Grid.SeatSpacing = d.Grid.SeatSpacing
	}
	if d.Grid.StartRow != "" {
		opts.Grid.StartRow = d.Grid.StartRow
	}
	if d.PolygonSnap.MergeTolerance > 0 {
		opts.PolygonSnap.MergeTolerance = d.PolygonSnap.MergeTolerance
	}
	if d.PolygonSnap.AxisTolerance > 0 {
		opts.PolygonSnap.AxisTolerance = d.PolygonSnap.AxisTolerance
	}
	return opts
}
