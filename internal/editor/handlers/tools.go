package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"seatmap-editor/internal/editor/models"
	"seatmap-editor/internal/editor/service"
)

// storeTimeout bounds a single save or load against the database.
const storeTimeout = 5 * time.Second

// ============================================================
// Polygon tool
// ============================================================

func (h *EditorHandler) AddPolygonPoint(c fiber.Ctx) error {
	var req pointRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	return h.run(c, func(ed *service.Editor) (service.Notice, error) {
		return ed.AddPolygonPoint(models.Point{X: *req.X, Y: *req.Y})
	})
}

func (h *EditorHandler) FinishPolygon(c fiber.Ctx) error {
	ed, err := h.editor(c)
	if err != nil {
		return h.fail(c, nil, err)
	}
	zone, notice, err := ed.FinishPolygon()
	if err != nil {
		return h.fail(c, ed, err)
	}
	return h.respond(c, ed, notice, zone)
}

func (h *EditorHandler) CancelPolygon(c fiber.Ctx) error {
	return h.run(c, (*service.Editor).CancelPolygon)
}

// ============================================================
// Seat generation
// ============================================================

func (h *EditorHandler) GenerateSeats(c fiber.Ctx) error {
	var req generateRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	ed, err := h.editor(c)
	if err != nil {
		return h.fail(c, nil, err)
	}
	res, notice, err := ed.GenerateSeats(service.GenerateRequest{
		Params:   req.params(ed.State().GridDefaults),
		TargetID: req.TargetID,
	})
	if err != nil {
		return h.fail(c, ed, err)
	}
	return h.respond(c, ed, notice, res)
}

// ============================================================
// History & persistence
// ============================================================

func (h *EditorHandler) Undo(c fiber.Ctx) error {
	return h.run(c, (*service.Editor).Undo)
}

func (h *EditorHandler) Redo(c fiber.Ctx) error {
	return h.run(c, (*service.Editor).Redo)
}

func (h *EditorHandler) Clear(c fiber.Ctx) error {
	return h.run(c, (*service.Editor).Clear)
}

func (h *EditorHandler) Save(c fiber.Ctx) error {
	return h.run(c, func(ed *service.Editor) (service.Notice, error) {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return ed.Save(ctx)
	})
}

func (h *EditorHandler) Load(c fiber.Ctx) error {
	return h.run(c, func(ed *service.Editor) (service.Notice, error) {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return ed.Load(ctx)
	})
}

// ============================================================
// Background
// ============================================================

// SetBackground принимает изображение подложки в multipart поле file.
func (h *EditorHandler) SetBackground(c fiber.Ctx) error {
	ed, err := h.editor(c)
	if err != nil {
		return h.fail(c, nil, err)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "file required in multipart/form-data"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer f.Close()

	h.log.Debug("background upload", "file", fileHeader.Filename, "size", fileHeader.Size)
	bg, notice, err := ed.SetBackground(f)
	if err != nil {
		return h.fail(c, ed, err)
	}
	return h.respond(c, ed, notice, bg)
}

func (h *EditorHandler) SetBackgroundOpacity(c fiber.Ctx) error {
	var req opacityRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	return h.run(c, func(ed *service.Editor) (service.Notice, error) {
		return ed.SetBackgroundOpacity(*req.Opacity)
	})
}

func (h *EditorHandler) RemoveBackground(c fiber.Ctx) error {
	return h.run(c, (*service.Editor).RemoveBackground)
}

// ============================================================
// SVG import / export
// ============================================================

func (h *EditorHandler) ImportSVG(c fiber.Ctx) error {
	ed, err := h.editor(c)
	if err != nil {
		return h.fail(c, nil, err)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "file required in multipart/form-data"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer f.Close()

	summary, notice, err := ed.ImportSVG(f)
	if err != nil {
		return h.fail(c, ed, err)
	}
	return h.respond(c, ed, notice, summary)
}

func (h *EditorHandler) ExportSVG(c fiber.Ctx) error {
	ed, err := h.editor(c)
	if err != nil {
		return h.fail(c, nil, err)
	}
	svg, err := ed.ExportSVG()
	if err != nil {
		return h.fail(c, ed, err)
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}
