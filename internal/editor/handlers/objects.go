package handlers

import (
	"github.com/gofiber/fiber/v3"

	"seatmap-editor/internal/editor/models"
	"seatmap-editor/internal/editor/scene"
	"seatmap-editor/internal/editor/service"
)

// ============================================================
// View state
// ============================================================

func (h *EditorHandler) SetViewport(c fiber.Ctx) error {
	var req viewportRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	return h.run(c, func(ed *service.Editor) (service.Notice, error) {
		return service.Notice{}, ed.SetViewport(req.viewport())
	})
}

func (h *EditorHandler) SetColor(c fiber.Ctx) error {
	var req colorRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	return h.run(c, func(ed *service.Editor) (service.Notice, error) {
		return service.Notice{}, ed.SetActiveColor(req.Color)
	})
}

// ============================================================
// Zones
// ============================================================

func (h *EditorHandler) CreateZone(c fiber.Ctx) error {
	var req createZoneRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	ed, err := h.editor(c)
	if err != nil {
		return h.fail(c, nil, err)
	}
	zone, notice, err := ed.CreateZone(models.ZoneKind(req.Kind), req.Color, req.Name)
	if err != nil {
		return h.fail(c, ed, err)
	}
	return h.respond(c, ed, notice, zone)
}

func (h *EditorHandler) DeleteZone(c fiber.Ctx) error {
	return h.run(c, func(ed *service.Editor) (service.Notice, error) {
		return ed.DeleteZone(c.Params("zid"))
	})
}

func (h *EditorHandler) UpdateZone(c fiber.Ctx) error {
	var req scene.ZonePatch
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	return h.run(c, func(ed *service.Editor) (service.Notice, error) {
		return ed.UpdateZone(c.Params("zid"), req)
	})
}

func (h *EditorHandler) SetZoneVisibility(c fiber.Ctx) error {
	var req visibilityRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	return h.run(c, func(ed *service.Editor) (service.Notice, error) {
		return ed.SetZoneVisibility(c.Params("zid"), *req.Visible)
	})
}

func (h *EditorHandler) ReorderZone(c fiber.Ctx) error {
	var req orderRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	return h.run(c, func(ed *service.Editor) (service.Notice, error) {
		return ed.ReorderZone(c.Params("zid"), scene.OrderOp(req.Op))
	})
}

// ============================================================
// Tools
// ============================================================

func (h *EditorHandler) AddRectangle(c fiber.Ctx) error {
	ed, err := h.editor(c)
	if err != nil {
		return h.fail(c, nil, err)
	}
	obj, notice, err := ed.AddRectangle()
	if err != nil {
		return h.fail(c, ed, err)
	}
	return h.respond(c, ed, notice, obj)
}

func (h *EditorHandler) AddSeat(c fiber.Ctx) error {
	var req seatRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	ed, err := h.editor(c)
	if err != nil {
		return h.fail(c, nil, err)
	}
	obj, notice, err := ed.AddSeat(req.ZoneID)
	if err != nil {
		return h.fail(c, ed, err)
	}
	return h.respond(c, ed, notice, obj)
}

func (h *EditorHandler) AddLabel(c fiber.Ctx) error {
	var req labelRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	ed, err := h.editor(c)
	if err != nil {
		return h.fail(c, nil, err)
	}
	obj, notice, err := ed.AddLabel(req.Text)
	if err != nil {
		return h.fail(c, ed, err)
	}
	return h.respond(c, ed, notice, obj)
}

// ============================================================
// Selection
// ============================================================

func (h *EditorHandler) UpdateProperties(c fiber.Ctx) error {
	var req patchRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	return h.run(c, func(ed *service.Editor) (service.Notice, error) {
		return ed.UpdateProperties(req.IDs, req.Patch)
	})
}

func (h *EditorHandler) DeleteObjects(c fiber.Ctx) error {
	var req idsRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	return h.run(c, func(ed *service.Editor) (service.Notice, error) {
		return ed.DeleteObjects(req.IDs)
	})
}

func (h *EditorHandler) SetLocked(c fiber.Ctx) error {
	var req lockRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	return h.run(c, func(ed *service.Editor) (service.Notice, error) {
		return ed.SetLocked(req.IDs, req.Locked)
	})
}

func (h *EditorHandler) Duplicate(c fiber.Ctx) error {
	var req idsRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	ed, err := h.editor(c)
	if err != nil {
		return h.fail(c, nil, err)
	}
	created, notice, err := ed.Duplicate(req.IDs)
	if err != nil {
		return h.fail(c, ed, err)
	}
	return h.respond(c, ed, notice, fiber.Map{"ids": created})
}

func (h *EditorHandler) Align(c fiber.Ctx) error {
	var req alignRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	return h.run(c, func(ed *service.Editor) (service.Notice, error) {
		return ed.Align(req.IDs, scene.AlignDirection(req.Direction))
	})
}

func (h *EditorHandler) Reorder(c fiber.Ctx) error {
	var req orderRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	return h.run(c, func(ed *service.Editor) (service.Notice, error) {
		return ed.Reorder(req.IDs, scene.OrderOp(req.Op))
	})
}

// SetTransform принимает итоговую трансформацию после перетаскивания.
func (h *EditorHandler) SetTransform(c fiber.Ctx) error {
	var req models.Transform
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, nil, err)
	}
	return h.run(c, func(ed *service.Editor) (service.Notice, error) {
		return ed.SetTransform(c.Params("oid"), req)
	})
}
