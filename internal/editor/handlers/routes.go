package handlers

import "github.com/gofiber/fiber/v3"

// ============================================================
// Routes
// ============================================================

// Register mounts the editor API on api (normally /api/v1).
func (h *EditorHandler) Register(api fiber.Router) {
	api.Post("/sessions", h.CreateSession)

	s := api.Group("/sessions/:sid")
	s.Get("/state", h.GetState)
	api.Delete("/sessions/:sid", h.CloseSession)
	s.Put("/viewport", h.SetViewport)
	s.Put("/color", h.SetColor)

	s.Post("/zones", h.CreateZone)
	s.Patch("/zones/:zid", h.UpdateZone)
	s.Delete("/zones/:zid", h.DeleteZone)
	s.Put("/zones/:zid/visibility", h.SetZoneVisibility)
	s.Post("/zones/:zid/order", h.ReorderZone)

	s.Post("/objects/rectangle", h.AddRectangle)
	s.Post("/objects/seat", h.AddSeat)
	s.Post("/objects/label", h.AddLabel)
	s.Patch("/objects", h.UpdateProperties)
	s.Post("/objects/delete", h.DeleteObjects)
	s.Post("/objects/lock", h.SetLocked)
	s.Post("/objects/duplicate", h.Duplicate)
	s.Post("/objects/align", h.Align)
	s.Post("/objects/order", h.Reorder)
	s.Put("/objects/:oid/transform", h.SetTransform)

	s.Post("/polygon/points", h.AddPolygonPoint)
	s.Post("/polygon/finish", h.FinishPolygon)
	s.Post("/polygon/cancel", h.CancelPolygon)

	s.Post("/seats/generate", h.GenerateSeats)

	s.Post("/undo", h.Undo)
	s.Post("/redo", h.Redo)
	s.Post("/clear", h.Clear)
	s.Post("/save", h.Save)
	s.Post("/load", h.Load)

	s.Post("/background", h.SetBackground)
	s.Put("/background/opacity", h.SetBackgroundOpacity)
	s.Delete("/background", h.RemoveBackground)

	s.Post("/import/svg", h.ImportSVG)
	s.Get("/export/svg", h.ExportSVG)
}

// Register mounts the probes at the root.
func (h *HealthHandler) Register(app fiber.Router) {
	app.Get("/health/live", h.LivenessProbe)
	app.Get("/health/ready", h.ReadinessProbe)
}
