package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"seatmap-editor/internal/common/logger"
	"seatmap-editor/internal/editor/service"
)

// ============================================================
// Editor Handler
// ============================================================

type EditorHandler struct {
	sessions  *service.SessionManager
	validator *validator.Validate
	log       *logger.Logger
}

func NewEditorHandler(sessions *service.SessionManager, log *logger.Logger) *EditorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &EditorHandler{
		sessions:  sessions,
		validator: validator.New(),
		log:       log.WithComponent("handlers"),
	}
}

// stateResponse is the body of every editor call: the state to redraw and an
// optional notice to show.
type stateResponse struct {
	State  service.State   `json:"state"`
	Notice *service.Notice `json:"notice,omitempty"`
	Result any             `json:"result,omitempty"`
}

// ============================================================
// Sessions
// ============================================================

// CreateSession открывает новый редактор и возвращает его токен вместе с
// пустым состоянием.
func (h *EditorHandler) CreateSession(c fiber.Ctx) error {
	ed := h.sessions.Issue()
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"token": ed.ID(),
		"state": ed.State(),
	})
}

func (h *EditorHandler) CloseSession(c fiber.Ctx) error {
	if err := h.sessions.Close(c.Params("sid")); err != nil {
		return h.fail(c, nil, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *EditorHandler) GetState(c fiber.Ctx) error {
	ed, err := h.editor(c)
	if err != nil {
		return h.fail(c, nil, err)
	}
	return h.respond(c, ed, service.Notice{}, nil)
}

// ============================================================
// Helpers
// ============================================================

func (h *EditorHandler) editor(c fiber.Ctx) (*service.Editor, error) {
	return h.sessions.Resolve(c.Params("sid"))
}

// bind decodes the JSON body into req and validates it. An empty body is
// accepted for requests whose fields are all optional.
func (h *EditorHandler) bind(c fiber.Ctx, req any) error {
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, req); err != nil {
			return errBadRequest{msg: "invalid json", err: err}
		}
	}
	if err := h.validator.Struct(req); err != nil {
		return errBadRequest{msg: "validation failed", err: err}
	}
	return nil
}

type errBadRequest struct {
	msg string
	err error
}

func (e errBadRequest) Error() string { return e.msg + ": " + e.err.Error() }
func (e errBadRequest) Unwrap() error { return e.err }

func (h *EditorHandler) respond(c fiber.Ctx, ed *service.Editor, notice service.Notice, result any) error {
	resp := stateResponse{State: ed.State(), Result: result}
	if notice.Message != "" {
		resp.Notice = &notice
	}
	return c.JSON(resp)
}

// fail maps err onto a response. Notice errors leave the editor unchanged
// and are reported with the current state; only infrastructure failures
// become 5xx.
func (h *EditorHandler) fail(c fiber.Ctx, ed *service.Editor, err error) error {
	var bad errBadRequest
	if errors.As(err, &bad) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": bad.Error()})
	}

	notice, ok := service.NoticeFor(err)
	if !ok {
		h.log.WithError(err).Error("request failed", "path", c.Path(), "method", c.Method())
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	status := http.StatusOK
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error(), "notice": notice})
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidImage):
		status = http.StatusBadRequest
	}
	h.log.Debug("notice", "level", notice.Level, "err", err.Error())
	if ed == nil {
		return c.Status(status).JSON(fiber.Map{"notice": notice})
	}
	return c.Status(status).JSON(stateResponse{State: ed.State(), Notice: &notice})
}

// run resolves the session and reports the notice of a state-only operation.
func (h *EditorHandler) run(c fiber.Ctx, op func(ed *service.Editor) (service.Notice, error)) error {
	ed, err := h.editor(c)
	if err != nil {
		return h.fail(c, nil, err)
	}
	notice, err := op(ed)
	if err != nil {
		return h.fail(c, ed, err)
	}
	return h.respond(c, ed, notice, nil)
}
