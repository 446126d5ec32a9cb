package service

import (
	"errors"

	"seatmap-editor/internal/editor/scene"
)

// ============================================================
// Errors & notices
// ============================================================

// Errors below are user notices: the editor state is untouched when one is
// returned and the UI shows the matching Notice.
var (
	ErrEmptySelection      = errors.New("nothing selected")
	ErrNoSavedMap          = errors.New("no saved map")
	ErrCorruptSavedMap     = errors.New("saved map could not be read")
	ErrObjectLocked        = scene.ErrObjectLocked
	ErrPolygonTooFewPoints = errors.New("polygon needs at least 3 points")
	ErrNoPolygonInProgress = errors.New("no polygon in progress")
	ErrInvalidImage        = errors.New("unsupported or corrupt image")
	ErrNoBackground        = errors.New("no background image")
	ErrSessionNotFound     = errors.New("editor session not found")
	ErrInvalidInput        = errors.New("invalid input")
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a dismissible, non-blocking message for the UI.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

func success(msg string) Notice { return Notice{Level: NoticeSuccess, Message: msg} }
func info(msg string) Notice    { return Notice{Level: NoticeInfo, Message: msg} }

var notices = []struct {
	err    error
	notice Notice
}{
	{ErrEmptySelection, Notice{NoticeInfo, "Select one or more objects first"}},
	{ErrNoSavedMap, Notice{NoticeInfo, "There is no saved map yet"}},
	{ErrCorruptSavedMap, Notice{NoticeError, "The saved map is corrupt and was not loaded"}},
	{ErrObjectLocked, Notice{NoticeWarning, "The selection contains locked objects"}},
	{ErrPolygonTooFewPoints, Notice{NoticeWarning, "A polygon needs at least 3 points"}},
	{ErrNoPolygonInProgress, Notice{NoticeInfo, "No polygon is being drawn"}},
	{ErrInvalidImage, Notice{NoticeError, "The image could not be read"}},
	{ErrNoBackground, Notice{NoticeInfo, "There is no background image"}},
	{ErrSessionNotFound, Notice{NoticeError, "Editor session not found"}},
	{ErrInvalidInput, Notice{NoticeWarning, "Invalid input"}},
}

// NoticeFor maps an error to its user notice. ok is false for errors that
// are not part of the notice taxonomy (infrastructure failures).
func NoticeFor(err error) (Notice, bool) {
	if err == nil {
		return Notice{}, false
	}
	for _, n := range notices {
		if errors.Is(err, n.err) {
			return n.notice, true
		}
	}
	return Notice{Level: NoticeError, Message: "Internal error"}, false
}
