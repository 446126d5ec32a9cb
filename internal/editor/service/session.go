package service

import (
	"sync"

	"github.com/google/uuid"

	"seatmap-editor/internal/common/logger"
)

// ============================================================
// Session Manager
// ============================================================

// SessionManager maps session tokens to live editors.
type SessionManager struct {
	mu      sync.Mutex
	editors map[string]*Editor // token -> editor

	opts  Options
	store MapStore
	files *FileStorage
	log   *logger.Logger
}

func NewSessionManager(opts Options, store MapStore, files *FileStorage, log *logger.Logger) *SessionManager {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionManager{
		editors: make(map[string]*Editor),
		opts:    opts,
		store:   store,
		files:   files,
		log:     log,
	}
}

// Issue opens a new editor and returns it under a fresh token.
func (m *SessionManager) Issue() *Editor {
	token := uuid.NewString()
	ed := NewEditor(token, m.opts, m.store, m.files, m.log)

	m.mu.Lock()
	m.editors[token] = ed
	count := len(m.editors)
	m.mu.Unlock()

	m.log.WithComponent("sessions").Info("session opened", "session_id", token, "open", count)
	return ed
}

func (m *SessionManager) Resolve(token string) (*Editor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ed, ok := m.editors[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ed, nil
}

// Close forgets the session and clears its upload staging area.
func (m *SessionManager) Close(token string) error {
	m.mu.Lock()
	_, ok := m.editors[token]
	delete(m.editors, token)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	m.log.WithComponent("sessions").Info("session closed", "session_id", token)
	if m.files != nil {
		return m.files.RemoveSession(token)
	}
	return nil
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.editors)
}
