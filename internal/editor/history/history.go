// Package history keeps a bounded, linear log of scene snapshots for undo and
// redo.
package history

import (
	"sync"

	"seatmap-editor/internal/editor/models"
)

// DefaultLimit is the number of snapshots kept before the oldest is evicted.
const DefaultLimit = 50

// Target is the live state that snapshots are captured from and restored into.
type Target interface {
	Snapshot() models.Snapshot
	Restore(models.Snapshot)
}

// Mode tells whether the manager is accepting commits.
type Mode int

const (
	Idle Mode = iota
	Restoring
)

func (m Mode) String() string {
	if m == Restoring {
		return "restoring"
	}
	return "idle"
}

// Manager is an append-only log with a cursor. Commits made while a snapshot
// is being restored are dropped, so a restore never records itself.
type Manager struct {
	mu      sync.Mutex
	target  Target
	entries []models.Snapshot
	index   int
	limit   int
	mode    Mode
}

func New(target Target, limit int) *Manager {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Manager{
		target: target,
		index:  -1,
		limit:  limit,
	}
}

// Commit captures the target, drops any redo branch and advances the cursor.
// Returns false when the commit was suppressed by an in-flight restore.
func (m *Manager) Commit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode == Restoring {
		return false
	}

	snap := m.target.Snapshot().Clone()
	m.entries = append(m.entries[:m.index+1], snap)
	if over := len(m.entries) - m.limit; over > 0 {
		// копируем, чтобы вытесненные снимки не держались базовым массивом
		m.entries = append([]models.Snapshot(nil), m.entries[over:]...)
	}
	m.index = len(m.entries) - 1
	return true
}

// Undo steps back one entry. No-op at the earliest retained entry.
func (m *Manager) Undo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode == Restoring || m.index <= 0 {
		return false
	}
	m.index--
	m.restore(m.entries[m.index])
	return true
}

// Redo steps forward one entry. No-op at the head.
func (m *Manager) Redo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode == Restoring || m.index >= len(m.entries)-1 {
		return false
	}
	m.index++
	m.restore(m.entries[m.index])
	return true
}

// restore runs with mu held. The target may call back into Commit through
// its own hooks; those calls see Restoring and return without recording.
func (m *Manager) restore(snap models.Snapshot) {
	m.mode = Restoring
	defer func() { m.mode = Idle }()

	m.mu.Unlock()
	defer m.mu.Lock()
	m.target.Restore(snap.Clone())
}

func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index > 0
}

func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index < len(m.entries)-1
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Manager) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Current returns a copy of the snapshot under the cursor.
func (m *Manager) Current() (models.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index < 0 {
		return models.Snapshot{}, false
	}
	return m.entries[m.index].Clone(), true
}

// Reset forgets every entry.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.index = -1
	m.mode = Idle
}
