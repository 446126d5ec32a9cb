package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage keeps background images in one shared, content-addressed
// directory. Saved maps and undo history point at these files, so they
// outlive the session that uploaded them. Each session only owns a staging
// directory for uploads in flight.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) Root() string {
	return s.root
}

// SessionDir is the per-session staging area.
func (s *FileStorage) SessionDir(sessionID string) string {
	return filepath.Join(s.root, "sessions", sessionID)
}

func (s *FileStorage) BackgroundsDir() string {
	return filepath.Join(s.root, "backgrounds")
}

// BackgroundPath names a background by the hash of its bytes, so the same
// image uploaded twice is stored once.
func (s *FileStorage) BackgroundPath(data []byte, format string) string {
	ext := strings.ToLower(format)
	if ext == "jpeg" {
		ext = "jpg"
	}
	sum := sha256.Sum256(data)
	return filepath.Join(s.BackgroundsDir(), hex.EncodeToString(sum[:])+"."+ext)
}

// WriteBackground stages data under the session and moves it into the shared
// directory in one rename. An existing file with the same content is reused.
func (s *FileStorage) WriteBackground(sessionID, format string, data []byte) (string, error) {
	path := s.BackgroundPath(data, format)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	staging := s.SessionDir(sessionID)
	for _, dir := range []string{staging, s.BackgroundsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	tmp := filepath.Join(staging, "upload-"+uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write background: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("store background: %w", err)
	}
	return path, nil
}

// RemoveSession deletes the session's staging area. Stored backgrounds stay.
func (s *FileStorage) RemoveSession(sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := os.RemoveAll(s.SessionDir(sessionID)); err != nil {
		return fmt.Errorf("remove session dir: %w", err)
	}
	return nil
}
