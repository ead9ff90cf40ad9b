// Package jsonfile persists ledger snapshots as a single JSON document.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/billbook/billbook/internal/models"
	"github.com/billbook/billbook/internal/storage"
)

// Ensure Store implements storage.Snapshotter.
var _ storage.Snapshotter = (*Store)(nil)

// Store reads and writes the snapshot as one pretty-printed JSON file.
// Writes go through a temp file and rename so the document is replaced
// atomically.
type Store struct {
	path string
}

// New creates a JSON file store at the given path, creating parent
// directories as needed. The file itself is not created until the first
// Save.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Load reads the snapshot document. A missing or unparseable file yields an
// empty snapshot: first access on a fresh deployment starts an empty ledger.
func (s *Store) Load() (*models.Snapshot, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Snapshot unreadable, starting empty", "path", s.path, "error", err)
		}
		return models.NewSnapshot(), nil
	}

	snap := models.NewSnapshot()
	if err := json.Unmarshal(content, snap); err != nil {
		slog.Warn("Snapshot corrupt, starting empty", "path", s.path, "error", err)
		return models.NewSnapshot(), nil
	}
	return snap, nil
}

// Save atomically rewrites the snapshot document using the temp-file,
// fsync, rename pattern.
func (s *Store) Save(snap *models.Snapshot) error {
	content, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Close is a no-op; the store holds no open handles between operations.
func (s *Store) Close() error {
	return nil
}
