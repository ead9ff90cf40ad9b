// Package storage provides abstractions for persisting ledger snapshots.
package storage

import "github.com/billbook/billbook/internal/models"

// Snapshotter defines the interface for snapshot persistence.
// This abstraction allows swapping backends (JSON file, SQLite, etc.)
// without changing the ledger.
//
// The ledger calls Load at most once per process and Save after every
// successful mutation, always with the complete snapshot.
type Snapshotter interface {
	// Load reads the persisted snapshot. A missing or unreadable backing
	// store is not an error: implementations return an empty snapshot so
	// a fresh deployment starts with an empty ledger.
	Load() (*models.Snapshot, error)

	// Save rewrites the entire backing store from the given snapshot.
	Save(snap *models.Snapshot) error

	// Close releases any resources held by the backend.
	Close() error
}
