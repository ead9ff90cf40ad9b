// Package ledger implements the bill-splitting ledger: users, products,
// bills, and the association rows linking them, kept mutually consistent
// under create/update/delete.
//
// The ledger holds the whole object graph in memory. The backing snapshot is
// loaded once, on first access, and rewritten in full after every successful
// mutation. Consistency rules:
//
//   - ids are monotonic per entity and never reused (persisted counters)
//   - user emails are unique, checked on create and update
//   - deleting an entity cascades removal of its association rows
//   - attaching an existing (bill, user) or (bill, product) pair is a no-op
//
// Validation happens before any mutation, so a rejected operation never
// leaves the graph partially changed. A persistence failure after a
// successful in-memory mutation is surfaced to the caller while the mutation
// is kept; the next successful save closes the gap.
package ledger

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/billbook/billbook/internal/models"
	"github.com/billbook/billbook/internal/storage"
)

// Store owns the in-memory ledger graph and its snapshot backend.
// All access goes through its methods; the internal lock serializes
// mutations against concurrent readers.
type Store struct {
	backend storage.Snapshotter

	loadOnce sync.Once
	mu       sync.RWMutex
	snap     *models.Snapshot
}

// New creates a Store on top of the given snapshot backend. The snapshot is
// not read until the first operation.
func New(backend storage.Snapshotter) *Store {
	return &Store{backend: backend}
}

// load reads the snapshot exactly once per process. A backend read failure
// is logged and degrades to an empty ledger, same as a missing snapshot.
func (s *Store) load() {
	s.loadOnce.Do(func() {
		snap, err := s.backend.Load()
		if err != nil {
			slog.Warn("Snapshot load failed, starting empty", "error", err)
			snap = models.NewSnapshot()
		}
		s.snap = snap
		slog.Info("Ledger loaded",
			"users", len(snap.Users),
			"products", len(snap.Products),
			"bills", len(snap.Bills),
		)
	})
}

// persist rewrites the whole snapshot. Called with the write lock held,
// after the in-memory mutation has been applied.
func (s *Store) persist() error {
	if err := s.backend.Save(s.snap); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}

// newestFirst orders indexes [0, n) by creation time descending. Entries
// with a zero timestamp sort as earliest; exact ties break toward the
// higher id so entities created in sequence list newest first.
func newestFirst(n int, createdAt func(int) time.Time, id func(int) int64) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ta, tb := createdAt(order[a]), createdAt(order[b])
		if !ta.Equal(tb) {
			return ta.After(tb)
		}
		return id(order[a]) > id(order[b])
	})
	return order
}
