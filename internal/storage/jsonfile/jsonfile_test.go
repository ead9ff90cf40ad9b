package jsonfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billbook/billbook/internal/models"
)

func TestLoadMissingFileYieldsEmptySnapshot(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "database.json"))
	require.NoError(t, err)

	snap, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.Users)
	assert.Empty(t, snap.Bills)
	assert.Equal(t, models.Meta{}, snap.Meta)
}

func TestLoadCorruptFileYieldsEmptySnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := New(path)
	require.NoError(t, err)

	snap, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.Users)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "database.json")
	store, err := New(path)
	require.NoError(t, err)

	now := time.Now().Round(0) // strip the monotonic reading for comparison
	snap := models.NewSnapshot()
	snap.Users = append(snap.Users, models.User{ID: 1, Name: "Alice", Email: "alice@example.com", CreatedAt: now})
	snap.Products = append(snap.Products, models.Product{ID: 1, Name: "Pizza", Price: 12.5, CreatedAt: now})
	snap.Bills = append(snap.Bills, models.Bill{ID: 1, Title: "Dinner", Amount: 25, Date: "2024-01-01", CreatedAt: now})
	snap.BillUsers = append(snap.BillUsers, models.BillUser{BillID: 1, UserID: 1, Share: 1.0 / 3.0})
	snap.BillProducts = append(snap.BillProducts, models.BillProduct{BillID: 1, ProductID: 1, Quantity: 2})
	snap.Meta = models.Meta{UserID: 3, ProductID: 5, BillID: 7}

	require.NoError(t, store.Save(snap))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, snap.Meta, loaded.Meta)
	assert.Equal(t, snap.BillUsers, loaded.BillUsers)
	assert.Equal(t, snap.BillProducts, loaded.BillProducts)
	require.Len(t, loaded.Users, 1)
	assert.Equal(t, snap.Users[0].Email, loaded.Users[0].Email)
	assert.True(t, loaded.Users[0].CreatedAt.Equal(now))
	require.Len(t, loaded.Bills, 1)
	assert.Equal(t, "2024-01-01", loaded.Bills[0].Date)
}

func TestSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "database.json")
	store, err := New(path)
	require.NoError(t, err)

	first := models.NewSnapshot()
	first.Meta.UserID = 1
	require.NoError(t, store.Save(first))

	second := models.NewSnapshot()
	second.Meta.UserID = 2
	require.NoError(t, store.Save(second))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(2), loaded.Meta.UserID)

	// No temp files may linger after a successful save.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "database.json", entries[0].Name())
}
