// Package sqlite provides a SQLite-backed implementation of the
// storage.Snapshotter interface.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/billbook/billbook/internal/models"
	"github.com/billbook/billbook/internal/storage"
)

// Ensure Store implements storage.Snapshotter.
var _ storage.Snapshotter = (*Store)(nil)

// Store persists snapshots in SQLite. Save rewrites every table inside one
// transaction, which keeps the whole-snapshot-replace contract of the
// Snapshotter interface: a reader sees either the previous snapshot or the
// new one, never a mix.
type Store struct {
	db *sql.DB
}

// New creates a SQLite store at the given database path. It creates the
// parent directories and runs migrations automatically.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the full snapshot back from the database. An empty database
// (fresh file, no meta row) yields an empty snapshot.
func (s *Store) Load() (*models.Snapshot, error) {
	snap := models.NewSnapshot()

	err := s.db.QueryRow("SELECT user_id, product_id, bill_id FROM meta WHERE id = 1").
		Scan(&snap.Meta.UserID, &snap.Meta.ProductID, &snap.Meta.BillID)
	if err == sql.ErrNoRows {
		return snap, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load counters: %w", err)
	}

	rows, err := s.db.Query("SELECT id, name, email, created_at FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for rows.Next() {
		var u models.User
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.CreatedAt = parseTime(createdAt)
		snap.Users = append(snap.Users, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	rows, err = s.db.Query("SELECT id, name, price, description, created_at FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	for rows.Next() {
		var p models.Product
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.CreatedAt = parseTime(createdAt)
		snap.Products = append(snap.Products, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	rows, err = s.db.Query("SELECT id, title, amount, date, created_at FROM bills ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}
	for rows.Next() {
		var b models.Bill
		var createdAt string
		if err := rows.Scan(&b.ID, &b.Title, &b.Amount, &b.Date, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		b.CreatedAt = parseTime(createdAt)
		snap.Bills = append(snap.Bills, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	rows, err = s.db.Query("SELECT bill_id, user_id, share FROM bill_users ORDER BY bill_id, user_id")
	if err != nil {
		return nil, fmt.Errorf("failed to load bill users: %w", err)
	}
	for rows.Next() {
		var bu models.BillUser
		if err := rows.Scan(&bu.BillID, &bu.UserID, &bu.Share); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan bill user: %w", err)
		}
		snap.BillUsers = append(snap.BillUsers, bu)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bill users: %w", err)
	}

	rows, err = s.db.Query("SELECT bill_id, product_id, quantity FROM bill_products ORDER BY bill_id, product_id")
	if err != nil {
		return nil, fmt.Errorf("failed to load bill products: %w", err)
	}
	for rows.Next() {
		var bp models.BillProduct
		if err := rows.Scan(&bp.BillID, &bp.ProductID, &bp.Quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan bill product: %w", err)
		}
		snap.BillProducts = append(snap.BillProducts, bp)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bill products: %w", err)
	}

	return snap, nil
}

// Save replaces the entire database content with the given snapshot in a
// single transaction.
func (s *Store) Save(snap *models.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"users", "products", "bills", "bill_users", "bill_products", "meta"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, u := range snap.Users {
		_, err := tx.Exec(
			"INSERT INTO users (id, name, email, created_at) VALUES (?, ?, ?, ?)",
			u.ID, u.Name, u.Email, formatTime(u.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
	}

	for _, p := range snap.Products {
		_, err := tx.Exec(
			"INSERT INTO products (id, name, price, description, created_at) VALUES (?, ?, ?, ?, ?)",
			p.ID, p.Name, p.Price, p.Description, formatTime(p.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}
	}

	for _, b := range snap.Bills {
		_, err := tx.Exec(
			"INSERT INTO bills (id, title, amount, date, created_at) VALUES (?, ?, ?, ?, ?)",
			b.ID, b.Title, b.Amount, b.Date, formatTime(b.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert bill: %w", err)
		}
	}

	for _, bu := range snap.BillUsers {
		_, err := tx.Exec(
			"INSERT INTO bill_users (bill_id, user_id, share) VALUES (?, ?, ?)",
			bu.BillID, bu.UserID, bu.Share,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bill user: %w", err)
		}
	}

	for _, bp := range snap.BillProducts {
		_, err := tx.Exec(
			"INSERT INTO bill_products (bill_id, product_id, quantity) VALUES (?, ?, ?)",
			bp.BillID, bp.ProductID, bp.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bill product: %w", err)
		}
	}

	_, err = tx.Exec(
		"INSERT INTO meta (id, user_id, product_id, bill_id) VALUES (1, ?, ?, ?)",
		snap.Meta.UserID, snap.Meta.ProductID, snap.Meta.BillID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// formatTime renders a timestamp for storage. The zero time is stored as an
// empty string so it survives a round trip.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// parseTime is the inverse of formatTime. Unparseable values degrade to the
// zero time, which lists sort as earliest.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
