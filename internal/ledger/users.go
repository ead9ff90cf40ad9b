package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/billbook/billbook/internal/models"
)

// CreateUser adds a user with the next user id and a creation timestamp.
// Name and email are required; the email must not be in use.
func (s *Store) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if s.emailInUse(email, 0) {
		return nil, fmt.Errorf("%w: email already exists", ErrConflict)
	}

	user := models.User{
		ID:        s.snap.Meta.NextUserID(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}
	s.snap.Users = append(s.snap.Users, user)

	if err := s.persist(); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser retrieves a user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.snap.Users {
		if s.snap.Users[i].ID == id {
			user := s.snap.Users[i]
			return &user, nil
		}
	}
	return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
}

// UpdateUser replaces a user's name and email, preserving id and creation
// timestamp. The email-uniqueness check excludes the user being updated.
func (s *Store) UpdateUser(ctx context.Context, id int64, name, email string) (*models.User, error) {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}

	idx := -1
	for i := range s.snap.Users {
		if s.snap.Users[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	if s.emailInUse(email, id) {
		return nil, fmt.Errorf("%w: email already exists", ErrConflict)
	}

	s.snap.Users[idx].Name = name
	s.snap.Users[idx].Email = email
	user := s.snap.Users[idx]

	if err := s.persist(); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user and cascades removal of every bill-user row
// referencing it.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	s.load()
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	users := s.snap.Users[:0]
	for _, u := range s.snap.Users {
		if u.ID == id {
			found = true
			continue
		}
		users = append(users, u)
	}
	if !found {
		return fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	s.snap.Users = users

	billUsers := s.snap.BillUsers[:0]
	for _, bu := range s.snap.BillUsers {
		if bu.UserID == id {
			continue
		}
		billUsers = append(billUsers, bu)
	}
	s.snap.BillUsers = billUsers

	return s.persist()
}

// ListUsers returns all users, most recently created first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	s.load()
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := s.snap.Users
	order := newestFirst(len(users),
		func(i int) time.Time { return users[i].CreatedAt },
		func(i int) int64 { return users[i].ID },
	)
	out := make([]models.User, len(users))
	for i, idx := range order {
		out[i] = users[idx]
	}
	return out, nil
}

// emailInUse reports whether any user other than excludeID holds the given
// email. Comparison is byte-exact, as stored.
func (s *Store) emailInUse(email string, excludeID int64) bool {
	for i := range s.snap.Users {
		if s.snap.Users[i].Email == email && s.snap.Users[i].ID != excludeID {
			return true
		}
	}
	return false
}
