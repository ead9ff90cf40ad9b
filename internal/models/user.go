package models

import "time"

// User represents a person who can be attached to bills.
type User struct {
	// ID is the unique identifier for the user, assigned from the
	// Meta.UserID counter.
	ID int64 `json:"id"`

	// Name is the display name of the user. Never empty.
	Name string `json:"name"`

	// Email is the user's email address. Unique across all users,
	// compared byte-for-byte as stored.
	Email string `json:"email"`

	// CreatedAt is the creation timestamp. Immutable after creation.
	CreatedAt time.Time `json:"createdAt"`
}
