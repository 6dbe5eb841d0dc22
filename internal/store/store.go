package store

import (
	"context"
	"time"
)

// Message is a persisted chat message. ID is assigned by the backend at
// append time and is strictly increasing, including across restarts.
type Message struct {
	ID        int64
	Author    string
	Text      string
	CreatedAt time.Time
}

// User represents an account in the system.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsGuest      bool
	SessionID    string
	CreatedAt    time.Time
}

// MessageStore handles message persistence. Messages are append-only;
// nothing in the server mutates or deletes through this interface.
type MessageStore interface {
	// Append persists a message and returns its assigned sequence id.
	Append(ctx context.Context, author, text string, at time.Time) (int64, error)

	// Recent returns at most limit of the newest messages, in ascending
	// sequence order.
	Recent(ctx context.Context, limit int) ([]Message, error)
}

// UserStore handles user persistence for the auth boundary.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// CreateGuestUser creates a temporary guest user with session ID.
	CreateGuestUser(ctx context.Context, sessionID string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByUsername retrieves a registered (non-guest) user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	MessageStore
	UserStore

	// Close closes the underlying database connection.
	Close() error
}
