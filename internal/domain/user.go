package domain

import (
	"context"
	"time"
)

// User represents an account that owns diary entries. Accounts are created
// out-of-band (boot seed or admin tooling); the API itself never mutates or
// deletes them.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}
