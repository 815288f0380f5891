package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrMissingCredential is returned when a user is constructed without a
// username or password hash.
var ErrMissingCredential = errors.New("username and password hash are required")

// User is an account that manages clients, invoices and payments.
// PasswordHash is a bcrypt hash; the plaintext is never stored.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	IsDeleted    bool
}

func NewUser(username, passwordHash string) (*User, error) {
	if username == "" || passwordHash == "" {
		return nil, ErrMissingCredential
	}

	return &User{
		Username:     username,
		PasswordHash: passwordHash,
	}, nil
}

// MarkAsDeleted flags the user as logically removed. Idempotent. Deleted
// users no longer resolve on login or uniqueness checks.
func (u *User) MarkAsDeleted() {
	u.IsDeleted = true
	now := time.Now().UTC()
	u.UpdatedAt = &now
}
