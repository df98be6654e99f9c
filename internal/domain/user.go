package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity anchor every other entity is scoped to.
// PasswordHash is a bcrypt digest, opaque to everything outside the auth
// layer; it must never appear in a serialized representation.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Fullname     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
