package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a named label for notes, owned by exactly one user.
// Same shape and uniqueness rule as Folder: (Name, UserID) is unique.
// A note may carry any number of its owner's tags.
type Tag struct {
	ID        uuid.UUID
	Name      string
	UserID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}
