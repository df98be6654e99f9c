package domain

import (
	"time"

	"github.com/google/uuid"
)

// Folder is a named grouping for notes, owned by exactly one user.
// The (Name, UserID) pair is unique: two users may each have a "Work"
// folder, but one user may not have two.
type Folder struct {
	ID        uuid.UUID
	Name      string
	UserID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}
