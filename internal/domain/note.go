// Package domain contains the core data types for the Notekeeper API.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Note is the central entity: a titled piece of text owned by exactly one
// user, filed into at most one of that user's folders and labelled with any
// number of that user's tags.
//
// FolderID is nil when the note is not in a folder. Tags holds the resolved
// tag entities (not just ids) so read paths can render them directly.
type Note struct {
	ID        uuid.UUID
	Title     string
	Content   string
	UserID    uuid.UUID
	FolderID  *uuid.UUID
	Tags      []Tag
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteChange carries the mutable fields of a note for create and update.
//
// FolderID nil means "no folder" — the API treats an omitted and an
// explicitly cleared folder identically. TagIDs nil means "leave the tag set
// untouched" (only meaningful on update); an empty non-nil slice clears all
// tags. The two are distinct on purpose.
type NoteChange struct {
	Title    string
	Content  string
	FolderID *uuid.UUID
	TagIDs   []uuid.UUID
}

// NoteFilter narrows a user's note listing. Zero values mean "no filtering"
// for each criterion; the owning user scope is always applied separately.
type NoteFilter struct {
	// SearchTerm is matched case-insensitively as a substring against both
	// title and content.
	SearchTerm string
	// FolderID, if set, restricts results to notes filed in that folder.
	FolderID *uuid.UUID
	// TagID, if set, restricts results to notes whose tag set contains it.
	TagID *uuid.UUID
}
