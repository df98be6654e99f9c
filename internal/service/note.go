package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mwhited/notekeeper/internal/domain"
	"github.com/mwhited/notekeeper/internal/repo"
)

// NoteService implements business logic for Note operations.
// It owns the validate-then-write sequence: every create and update runs the
// ReferenceValidator before anything is persisted, so an invalid folder or
// tag reference is rejected without a store mutation.
type NoteService struct {
	notes repo.NoteRepo
	refs  *ReferenceValidator
}

// NewNoteService constructs a NoteService backed by the provided NoteRepo
// and reference validator.
func NewNoteService(notes repo.NoteRepo, refs *ReferenceValidator) *NoteService {
	return &NoteService{notes: notes, refs: refs}
}

// List returns the user's notes matching filter, most recently modified
// first, with tag references resolved for display.
func (s *NoteService) List(ctx context.Context, userID uuid.UUID, filter domain.NoteFilter) ([]domain.Note, error) {
	notes, err := s.notes.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("service.NoteService.List: %w", err)
	}
	if err := s.resolveTags(ctx, notes); err != nil {
		return nil, fmt.Errorf("service.NoteService.List: %w", err)
	}
	return notes, nil
}

// Get returns a single note scoped to the user, with resolved tags.
// Returns domain.ErrNotFound for a missing or foreign note alike.
func (s *NoteService) Get(ctx context.Context, id, userID uuid.UUID) (domain.Note, error) {
	note, err := s.notes.GetByID(ctx, id, userID)
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Get: %w", err)
	}
	notes := []domain.Note{note}
	if err := s.resolveTags(ctx, notes); err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Get: %w", err)
	}
	return notes[0], nil
}

// Create validates and persists a new note for the user.
// Title is required; folder and tag references must resolve to entities
// owned by the same user (domain.ErrInvalidReference otherwise, folder
// checked first).
func (s *NoteService) Create(ctx context.Context, userID uuid.UUID, change domain.NoteChange) (domain.Note, error) {
	if err := validateTitle(change.Title); err != nil {
		return domain.Note{}, err
	}
	if err := s.refs.Validate(ctx, change, userID); err != nil {
		return domain.Note{}, err
	}

	note := domain.Note{
		Title:    change.Title,
		Content:  change.Content,
		UserID:   userID,
		FolderID: change.FolderID,
	}
	created, err := s.notes.Create(ctx, note, change.TagIDs)
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Create: %w", err)
	}

	notes := []domain.Note{created}
	if err := s.resolveTags(ctx, notes); err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Create: %w", err)
	}
	return notes[0], nil
}

// Update replaces the mutable fields of a note scoped to the user.
// Title is required on every update, partial or not — callers must resend
// it. A nil change.TagIDs leaves the tag set untouched; an empty slice
// clears it. References are re-validated before the write.
func (s *NoteService) Update(ctx context.Context, id, userID uuid.UUID, change domain.NoteChange) (domain.Note, error) {
	if err := validateTitle(change.Title); err != nil {
		return domain.Note{}, err
	}
	if err := s.refs.Validate(ctx, change, userID); err != nil {
		return domain.Note{}, err
	}

	note := domain.Note{
		ID:       id,
		Title:    change.Title,
		Content:  change.Content,
		UserID:   userID,
		FolderID: change.FolderID,
	}
	updated, err := s.notes.Update(ctx, note, change.TagIDs)
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Update: %w", err)
	}

	notes := []domain.Note{updated}
	if err := s.resolveTags(ctx, notes); err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Update: %w", err)
	}
	return notes[0], nil
}

// Delete removes a note scoped to the user. Idempotent: deleting a missing
// or already-deleted note still succeeds.
func (s *NoteService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.notes.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("service.NoteService.Delete: %w", err)
	}
	return nil
}

// resolveTags fills in the Tags slice of each note from the join table with
// a single batched read.
func (s *NoteService) resolveTags(ctx context.Context, notes []domain.Note) error {
	if len(notes) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	byNote, err := s.notes.TagsByNoteIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range notes {
		if tags, ok := byNote[notes[i].ID]; ok {
			notes[i].Tags = tags
		} else {
			notes[i].Tags = []domain.Tag{}
		}
	}
	return nil
}

// validateTitle enforces the note title rule: required and non-empty, at
// creation and on every update.
func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: Missing `title` in request body", domain.ErrMissingField)
	}
	return nil
}
