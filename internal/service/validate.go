package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mwhited/notekeeper/internal/domain"
	"github.com/mwhited/notekeeper/internal/repo"
)

// ReferenceValidator confirms that the folder and tag references on a note
// exist and are owned by the writing user before a write is committed.
//
// Validation reads are advisory: a referenced folder or tag can be deleted
// between validation and commit. That race is accepted — the other entity's
// delete path strips the reference lazily, so a dangling pointer is never
// visible to a subsequent read.
type ReferenceValidator struct {
	folders repo.FolderRepo
	tags    repo.TagRepo
}

// NewReferenceValidator constructs a ReferenceValidator over the given repos.
func NewReferenceValidator(folders repo.FolderRepo, tags repo.TagRepo) *ReferenceValidator {
	return &ReferenceValidator{folders: folders, tags: tags}
}

// Validate runs both reference checks. Folder errors take priority over tag
// errors: the checks run in that order and the first failure is returned, so
// exactly one error ever reaches the caller.
func (v *ReferenceValidator) Validate(ctx context.Context, change domain.NoteChange, userID uuid.UUID) error {
	if err := v.ValidateFolderRef(ctx, change.FolderID, userID); err != nil {
		return err
	}
	return v.ValidateTagRefs(ctx, change.TagIDs, userID)
}

// ValidateFolderRef succeeds trivially for a nil folderID — no folder is
// always valid. Otherwise the folder must exist under the given user;
// a folder owned by someone else is indistinguishable from a missing one.
func (v *ReferenceValidator) ValidateFolderRef(ctx context.Context, folderID *uuid.UUID, userID uuid.UUID) error {
	if folderID == nil {
		return nil
	}
	if _, err := v.folders.GetByID(ctx, *folderID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: The `folderId` is invalid", domain.ErrInvalidReference)
		}
		return fmt.Errorf("service.ReferenceValidator.ValidateFolderRef: %w", err)
	}
	return nil
}

// ValidateTagRefs succeeds trivially for a nil slice (the caller is not
// touching tags) and for an empty one (clearing all tags is valid).
// Otherwise every distinct id must resolve to a tag owned by the user:
// the check compares the count of matching rows against the count of
// distinct requested ids, all-or-nothing, so an id that does not exist and
// an id that belongs to another user fail identically.
func (v *ReferenceValidator) ValidateTagRefs(ctx context.Context, tagIDs []uuid.UUID, userID uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}

	distinct := dedupe(tagIDs)
	count, err := v.tags.CountOwned(ctx, distinct, userID)
	if err != nil {
		return fmt.Errorf("service.ReferenceValidator.ValidateTagRefs: %w", err)
	}
	if count < len(distinct) {
		return fmt.Errorf("%w: The tags array contains an invalid id", domain.ErrInvalidReference)
	}
	return nil
}

// dedupe returns the distinct ids in first-seen order.
func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
