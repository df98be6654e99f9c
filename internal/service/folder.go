// Package service contains the business logic for the Notekeeper API.
// Services validate inputs, enforce ownership and uniqueness rules, and
// orchestrate repo calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
//
// Every operation takes the authenticated user's id as an explicit
// parameter; there is no ambient request state.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mwhited/notekeeper/internal/domain"
	"github.com/mwhited/notekeeper/internal/repo"
)

// FolderService implements business logic for Folder operations.
type FolderService struct {
	folders repo.FolderRepo
}

// NewFolderService constructs a FolderService backed by the provided FolderRepo.
func NewFolderService(folders repo.FolderRepo) *FolderService {
	return &FolderService{folders: folders}
}

// List returns all of the user's folders sorted by name ascending.
// Always returns a non-nil slice so callers can safely range over it.
func (s *FolderService) List(ctx context.Context, userID uuid.UUID) ([]domain.Folder, error) {
	folders, err := s.folders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.FolderService.List: %w", err)
	}
	if folders == nil {
		return []domain.Folder{}, nil
	}
	return folders, nil
}

// Get returns a single folder scoped to the user.
// Returns domain.ErrNotFound for a missing or foreign folder alike.
func (s *FolderService) Get(ctx context.Context, id, userID uuid.UUID) (domain.Folder, error) {
	folder, err := s.folders.GetByID(ctx, id, userID)
	if err != nil {
		return domain.Folder{}, fmt.Errorf("service.FolderService.Get: %w", err)
	}
	return folder, nil
}

// Create validates and persists a new folder for the user.
// Returns domain.ErrMissingField for an empty name and domain.ErrDuplicate
// when the user already has a folder with that name.
func (s *FolderService) Create(ctx context.Context, userID uuid.UUID, name string) (domain.Folder, error) {
	if err := validateName(name); err != nil {
		return domain.Folder{}, err
	}
	folder, err := s.folders.Create(ctx, domain.Folder{Name: name, UserID: userID})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.Folder{}, fmt.Errorf("%w: Folder name already exists", domain.ErrDuplicate)
		}
		return domain.Folder{}, fmt.Errorf("service.FolderService.Create: %w", err)
	}
	return folder, nil
}

// Update renames a folder scoped to the user. Same validations as Create;
// domain.ErrNotFound if the id does not resolve under this user.
func (s *FolderService) Update(ctx context.Context, id, userID uuid.UUID, name string) (domain.Folder, error) {
	if err := validateName(name); err != nil {
		return domain.Folder{}, err
	}
	folder, err := s.folders.Update(ctx, domain.Folder{ID: id, Name: name, UserID: userID})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.Folder{}, fmt.Errorf("%w: Folder name already exists", domain.ErrDuplicate)
		}
		return domain.Folder{}, fmt.Errorf("service.FolderService.Update: %w", err)
	}
	return folder, nil
}

// Delete removes a folder and clears the reference from every note filed in
// it. Deleting an unknown id is a successful no-op. A failure during the
// paired delete-and-strip surfaces as domain.ErrCascade.
func (s *FolderService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.folders.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("service.FolderService.Delete: %w: %w", domain.ErrCascade, err)
	}
	return nil
}

// validateName enforces the shared rule for folder and tag names: non-empty
// after trimming.
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: Missing `name` in request body", domain.ErrMissingField)
	}
	return nil
}
