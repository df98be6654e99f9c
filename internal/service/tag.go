package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mwhited/notekeeper/internal/domain"
	"github.com/mwhited/notekeeper/internal/repo"
)

// TagService implements business logic for Tag operations.
// It mirrors FolderService: the two entities share their shape, their
// uniqueness rule, and their cascading-delete obligation toward notes.
type TagService struct {
	tags repo.TagRepo
}

// NewTagService constructs a TagService backed by the provided TagRepo.
func NewTagService(tags repo.TagRepo) *TagService {
	return &TagService{tags: tags}
}

// List returns all of the user's tags sorted by name ascending.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TagService) List(ctx context.Context, userID uuid.UUID) ([]domain.Tag, error) {
	tags, err := s.tags.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.TagService.List: %w", err)
	}
	if tags == nil {
		return []domain.Tag{}, nil
	}
	return tags, nil
}

// Get returns a single tag scoped to the user.
// Returns domain.ErrNotFound for a missing or foreign tag alike.
func (s *TagService) Get(ctx context.Context, id, userID uuid.UUID) (domain.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id, userID)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.Get: %w", err)
	}
	return tag, nil
}

// Create validates and persists a new tag for the user.
// Returns domain.ErrMissingField for an empty name and domain.ErrDuplicate
// when the user already has a tag with that name.
func (s *TagService) Create(ctx context.Context, userID uuid.UUID, name string) (domain.Tag, error) {
	if err := validateName(name); err != nil {
		return domain.Tag{}, err
	}
	tag, err := s.tags.Create(ctx, domain.Tag{Name: name, UserID: userID})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.Tag{}, fmt.Errorf("%w: Tag name already exists", domain.ErrDuplicate)
		}
		return domain.Tag{}, fmt.Errorf("service.TagService.Create: %w", err)
	}
	return tag, nil
}

// Update renames a tag scoped to the user. Same validations as Create;
// domain.ErrNotFound if the id does not resolve under this user.
func (s *TagService) Update(ctx context.Context, id, userID uuid.UUID, name string) (domain.Tag, error) {
	if err := validateName(name); err != nil {
		return domain.Tag{}, err
	}
	tag, err := s.tags.Update(ctx, domain.Tag{ID: id, Name: name, UserID: userID})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.Tag{}, fmt.Errorf("%w: Tag name already exists", domain.ErrDuplicate)
		}
		return domain.Tag{}, fmt.Errorf("service.TagService.Update: %w", err)
	}
	return tag, nil
}

// Delete removes a tag and pulls it out of every referencing note's tag set.
// Deleting an unknown id is a successful no-op. A failure during the paired
// delete-and-strip surfaces as domain.ErrCascade.
func (s *TagService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.tags.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("service.TagService.Delete: %w: %w", domain.ErrCascade, err)
	}
	return nil
}
