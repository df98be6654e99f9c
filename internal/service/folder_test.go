package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhited/notekeeper/internal/domain"
	"github.com/mwhited/notekeeper/internal/repo"
	"github.com/mwhited/notekeeper/internal/service"
)

// ---- mock FolderRepo -------------------------------------------------------

type mockFolderRepo struct {
	create     func(ctx context.Context, folder domain.Folder) (domain.Folder, error)
	getByID    func(ctx context.Context, id, userID uuid.UUID) (domain.Folder, error)
	listByUser func(ctx context.Context, userID uuid.UUID) ([]domain.Folder, error)
	update     func(ctx context.Context, folder domain.Folder) (domain.Folder, error)
	delete     func(ctx context.Context, id, userID uuid.UUID) error
}

func (m *mockFolderRepo) Create(ctx context.Context, folder domain.Folder) (domain.Folder, error) {
	return m.create(ctx, folder)
}
func (m *mockFolderRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (domain.Folder, error) {
	return m.getByID(ctx, id, userID)
}
func (m *mockFolderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Folder, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockFolderRepo) Update(ctx context.Context, folder domain.Folder) (domain.Folder, error) {
	return m.update(ctx, folder)
}
func (m *mockFolderRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return m.delete(ctx, id, userID)
}

// compile-time check
var _ repo.FolderRepo = (*mockFolderRepo)(nil)

// ---- List ------------------------------------------------------------------

func TestFolderService_List_NilBecomesEmptySlice(t *testing.T) {
	svc := service.NewFolderService(&mockFolderRepo{
		listByUser: func(_ context.Context, _ uuid.UUID) ([]domain.Folder, error) {
			return nil, nil
		},
	})

	got, err := svc.List(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- Create ----------------------------------------------------------------

func TestFolderService_Create_OK(t *testing.T) {
	userID := uuid.New()
	svc := service.NewFolderService(&mockFolderRepo{
		create: func(_ context.Context, folder domain.Folder) (domain.Folder, error) {
			assert.Equal(t, "Recipes", folder.Name)
			assert.Equal(t, userID, folder.UserID)
			folder.ID = uuid.New()
			return folder, nil
		},
	})

	got, err := svc.Create(context.Background(), userID, "Recipes")

	require.NoError(t, err)
	assert.Equal(t, "Recipes", got.Name)
}

func TestFolderService_Create_EmptyName(t *testing.T) {
	svc := service.NewFolderService(&mockFolderRepo{})

	_, err := svc.Create(context.Background(), uuid.New(), "   ")

	require.ErrorIs(t, err, domain.ErrMissingField)
	assert.ErrorContains(t, err, "Missing `name` in request body")
}

func TestFolderService_Create_DuplicateName(t *testing.T) {
	svc := service.NewFolderService(&mockFolderRepo{
		create: func(_ context.Context, _ domain.Folder) (domain.Folder, error) {
			return domain.Folder{}, domain.ErrDuplicate
		},
	})

	_, err := svc.Create(context.Background(), uuid.New(), "Recipes")

	require.ErrorIs(t, err, domain.ErrDuplicate)
	assert.ErrorContains(t, err, "Folder name already exists")
}

// ---- Update ----------------------------------------------------------------

func TestFolderService_Update_EmptyName(t *testing.T) {
	svc := service.NewFolderService(&mockFolderRepo{})

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), "")

	assert.ErrorIs(t, err, domain.ErrMissingField)
}

func TestFolderService_Update_NotFound(t *testing.T) {
	svc := service.NewFolderService(&mockFolderRepo{
		update: func(_ context.Context, _ domain.Folder) (domain.Folder, error) {
			return domain.Folder{}, domain.ErrNotFound
		},
	})

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), "Renamed")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Delete ----------------------------------------------------------------

func TestFolderService_Delete_OK(t *testing.T) {
	var capturedID, capturedUserID uuid.UUID
	svc := service.NewFolderService(&mockFolderRepo{
		delete: func(_ context.Context, id, userID uuid.UUID) error {
			capturedID, capturedUserID = id, userID
			return nil
		},
	})

	id, userID := uuid.New(), uuid.New()
	err := svc.Delete(context.Background(), id, userID)

	require.NoError(t, err)
	assert.Equal(t, id, capturedID)
	assert.Equal(t, userID, capturedUserID)
}

func TestFolderService_Delete_RepoFailureBecomesCascadeError(t *testing.T) {
	svc := service.NewFolderService(&mockFolderRepo{
		delete: func(_ context.Context, _, _ uuid.UUID) error {
			return errors.New("tx aborted")
		},
	})

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrCascade)
}
