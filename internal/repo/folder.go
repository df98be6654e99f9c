package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mwhited/notekeeper/internal/domain"
)

// FolderRepo defines the persistence operations for Folders.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type FolderRepo interface {
	// Create inserts a new folder and returns the persisted record.
	// Returns domain.ErrDuplicate if the (name, user_id) pair already exists.
	Create(ctx context.Context, folder domain.Folder) (domain.Folder, error)

	// GetByID retrieves a folder by id, scoped to the owning user.
	// Returns domain.ErrNotFound if no folder matches (id, userID).
	GetByID(ctx context.Context, id, userID uuid.UUID) (domain.Folder, error)

	// ListByUser returns all of a user's folders ordered by name ascending.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Folder, error)

	// Update renames a folder, scoped to the owning user, and returns the
	// updated record. Returns domain.ErrNotFound if no folder matches
	// (id, user_id), domain.ErrDuplicate on a (name, user_id) collision.
	Update(ctx context.Context, folder domain.Folder) (domain.Folder, error)

	// Delete removes a folder scoped to (id, userID) and clears folder_id on
	// every note of that user filed in it, in one transaction. Deleting a
	// folder that does not exist is a no-op, not an error.
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// pgFolderRepo is the Postgres implementation of FolderRepo.
type pgFolderRepo struct {
	db txdb
}

// NewFolderRepo constructs a FolderRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewFolderRepo(db txdb) FolderRepo {
	return &pgFolderRepo{db: db}
}

func (r *pgFolderRepo) Create(ctx context.Context, folder domain.Folder) (domain.Folder, error) {
	const q = `
		INSERT INTO folders (name, user_id)
		VALUES (@name, @user_id)
		RETURNING id, name, user_id, created_at, updated_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": folder.Name, "user_id": folder.UserID})
	result, err := scanFolder(row)
	if err != nil {
		return domain.Folder{}, fmt.Errorf("repo.FolderRepo.Create: %w", mapUniqueViolation(err))
	}
	return result, nil
}

func (r *pgFolderRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (domain.Folder, error) {
	const q = `
		SELECT id, name, user_id, created_at, updated_at
		FROM folders
		WHERE id = @id AND user_id = @user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	result, err := scanFolder(row)
	if err != nil {
		return domain.Folder{}, fmt.Errorf("repo.FolderRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgFolderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Folder, error) {
	const q = `
		SELECT id, name, user_id, created_at, updated_at
		FROM folders
		WHERE user_id = @user_id
		ORDER BY name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.FolderRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	folders := []domain.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.FolderRepo.ListByUser: scan: %w", err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.FolderRepo.ListByUser: rows: %w", err)
	}
	return folders, nil
}

func (r *pgFolderRepo) Update(ctx context.Context, folder domain.Folder) (domain.Folder, error) {
	const q = `
		UPDATE folders
		SET name       = @name,
		    updated_at = clock_timestamp()
		WHERE id = @id AND user_id = @user_id
		RETURNING id, name, user_id, created_at, updated_at`

	args := pgx.NamedArgs{"id": folder.ID, "name": folder.Name, "user_id": folder.UserID}
	row := r.db.QueryRow(ctx, q, args)
	result, err := scanFolder(row)
	if err != nil {
		return domain.Folder{}, fmt.Errorf("repo.FolderRepo.Update: %w", mapUniqueViolation(err))
	}
	return result, nil
}

// Delete removes the folder row and strips the reference from the owner's
// notes. Both statements commit together so a reader can never observe the
// folder gone while a note still points at it. The reference strip is
// idempotent — re-running it against notes that no longer reference the
// folder changes nothing.
func (r *pgFolderRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.FolderRepo.Delete: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const strip = `
		UPDATE notes
		SET folder_id  = NULL,
		    updated_at = clock_timestamp()
		WHERE folder_id = @id AND user_id = @user_id`

	if _, err := tx.Exec(ctx, strip, pgx.NamedArgs{"id": id, "user_id": userID}); err != nil {
		return fmt.Errorf("repo.FolderRepo.Delete: strip references: %w", err)
	}

	const del = `DELETE FROM folders WHERE id = @id AND user_id = @user_id`

	// RowsAffected is deliberately not checked: a no-op delete succeeds.
	if _, err := tx.Exec(ctx, del, pgx.NamedArgs{"id": id, "user_id": userID}); err != nil {
		return fmt.Errorf("repo.FolderRepo.Delete: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.FolderRepo.Delete: commit: %w", err)
	}
	return nil
}

// scanFolder maps a single database row into a domain.Folder.
func scanFolder(s scanner) (domain.Folder, error) {
	var (
		f      domain.Folder
		id     pgtype.UUID
		userID pgtype.UUID
	)
	err := s.Scan(&id, &f.Name, &userID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Folder{}, domain.ErrNotFound
		}
		return domain.Folder{}, err
	}
	f.ID = uuid.UUID(id.Bytes)
	f.UserID = uuid.UUID(userID.Bytes)
	return f, nil
}
