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

// TagRepo defines the persistence operations for Tags.
type TagRepo interface {
	// Create inserts a new tag and returns the persisted record.
	// Returns domain.ErrDuplicate if the (name, user_id) pair already exists.
	Create(ctx context.Context, tag domain.Tag) (domain.Tag, error)

	// GetByID retrieves a tag by id, scoped to the owning user.
	// Returns domain.ErrNotFound if no tag matches (id, userID).
	GetByID(ctx context.Context, id, userID uuid.UUID) (domain.Tag, error)

	// ListByUser returns all of a user's tags ordered by name ascending.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Tag, error)

	// Update renames a tag, scoped to the owning user, and returns the
	// updated record. Returns domain.ErrNotFound if no tag matches
	// (id, user_id), domain.ErrDuplicate on a (name, user_id) collision.
	Update(ctx context.Context, tag domain.Tag) (domain.Tag, error)

	// Delete removes a tag scoped to (id, userID) and removes it from the
	// tag set of every note that carries it, in one transaction. Deleting a
	// tag that does not exist is a no-op, not an error.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// CountOwned returns how many of the given tag ids exist and are owned
	// by userID. Used by reference validation: a count lower than
	// len(distinct ids) means at least one id is unknown or foreign.
	CountOwned(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int, error)
}

// pgTagRepo is the Postgres implementation of TagRepo.
type pgTagRepo struct {
	db txdb
}

// NewTagRepo constructs a TagRepo backed by the provided db connection.
func NewTagRepo(db txdb) TagRepo {
	return &pgTagRepo{db: db}
}

func (r *pgTagRepo) Create(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	const q = `
		INSERT INTO tags (name, user_id)
		VALUES (@name, @user_id)
		RETURNING id, name, user_id, created_at, updated_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": tag.Name, "user_id": tag.UserID})
	result, err := scanTag(row)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.Create: %w", mapUniqueViolation(err))
	}
	return result, nil
}

func (r *pgTagRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (domain.Tag, error) {
	const q = `
		SELECT id, name, user_id, created_at, updated_at
		FROM tags
		WHERE id = @id AND user_id = @user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	result, err := scanTag(row)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTagRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Tag, error) {
	const q = `
		SELECT id, name, user_id, created_at, updated_at
		FROM tags
		WHERE user_id = @user_id
		ORDER BY name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TagRepo.ListByUser: scan: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TagRepo.ListByUser: rows: %w", err)
	}
	return tags, nil
}

func (r *pgTagRepo) Update(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	const q = `
		UPDATE tags
		SET name       = @name,
		    updated_at = clock_timestamp()
		WHERE id = @id AND user_id = @user_id
		RETURNING id, name, user_id, created_at, updated_at`

	args := pgx.NamedArgs{"id": tag.ID, "name": tag.Name, "user_id": tag.UserID}
	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTag(row)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.Update: %w", mapUniqueViolation(err))
	}
	return result, nil
}

// Delete removes the tag row and pulls the tag out of every referencing
// note's tag set. Affected notes get their updated_at bumped because their
// visible representation changed. Both steps commit together; each is
// idempotent on its own.
func (r *pgTagRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.TagRepo.Delete: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const touch = `
		UPDATE notes
		SET updated_at = clock_timestamp()
		WHERE user_id = @user_id
		  AND id IN (SELECT note_id FROM note_tags WHERE tag_id = @id)`

	if _, err := tx.Exec(ctx, touch, pgx.NamedArgs{"id": id, "user_id": userID}); err != nil {
		return fmt.Errorf("repo.TagRepo.Delete: touch notes: %w", err)
	}

	const unlink = `
		DELETE FROM note_tags
		WHERE tag_id = @id
		  AND note_id IN (SELECT id FROM notes WHERE user_id = @user_id)`

	if _, err := tx.Exec(ctx, unlink, pgx.NamedArgs{"id": id, "user_id": userID}); err != nil {
		return fmt.Errorf("repo.TagRepo.Delete: strip references: %w", err)
	}

	const del = `DELETE FROM tags WHERE id = @id AND user_id = @user_id`

	if _, err := tx.Exec(ctx, del, pgx.NamedArgs{"id": id, "user_id": userID}); err != nil {
		return fmt.Errorf("repo.TagRepo.Delete: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.TagRepo.Delete: commit: %w", err)
	}
	return nil
}

func (r *pgTagRepo) CountOwned(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int, error) {
	const q = `
		SELECT count(*)
		FROM tags
		WHERE id = ANY(@ids) AND user_id = @user_id`

	var count int
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"ids": ids, "user_id": userID}).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("repo.TagRepo.CountOwned: %w", err)
	}
	return count, nil
}

// scanTag maps a single database row into a domain.Tag.
func scanTag(s scanner) (domain.Tag, error) {
	var (
		t      domain.Tag
		id     pgtype.UUID
		userID pgtype.UUID
	)
	err := s.Scan(&id, &t.Name, &userID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tag{}, domain.ErrNotFound
		}
		return domain.Tag{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	t.UserID = uuid.UUID(userID.Bytes)
	return t, nil
}
