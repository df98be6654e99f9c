package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mwhited/notekeeper/internal/domain"
)

// NoteRepo defines the persistence operations for Notes and the note_tags
// join table. The join table is treated as part of the note: tag links are
// written in the same transaction as the note row they belong to.
//
// Notes returned by this interface carry an empty Tags slice; resolving tag
// entities for display is a separate read (TagsByNoteIDs) orchestrated by
// the service layer.
type NoteRepo interface {
	// Create inserts a new note and its tag links and returns the persisted
	// record. Duplicate ids in tagIDs collapse to a single link.
	Create(ctx context.Context, note domain.Note, tagIDs []uuid.UUID) (domain.Note, error)

	// GetByID retrieves a note by id, scoped to the owning user.
	// Returns domain.ErrNotFound if no note matches (id, userID).
	GetByID(ctx context.Context, id, userID uuid.UUID) (domain.Note, error)

	// List returns the user's notes matching filter, ordered by updated_at
	// descending.
	List(ctx context.Context, userID uuid.UUID, filter domain.NoteFilter) ([]domain.Note, error)

	// Update replaces title, content, and folder_id of a note scoped to the
	// owning user. A nil tagIDs leaves the tag set untouched; a non-nil
	// slice (including empty) replaces it. Returns domain.ErrNotFound if no
	// note matches (id, user_id).
	Update(ctx context.Context, note domain.Note, tagIDs []uuid.UUID) (domain.Note, error)

	// Delete removes a note scoped to (id, userID). Deleting a note that
	// does not exist is a no-op, not an error.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// TagsByNoteIDs returns the tags linked to each of the given notes,
	// ordered by name within each note.
	TagsByNoteIDs(ctx context.Context, noteIDs []uuid.UUID) (map[uuid.UUID][]domain.Tag, error)
}

// pgNoteRepo is the Postgres implementation of NoteRepo.
type pgNoteRepo struct {
	db txdb
}

// NewNoteRepo constructs a NoteRepo backed by the provided db connection.
func NewNoteRepo(db txdb) NoteRepo {
	return &pgNoteRepo{db: db}
}

func (r *pgNoteRepo) Create(ctx context.Context, note domain.Note, tagIDs []uuid.UUID) (domain.Note, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `
		INSERT INTO notes (title, content, user_id, folder_id)
		VALUES (@title, @content, @user_id, @folder_id)
		RETURNING id, title, content, user_id, folder_id, created_at, updated_at`

	args := pgx.NamedArgs{
		"title":     note.Title,
		"content":   note.Content,
		"user_id":   note.UserID,
		"folder_id": note.FolderID, // nil becomes NULL
	}

	result, err := scanNote(tx.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Create: %w", err)
	}

	if err := replaceTagLinks(ctx, tx, result.ID, tagIDs); err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Create: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Create: commit: %w", err)
	}
	return result, nil
}

func (r *pgNoteRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (domain.Note, error) {
	const q = `
		SELECT id, title, content, user_id, folder_id, created_at, updated_at
		FROM notes
		WHERE id = @id AND user_id = @user_id`

	result, err := scanNote(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID}))
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.GetByID: %w", err)
	}
	return result, nil
}

// List builds the WHERE clause from the filter. The user scope is always
// the first condition; everything else is additive.
func (r *pgNoteRepo) List(ctx context.Context, userID uuid.UUID, filter domain.NoteFilter) ([]domain.Note, error) {
	conds := []string{"user_id = @user_id"}
	args := pgx.NamedArgs{"user_id": userID}

	if filter.SearchTerm != "" {
		conds = append(conds, "(title ILIKE @search OR content ILIKE @search)")
		args["search"] = "%" + escapeLike(filter.SearchTerm) + "%"
	}
	if filter.FolderID != nil {
		conds = append(conds, "folder_id = @folder_id")
		args["folder_id"] = *filter.FolderID
	}
	if filter.TagID != nil {
		conds = append(conds, "EXISTS (SELECT 1 FROM note_tags nt WHERE nt.note_id = notes.id AND nt.tag_id = @tag_id)")
		args["tag_id"] = *filter.TagID
	}

	q := `
		SELECT id, title, content, user_id, folder_id, created_at, updated_at
		FROM notes
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY updated_at DESC`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.NoteRepo.List: %w", err)
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.NoteRepo.List: scan: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.NoteRepo.List: rows: %w", err)
	}
	return notes, nil
}

func (r *pgNoteRepo) Update(ctx context.Context, note domain.Note, tagIDs []uuid.UUID) (domain.Note, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Update: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `
		UPDATE notes
		SET title      = @title,
		    content    = @content,
		    folder_id  = @folder_id,
		    updated_at = clock_timestamp()
		WHERE id = @id AND user_id = @user_id
		RETURNING id, title, content, user_id, folder_id, created_at, updated_at`

	args := pgx.NamedArgs{
		"id":        note.ID,
		"title":     note.Title,
		"content":   note.Content,
		"folder_id": note.FolderID,
		"user_id":   note.UserID,
	}

	result, err := scanNote(tx.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Update: %w", err)
	}

	if tagIDs != nil {
		const clear = `DELETE FROM note_tags WHERE note_id = @note_id`
		if _, err := tx.Exec(ctx, clear, pgx.NamedArgs{"note_id": result.ID}); err != nil {
			return domain.Note{}, fmt.Errorf("repo.NoteRepo.Update: clear tags: %w", err)
		}
		if err := replaceTagLinks(ctx, tx, result.ID, tagIDs); err != nil {
			return domain.Note{}, fmt.Errorf("repo.NoteRepo.Update: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Update: commit: %w", err)
	}
	return result, nil
}

func (r *pgNoteRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	const q = `DELETE FROM notes WHERE id = @id AND user_id = @user_id`

	// note_tags rows go with the note via ON DELETE CASCADE.
	// RowsAffected is deliberately not checked: a no-op delete succeeds.
	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID}); err != nil {
		return fmt.Errorf("repo.NoteRepo.Delete: %w", err)
	}
	return nil
}

func (r *pgNoteRepo) TagsByNoteIDs(ctx context.Context, noteIDs []uuid.UUID) (map[uuid.UUID][]domain.Tag, error) {
	if len(noteIDs) == 0 {
		return map[uuid.UUID][]domain.Tag{}, nil
	}

	const q = `
		SELECT nt.note_id, t.id, t.name, t.user_id, t.created_at, t.updated_at
		FROM note_tags nt
		JOIN tags t ON t.id = nt.tag_id
		WHERE nt.note_id = ANY(@note_ids)
		ORDER BY t.name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"note_ids": noteIDs})
	if err != nil {
		return nil, fmt.Errorf("repo.NoteRepo.TagsByNoteIDs: %w", err)
	}
	defer rows.Close()

	result := map[uuid.UUID][]domain.Tag{}
	for rows.Next() {
		var (
			noteID pgtype.UUID
			tagID  pgtype.UUID
			userID pgtype.UUID
			t      domain.Tag
		)
		if err := rows.Scan(&noteID, &tagID, &t.Name, &userID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repo.NoteRepo.TagsByNoteIDs: scan: %w", err)
		}
		t.ID = uuid.UUID(tagID.Bytes)
		t.UserID = uuid.UUID(userID.Bytes)
		nid := uuid.UUID(noteID.Bytes)
		result[nid] = append(result[nid], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.NoteRepo.TagsByNoteIDs: rows: %w", err)
	}
	return result, nil
}

// replaceTagLinks inserts one note_tags row per distinct tag id.
// ON CONFLICT DO NOTHING absorbs duplicate ids supplied by the caller.
func replaceTagLinks(ctx context.Context, tx pgx.Tx, noteID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}

	const q = `
		INSERT INTO note_tags (note_id, tag_id)
		SELECT @note_id, unnest(@tag_ids::uuid[])
		ON CONFLICT (note_id, tag_id) DO NOTHING`

	if _, err := tx.Exec(ctx, q, pgx.NamedArgs{"note_id": noteID, "tag_ids": tagIDs}); err != nil {
		return fmt.Errorf("link tags: %w", err)
	}
	return nil
}

// escapeLike escapes the LIKE metacharacters so a search term is always
// treated as a literal substring.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// scanNote maps a single database row into a domain.Note.
// It handles the UUID and nullable folder_id conversions.
func scanNote(s scanner) (domain.Note, error) {
	var (
		n        domain.Note
		id       pgtype.UUID
		userID   pgtype.UUID
		folderID pgtype.UUID
	)

	err := s.Scan(&id, &n.Title, &n.Content, &userID, &folderID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Note{}, domain.ErrNotFound
		}
		return domain.Note{}, err
	}

	n.ID = uuid.UUID(id.Bytes)
	n.UserID = uuid.UUID(userID.Bytes)
	if folderID.Valid {
		fid := uuid.UUID(folderID.Bytes)
		n.FolderID = &fid
	}
	n.Tags = []domain.Tag{}
	return n, nil
}
