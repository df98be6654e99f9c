package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mwhited/notekeeper/internal/domain"
)

// notePayload is the request body for note create/update.
//
// FolderID and Tags are pointers so "field omitted" is distinguishable from
// an explicit value. Tags stays raw until parseTags so a non-array value can
// be rejected with a shape error instead of a generic decode failure.
type notePayload struct {
	Title    string           `json:"title"`
	Content  string           `json:"content"`
	FolderID *string          `json:"folderId"`
	Tags     *json.RawMessage `json:"tags"`
}

// noteResponse is the serialized representation of a note, tags resolved.
// FolderID serializes as null when the note is not in a folder.
type noteResponse struct {
	ID        uuid.UUID     `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	UserID    uuid.UUID     `json:"userId"`
	FolderID  *uuid.UUID    `json:"folderId"`
	Tags      []tagResponse `json:"tags"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// listNotes handles GET /notes?searchTerm&folderId&tagId.
// Unparseable folderId/tagId filter values cannot match anything, so they
// are answered with an empty list rather than an error.
func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	filter := domain.NoteFilter{SearchTerm: r.URL.Query().Get("searchTerm")}

	if v := r.URL.Query().Get("folderId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeJSON(w, http.StatusOK, []noteResponse{})
			return
		}
		filter.FolderID = &id
	}
	if v := r.URL.Query().Get("tagId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeJSON(w, http.StatusOK, []noteResponse{})
			return
		}
		filter.TagID = &id
	}

	notes, err := s.notes.List(r.Context(), identity(r.Context()).UserID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]noteResponse, len(notes))
	for i, n := range notes {
		resp[i] = noteToResponse(n)
	}
	writeJSON(w, http.StatusOK, resp)
}

// getNote handles GET /notes/{id}.
func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	note, err := s.notes.Get(r.Context(), id, identity(r.Context()).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, noteToResponse(note))
}

// createNote handles POST /notes.
func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	change, err := decodeNotePayload(r, false)
	if err != nil {
		writeError(w, r, err)
		return
	}

	note, err := s.notes.Create(r.Context(), identity(r.Context()).UserID, change)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/notes/%s", note.ID))
	writeJSON(w, http.StatusCreated, noteToResponse(note))
}

// updateNote handles PUT /notes/{id}.
func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	change, err := decodeNotePayload(r, true)
	if err != nil {
		writeError(w, r, err)
		return
	}

	note, err := s.notes.Update(r.Context(), id, identity(r.Context()).UserID, change)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, noteToResponse(note))
}

// deleteNote handles DELETE /notes/{id}.
// Always 204 for a well-formed id; deleting twice succeeds twice.
func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.notes.Delete(r.Context(), id, identity(r.Context()).UserID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeNotePayload decodes and normalizes a note body into a NoteChange.
//
// A falsy folderId (omitted, null, or "") collapses to "no folder". The tag
// id shape and format are checked here, before any validator or store read,
// so a malformed list fails fast. On create an omitted tag list means an
// empty set; on update it means "leave the tag set untouched" (nil).
func decodeNotePayload(r *http.Request, partialTags bool) (domain.NoteChange, error) {
	var payload notePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return domain.NoteChange{}, fmt.Errorf("%w: Invalid request body", domain.ErrInvalidID)
	}

	change := domain.NoteChange{Title: payload.Title, Content: payload.Content}

	if payload.FolderID != nil && *payload.FolderID != "" {
		id, err := uuid.Parse(*payload.FolderID)
		if err != nil {
			return domain.NoteChange{}, fmt.Errorf("%w: The `folderId` is invalid", domain.ErrInvalidReference)
		}
		change.FolderID = &id
	}

	switch {
	case payload.Tags == nil && partialTags:
		// Update with tags omitted: existing tag set stays as-is.
		change.TagIDs = nil
	case payload.Tags == nil:
		change.TagIDs = []uuid.UUID{}
	default:
		var raw []string
		if err := json.Unmarshal(*payload.Tags, &raw); err != nil {
			return domain.NoteChange{}, fmt.Errorf("%w: The `tags` must be an array", domain.ErrInvalidReference)
		}
		ids := make([]uuid.UUID, len(raw))
		for i, v := range raw {
			id, err := uuid.Parse(v)
			if err != nil {
				return domain.NoteChange{}, fmt.Errorf("%w: The tags `id` is invalid", domain.ErrInvalidReference)
			}
			ids[i] = id
		}
		change.TagIDs = ids
	}

	return change, nil
}

// noteToResponse converts a domain.Note to its API representation.
func noteToResponse(n domain.Note) noteResponse {
	tags := make([]tagResponse, len(n.Tags))
	for i, t := range n.Tags {
		tags[i] = tagToResponse(t)
	}
	return noteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		UserID:    n.UserID,
		FolderID:  n.FolderID,
		Tags:      tags,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
