package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mwhited/notekeeper/internal/domain"
)

// tagResponse is the serialized representation of a tag, both standalone
// and embedded in a note's resolved tag list.
type tagResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// listTags handles GET /tags.
func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.tags.List(r.Context(), identity(r.Context()).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]tagResponse, len(tags))
	for i, t := range tags {
		resp[i] = tagToResponse(t)
	}
	writeJSON(w, http.StatusOK, resp)
}

// getTag handles GET /tags/{id}.
func (s *Server) getTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tag, err := s.tags.Get(r.Context(), id, identity(r.Context()).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tagToResponse(tag))
}

// createTag handles POST /tags.
func (s *Server) createTag(w http.ResponseWriter, r *http.Request) {
	var payload namePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	tag, err := s.tags.Create(r.Context(), identity(r.Context()).UserID, payload.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tags/%s", tag.ID))
	writeJSON(w, http.StatusCreated, tagToResponse(tag))
}

// updateTag handles PUT /tags/{id}.
func (s *Server) updateTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload namePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	tag, err := s.tags.Update(r.Context(), id, identity(r.Context()).UserID, payload.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tagToResponse(tag))
}

// deleteTag handles DELETE /tags/{id}.
// Always 204 for a well-formed id.
func (s *Server) deleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.tags.Delete(r.Context(), id, identity(r.Context()).UserID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// tagToResponse converts a domain.Tag to its API representation.
func tagToResponse(t domain.Tag) tagResponse {
	return tagResponse{
		ID:        t.ID,
		Name:      t.Name,
		UserID:    t.UserID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
