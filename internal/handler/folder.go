package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mwhited/notekeeper/internal/domain"
)

// namePayload is the request body for folder and tag create/update.
type namePayload struct {
	Name string `json:"name"`
}

// folderResponse is the serialized representation of a folder.
type folderResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// listFolders handles GET /folders.
func (s *Server) listFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.folders.List(r.Context(), identity(r.Context()).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]folderResponse, len(folders))
	for i, f := range folders {
		resp[i] = folderToResponse(f)
	}
	writeJSON(w, http.StatusOK, resp)
}

// getFolder handles GET /folders/{id}.
func (s *Server) getFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	folder, err := s.folders.Get(r.Context(), id, identity(r.Context()).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folderToResponse(folder))
}

// createFolder handles POST /folders.
func (s *Server) createFolder(w http.ResponseWriter, r *http.Request) {
	var payload namePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	folder, err := s.folders.Create(r.Context(), identity(r.Context()).UserID, payload.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/folders/%s", folder.ID))
	writeJSON(w, http.StatusCreated, folderToResponse(folder))
}

// updateFolder handles PUT /folders/{id}.
func (s *Server) updateFolder(w http.ResponseWriter, r *http.Request) {
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

	folder, err := s.folders.Update(r.Context(), id, identity(r.Context()).UserID, payload.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folderToResponse(folder))
}

// deleteFolder handles DELETE /folders/{id}.
// Always 204 for a well-formed id: the delete is idempotent and a no-op
// delete is not an error.
func (s *Server) deleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.folders.Delete(r.Context(), id, identity(r.Context()).UserID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// folderToResponse converts a domain.Folder to its API representation.
func folderToResponse(f domain.Folder) folderResponse {
	return folderResponse{
		ID:        f.ID,
		Name:      f.Name,
		UserID:    f.UserID,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}
