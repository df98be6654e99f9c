package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mwhited/notekeeper/internal/domain"
	"github.com/mwhited/notekeeper/internal/service"
)

type registerPayload struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Fullname *string `json:"fullname"`
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResponse never carries the password hash.
type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Fullname  string    `json:"fullname"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type tokenResponse struct {
	AuthToken string `json:"authToken"`
}

// registerUser handles POST /users.
func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			writeJSON(w, http.StatusUnprocessableEntity,
				errorResponse{Message: "Incorrect field type: expected string"})
			return
		}
		badRequest(w, "Invalid request body")
		return
	}

	user, err := s.users.Register(r.Context(), service.RegisterInput{
		Username: payload.Username,
		Password: payload.Password,
		Fullname: payload.Fullname,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/users/%s", user.ID))
	writeJSON(w, http.StatusCreated, userToResponse(user))
}

// login handles POST /login, exchanging credentials for a signed token.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	user, err := s.users.Authenticate(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AuthToken: token})
}

// refresh handles POST /refresh, issuing a fresh token for the caller.
func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetByID(r.Context(), identity(r.Context()).UserID)
	if err != nil {
		// The subject of a valid token should always resolve; a missing
		// row means the account was removed after issuance.
		writeError(w, r, domain.ErrUnauthorized)
		return
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AuthToken: token})
}

func userToResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Fullname:  u.Fullname,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
