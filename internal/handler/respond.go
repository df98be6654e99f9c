package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mwhited/notekeeper/internal/domain"
)

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Message string `json:"message"`
}

// writeJSON serializes v with the given status. Encoding failures are logged
// rather than surfaced — by the time they can happen the status line has
// already been written.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps a service error onto the API's status vocabulary.
//
// Bad input of every flavour — malformed ids, missing fields, dangling
// references, uniqueness conflicts — is 400 with the message carried inside
// the wrapped sentinel. Registration format failures are 422. Scoped lookup
// misses are 404 with a generic body: a resource owned by another user must
// be indistinguishable from one that does not exist.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Not Found"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Message: unwrapMessage(err)})
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidReference),
		errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrDuplicate):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: unwrapMessage(err)})
	default:
		slog.ErrorContext(r.Context(), "internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Internal Server Error"})
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "missing field: Missing `title` in request body" →
// "Missing `title` in request body".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{
		domain.ErrMissingField,
		domain.ErrDuplicate,
		domain.ErrInvalidReference,
		domain.ErrInvalidID,
		domain.ErrValidation,
	} {
		prefix := sentinel.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return msg[len(prefix):]
		}
	}
	return msg
}

// badRequest rejects a request before it reaches the service layer.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Message: message})
}
