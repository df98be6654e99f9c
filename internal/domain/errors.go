package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist under the requesting user. A resource owned by a
// different user is deliberately indistinguishable from a missing one, so a
// caller can never probe for another user's ids.
// Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrInvalidID is returned when a caller-supplied identifier is not a valid
// UUID. Detected before any store access. Handlers map this to HTTP 400.
var ErrInvalidID = errors.New("invalid id")

// ErrInvalidReference is returned when a folder or tag reference on a note
// does not resolve to an entity owned by the same user.
// Handlers map this to HTTP 400.
var ErrInvalidReference = errors.New("invalid reference")

// ErrMissingField is returned when a required field (folder/tag name, note
// title) is absent or empty. Handlers map this to HTTP 400.
var ErrMissingField = errors.New("missing field")

// ErrDuplicate is returned when an insert or update violates a uniqueness
// constraint — a (name, userId) collision or a taken username. Services
// translate it into an entity-specific conflict message.
// Handlers map this to HTTP 400.
var ErrDuplicate = errors.New("duplicate key")

// ErrCascade is returned when a folder or tag delete fails partway through
// its reference cleanup. The primary delete and the cleanup commit together,
// so callers never observe a deleted entity with dangling references.
var ErrCascade = errors.New("cascade failure")

// ErrUnauthorized is returned when credentials or a bearer token cannot be
// verified. Handlers map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrValidation is returned by the user registration path when a field
// fails format rules (length, whitespace, type).
// Handlers map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")
