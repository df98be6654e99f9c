// Package auth is the identity collaborator for the Notekeeper API: it
// issues and verifies bearer tokens and resolves each request to a verified
// user identity. Everything downstream receives that identity as an explicit
// value — no handler or service ever inspects a token itself.
package auth

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the verified identity of an authenticated request.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// ctxKey is the private context key type for the request identity.
type ctxKey struct{}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the identity placed in the context by the
// bearer middleware. The second return is false for unauthenticated
// requests — handlers behind the middleware can rely on it being true.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
