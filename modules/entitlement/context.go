package entitlement

import (
	"context"
	"net/http"

	"github.com/dukaanhq/dukaan/pkg/responder"
)

type contextKey struct{}

// ContextWithIdentity returns a context carrying the authenticated identity.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

// IdentityFromContext extracts the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(Identity)
	return identity, ok
}

// RequireIdentity extracts the authenticated identity or writes a 401.
// The second return is false when the response has already been written.
func RequireIdentity(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		responder.Error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
	}
	return identity, ok
}
