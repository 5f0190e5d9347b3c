package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaanhq/dukaan/modules/entitlement"
)

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	registered, err := env.svc.Register(t.Context(), "owner@shop.example", "s3cret-pass", "Shop Owner")
	require.NoError(t, err)

	var captured entitlement.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = entitlement.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	protected := env.svc.RequireAuth(next)

	t.Run("valid token reaches the handler with identity in context", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+registered.Tokens.AccessToken)
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, registered.Account.ID, captured.UserID)
		assert.Equal(t, "owner@shop.example", captured.Email)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
