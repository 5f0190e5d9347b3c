package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dukaanhq/dukaan/modules/entitlement"
	"github.com/dukaanhq/dukaan/pkg/responder"
)

// RequireAuth validates the Bearer access token and puts the authenticated
// identity into the request context. Requests without a valid token get 401.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			responder.Error(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		claims, err := s.ParseAccessToken(token)
		if err != nil {
			responder.Error(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			responder.Error(w, http.StatusUnauthorized, "unauthorized", "invalid token subject")
			return
		}

		identity := entitlement.Identity{
			UserID:      userID,
			Email:       claims.Email,
			DisplayName: claims.DisplayName,
			PhotoURL:    claims.PhotoURL,
		}
		next.ServeHTTP(w, r.WithContext(entitlement.ContextWithIdentity(r.Context(), identity)))
	})
}
