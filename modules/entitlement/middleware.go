package entitlement

import (
	"net/http"
	"time"

	"github.com/dukaanhq/dukaan/pkg/responder"
)

// RequireActive gates business-data routes on a live entitlement. Lapsed or
// missing records get 402 with a machine-readable code so clients can show
// the upgrade flow. Billing and auth routes must not be wrapped in this, or
// lapsed users could never subscribe again.
func RequireActive(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				responder.Error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			record, err := store.Get(r.Context(), identity.UserID)
			if err != nil {
				responder.Error(w, http.StatusPaymentRequired, "subscription_required", "no entitlement record")
				return
			}
			if !record.IsActiveAt(time.Now().UTC()) {
				responder.Error(w, http.StatusPaymentRequired, "subscription_expired", "subscription required to access business data")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
