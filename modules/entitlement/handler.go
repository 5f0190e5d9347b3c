package entitlement

import (
	"net/http"
	"time"

	"github.com/dukaanhq/dukaan/pkg/responder"
)

// Summary is the client-facing view of a user's entitlement.
type Summary struct {
	Status             Status     `json:"status"`
	Active             bool       `json:"active"`
	DaysRemaining      int        `json:"days_remaining"`
	TrialEndsAt        time.Time  `json:"trial_ends_at"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
	Email              string     `json:"email"`
	DisplayName        string     `json:"display_name,omitempty"`
	PhotoURL           string     `json:"photo_url,omitempty"`
}

// NewSummary projects a record for the client at the given instant.
func NewSummary(record *Record, now time.Time) Summary {
	return Summary{
		Status:             record.Status,
		Active:             record.IsActiveAt(now),
		DaysRemaining:      record.DaysRemainingAt(now),
		TrialEndsAt:        record.TrialEndsAt,
		CurrentPeriodStart: record.CurrentPeriodStart,
		CurrentPeriodEnd:   record.CurrentPeriodEnd,
		CancelAtPeriodEnd:  record.CancelAtPeriodEnd,
		Email:              record.Email,
		DisplayName:        record.DisplayName,
		PhotoURL:           record.PhotoURL,
	}
}

// MeHandler serves the authenticated user's entitlement summary.
func MeHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := RequireIdentity(w, r)
		if !ok {
			return
		}

		record, err := store.Get(r.Context(), identity.UserID)
		if err != nil {
			responder.Error(w, http.StatusNotFound, "record_not_found", "no entitlement record for user")
			return
		}
		responder.JSON(w, http.StatusOK, NewSummary(record, time.Now().UTC()))
	}
}
