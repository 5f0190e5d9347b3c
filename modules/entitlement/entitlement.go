package entitlement

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the subscription state of a user's entitlement record.
type Status string

const (
	StatusTrial     Status = "trial"
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// transition is a directed edge in the status graph.
type transition struct {
	from Status
	to   Status
}

// validTransitions defines all allowed status changes. Statuses never move
// backwards to trial; re-subscription after a lapse goes straight to active.
var validTransitions = map[transition]bool{
	{StatusTrial, StatusActive}:     true, // trial converted to paid
	{StatusTrial, StatusExpired}:    true, // trial lapsed without conversion
	{StatusActive, StatusActive}:    true, // renewal / fresh activation
	{StatusActive, StatusExpired}:   true, // billing period lapsed
	{StatusActive, StatusCancelled}: true, // out-of-band cancellation
	{StatusExpired, StatusActive}:   true, // re-subscription
	{StatusCancelled, StatusActive}: true, // re-subscription
}

// CanTransition reports whether a status change is allowed.
func CanTransition(from, to Status) bool {
	return validTransitions[transition{from, to}]
}

// Record is the per-user entitlement document. Each user owns exactly one
// record, keyed by their account ID; it is created at first authentication and
// mutated only by the billing lifecycle and the legacy-data migrator.
type Record struct {
	UserID                 uuid.UUID  `bson:"_id" json:"user_id"`
	Email                  string     `bson:"email" json:"email"`
	DisplayName            string     `bson:"display_name" json:"display_name"`
	PhotoURL               string     `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Status                 Status     `bson:"subscription_status" json:"subscription_status"`
	TrialEndsAt            time.Time  `bson:"trial_ends_at" json:"trial_ends_at"`
	CurrentPeriodStart     *time.Time `bson:"current_period_start,omitempty" json:"current_period_start,omitempty"`
	CurrentPeriodEnd       *time.Time `bson:"current_period_end,omitempty" json:"current_period_end,omitempty"`
	CancelAtPeriodEnd      bool       `bson:"cancel_at_period_end" json:"cancel_at_period_end"`
	ProviderCustomerID     string     `bson:"provider_customer_id,omitempty" json:"provider_customer_id,omitempty"`
	ProviderSubscriptionID string     `bson:"provider_subscription_id,omitempty" json:"provider_subscription_id,omitempty"`
	Migrated               bool       `bson:"migrated" json:"migrated"`
	CreatedAt              time.Time  `bson:"created_at" json:"created_at"`
}

// IsActiveAt reports whether the record grants access at the given time.
//
// An active status is trusted literally: demoting stale records is the
// reconciler's responsibility, not the evaluator's. Trial access is bounded by
// the trial window; expired and cancelled records never grant access.
func (r *Record) IsActiveAt(now time.Time) bool {
	switch r.Status {
	case StatusActive:
		return true
	case StatusTrial:
		return !now.After(r.TrialEndsAt)
	default:
		return false
	}
}

// DaysRemainingAt returns the number of whole days of access left at the given
// time, rounding partial days up and clamping at zero. Trial records count
// toward the trial end; anything else with a billing period counts toward the
// period end.
func (r *Record) DaysRemainingAt(now time.Time) int {
	var until time.Time
	switch {
	case r.Status == StatusTrial:
		until = r.TrialEndsAt
	case r.CurrentPeriodEnd != nil:
		until = *r.CurrentPeriodEnd
	default:
		return 0
	}

	remaining := until.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// Activate applies a successful payment: the record becomes active for a fresh
// billing period and any pending cancellation flag is cleared. The provider
// subscription ID is recorded on first activation and must not change on
// renewals.
func (r *Record) Activate(providerSubscriptionID string, now time.Time, period time.Duration) error {
	if !CanTransition(r.Status, StatusActive) {
		return ErrInvalidTransition
	}
	if r.ProviderSubscriptionID != "" && providerSubscriptionID != "" && r.ProviderSubscriptionID != providerSubscriptionID {
		return ErrSubscriptionMismatch
	}

	end := now.Add(period)
	r.Status = StatusActive
	if providerSubscriptionID != "" {
		r.ProviderSubscriptionID = providerSubscriptionID
	}
	r.CurrentPeriodStart = &now
	r.CurrentPeriodEnd = &end
	r.CancelAtPeriodEnd = false
	return nil
}

// MarkCancelling flags the record for cancellation at the end of the current
// billing period. The status stays active and the period end is untouched; it
// becomes the hard stop.
func (r *Record) MarkCancelling() error {
	if r.Status != StatusActive {
		return ErrNotActive
	}
	if r.ProviderSubscriptionID == "" {
		return ErrNoProviderSubscription
	}
	r.CancelAtPeriodEnd = true
	return nil
}

// Expire demotes a lapsed record. Only trial and active records can expire.
func (r *Record) Expire() error {
	if !CanTransition(r.Status, StatusExpired) {
		return ErrInvalidTransition
	}
	r.Status = StatusExpired
	return nil
}

// Lapsed reports whether the record's access window has passed and the status
// no longer reflects reality. Used by the reconciler to pick records to
// demote.
func (r *Record) Lapsed(now time.Time) bool {
	switch r.Status {
	case StatusTrial:
		return now.After(r.TrialEndsAt)
	case StatusActive:
		return r.CurrentPeriodEnd != nil && now.After(*r.CurrentPeriodEnd)
	default:
		return false
	}
}
