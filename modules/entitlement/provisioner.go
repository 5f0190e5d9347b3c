package entitlement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// TrialPeriodDays is the length of the free trial granted to every new user.
const TrialPeriodDays = 15

// Identity carries the authenticated identity a record is provisioned for.
// Core operations receive identity explicitly; there is no ambient current
// user.
type Identity struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
	PhotoURL    string
}

// Provisioner creates entitlement records for first-time users.
type Provisioner struct {
	store Store
	now   func() time.Time
}

// NewProvisioner creates a Provisioner backed by the given store.
func NewProvisioner(store Store) *Provisioner {
	if store == nil {
		panic("entitlement: store is required")
	}
	return &Provisioner{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Provision returns the user's entitlement record, creating one with a fresh
// trial window on first authentication. The operation is an idempotent upsert
// keyed by user ID: calling it again returns the existing record unchanged,
// trial window included.
//
// New records are marked migrated — a user who signs up after per-user
// partitioning has no legacy data to move.
func (p *Provisioner) Provision(ctx context.Context, identity Identity) (*Record, error) {
	if identity.UserID == uuid.Nil {
		return nil, ErrMissingUserID
	}

	record, err := p.store.Get(ctx, identity.UserID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	now := p.now()
	record = &Record{
		UserID:      identity.UserID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		PhotoURL:    identity.PhotoURL,
		Status:      StatusTrial,
		TrialEndsAt: now.AddDate(0, 0, TrialPeriodDays),
		Migrated:    true,
		CreatedAt:   now,
	}
	if err := p.store.Create(ctx, record); err != nil {
		return nil, err
	}

	// Create never clobbers an existing document, so a concurrent provision
	// for the same user resolves to whichever record landed first.
	return p.store.Get(ctx, identity.UserID)
}
