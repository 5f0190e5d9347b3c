package entitlement

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store defines entitlement record persistence. Each user has exactly one
// record, so the user ID serves as the primary key.
type Store interface {
	// Get retrieves a record by user ID.
	// Returns ErrRecordNotFound if no record exists.
	Get(ctx context.Context, userID uuid.UUID) (*Record, error)

	// Create inserts a record if none exists for the user. The write is a
	// single atomic document set; when a record is already present it is
	// left untouched, making concurrent provisioning a benign race.
	Create(ctx context.Context, record *Record) error

	// Update replaces the mutable fields of an existing record.
	Update(ctx context.Context, record *Record) error

	// SetMigrated flips the migrated flag to true. The flag never reverts.
	SetMigrated(ctx context.Context, userID uuid.UUID) error

	// SetProviderCustomerID persists the resolved billing customer ID so
	// checkout retries reuse it.
	SetProviderCustomerID(ctx context.Context, userID uuid.UUID, customerID string) error

	// AppendPayment records a successful billing event.
	AppendPayment(ctx context.Context, payment *Payment) error

	// ListPayments returns a user's billing history, newest first.
	ListPayments(ctx context.Context, userID uuid.UUID) ([]Payment, error)

	// ListLapsed returns records whose access window has passed but whose
	// status has not been demoted yet: trials past their trial end and
	// active records past their period end.
	ListLapsed(ctx context.Context, now time.Time) ([]Record, error)
}
