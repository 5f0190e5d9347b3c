package entitlement

import (
	"time"

	"github.com/google/uuid"
)

// Payment records a single successful billing event. Payment documents are
// append-only: they are never updated or deleted by the application.
type Payment struct {
	ID                     uuid.UUID `bson:"_id" json:"id"`
	UserID                 uuid.UUID `bson:"user_id" json:"user_id"`
	ProviderPaymentID      string    `bson:"provider_payment_id" json:"provider_payment_id"`
	ProviderSubscriptionID string    `bson:"provider_subscription_id" json:"provider_subscription_id"`
	Amount                 int64     `bson:"amount" json:"amount"` // smallest currency unit
	Currency               string    `bson:"currency" json:"currency"`
	Status                 string    `bson:"status" json:"status"`
	Timestamp              time.Time `bson:"timestamp" json:"timestamp"`
	PeriodStart            time.Time `bson:"period_start" json:"period_start"`
	PeriodEnd              time.Time `bson:"period_end" json:"period_end"`
}
