package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Payment modes a sale can be settled with.
const (
	PaymentCash   = "cash"
	PaymentUPI    = "upi"
	PaymentCard   = "card"
	PaymentCredit = "credit"
)

// Sale is one completed transaction. Profit is computed server-side at
// recording time and stored, so reports never recompute it against prices
// that may have changed since.
type Sale struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"user_id" json:"-"`
	Product     string    `bson:"product" json:"product"`
	Quantity    float64   `bson:"quantity" json:"quantity"`
	ActualPrice float64   `bson:"actual_price" json:"actual_price"`
	SoldPrice   float64   `bson:"sold_price" json:"sold_price"`
	Profit      float64   `bson:"profit" json:"profit"`
	PaymentMode string    `bson:"payment_mode" json:"payment_mode"`
	Customer    string    `bson:"customer,omitempty" json:"customer,omitempty"`
	SaleDate    time.Time `bson:"sale_date" json:"sale_date"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}

// Store persists sales, always scoped to one user.
type Store interface {
	Create(ctx context.Context, sale *Sale) error
	Get(ctx context.Context, userID uuid.UUID, id string) (*Sale, error)
	List(ctx context.Context, userID uuid.UUID) ([]Sale, error)
	// ListBetween returns sales whose sale date falls in [from, to).
	// Zero bounds are open.
	ListBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Sale, error)
	Update(ctx context.Context, sale *Sale) error
	Delete(ctx context.Context, userID uuid.UUID, id string) error
}
