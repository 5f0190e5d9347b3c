package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Stock is one inventory line: a product and how much of it is on hand.
// Quantities are fractional to cover loose goods sold by weight or volume.
type Stock struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"-"`
	Product   string    `bson:"product" json:"product"`
	Quantity  float64   `bson:"quantity" json:"quantity"`
	Unit      string    `bson:"unit" json:"unit"`
	CostPrice float64   `bson:"cost_price" json:"cost_price"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Value is what the line is worth at cost.
func (s *Stock) Value() float64 {
	return s.Quantity * s.CostPrice
}

// Store persists stock lines, always scoped to one user.
type Store interface {
	Create(ctx context.Context, stock *Stock) error
	Get(ctx context.Context, userID uuid.UUID, id string) (*Stock, error)
	// GetByProduct matches on the product name, case-insensitive.
	// Returns ErrStockNotFound when the user has no such line.
	GetByProduct(ctx context.Context, userID uuid.UUID, product string) (*Stock, error)
	List(ctx context.Context, userID uuid.UUID) ([]Stock, error)
	Update(ctx context.Context, stock *Stock) error
	Delete(ctx context.Context, userID uuid.UUID, id string) error

	// AdjustQuantity changes the on-hand quantity by delta atomically.
	// A negative delta that would take the quantity below zero fails with
	// ErrInsufficientStock and leaves the line untouched.
	AdjustQuantity(ctx context.Context, userID uuid.UUID, id string, delta float64) error
}
