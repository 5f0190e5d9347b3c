package expense

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Categories is the fixed set an expense must belong to.
var Categories = []string{
	"Rent",
	"Salary",
	"Utilities",
	"Transport",
	"Marketing",
	"Office Supplies",
	"Maintenance",
	"Insurance",
	"Taxes",
	"Other",
}

// ValidCategory reports whether the category is one of the fixed set.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Expense is one outgoing cost.
type Expense struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"user_id" json:"-"`
	Category    string    `bson:"category" json:"category"`
	Amount      float64   `bson:"amount" json:"amount"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}

// Store persists expenses, always scoped to one user.
type Store interface {
	Create(ctx context.Context, expense *Expense) error
	Get(ctx context.Context, userID uuid.UUID, id string) (*Expense, error)
	List(ctx context.Context, userID uuid.UUID) ([]Expense, error)
	// ListBetween returns expenses whose timestamp falls in [from, to).
	// Zero bounds are open.
	ListBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Expense, error)
	Update(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, userID uuid.UUID, id string) error
}
