package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Input is the caller-supplied part of an expense.
type Input struct {
	Category    string  `json:"category" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description"`
}

// Service owns the user's expense records.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService wires a service over the given store.
func NewService(store Store) *Service {
	if store == nil {
		panic("expense: store is required")
	}
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Create records an expense. The category must be one of the fixed set.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input Input) (*Expense, error) {
	if !ValidCategory(input.Category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, input.Category)
	}

	expense := &Expense{
		ID:          uuid.NewString(),
		UserID:      userID.String(),
		Category:    input.Category,
		Amount:      input.Amount,
		Description: input.Description,
		Timestamp:   s.now(),
	}
	if err := s.store.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// Get returns one of the user's expenses.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, id string) (*Expense, error) {
	return s.store.Get(ctx, userID, id)
}

// List returns the user's expenses, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Expense, error) {
	return s.store.List(ctx, userID)
}

// Update rewrites an expense's caller-supplied fields.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, id string, input Input) (*Expense, error) {
	if !ValidCategory(input.Category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, input.Category)
	}

	expense, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	expense.Category = input.Category
	expense.Amount = input.Amount
	expense.Description = input.Description
	if err := s.store.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// Delete removes one of the user's expenses.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	return s.store.Delete(ctx, userID, id)
}
