package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Input is the caller-supplied part of a stock line.
type Input struct {
	Product   string  `json:"product" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"gte=0"`
	Unit      string  `json:"unit" validate:"required"`
	CostPrice float64 `json:"cost_price" validate:"gte=0"`
}

// Service owns stock lines for the per-user inventory.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService wires a service over the given store.
func NewService(store Store) *Service {
	if store == nil {
		panic("inventory: store is required")
	}
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Create adds a stock line for the user.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input Input) (*Stock, error) {
	stock := &Stock{
		ID:        uuid.NewString(),
		UserID:    userID.String(),
		Product:   input.Product,
		Quantity:  input.Quantity,
		Unit:      input.Unit,
		CostPrice: input.CostPrice,
		Timestamp: s.now(),
	}
	if err := s.store.Create(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// Get returns one of the user's stock lines.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, id string) (*Stock, error) {
	return s.store.Get(ctx, userID, id)
}

// List returns the user's stock lines, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Stock, error) {
	return s.store.List(ctx, userID)
}

// Update replaces the caller-supplied fields of an existing line.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, id string, input Input) (*Stock, error) {
	stock, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	stock.Product = input.Product
	stock.Quantity = input.Quantity
	stock.Unit = input.Unit
	stock.CostPrice = input.CostPrice
	if err := s.store.Update(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// Delete removes one of the user's stock lines.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	return s.store.Delete(ctx, userID, id)
}
