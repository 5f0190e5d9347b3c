package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dukaanhq/dukaan/modules/inventory"
)

// Input is the caller-supplied part of a sale. Profit is never accepted
// from the client.
type Input struct {
	Product     string  `json:"product" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	ActualPrice float64 `json:"actual_price" validate:"gte=0"`
	SoldPrice   float64 `json:"sold_price" validate:"gte=0"`
	PaymentMode string  `json:"payment_mode" validate:"required,oneof=cash upi card credit"`
	Customer    string  `json:"customer"`
	SaleDate    string  `json:"sale_date" validate:"omitempty,datetime=2006-01-02"`
}

// Service records and manages sales. Recording a sale deducts the sold
// quantity from the matching stock line when the user carries one.
type Service struct {
	store  Store
	stocks inventory.Store
	now    func() time.Time
}

// NewService wires a service. The inventory store is optional; without one,
// sales never touch stock.
func NewService(store Store, stocks inventory.Store) *Service {
	if store == nil {
		panic("sales: store is required")
	}
	return &Service{store: store, stocks: stocks, now: func() time.Time { return time.Now().UTC() }}
}

// Record computes the profit, deducts stock, and persists the sale. A sale
// of more than the matching stock line holds is rejected before anything is
// written. Products the user holds no stock line for sell through without a
// deduction.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, input Input) (*Sale, error) {
	now := s.now()
	saleDate := now
	if input.SaleDate != "" {
		parsed, err := time.Parse("2006-01-02", input.SaleDate)
		if err != nil {
			return nil, fmt.Errorf("parse sale date: %w", err)
		}
		saleDate = parsed
	}

	if err := s.deductStock(ctx, userID, input.Product, input.Quantity); err != nil {
		return nil, err
	}

	sale := &Sale{
		ID:          uuid.NewString(),
		UserID:      userID.String(),
		Product:     input.Product,
		Quantity:    input.Quantity,
		ActualPrice: input.ActualPrice,
		SoldPrice:   input.SoldPrice,
		Profit:      (input.SoldPrice - input.ActualPrice) * input.Quantity,
		PaymentMode: input.PaymentMode,
		Customer:    input.Customer,
		SaleDate:    saleDate,
		Timestamp:   now,
	}
	if err := s.store.Create(ctx, sale); err != nil {
		// The deduction already happened; put it back rather than leave
		// phantom shrinkage.
		s.restoreStock(ctx, userID, input.Product, input.Quantity)
		return nil, err
	}
	return sale, nil
}

func (s *Service) deductStock(ctx context.Context, userID uuid.UUID, product string, quantity float64) error {
	if s.stocks == nil {
		return nil
	}
	stock, err := s.stocks.GetByProduct(ctx, userID, product)
	if errors.Is(err, inventory.ErrStockNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("look up stock: %w", err)
	}
	if err := s.stocks.AdjustQuantity(ctx, userID, stock.ID, -quantity); err != nil {
		return err
	}
	return nil
}

func (s *Service) restoreStock(ctx context.Context, userID uuid.UUID, product string, quantity float64) {
	if s.stocks == nil {
		return
	}
	stock, err := s.stocks.GetByProduct(ctx, userID, product)
	if err != nil {
		return
	}
	_ = s.stocks.AdjustQuantity(ctx, userID, stock.ID, quantity)
}

// Get returns one of the user's sales.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, id string) (*Sale, error) {
	return s.store.Get(ctx, userID, id)
}

// List returns the user's sales, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Sale, error) {
	return s.store.List(ctx, userID)
}

// Update rewrites a sale's caller-supplied fields and recomputes the profit.
// Stock is not readjusted; corrections to quantity are the owner's to
// reconcile in inventory.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, id string, input Input) (*Sale, error) {
	sale, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	sale.Product = input.Product
	sale.Quantity = input.Quantity
	sale.ActualPrice = input.ActualPrice
	sale.SoldPrice = input.SoldPrice
	sale.Profit = (input.SoldPrice - input.ActualPrice) * input.Quantity
	sale.PaymentMode = input.PaymentMode
	sale.Customer = input.Customer
	if input.SaleDate != "" {
		parsed, err := time.Parse("2006-01-02", input.SaleDate)
		if err != nil {
			return nil, fmt.Errorf("parse sale date: %w", err)
		}
		sale.SaleDate = parsed
	}

	if err := s.store.Update(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// Delete removes one of the user's sales.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	return s.store.Delete(ctx, userID, id)
}
