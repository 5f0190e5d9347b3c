package inventory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu     sync.RWMutex
	stocks map[string]*Stock
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{stocks: map[string]*Stock{}}
}

func (s *MemoryStore) Create(_ context.Context, stock *Stock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *stock
	s.stocks[stock.ID] = &clone
	return nil
}

func (s *MemoryStore) Get(_ context.Context, userID uuid.UUID, id string) (*Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stock, ok := s.stocks[id]
	if !ok || stock.UserID != userID.String() {
		return nil, ErrStockNotFound
	}
	clone := *stock
	return &clone, nil
}

func (s *MemoryStore) GetByProduct(_ context.Context, userID uuid.UUID, product string) (*Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, stock := range s.stocks {
		if stock.UserID == userID.String() && strings.EqualFold(stock.Product, product) {
			clone := *stock
			return &clone, nil
		}
	}
	return nil, ErrStockNotFound
}

func (s *MemoryStore) List(_ context.Context, userID uuid.UUID) ([]Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stocks []Stock
	for _, stock := range s.stocks {
		if stock.UserID == userID.String() {
			stocks = append(stocks, *stock)
		}
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Timestamp.After(stocks[j].Timestamp) })
	return stocks, nil
}

func (s *MemoryStore) Update(_ context.Context, stock *Stock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.stocks[stock.ID]
	if !ok || existing.UserID != stock.UserID {
		return ErrStockNotFound
	}
	clone := *stock
	s.stocks[stock.ID] = &clone
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID uuid.UUID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stock, ok := s.stocks[id]
	if !ok || stock.UserID != userID.String() {
		return ErrStockNotFound
	}
	delete(s.stocks, id)
	return nil
}

func (s *MemoryStore) AdjustQuantity(_ context.Context, userID uuid.UUID, id string, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stock, ok := s.stocks[id]
	if !ok || stock.UserID != userID.String() {
		return ErrStockNotFound
	}
	if delta < 0 && stock.Quantity+delta < 0 {
		return ErrInsufficientStock
	}
	stock.Quantity += delta
	return nil
}
