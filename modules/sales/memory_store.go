package sales

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu    sync.RWMutex
	sales map[string]*Sale
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sales: map[string]*Sale{}}
}

func (s *MemoryStore) Create(_ context.Context, sale *Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *sale
	s.sales[sale.ID] = &clone
	return nil
}

func (s *MemoryStore) Get(_ context.Context, userID uuid.UUID, id string) (*Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sale, ok := s.sales[id]
	if !ok || sale.UserID != userID.String() {
		return nil, ErrSaleNotFound
	}
	clone := *sale
	return &clone, nil
}

func (s *MemoryStore) List(ctx context.Context, userID uuid.UUID) ([]Sale, error) {
	return s.ListBetween(ctx, userID, time.Time{}, time.Time{})
}

func (s *MemoryStore) ListBetween(_ context.Context, userID uuid.UUID, from, to time.Time) ([]Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sales []Sale
	for _, sale := range s.sales {
		if sale.UserID != userID.String() {
			continue
		}
		if !from.IsZero() && sale.SaleDate.Before(from) {
			continue
		}
		if !to.IsZero() && !sale.SaleDate.Before(to) {
			continue
		}
		sales = append(sales, *sale)
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].SaleDate.After(sales[j].SaleDate) })
	return sales, nil
}

func (s *MemoryStore) Update(_ context.Context, sale *Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.sales[sale.ID]
	if !ok || existing.UserID != sale.UserID {
		return ErrSaleNotFound
	}
	clone := *sale
	s.sales[sale.ID] = &clone
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID uuid.UUID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.sales[id]
	if !ok || sale.UserID != userID.String() {
		return ErrSaleNotFound
	}
	delete(s.sales, id)
	return nil
}
