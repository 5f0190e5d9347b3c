package expense

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	expenses map[string]*Expense
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{expenses: map[string]*Expense{}}
}

func (s *MemoryStore) Create(_ context.Context, expense *Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *expense
	s.expenses[expense.ID] = &clone
	return nil
}

func (s *MemoryStore) Get(_ context.Context, userID uuid.UUID, id string) (*Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	expense, ok := s.expenses[id]
	if !ok || expense.UserID != userID.String() {
		return nil, ErrExpenseNotFound
	}
	clone := *expense
	return &clone, nil
}

func (s *MemoryStore) List(ctx context.Context, userID uuid.UUID) ([]Expense, error) {
	return s.ListBetween(ctx, userID, time.Time{}, time.Time{})
}

func (s *MemoryStore) ListBetween(_ context.Context, userID uuid.UUID, from, to time.Time) ([]Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var expenses []Expense
	for _, expense := range s.expenses {
		if expense.UserID != userID.String() {
			continue
		}
		if !from.IsZero() && expense.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && !expense.Timestamp.Before(to) {
			continue
		}
		expenses = append(expenses, *expense)
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].Timestamp.After(expenses[j].Timestamp) })
	return expenses, nil
}

func (s *MemoryStore) Update(_ context.Context, expense *Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.expenses[expense.ID]
	if !ok || existing.UserID != expense.UserID {
		return ErrExpenseNotFound
	}
	clone := *expense
	s.expenses[expense.ID] = &clone
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID uuid.UUID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	expense, ok := s.expenses[id]
	if !ok || expense.UserID != userID.String() {
		return ErrExpenseNotFound
	}
	delete(s.expenses, id)
	return nil
}
