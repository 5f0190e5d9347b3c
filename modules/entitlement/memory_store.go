package entitlement

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[uuid.UUID]*Record
	payments []Payment
}

// NewMemoryStore creates an empty in-memory entitlement store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[uuid.UUID]*Record)}
}

func (s *MemoryStore) Get(ctx context.Context, userID uuid.UUID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[userID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	clone := *record
	return &clone, nil
}

func (s *MemoryStore) Create(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.UserID]; ok {
		return nil // matches the $setOnInsert upsert: existing record wins
	}
	clone := *record
	s.records[record.UserID] = &clone
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[record.UserID]
	if !ok {
		return ErrRecordNotFound
	}
	existing.Status = record.Status
	existing.CancelAtPeriodEnd = record.CancelAtPeriodEnd
	if record.ProviderSubscriptionID != "" {
		existing.ProviderSubscriptionID = record.ProviderSubscriptionID
	}
	if record.CurrentPeriodStart != nil {
		start := *record.CurrentPeriodStart
		existing.CurrentPeriodStart = &start
	}
	if record.CurrentPeriodEnd != nil {
		end := *record.CurrentPeriodEnd
		existing.CurrentPeriodEnd = &end
	}
	return nil
}

func (s *MemoryStore) SetMigrated(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[userID]
	if !ok {
		return ErrRecordNotFound
	}
	record.Migrated = true
	return nil
}

func (s *MemoryStore) SetProviderCustomerID(ctx context.Context, userID uuid.UUID, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[userID]
	if !ok {
		return ErrRecordNotFound
	}
	record.ProviderCustomerID = customerID
	return nil
}

func (s *MemoryStore) AppendPayment(ctx context.Context, payment *Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.payments = append(s.payments, *payment)
	return nil
}

func (s *MemoryStore) ListPayments(ctx context.Context, userID uuid.UUID) ([]Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Payment
	for i := len(s.payments) - 1; i >= 0; i-- {
		if s.payments[i].UserID == userID {
			out = append(out, s.payments[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) ListLapsed(ctx context.Context, now time.Time) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, record := range s.records {
		if record.Lapsed(now) {
			out = append(out, *record)
		}
	}
	return out, nil
}
