package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// AccountStore persists credential records.
type AccountStore interface {
	// Create inserts a new account. Returns ErrEmailTaken when the email
	// is already registered.
	Create(ctx context.Context, account *Account) error

	// GetByID returns the account or ErrAccountNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// GetByEmail returns the account or ErrAccountNotFound. Lookup is
	// case-insensitive on the email.
	GetByEmail(ctx context.Context, email string) (*Account, error)
}

// MemoryAccountStore is an in-memory AccountStore for tests.
type MemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*Account
}

// NewMemoryAccountStore creates an empty in-memory store.
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{accounts: map[uuid.UUID]*Account{}}
}

func (s *MemoryAccountStore) Create(_ context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if equalFoldEmail(existing.Email, account.Email) {
			return ErrEmailTaken
		}
	}
	clone := *account
	s.accounts[account.ID] = &clone
	return nil
}

func (s *MemoryAccountStore) GetByID(_ context.Context, id uuid.UUID) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	clone := *account
	return &clone, nil
}

func (s *MemoryAccountStore) GetByEmail(_ context.Context, email string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, account := range s.accounts {
		if equalFoldEmail(account.Email, email) {
			clone := *account
			return &clone, nil
		}
	}
	return nil, ErrAccountNotFound
}
