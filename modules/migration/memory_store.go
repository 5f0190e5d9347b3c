package migration

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type ownedKey struct {
	userID uuid.UUID
	ds     Dataset
}

// MemoryStore is an in-memory DataStore for tests.
type MemoryStore struct {
	mu     sync.RWMutex
	legacy map[Dataset][]Document
	owned  map[ownedKey]map[any]Document

	// FailAfter aborts CopyOwned once this many documents have been
	// written, simulating a mid-migration crash. Zero disables it.
	FailAfter int
	written   int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		legacy: map[Dataset][]Document{},
		owned:  map[ownedKey]map[any]Document{},
	}
}

// SeedLegacy puts documents into the legacy collection for a dataset.
func (s *MemoryStore) SeedLegacy(ds Dataset, docs ...Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legacy[ds] = append(s.legacy[ds], docs...)
}

// Owned returns the user's documents for a dataset.
func (s *MemoryStore) Owned(userID uuid.UUID, ds Dataset) []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []Document
	for _, doc := range s.owned[ownedKey{userID, ds}] {
		docs = append(docs, doc)
	}
	return docs
}

func (s *MemoryStore) CountOwned(_ context.Context, userID uuid.UUID, ds Dataset) (int64, error) {
	if err := validDataset(ds); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.owned[ownedKey{userID, ds}])), nil
}

func (s *MemoryStore) ListLegacy(_ context.Context, ds Dataset) ([]Document, error) {
	if err := validDataset(ds); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]Document, len(s.legacy[ds]))
	copy(docs, s.legacy[ds])
	return docs, nil
}

func (s *MemoryStore) CopyOwned(_ context.Context, userID uuid.UUID, ds Dataset, docs []Document) error {
	if err := validDataset(ds); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ownedKey{userID, ds}
	if s.owned[key] == nil {
		s.owned[key] = map[any]Document{}
	}
	for _, doc := range docs {
		if s.FailAfter > 0 && s.written >= s.FailAfter {
			return fmt.Errorf("simulated write failure after %d documents", s.written)
		}
		s.owned[key][doc.ID] = doc
		s.written++
	}
	return nil
}
