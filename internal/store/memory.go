package store

import (
	"context"
	"sync"

	"github.com/parlakisik/agent-exchange/aex-action-router/internal/model"
)

// DefaultMemoryCapacity bounds the in-memory ledger.
const DefaultMemoryCapacity = 1000

// MemoryStore is an in-memory InvocationStore for development. It keeps the
// newest records up to its capacity.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	records  []model.InvocationRecord // oldest first
	byID     map[string]int
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithCapacity(DefaultMemoryCapacity)
}

func NewMemoryStoreWithCapacity(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{
		capacity: capacity,
		byID:     make(map[string]int),
	}
}

func (s *MemoryStore) SaveInvocation(ctx context.Context, rec model.InvocationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.byID[rec.ID]; ok {
		s.records[i] = rec
		return nil
	}

	s.records = append(s.records, rec)
	if len(s.records) > s.capacity {
		s.records = s.records[len(s.records)-s.capacity:]
	}
	s.reindex()
	return nil
}

func (s *MemoryStore) GetInvocation(ctx context.Context, id string) (model.InvocationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return model.InvocationRecord{}, ErrNotFound
	}
	return s.records[i], nil
}

func (s *MemoryStore) ListInvocations(ctx context.Context, actionGroup string, limit int) ([]model.InvocationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = normalizeLimit(limit)
	out := make([]model.InvocationRecord, 0, min(limit, len(s.records)))
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		rec := s.records[i]
		if actionGroup != "" && rec.ActionGroup != actionGroup {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) reindex() {
	clear(s.byID)
	for i, rec := range s.records {
		s.byID[rec.ID] = i
	}
}
