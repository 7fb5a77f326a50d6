// Package memory provides in-memory store implementations used in tests
// and when the agent runs without external databases.
package memory

import (
	"context"
	"sort"
	"sync"

	"solana-bounty-agent/internal/domain"
	"solana-bounty-agent/internal/storage"
)

// BountyStore is an in-memory implementation of storage.BountyStore.
type BountyStore struct {
	mu   sync.RWMutex
	data map[uint64]*domain.Bounty
}

// NewBountyStore creates a new in-memory bounty store.
func NewBountyStore() *BountyStore {
	return &BountyStore{
		data: make(map[uint64]*domain.Bounty),
	}
}

// Verify interface compliance at compile time.
var _ storage.BountyStore = (*BountyStore)(nil)

// Upsert inserts or replaces a bounty by ID.
func (s *BountyStore) Upsert(_ context.Context, b *domain.Bounty) error {
	if b == nil || b.ID == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to prevent external mutation
	bountyCopy := *b
	s.data[b.ID] = &bountyCopy
	return nil
}

// GetByID retrieves a bounty by its ID. Returns ErrNotFound if not exists.
func (s *BountyStore) GetByID(_ context.Context, id uint64) (*domain.Bounty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	bountyCopy := *b
	return &bountyCopy, nil
}

// GetOpen retrieves all bounties currently marked open, ordered by ID ASC.
func (s *BountyStore) GetOpen(_ context.Context) ([]*domain.Bounty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Bounty
	for _, b := range s.data {
		if b.Status.IsOpen() {
			bountyCopy := *b
			result = append(result, &bountyCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// GetAll retrieves all cached bounties, ordered by ID ASC.
func (s *BountyStore) GetAll(_ context.Context) ([]*domain.Bounty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Bounty, 0, len(s.data))
	for _, b := range s.data {
		bountyCopy := *b
		result = append(result, &bountyCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}
