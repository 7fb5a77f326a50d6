package memory

import (
	"context"
	"sort"
	"sync"

	"solana-bounty-agent/internal/domain"
	"solana-bounty-agent/internal/storage"
)

// AttestationStore is an in-memory implementation of storage.AttestationStore.
type AttestationStore struct {
	mu   sync.RWMutex
	data map[uint64]*domain.Attestation
}

// NewAttestationStore creates a new in-memory attestation store.
func NewAttestationStore() *AttestationStore {
	return &AttestationStore{
		data: make(map[uint64]*domain.Attestation),
	}
}

// Verify interface compliance at compile time.
var _ storage.AttestationStore = (*AttestationStore)(nil)

// Insert adds a new attestation. Returns ErrDuplicateKey if solution_id exists.
func (s *AttestationStore) Insert(_ context.Context, a *domain.Attestation) error {
	if a == nil || a.SolutionID == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.SolutionID]; exists {
		return storage.ErrDuplicateKey
	}

	attestationCopy := *a
	s.data[a.SolutionID] = &attestationCopy
	return nil
}

// GetBySolutionID retrieves an attestation. Returns ErrNotFound if not exists.
func (s *AttestationStore) GetBySolutionID(_ context.Context, solutionID uint64) (*domain.Attestation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[solutionID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	attestationCopy := *a
	return &attestationCopy, nil
}

// GetByBountyID retrieves all attestations for a bounty, ordered by created_at ASC.
func (s *AttestationStore) GetByBountyID(_ context.Context, bountyID uint64) ([]*domain.Attestation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Attestation
	for _, a := range s.data {
		if a.BountyID == bountyID {
			attestationCopy := *a
			result = append(result, &attestationCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt < result[j].CreatedAt
	})

	return result, nil
}

// GetRecent retrieves the most recent attestations, newest first.
func (s *AttestationStore) GetRecent(_ context.Context, limit int) ([]*domain.Attestation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Attestation, 0, len(s.data))
	for _, a := range s.data {
		attestationCopy := *a
		result = append(result, &attestationCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt > result[j].CreatedAt
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
