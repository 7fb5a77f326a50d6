package memory

import (
	"context"
	"sort"
	"sync"

	"solana-bounty-agent/internal/domain"
	"solana-bounty-agent/internal/storage"
)

// AnalysisStore is an in-memory implementation of storage.AnalysisStore.
type AnalysisStore struct {
	mu   sync.RWMutex
	data []*domain.Analysis
}

// NewAnalysisStore creates a new in-memory analysis store.
func NewAnalysisStore() *AnalysisStore {
	return &AnalysisStore{}
}

// Verify interface compliance at compile time.
var _ storage.AnalysisStore = (*AnalysisStore)(nil)

// Insert adds an analysis record.
func (s *AnalysisStore) Insert(_ context.Context, a *domain.Analysis) error {
	if a == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	analysisCopy := *a
	analysisCopy.Tokens = append([]domain.RankedToken(nil), a.Tokens...)
	s.data = append(s.data, &analysisCopy)
	return nil
}

// GetByWallet retrieves analyses for a wallet, newest first.
func (s *AnalysisStore) GetByWallet(_ context.Context, wallet string, limit int) ([]*domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Analysis
	for _, a := range s.data {
		if a.Wallet == wallet {
			analysisCopy := *a
			result = append(result, &analysisCopy)
		}
	}

	return newestFirst(result, limit), nil
}

// GetRecent retrieves the most recent analyses, newest first.
func (s *AnalysisStore) GetRecent(_ context.Context, limit int) ([]*domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Analysis, 0, len(s.data))
	for _, a := range s.data {
		analysisCopy := *a
		result = append(result, &analysisCopy)
	}

	return newestFirst(result, limit), nil
}

func newestFirst(result []*domain.Analysis, limit int) []*domain.Analysis {
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt > result[j].CreatedAt
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
