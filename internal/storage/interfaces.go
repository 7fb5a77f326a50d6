// Package storage defines the persistence interfaces for discovered
// bounties, produced analyses and attestation records.
package storage

import (
	"context"

	"solana-bounty-agent/internal/domain"
)

// BountyStore caches bounties seen during discovery. Bounty state changes
// on-chain (open, submitted, settled), so writes are upserts.
type BountyStore interface {
	// Upsert inserts or replaces a bounty by ID.
	Upsert(ctx context.Context, b *domain.Bounty) error

	// GetByID retrieves a bounty by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id uint64) (*domain.Bounty, error)

	// GetOpen retrieves all bounties currently marked open, ordered by ID ASC.
	GetOpen(ctx context.Context) ([]*domain.Bounty, error)

	// GetAll retrieves all cached bounties, ordered by ID ASC.
	GetAll(ctx context.Context) ([]*domain.Bounty, error)
}

// AttestationStore records prepared attestations and submissions.
// Append-only: a solution ID is attested once.
type AttestationStore interface {
	// Insert adds a new attestation. Returns ErrDuplicateKey if solution_id exists.
	Insert(ctx context.Context, a *domain.Attestation) error

	// GetBySolutionID retrieves an attestation. Returns ErrNotFound if not exists.
	GetBySolutionID(ctx context.Context, solutionID uint64) (*domain.Attestation, error)

	// GetByBountyID retrieves all attestations for a bounty, ordered by created_at ASC.
	GetByBountyID(ctx context.Context, bountyID uint64) ([]*domain.Attestation, error)

	// GetRecent retrieves the most recent attestations, newest first.
	GetRecent(ctx context.Context, limit int) ([]*domain.Attestation, error)
}

// AnalysisStore keeps the history of produced analyses.
type AnalysisStore interface {
	// Insert adds an analysis record.
	Insert(ctx context.Context, a *domain.Analysis) error

	// GetByWallet retrieves analyses for a wallet, newest first.
	GetByWallet(ctx context.Context, wallet string, limit int) ([]*domain.Analysis, error)

	// GetRecent retrieves the most recent analyses, newest first.
	GetRecent(ctx context.Context, limit int) ([]*domain.Analysis, error)
}
