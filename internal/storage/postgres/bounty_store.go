package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-bounty-agent/internal/domain"
	"solana-bounty-agent/internal/storage"
)

// BountyStore implements storage.BountyStore using PostgreSQL.
type BountyStore struct {
	pool *Pool
}

// NewBountyStore creates a new BountyStore.
func NewBountyStore(pool *Pool) *BountyStore {
	return &BountyStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BountyStore = (*BountyStore)(nil)

const bountyColumns = `id, description, reward, status, bounty_type, chain, creator, wallet_address`

// Upsert inserts or replaces a bounty by ID.
func (s *BountyStore) Upsert(ctx context.Context, b *domain.Bounty) error {
	if b == nil || b.ID == 0 {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO bounties (
			id, description, reward, status, bounty_type, chain, creator, wallet_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			description = EXCLUDED.description,
			reward = EXCLUDED.reward,
			status = EXCLUDED.status,
			bounty_type = EXCLUDED.bounty_type,
			chain = EXCLUDED.chain,
			creator = EXCLUDED.creator,
			wallet_address = EXCLUDED.wallet_address
	`

	_, err := s.pool.Exec(ctx, query,
		int64(b.ID),
		b.Description,
		int64(b.Reward),
		string(b.Status),
		b.Type,
		b.Chain,
		b.Creator,
		b.WalletAddress,
	)
	if err != nil {
		return fmt.Errorf("upsert bounty: %w", err)
	}
	return nil
}

// GetByID retrieves a bounty by its ID. Returns ErrNotFound if not exists.
func (s *BountyStore) GetByID(ctx context.Context, id uint64) (*domain.Bounty, error) {
	query := `SELECT ` + bountyColumns + ` FROM bounties WHERE id = $1`

	row := s.pool.QueryRow(ctx, query, int64(id))
	b, err := scanBounty(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get bounty by id: %w", err)
	}
	return b, nil
}

// GetOpen retrieves all bounties currently marked open, ordered by ID ASC.
func (s *BountyStore) GetOpen(ctx context.Context) ([]*domain.Bounty, error) {
	query := `SELECT ` + bountyColumns + ` FROM bounties WHERE status = $1 ORDER BY id ASC`

	rows, err := s.pool.Query(ctx, query, string(domain.StatusOpen))
	if err != nil {
		return nil, fmt.Errorf("get open bounties: %w", err)
	}
	defer rows.Close()

	return scanBounties(rows)
}

// GetAll retrieves all cached bounties, ordered by ID ASC.
func (s *BountyStore) GetAll(ctx context.Context) ([]*domain.Bounty, error) {
	query := `SELECT ` + bountyColumns + ` FROM bounties ORDER BY id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all bounties: %w", err)
	}
	defer rows.Close()

	return scanBounties(rows)
}

// scanBounty scans a single row into a Bounty.
func scanBounty(row pgx.Row) (*domain.Bounty, error) {
	var b domain.Bounty
	var id, reward int64
	var status string

	err := row.Scan(
		&id,
		&b.Description,
		&reward,
		&status,
		&b.Type,
		&b.Chain,
		&b.Creator,
		&b.WalletAddress,
	)
	if err != nil {
		return nil, err
	}

	b.ID = uint64(id)
	b.Reward = uint64(reward)
	b.Status = domain.BountyStatus(status)
	return &b, nil
}

// scanBounties scans multiple rows into a slice of Bounty.
func scanBounties(rows pgx.Rows) ([]*domain.Bounty, error) {
	var bounties []*domain.Bounty

	for rows.Next() {
		b, err := scanBounty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bounty row: %w", err)
		}
		bounties = append(bounties, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bounty rows: %w", err)
	}

	return bounties, nil
}
