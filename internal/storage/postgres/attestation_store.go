package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-bounty-agent/internal/domain"
	"solana-bounty-agent/internal/storage"
)

// AttestationStore implements storage.AttestationStore using PostgreSQL.
type AttestationStore struct {
	pool *Pool
}

// NewAttestationStore creates a new AttestationStore.
func NewAttestationStore(pool *Pool) *AttestationStore {
	return &AttestationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AttestationStore = (*AttestationStore)(nil)

const attestationColumns = `solution_id, bounty_id, solution_hash, solution, created_at`

// Insert adds a new attestation. Returns ErrDuplicateKey if solution_id exists.
func (s *AttestationStore) Insert(ctx context.Context, a *domain.Attestation) error {
	if a == nil || a.SolutionID == 0 {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO attestations (
			solution_id, bounty_id, solution_hash, solution, created_at
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		int64(a.SolutionID),
		int64(a.BountyID),
		a.SolutionHash,
		a.Solution,
		a.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert attestation: %w", err)
	}
	return nil
}

// GetBySolutionID retrieves an attestation. Returns ErrNotFound if not exists.
func (s *AttestationStore) GetBySolutionID(ctx context.Context, solutionID uint64) (*domain.Attestation, error) {
	query := `SELECT ` + attestationColumns + ` FROM attestations WHERE solution_id = $1`

	row := s.pool.QueryRow(ctx, query, int64(solutionID))
	a, err := scanAttestation(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get attestation by solution id: %w", err)
	}
	return a, nil
}

// GetByBountyID retrieves all attestations for a bounty, ordered by created_at ASC.
func (s *AttestationStore) GetByBountyID(ctx context.Context, bountyID uint64) ([]*domain.Attestation, error) {
	query := `
		SELECT ` + attestationColumns + `
		FROM attestations
		WHERE bounty_id = $1
		ORDER BY created_at ASC, solution_id ASC
	`

	rows, err := s.pool.Query(ctx, query, int64(bountyID))
	if err != nil {
		return nil, fmt.Errorf("get attestations by bounty: %w", err)
	}
	defer rows.Close()

	return scanAttestations(rows)
}

// GetRecent retrieves the most recent attestations, newest first.
func (s *AttestationStore) GetRecent(ctx context.Context, limit int) ([]*domain.Attestation, error) {
	query := `
		SELECT ` + attestationColumns + `
		FROM attestations
		ORDER BY created_at DESC, solution_id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent attestations: %w", err)
	}
	defer rows.Close()

	return scanAttestations(rows)
}

// scanAttestation scans a single row into an Attestation.
func scanAttestation(row pgx.Row) (*domain.Attestation, error) {
	var a domain.Attestation
	var solutionID, bountyID int64

	err := row.Scan(
		&solutionID,
		&bountyID,
		&a.SolutionHash,
		&a.Solution,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.SolutionID = uint64(solutionID)
	a.BountyID = uint64(bountyID)
	return &a, nil
}

// scanAttestations scans multiple rows into a slice of Attestation.
func scanAttestations(rows pgx.Rows) ([]*domain.Attestation, error) {
	var attestations []*domain.Attestation

	for rows.Next() {
		a, err := scanAttestation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attestation row: %w", err)
		}
		attestations = append(attestations, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attestation rows: %w", err)
	}

	return attestations, nil
}
