package clickhouse

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"solana-bounty-agent/internal/domain"
	"solana-bounty-agent/internal/storage"
)

// AnalysisStore implements storage.AnalysisStore using ClickHouse.
// Analyses are append-only history; ranked tokens are stored as a JSON
// column since they are read back whole, never queried by field.
type AnalysisStore struct {
	conn *Conn
}

// NewAnalysisStore creates a new AnalysisStore.
func NewAnalysisStore(conn *Conn) *AnalysisStore {
	return &AnalysisStore{conn: conn}
}

// Compile-time interface check.
var _ storage.AnalysisStore = (*AnalysisStore)(nil)

const analysisColumns = `
	analysis_type, wallet, chain, is_smart_money,
	confidence, risk_score, summary, tokens, created_at
`

// Insert adds an analysis record.
func (s *AnalysisStore) Insert(ctx context.Context, a *domain.Analysis) error {
	if a == nil {
		return storage.ErrInvalidInput
	}

	tokens, err := json.Marshal(a.Tokens)
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}

	query := `INSERT INTO analyses (` + analysisColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	err = s.conn.Exec(ctx, query,
		string(a.Type),
		a.Wallet,
		a.Chain,
		boolToUint8(a.IsSmartMoney),
		a.Confidence,
		a.RiskScore,
		a.Summary,
		string(tokens),
		uint64(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// GetByWallet retrieves analyses for a wallet, newest first.
func (s *AnalysisStore) GetByWallet(ctx context.Context, wallet string, limit int) ([]*domain.Analysis, error) {
	query := `
		SELECT ` + analysisColumns + `
		FROM analyses
		WHERE wallet = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, wallet, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query analyses by wallet: %w", err)
	}
	defer rows.Close()

	return scanAnalyses(rows)
}

// GetRecent retrieves the most recent analyses, newest first.
func (s *AnalysisStore) GetRecent(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	query := `
		SELECT ` + analysisColumns + `
		FROM analyses
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query recent analyses: %w", err)
	}
	defer rows.Close()

	return scanAnalyses(rows)
}

func normalizeLimit(limit int) uint64 {
	if limit <= 0 {
		return 1000
	}
	return uint64(limit)
}

func boolToUint8(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}

// scanAnalyses scans multiple rows.
func scanAnalyses(rows driver.Rows) ([]*domain.Analysis, error) {
	var analyses []*domain.Analysis

	for rows.Next() {
		var a domain.Analysis
		var analysisType, tokens string
		var isSmartMoney uint8
		var createdAt uint64

		err := rows.Scan(
			&analysisType,
			&a.Wallet,
			&a.Chain,
			&isSmartMoney,
			&a.Confidence,
			&a.RiskScore,
			&a.Summary,
			&tokens,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}

		a.Type = domain.AnalysisType(analysisType)
		a.IsSmartMoney = isSmartMoney != 0
		a.CreatedAt = int64(createdAt)

		if tokens != "" && tokens != "null" {
			if err := json.Unmarshal([]byte(tokens), &a.Tokens); err != nil {
				return nil, fmt.Errorf("unmarshal tokens: %w", err)
			}
		}

		analyses = append(analyses, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analysis rows: %w", err)
	}

	return analyses, nil
}
