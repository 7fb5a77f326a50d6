package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-bounty-agent/internal/domain"
)

func TestAnalysisStore_InsertAndGetByWallet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAnalysisStore(conn)
	ctx := context.Background()

	a := &domain.Analysis{
		Type:         domain.AnalysisWalletIntelligence,
		Wallet:       "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
		Chain:        "solana",
		IsSmartMoney: true,
		Confidence:   0.85,
		RiskScore:    0.4,
		Summary:      "High-confidence smart money wallet",
		CreatedAt:    1704067200000,
	}
	require.NoError(t, store.Insert(ctx, a))

	got, err := store.GetByWallet(ctx, a.Wallet, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.AnalysisWalletIntelligence, got[0].Type)
	assert.True(t, got[0].IsSmartMoney)
	assert.InDelta(t, 0.85, got[0].Confidence, 1e-9)
	assert.Equal(t, a.CreatedAt, got[0].CreatedAt)
}

func TestAnalysisStore_TokensRoundTrip(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAnalysisStore(conn)
	ctx := context.Background()

	a := &domain.Analysis{
		Type:  domain.AnalysisTokenScreening,
		Chain: "solana",
		Tokens: []domain.RankedToken{
			{Token: "BONK", Inflow: 125000.50, Confidence: 0.95, Volume: 2_000_000, Holders: 15000},
			{Token: "WIF", Inflow: 80000, Confidence: 0.7},
		},
		CreatedAt: 1704067200000,
	}
	require.NoError(t, store.Insert(ctx, a))

	got, err := store.GetRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Tokens, 2)
	assert.Equal(t, "BONK", got[0].Tokens[0].Token)
	assert.InDelta(t, 125000.50, got[0].Tokens[0].Inflow, 1e-9)
	assert.Equal(t, int64(15000), got[0].Tokens[0].Holders)
}

func TestAnalysisStore_GetRecentOrderAndLimit(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAnalysisStore(conn)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, store.Insert(ctx, &domain.Analysis{
			Type:      domain.AnalysisWalletIntelligence,
			Wallet:    "w",
			Chain:     "solana",
			CreatedAt: i * 1000,
		}))
	}

	got, err := store.GetRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(5000), got[0].CreatedAt)
	assert.Equal(t, int64(3000), got[2].CreatedAt)
}
