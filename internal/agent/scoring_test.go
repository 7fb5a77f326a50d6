package agent

import (
	"math"
	"testing"

	"solana-bounty-agent/internal/domain"
	"solana-bounty-agent/internal/gateway"
)

func almostEqual(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("score = %v, want %v", got, want)
	}
}

func TestSmartMoneyScoreEmpty(t *testing.T) {
	almostEqual(t, SmartMoneyScore(nil, nil, nil), 0)
}

func TestSmartMoneyScoreLabels(t *testing.T) {
	labels := &gateway.Labels{Labels: []gateway.Label{
		{Label: "Whale Watcher", Confidence: 1.0},
		{Label: "Smart Money", Confidence: 0.5},
		{Label: "NFT Collector", Confidence: 1.0},
	}}

	almostEqual(t, SmartMoneyScore(labels, nil, nil), 0.3+0.15)
}

func TestSmartMoneyScoreMarkerCountedOncePerLabel(t *testing.T) {
	labels := &gateway.Labels{Labels: []gateway.Label{
		{Label: "smart whale influencer", Confidence: 1.0},
	}}

	almostEqual(t, SmartMoneyScore(labels, nil, nil), 0.3)
}

func TestSmartMoneyScoreWinRateTiers(t *testing.T) {
	tests := []struct {
		winRate float64
		want    float64
	}{
		{0.61, 0.3},
		{0.55, 0.2},
		{0.5, 0},
		{0.3, 0},
	}
	for _, tt := range tests {
		summary := &gateway.PnLSummary{WinRate: fptr(tt.winRate)}
		almostEqual(t, SmartMoneyScore(nil, summary, nil), tt.want)
	}
}

func TestSmartMoneyScorePnLTiers(t *testing.T) {
	tests := []struct {
		pct  float64
		want float64
	}{
		{150, 0.2},
		{75, 0.15},
		{10, 0.1},
		{0, 0},
		{-10, 0},
	}
	for _, tt := range tests {
		pnl := &gateway.PnL{PnLPercentage: fptr(tt.pct)}
		almostEqual(t, SmartMoneyScore(nil, nil, pnl), tt.want)
	}
}

func TestSmartMoneyScoreClamped(t *testing.T) {
	labels := &gateway.Labels{Labels: []gateway.Label{
		{Label: "whale", Confidence: 1.0},
		{Label: "whale", Confidence: 1.0},
		{Label: "whale", Confidence: 1.0},
		{Label: "whale", Confidence: 1.0},
	}}

	almostEqual(t, SmartMoneyScore(labels, nil, nil), 1.0)
}

func TestRiskScoreEmpty(t *testing.T) {
	almostEqual(t, RiskScore(nil, nil, nil), 0.5)
}

func TestRiskScoreBalanceTiers(t *testing.T) {
	tests := []struct {
		usd  float64
		want float64
	}{
		{500, 0.7},
		{5000, 0.5},
		{200000, 0.4},
	}
	for _, tt := range tests {
		balance := &gateway.Balance{TotalUSDValue: fptr(tt.usd)}
		almostEqual(t, RiskScore(balance, nil, nil), tt.want)
	}
}

func TestRiskScoreBalancePresenceGates(t *testing.T) {
	// A payload without the USD field is absent data, not zero dollars.
	almostEqual(t, RiskScore(&gateway.Balance{}, nil, nil), 0.5)
}

func TestRiskScoreTransactionCount(t *testing.T) {
	makeTxs := func(n int) *gateway.Transactions {
		txs := &gateway.Transactions{}
		for i := 0; i < n; i++ {
			txs.Transactions = append(txs.Transactions, gateway.Transaction{Signature: "sig"})
		}
		return txs
	}

	almostEqual(t, RiskScore(nil, makeTxs(3), nil), 0.6)
	almostEqual(t, RiskScore(nil, makeTxs(7), nil), 0.5)
	almostEqual(t, RiskScore(nil, makeTxs(50), nil), 0.5)
}

func TestRiskScorePnLTiers(t *testing.T) {
	tests := []struct {
		pct  float64
		want float64
	}{
		{-60, 0.7},
		{-10, 0.6},
		{5, 0.5},
	}
	for _, tt := range tests {
		pnl := &gateway.PnL{PnLPercentage: fptr(tt.pct)}
		almostEqual(t, RiskScore(nil, nil, pnl), tt.want)
	}
}

func TestRiskScoreClamped(t *testing.T) {
	balance := &gateway.Balance{TotalUSDValue: fptr(100.0)}
	txs := &gateway.Transactions{Transactions: []gateway.Transaction{{Signature: "sig"}}}
	pnl := &gateway.PnL{PnLPercentage: fptr(-90.0)}

	// 0.5 + 0.2 + 0.1 + 0.2 = 1.0 exactly at the ceiling.
	almostEqual(t, RiskScore(balance, txs, pnl), 1.0)
}

func TestConfidenceScore(t *testing.T) {
	almostEqual(t, ConfidenceScore(domain.DataQuality{}), 0.5)
	almostEqual(t, ConfidenceScore(domain.DataQuality{HasBalance: true}), 0.65)
	almostEqual(t, ConfidenceScore(domain.DataQuality{
		HasBalance:      true,
		HasPnL:          true,
		HasLabels:       true,
		HasTransactions: true,
	}), 1.0)
}
