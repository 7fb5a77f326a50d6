package agent

import (
	"strings"

	"solana-bounty-agent/internal/domain"
	"solana-bounty-agent/internal/gateway"
)

// smartMoneyMarkers are label substrings that indicate a smart-money wallet.
var smartMoneyMarkers = []string{"smart", "whale", "influencer"}

// SmartMoneyScore computes the additive smart-money score in [0,1].
// Each marker label contributes 0.3 scaled by its attribution confidence;
// win rate and PnL percentage contribute tiered bonuses. Absent inputs
// contribute nothing.
func SmartMoneyScore(labels *gateway.Labels, summary *gateway.PnLSummary, pnl *gateway.PnL) float64 {
	score := 0.0

	if labels != nil {
		for _, label := range labels.Labels {
			name := strings.ToLower(label.Label)
			for _, marker := range smartMoneyMarkers {
				if strings.Contains(name, marker) {
					score += 0.3 * label.Confidence
					break
				}
			}
		}
	}

	if summary != nil && summary.WinRate != nil {
		switch winRate := *summary.WinRate; {
		case winRate > 0.6:
			score += 0.3
		case winRate > 0.5:
			score += 0.2
		}
	}

	if pnl != nil && pnl.PnLPercentage != nil {
		switch pct := *pnl.PnLPercentage; {
		case pct > 100:
			score += 0.2
		case pct > 50:
			score += 0.15
		case pct > 0:
			score += 0.1
		}
	}

	return clamp01(score)
}

// RiskScore computes the risk score starting from a 0.5 base, clamped to
// [0,1]. Absent payloads contribute nothing: a wallet with no data at all
// scores exactly the 0.5 base.
func RiskScore(balance *gateway.Balance, txs *gateway.Transactions, pnl *gateway.PnL) float64 {
	risk := 0.5

	if balance != nil && balance.TotalUSDValue != nil {
		if totalUSD := *balance.TotalUSDValue; totalUSD < 1000 {
			risk += 0.2
		} else if totalUSD > 100000 {
			risk -= 0.1
		}
	}

	if txs != nil {
		recent := len(txs.Transactions)
		if recent > 10 {
			recent = 10
		}
		if recent < 5 {
			risk += 0.1
		}
	}

	if pnl != nil && pnl.PnLPercentage != nil {
		if pct := *pnl.PnLPercentage; pct < -50 {
			risk += 0.2
		} else if pct < 0 {
			risk += 0.1
		}
	}

	return clamp01(risk)
}

// ConfidenceScore computes analysis confidence from data availability,
// starting at 0.5 and clamped to 1.0.
func ConfidenceScore(quality domain.DataQuality) float64 {
	confidence := 0.5
	if quality.HasBalance {
		confidence += 0.15
	}
	if quality.HasPnL {
		confidence += 0.15
	}
	if quality.HasLabels {
		confidence += 0.1
	}
	if quality.HasTransactions {
		confidence += 0.1
	}
	return clamp01(confidence)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
