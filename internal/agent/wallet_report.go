package agent

import (
	"context"
	"fmt"
	"strings"

	"solana-bounty-agent/internal/domain"
	"solana-bounty-agent/internal/gateway"
)

// NoWalletAddress is the sentinel solution returned when no wallet address
// resolves from the bounty, reason result or description. It is a normal
// result, not an error.
const NoWalletAddress = "No wallet address found"

// smartMoneyThreshold is the score at or above which a wallet is reported
// as smart money.
const smartMoneyThreshold = 0.5

// walletSnapshot holds one cycle's worth of gateway responses for a
// wallet. Any field may be nil; the report degrades accordingly.
type walletSnapshot struct {
	balance *gateway.Balance
	txs     *gateway.Transactions
	pnl     *gateway.PnL
	summary *gateway.PnLSummary
	labels  *gateway.Labels
}

// generateWalletIntelligence analyzes a wallet and renders the report.
// The wallet address resolves from the bounty field, then the reason
// result, then extraction from the description.
func (a *Agent) generateWalletIntelligence(ctx context.Context, bounty *domain.Bounty, reason *domain.ReasonResult) (string, *domain.Analysis) {
	walletAddress := bounty.WalletAddress
	if walletAddress == "" && reason != nil {
		walletAddress = reason.Wallet
	}
	if walletAddress == "" {
		walletAddress = ExtractWalletAddress(bounty.Description)
	}

	chain := bounty.Chain
	if chain == "" {
		chain = a.chain
	}

	if walletAddress == "" {
		return NoWalletAddress, nil
	}

	a.log("info", fmt.Sprintf("Analyzing wallet %s on %s", walletAddress, chain))

	snap := a.fetchWalletSnapshot(ctx, walletAddress, chain)
	return buildWalletReport(walletAddress, chain, snap)
}

// fetchWalletSnapshot queries the five wallet endpoints sequentially.
// Each failure is logged and degrades to a nil payload.
func (a *Agent) fetchWalletSnapshot(ctx context.Context, address, chain string) walletSnapshot {
	var snap walletSnapshot
	var err error

	if snap.balance, err = a.gateway.GetCurrentBalance(ctx, address, chain); err != nil {
		a.log("warn", fmt.Sprintf("balance unavailable: %v", err))
	}
	if snap.txs, err = a.gateway.GetTransactions(ctx, address, chain); err != nil {
		a.log("warn", fmt.Sprintf("transactions unavailable: %v", err))
	}
	if snap.pnl, err = a.gateway.GetPnL(ctx, address, chain); err != nil {
		a.log("warn", fmt.Sprintf("pnl unavailable: %v", err))
	}
	if snap.summary, err = a.gateway.GetPnLSummary(ctx, address, chain); err != nil {
		a.log("warn", fmt.Sprintf("pnl summary unavailable: %v", err))
	}
	if snap.labels, err = a.gateway.GetLabels(ctx, address, chain); err != nil {
		a.log("warn", fmt.Sprintf("labels unavailable: %v", err))
	}

	return snap
}

// buildWalletReport reduces a snapshot to the report text and analysis
// record. Deterministic: same snapshot, same bytes.
func buildWalletReport(walletAddress, chain string, snap walletSnapshot) (string, *domain.Analysis) {
	hasPnL := snap.pnl != nil && snap.pnl.PnLPercentage != nil
	hasSummary := snap.summary != nil && snap.summary.WinRate != nil
	hasLabels := snap.labels != nil && len(snap.labels.Labels) > 0
	hasTxs := snap.txs != nil && len(snap.txs.Transactions) > 0

	quality := domain.DataQuality{
		HasBalance:      snap.balance != nil && snap.balance.TotalUSDValue != nil,
		HasPnL:          hasPnL || hasSummary,
		HasLabels:       hasLabels,
		HasTransactions: hasTxs,
	}

	smartScore := SmartMoneyScore(snap.labels, snap.summary, snap.pnl)
	isSmartMoney := smartScore >= smartMoneyThreshold
	riskScore := RiskScore(snap.balance, snap.txs, snap.pnl)
	confidence := ConfidenceScore(quality)

	totalUSD := 0.0
	if quality.HasBalance {
		totalUSD = *snap.balance.TotalUSDValue
	}

	pnl30d := 0.0
	if hasPnL {
		pnl30d = *snap.pnl.PnLPercentage
	}

	activity := activityPattern(snap.labels, snap.txs)

	verdict := "NO"
	if isSmartMoney {
		verdict = "YES"
	}

	lines := []string{
		ruleLine,
		"WALLET INTELLIGENCE REPORT",
		ruleLine,
		fmt.Sprintf("Wallet: %s", walletAddress),
		fmt.Sprintf("Chain: %s", chain),
		"",
		"ANALYSIS:",
		fmt.Sprintf("  Smart Money: %s (confidence: %s)", verdict, formatPercent(confidence)),
		fmt.Sprintf("  Risk Score: %.2f", riskScore),
		fmt.Sprintf("  PnL (30d): %+.1f%%", pnl30d),
		fmt.Sprintf("  Activity: %s", activity),
		"",
		"METRICS:",
		fmt.Sprintf("  Balance: $%s", formatUSD(totalUSD, 2)),
		fmt.Sprintf("  Smart Score: %.2f", smartScore),
	}

	if hasSummary {
		lines = append(lines, fmt.Sprintf("  Win Rate: %.1f%%", *snap.summary.WinRate*100))
	}

	lines = append(lines, ruleLine)
	summary := strings.Join(lines, "\n")

	analysis := &domain.Analysis{
		Type:         domain.AnalysisWalletIntelligence,
		Wallet:       walletAddress,
		Chain:        chain,
		IsSmartMoney: isSmartMoney,
		Confidence:   confidence,
		RiskScore:    riskScore,
		Summary:      summary,
	}

	return summary, analysis
}

// activityPattern derives a human-readable activity description.
// Label names dominate; transaction volume is the fallback signal.
func activityPattern(labels *gateway.Labels, txs *gateway.Transactions) string {
	if labels != nil && len(labels.Labels) > 0 {
		names := make([]string, 0, 3)
		for i, label := range labels.Labels {
			if i >= 3 {
				break
			}
			names = append(names, label.Label)
		}
		if joined := strings.Join(names, ", "); joined != "" {
			return joined
		}
		return "Standard"
	}

	if txs != nil && len(txs.Transactions) > 0 {
		switch count := len(txs.Transactions); {
		case count > 100:
			return "High-frequency trader"
		case count > 20:
			return "Active trader"
		default:
			return "Low activity"
		}
	}

	return "Unknown"
}
