package agent

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"solana-bounty-agent/internal/domain"
	"solana-bounty-agent/internal/gateway"
)

// Default screening thresholds, applied when the bounty does not set one.
const (
	DefaultMinVolumeUSD    = 1_000_000
	DefaultMinHolders      = 1_000
	DefaultMinHolderGrowth = 5
)

// netflowLookupLimit caps how many netflow entries feed the token lookup.
const netflowLookupLimit = 20

// topTokenCount is how many ranked tokens make the report.
const topTokenCount = 5

// generateTokenScreening screens tokens on the bounty's chain and renders
// the ranked report.
func (a *Agent) generateTokenScreening(ctx context.Context, bounty *domain.Bounty) (string, *domain.Analysis) {
	chain := bounty.Chain
	if chain == "" {
		chain = a.chain
	}

	filters := gateway.ScreenerFilters{
		MinVolumeUSD:    bounty.MinVolumeUSD,
		MinHolders:      bounty.MinHolders,
		MinHolderGrowth: bounty.MinHolderGrowth,
	}
	if filters.MinVolumeUSD == 0 {
		filters.MinVolumeUSD = DefaultMinVolumeUSD
	}
	if filters.MinHolders == 0 {
		filters.MinHolders = DefaultMinHolders
	}
	if filters.MinHolderGrowth == 0 {
		filters.MinHolderGrowth = DefaultMinHolderGrowth
	}

	a.log("info", fmt.Sprintf("Screening tokens on %s", chain))

	netflows, err := a.gateway.GetSmartMoneyNetflows(ctx, []string{chain})
	if err != nil {
		a.log("warn", fmt.Sprintf("netflows unavailable: %v", err))
		netflows = nil
	}

	screener, err := a.gateway.GetTokenScreener(ctx, chain, filters, 1, 10)
	if err != nil {
		a.log("warn", fmt.Sprintf("screener unavailable: %v", err))
		screener = nil
	}

	return buildTokenReport(chain, filters, netflows, screener)
}

// buildTokenReport ranks screened tokens and renders the report text plus
// analysis record. Deterministic for a given input set.
func buildTokenReport(chain string, filters gateway.ScreenerFilters, netflows *gateway.Netflows, screener *gateway.ScreenerResult) (string, *domain.Analysis) {
	ranked := RankTokens(filters, netflows, screener)

	top := ranked
	if len(top) > topTokenCount {
		top = top[:topTokenCount]
	}

	lines := []string{
		ruleLine,
		"TOKEN SCREENING REPORT",
		ruleLine,
		fmt.Sprintf("Chain: %s", chain),
		"",
		"TOP TOKENS:",
	}

	if len(top) > 0 {
		for i, token := range top {
			lines = append(lines,
				fmt.Sprintf("%d. %s (confidence: %s)", i+1, token.Token, formatPercent(token.Confidence)),
				fmt.Sprintf("   Inflow: $%s", formatUSD(token.Inflow, 0)),
				fmt.Sprintf("   Volume: $%s", formatUSD(token.Volume, 0)),
			)
		}
	} else {
		lines = append(lines, "  No tokens matched filters")
	}

	lines = append(lines, ruleLine)
	summary := strings.Join(lines, "\n")

	analysis := &domain.Analysis{
		Type:    domain.AnalysisTokenScreening,
		Chain:   chain,
		Summary: summary,
		Tokens:  top,
	}

	return summary, analysis
}

// RankTokens scores each screened token against the filters and matched
// smart-money inflow, then sorts descending by (confidence, inflow).
// Confidence starts at 0.5: +0.2 for volume above twice the filter,
// +0.15 for holders above twice the filter, +0.15 for growth above twice
// the filter, +0.1 for positive matched inflow; clamped and rounded to 2.
func RankTokens(filters gateway.ScreenerFilters, netflows *gateway.Netflows, screener *gateway.ScreenerResult) []domain.RankedToken {
	netflowByToken := make(map[string]gateway.Netflow)
	if netflows != nil {
		entries := netflows.Netflows
		if len(entries) > netflowLookupLimit {
			entries = entries[:netflowLookupLimit]
		}
		for _, entry := range entries {
			netflowByToken[entry.TokenAddress] = entry
		}
	}

	var ranked []domain.RankedToken
	if screener == nil {
		return ranked
	}

	for _, token := range screener.Tokens {
		address := token.TokenAddress
		if address == "" {
			address = token.Token
		}

		inflow := netflowByToken[address].NetflowUSD

		confidence := 0.5
		if token.Volume24hUSD > filters.MinVolumeUSD*2 {
			confidence += 0.2
		}
		if token.Holders > filters.MinHolders*2 {
			confidence += 0.15
		}
		if token.HolderGrowth24h > filters.MinHolderGrowth*2 {
			confidence += 0.15
		}
		if inflow > 0 {
			confidence += 0.1
		}

		name := token.Token
		if name == "" {
			name = token.TokenAddress
		}

		ranked = append(ranked, domain.RankedToken{
			Token:       name,
			Inflow:      round2(inflow),
			Confidence:  round2(clamp01(confidence)),
			Volume:      token.Volume24hUSD,
			Holders:     token.Holders,
			Growth:      token.HolderGrowth24h,
			PriceChange: token.PriceChange24h,
		})
	}

	// Stable sort: equal (confidence, inflow) keys keep screener order.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		return ranked[i].Inflow > ranked[j].Inflow
	})

	return ranked
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
