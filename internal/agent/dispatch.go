package agent

import (
	"context"
	"strings"

	"solana-bounty-agent/internal/domain"
)

// Keyword sets for classifying untyped bounties by description.
var (
	walletKeywords = []string{"wallet", "analyze wallet", "wallet intelligence"}
	tokenKeywords  = []string{"token", "screening", "find tokens"}
)

// Classify determines the bounty type. Priority: the declared type field,
// then description keywords (wallet before token), then "" for
// unclassified. Address extraction is handled by GenerateSolution, which
// may still force wallet intelligence.
func Classify(bounty *domain.Bounty) domain.BountyType {
	if declared := strings.ToLower(bounty.Type); declared != "" {
		return domain.BountyType(declared)
	}

	description := strings.ToLower(bounty.Description)
	if containsAny(description, walletKeywords) {
		return domain.TypeWalletIntelligence
	}
	if containsAny(description, tokenKeywords) {
		return domain.TypeTokenScreening
	}

	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

// GenerateSolution classifies the bounty and routes it to a generator.
// Unclassifiable bounties with an extractable address are forced to
// wallet intelligence (the address is attached to the bounty); anything
// else falls back to the generic echo solution. The returned analysis is
// nil for the echo path and the no-address sentinel.
func (a *Agent) GenerateSolution(ctx context.Context, bounty *domain.Bounty, reason *domain.ReasonResult) (string, *domain.Analysis) {
	switch Classify(bounty) {
	case domain.TypeWalletIntelligence:
		return a.generateWalletIntelligence(ctx, bounty, reason)
	case domain.TypeTokenScreening:
		return a.generateTokenScreening(ctx, bounty)
	}

	if addr := ExtractWalletAddress(bounty.Description); addr != "" {
		bounty.WalletAddress = addr
		return a.generateWalletIntelligence(ctx, bounty, reason)
	}

	return "Solution for bounty: " + bounty.Description, nil
}
