package agent

import "solana-bounty-agent/internal/domain"

// DefaultMinReward is the minimum reward (smallest units) a bounty must
// offer to be considered.
const DefaultMinReward = 500000

// FilterBounties retains only open bounties meeting the reward threshold.
// Input order is preserved; the input slice is never mutated.
func FilterBounties(bounties []domain.Bounty, minReward uint64) []domain.Bounty {
	var filtered []domain.Bounty
	for _, b := range bounties {
		if !b.Status.IsOpen() {
			continue
		}
		if b.Reward < minReward {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered
}

// DeduplicateBounties keeps the first occurrence per ID, preserving input
// order. Entries with a zero ID are dropped.
func DeduplicateBounties(bounties []domain.Bounty) []domain.Bounty {
	seen := make(map[uint64]bool, len(bounties))
	var unique []domain.Bounty
	for _, b := range bounties {
		if b.ID == 0 || seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		unique = append(unique, b)
	}
	return unique
}

// SelectBounty returns the bounty with the maximum reward, ties broken by
// earliest position in the input. Returns nil on empty input.
func SelectBounty(bounties []domain.Bounty) *domain.Bounty {
	if len(bounties) == 0 {
		return nil
	}

	best := 0
	for i := 1; i < len(bounties); i++ {
		if bounties[i].Reward > bounties[best].Reward {
			best = i
		}
	}

	selected := bounties[best]
	return &selected
}
