package domain

import "strings"

// BountyStatus is the lifecycle state of a bounty account.
// Mirrors the on-chain enum: Open | Submitted | Settled.
type BountyStatus string

const (
	StatusOpen      BountyStatus = "open"
	StatusSubmitted BountyStatus = "submitted"
	StatusSettled   BountyStatus = "settled"
)

// String returns the string representation of BountyStatus.
func (s BountyStatus) String() string {
	return string(s)
}

// IsOpen reports whether the status equals "open" case-insensitively.
// Discovery sources are not required to normalize casing.
func (s BountyStatus) IsOpen() bool {
	return strings.EqualFold(string(s), string(StatusOpen))
}

// Bounty represents a discovered bounty task with a reward.
// Immutable once discovered within a cycle, except for WalletAddress
// which the dispatcher attaches when extracted from the description.
type Bounty struct {
	ID          uint64       `json:"id"`
	Description string       `json:"description"`
	Reward      uint64       `json:"reward"` // lamports (smallest currency unit)
	Status      BountyStatus `json:"status"`
	Type        string       `json:"type,omitempty"`  // declared bounty type, may be empty
	Chain       string       `json:"chain,omitempty"` // defaults to "solana" when empty
	Skills      []string     `json:"skills,omitempty"`
	Creator     string       `json:"creator,omitempty"` // base58 creator pubkey

	// WalletAddress is derived from the description by address extraction.
	WalletAddress string `json:"wallet_address,omitempty"`

	// Screening thresholds. Zero means "not set" and the generator
	// substitutes its documented default; bounties cannot request a
	// literal zero threshold.
	MinVolumeUSD    float64 `json:"min_volume_usd,omitempty"`
	MinHolders      int64   `json:"min_holders,omitempty"`
	MinHolderGrowth float64 `json:"min_holder_growth,omitempty"`
}

// BountyType classifies which solution generator handles a bounty.
type BountyType string

const (
	TypeWalletIntelligence BountyType = "wallet_intelligence"
	TypeTokenScreening     BountyType = "token_screening"
)

// ReasonResult is advisory metadata from the reasoning service.
// Any field may be absent; absence is never fatal.
type ReasonResult struct {
	Reasoning string   `json:"reasoning,omitempty"`
	Needs     []string `json:"needs,omitempty"`
	Plan      string   `json:"plan,omitempty"`
	Wallet    string   `json:"wallet,omitempty"`
}
