// Package contract reads and prepares state for the on-chain bounty
// program: open-bounty discovery via getProgramAccounts, reputation
// lookup, and solution attestation records.
package contract

import (
	"crypto/sha256"
)

// DefaultProgramID is the deployed bounty program.
const DefaultProgramID = "DUYYaLDvkWfFYKB8HshseMi6f5X9ShxaydsfrJLrkGMM"

// Account discriminators prefix every program account: the first 8 bytes
// of sha256("account:<Name>").
var (
	bountyDiscriminator     = accountDiscriminator("Bounty")
	reputationDiscriminator = accountDiscriminator("Reputation")
)

func accountDiscriminator(name string) []byte {
	hash := sha256.Sum256([]byte("account:" + name))
	return hash[:8]
}

// On-chain bounty status enum values.
const (
	statusOpen uint8 = iota
	statusSubmitted
	statusSettled
)
