package domain

// Attestation is a prepared solution attestation: a content hash plus
// identifier that proves a solution was produced. BountyID is zero for a
// standalone attestation (not yet bound to a bounty).
type Attestation struct {
	SolutionID   uint64 `json:"solution_id"`
	BountyID     uint64 `json:"bounty_id,omitempty"`
	SolutionHash string `json:"solution_hash"` // hex-encoded sha256
	Solution     string `json:"solution"`
	CreatedAt    int64  `json:"created_at,omitempty"` // Unix ms
}

// Reputation mirrors the on-chain per-agent reputation account.
type Reputation struct {
	Agent              string `json:"agent"`
	Score              uint64 `json:"score"`
	SuccessfulBounties uint64 `json:"successful_bounties"`
	FailedBounties     uint64 `json:"failed_bounties"`
	TotalEarned        uint64 `json:"total_earned"` // lamports
}
