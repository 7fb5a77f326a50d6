package agent

import "regexp"

// base58Pattern matches a base58-alphabet run of plausible Solana address
// length. The alphabet excludes 0, O, I and l.
var base58Pattern = regexp.MustCompile(`[1-9A-HJ-NP-Za-km-z]{32,44}`)

// ExtractWalletAddress scans free text for the first base58 token of
// length 32-44. This is a heuristic, not validation: no checksum or
// curve-point check is performed. Returns "" when nothing matches.
func ExtractWalletAddress(text string) string {
	return base58Pattern.FindString(text)
}
