package contract

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// pdaMarker terminates the seed material for program derived addresses.
const pdaMarker = "ProgramDerivedAddress"

// DerivePDA derives a Program Derived Address for the given seeds.
// It searches bump seeds from 255 downward for a hash that is not a valid
// ed25519 curve point, which is what makes the address unsignable.
func DerivePDA(seeds [][]byte, programID string) (string, uint8, error) {
	program, err := base58.Decode(programID)
	if err != nil {
		return "", 0, fmt.Errorf("decode program id: %w", err)
	}

	for bump := 255; bump > 0; bump-- {
		data := make([]byte, 0, 64)
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, byte(bump))
		data = append(data, program...)
		data = append(data, pdaMarker...)

		hash := sha256.Sum256(data)
		if !isOnCurve(hash[:]) {
			return base58.Encode(hash[:]), uint8(bump), nil
		}
	}

	return "", 0, fmt.Errorf("no valid bump seed found")
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

// BountyPDA derives the bounty account address for an ID.
// Seeds: "bounty" + id little-endian.
func BountyPDA(programID string, bountyID uint64) (string, error) {
	addr, _, err := DerivePDA([][]byte{[]byte("bounty"), uint64LE(bountyID)}, programID)
	return addr, err
}

// AttestationPDA derives the attestation account address for a solution ID.
// Seeds: "attestation" + solution id little-endian.
func AttestationPDA(programID string, solutionID uint64) (string, error) {
	addr, _, err := DerivePDA([][]byte{[]byte("attestation"), uint64LE(solutionID)}, programID)
	return addr, err
}

// ReputationPDA derives the reputation account address for an agent.
// Seeds: "rep" + agent pubkey bytes.
func ReputationPDA(programID, agent string) (string, error) {
	agentKey, err := base58.Decode(agent)
	if err != nil {
		return "", fmt.Errorf("decode agent address: %w", err)
	}
	addr, _, err := DerivePDA([][]byte{[]byte("rep"), agentKey}, programID)
	return addr, err
}

func uint64LE(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}
