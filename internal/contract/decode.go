package contract

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"

	"solana-bounty-agent/internal/domain"
)

// borsh field readers. All integers are little-endian; strings are a u32
// length prefix followed by UTF-8 bytes; Option<T> is a 0/1 tag byte.

type reader struct {
	data []byte
	pos  int
}

func (r *reader) remaining() int { return len(r.data) - r.pos }

func (r *reader) bytes(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, fmt.Errorf("truncated account data: need %d bytes, have %d", n, r.remaining())
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) u8() (uint8, error) {
	b, err := r.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) str() (string, error) {
	b, err := r.bytes(4)
	if err != nil {
		return "", err
	}
	n := binary.LittleEndian.Uint32(b)
	if uint32(r.remaining()) < n {
		return "", fmt.Errorf("truncated string: need %d bytes, have %d", n, r.remaining())
	}
	s, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(s), nil
}

func (r *reader) pubkey() (string, error) {
	b, err := r.bytes(32)
	if err != nil {
		return "", err
	}
	return base58.Encode(b), nil
}

// optionHash reads Option<[32]u8>; returns nil when absent.
func (r *reader) optionHash() ([]byte, error) {
	tag, err := r.u8()
	if err != nil {
		return nil, err
	}
	if tag == 0 {
		return nil, nil
	}
	return r.bytes(32)
}

// DecodeBounty decodes a Bounty account.
//
// Layout: discriminator[8] | id u64 | description string |
// reward u64 | solution_hash Option<[32]u8> | status u8 |
// creator [32]u8 | bump u8.
func DecodeBounty(data []byte) (*domain.Bounty, error) {
	if len(data) < 8 || !bytes.Equal(data[:8], bountyDiscriminator) {
		return nil, fmt.Errorf("not a bounty account")
	}

	r := &reader{data: data, pos: 8}

	id, err := r.u64()
	if err != nil {
		return nil, fmt.Errorf("bounty id: %w", err)
	}
	description, err := r.str()
	if err != nil {
		return nil, fmt.Errorf("bounty description: %w", err)
	}
	reward, err := r.u64()
	if err != nil {
		return nil, fmt.Errorf("bounty reward: %w", err)
	}
	if _, err := r.optionHash(); err != nil {
		return nil, fmt.Errorf("bounty solution hash: %w", err)
	}
	status, err := r.u8()
	if err != nil {
		return nil, fmt.Errorf("bounty status: %w", err)
	}
	creator, err := r.pubkey()
	if err != nil {
		return nil, fmt.Errorf("bounty creator: %w", err)
	}

	return &domain.Bounty{
		ID:          id,
		Description: description,
		Reward:      reward,
		Status:      bountyStatus(status),
		Creator:     creator,
	}, nil
}

func bountyStatus(raw uint8) domain.BountyStatus {
	switch raw {
	case statusOpen:
		return domain.StatusOpen
	case statusSubmitted:
		return domain.StatusSubmitted
	case statusSettled:
		return domain.StatusSettled
	default:
		return domain.BountyStatus(fmt.Sprintf("unknown(%d)", raw))
	}
}

// DecodeReputation decodes a Reputation account.
//
// Layout: discriminator[8] | agent [32]u8 | score u64 |
// successful_bounties u64 | failed_bounties u64 | total_earned u64 |
// bump u8.
func DecodeReputation(data []byte) (*domain.Reputation, error) {
	if len(data) < 8 || !bytes.Equal(data[:8], reputationDiscriminator) {
		return nil, fmt.Errorf("not a reputation account")
	}

	r := &reader{data: data, pos: 8}

	agent, err := r.pubkey()
	if err != nil {
		return nil, fmt.Errorf("reputation agent: %w", err)
	}
	score, err := r.u64()
	if err != nil {
		return nil, fmt.Errorf("reputation score: %w", err)
	}
	successful, err := r.u64()
	if err != nil {
		return nil, fmt.Errorf("reputation successful: %w", err)
	}
	failed, err := r.u64()
	if err != nil {
		return nil, fmt.Errorf("reputation failed: %w", err)
	}
	earned, err := r.u64()
	if err != nil {
		return nil, fmt.Errorf("reputation earned: %w", err)
	}

	return &domain.Reputation{
		Agent:              agent,
		Score:              score,
		SuccessfulBounties: successful,
		FailedBounties:     failed,
		TotalEarned:        earned,
	}, nil
}
