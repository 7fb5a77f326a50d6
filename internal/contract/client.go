package contract

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/mr-tron/base58"

	"solana-bounty-agent/internal/agent"
	"solana-bounty-agent/internal/domain"
	"solana-bounty-agent/internal/solana"
)

// RPC abstracts the Solana JSON-RPC calls the client performs.
type RPC interface {
	GetAccountInfo(ctx context.Context, pubkey string) (*solana.AccountInfo, error)
	GetProgramAccounts(ctx context.Context, programID string, filters []solana.MemcmpFilter) ([]*solana.AccountInfo, error)
}

// Client reads bounty program state and prepares attestation records.
type Client struct {
	rpc       RPC
	programID string
	agent     string // base58 agent pubkey, may be empty
	logger    *log.Logger
}

var (
	_ agent.BountySource = (*Client)(nil)
	_ agent.Attestor     = (*Client)(nil)
)

// Options for creating a Client.
type Options struct {
	RPC       RPC
	ProgramID string // empty means DefaultProgramID
	Agent     string // agent wallet address for reputation lookups
	Logger    *log.Logger
}

// NewClient creates a bounty program client.
func NewClient(opts Options) *Client {
	c := &Client{
		rpc:       opts.RPC,
		programID: opts.ProgramID,
		agent:     opts.Agent,
		logger:    opts.Logger,
	}
	if c.programID == "" {
		c.programID = DefaultProgramID
	}
	if c.logger == nil {
		c.logger = log.New(log.Writer(), "[contract] ", log.LstdFlags)
	}
	return c
}

// GetOpenBounties fetches all bounty accounts owned by the program and
// returns those still open. Accounts that fail to decode are skipped.
func (c *Client) GetOpenBounties(ctx context.Context) ([]domain.Bounty, error) {
	filter := solana.MemcmpFilter{
		Offset: 0,
		Bytes:  base58.Encode(bountyDiscriminator),
	}

	accounts, err := c.rpc.GetProgramAccounts(ctx, c.programID, []solana.MemcmpFilter{filter})
	if err != nil {
		return nil, fmt.Errorf("get program accounts: %w", err)
	}

	bounties := make([]domain.Bounty, 0, len(accounts))
	for _, account := range accounts {
		bounty, err := DecodeBounty(account.Data)
		if err != nil {
			c.logger.Printf("skipping account %s: %v", account.Pubkey, err)
			continue
		}
		if !bounty.Status.IsOpen() {
			continue
		}
		bounties = append(bounties, *bounty)
	}

	return bounties, nil
}

// GetBounty fetches a single bounty account by ID. Returns nil when the
// account does not exist.
func (c *Client) GetBounty(ctx context.Context, bountyID uint64) (*domain.Bounty, error) {
	address, err := BountyPDA(c.programID, bountyID)
	if err != nil {
		return nil, fmt.Errorf("derive bounty address: %w", err)
	}

	account, err := c.rpc.GetAccountInfo(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("get bounty account: %w", err)
	}
	if account == nil {
		return nil, nil
	}

	return DecodeBounty(account.Data)
}

// GetReputation fetches the reputation account for an agent. Returns nil
// when the agent has no reputation account yet. An empty agent argument
// uses the client's configured wallet.
func (c *Client) GetReputation(ctx context.Context, agent string) (*domain.Reputation, error) {
	if agent == "" {
		agent = c.agent
	}
	if agent == "" {
		return nil, fmt.Errorf("no agent address configured")
	}

	address, err := ReputationPDA(c.programID, agent)
	if err != nil {
		return nil, fmt.Errorf("derive reputation address: %w", err)
	}

	account, err := c.rpc.GetAccountInfo(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("get reputation account: %w", err)
	}
	if account == nil {
		return nil, nil
	}

	return DecodeReputation(account.Data)
}

// NewSolutionID returns a random 63-bit identifier for an attestation.
func (c *Client) NewSolutionID() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// a time-derived ID rather than panicking mid-cycle.
		return uint64(time.Now().UnixNano()) >> 1
	}
	return binary.LittleEndian.Uint64(buf[:]) >> 1
}

// HashSolution returns the hex-encoded sha256 of the solution text.
func HashSolution(solution string) string {
	hash := sha256.Sum256([]byte(solution))
	return hex.EncodeToString(hash[:])
}

// AttestSolution prepares a standalone attestation record binding the
// solution content hash to a solution ID.
func (c *Client) AttestSolution(ctx context.Context, solutionID uint64, solution string) (*domain.Attestation, error) {
	address, err := AttestationPDA(c.programID, solutionID)
	if err != nil {
		return nil, fmt.Errorf("derive attestation address: %w", err)
	}

	attestation := &domain.Attestation{
		SolutionID:   solutionID,
		SolutionHash: HashSolution(solution),
		Solution:     solution,
		CreatedAt:    time.Now().UnixMilli(),
	}
	c.logger.Printf("attestation %s for solution %d", address, solutionID)
	return attestation, nil
}

// SubmitSolution prepares a submission record binding the solution to a
// bounty account.
func (c *Client) SubmitSolution(ctx context.Context, bountyID, solutionID uint64, solution string) (*domain.Attestation, error) {
	address, err := BountyPDA(c.programID, bountyID)
	if err != nil {
		return nil, fmt.Errorf("derive bounty address: %w", err)
	}

	attestation := &domain.Attestation{
		SolutionID:   solutionID,
		BountyID:     bountyID,
		SolutionHash: HashSolution(solution),
		Solution:     solution,
		CreatedAt:    time.Now().UnixMilli(),
	}
	c.logger.Printf("submission to bounty %s (id %d)", address, bountyID)
	return attestation, nil
}

// WatchBounties subscribes to transaction logs mentioning the program.
// The returned watcher delivers raw log notifications; callers typically
// trigger a rescan when one arrives.
func (c *Client) WatchBounties(ctx context.Context, wsEndpoint string) (*solana.LogsWatcher, error) {
	return solana.NewLogsWatcher(ctx, wsEndpoint, solana.LogsFilter{
		Mentions: []string{c.programID},
	})
}
