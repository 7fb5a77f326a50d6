package contract

import (
	"context"
	"testing"

	"solana-bounty-agent/internal/solana"
)

type fakeRPC struct {
	accounts map[string]*solana.AccountInfo
	program  []*solana.AccountInfo
	filters  []solana.MemcmpFilter
}

func (f *fakeRPC) GetAccountInfo(ctx context.Context, pubkey string) (*solana.AccountInfo, error) {
	return f.accounts[pubkey], nil
}

func (f *fakeRPC) GetProgramAccounts(ctx context.Context, programID string, filters []solana.MemcmpFilter) ([]*solana.AccountInfo, error) {
	f.filters = filters
	return f.program, nil
}

func TestGetOpenBounties(t *testing.T) {
	rpc := &fakeRPC{
		program: []*solana.AccountInfo{
			{Pubkey: "a", Data: encodeBounty(1, "open one", 1_000_000, nil, statusOpen, [32]byte{})},
			{Pubkey: "b", Data: encodeBounty(2, "settled", 2_000_000, nil, statusSettled, [32]byte{})},
			{Pubkey: "c", Data: []byte("garbage")},
			{Pubkey: "d", Data: encodeBounty(3, "open two", 3_000_000, nil, statusOpen, [32]byte{})},
		},
	}

	client := NewClient(Options{RPC: rpc})

	bounties, err := client.GetOpenBounties(context.Background())
	if err != nil {
		t.Fatalf("GetOpenBounties: %v", err)
	}

	if len(bounties) != 2 {
		t.Fatalf("got %d bounties, want 2", len(bounties))
	}
	if bounties[0].ID != 1 || bounties[1].ID != 3 {
		t.Errorf("IDs = %d, %d", bounties[0].ID, bounties[1].ID)
	}

	if len(rpc.filters) != 1 || rpc.filters[0].Offset != 0 {
		t.Fatalf("expected one discriminator filter at offset 0, got %+v", rpc.filters)
	}
}

func TestGetReputation(t *testing.T) {
	agent := "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"

	address, err := ReputationPDA(DefaultProgramID, agent)
	if err != nil {
		t.Fatalf("ReputationPDA: %v", err)
	}

	var agentKey [32]byte
	rpc := &fakeRPC{
		accounts: map[string]*solana.AccountInfo{
			address: {Pubkey: address, Data: encodeReputation(agentKey, 10, 2, 0, 5)},
		},
	}

	client := NewClient(Options{RPC: rpc, Agent: agent})

	rep, err := client.GetReputation(context.Background(), "")
	if err != nil {
		t.Fatalf("GetReputation: %v", err)
	}
	if rep == nil {
		t.Fatal("expected reputation, got nil")
	}
	if rep.Score != 10 {
		t.Errorf("Score = %d, want 10", rep.Score)
	}
}

func TestGetReputationMissingAccount(t *testing.T) {
	client := NewClient(Options{RPC: &fakeRPC{}, Agent: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"})

	rep, err := client.GetReputation(context.Background(), "")
	if err != nil {
		t.Fatalf("GetReputation: %v", err)
	}
	if rep != nil {
		t.Errorf("expected nil for missing account, got %+v", rep)
	}
}

func TestGetReputationNoAgent(t *testing.T) {
	client := NewClient(Options{RPC: &fakeRPC{}})
	if _, err := client.GetReputation(context.Background(), ""); err == nil {
		t.Fatal("expected error without an agent address")
	}
}

func TestHashSolution(t *testing.T) {
	// sha256("test")
	want := "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"
	if got := HashSolution("test"); got != want {
		t.Errorf("HashSolution = %s, want %s", got, want)
	}
}

func TestAttestAndSubmit(t *testing.T) {
	client := NewClient(Options{RPC: &fakeRPC{}})
	ctx := context.Background()

	att, err := client.AttestSolution(ctx, 77, "solution text")
	if err != nil {
		t.Fatalf("AttestSolution: %v", err)
	}
	if att.SolutionID != 77 || att.BountyID != 0 {
		t.Errorf("attestation ids = %d/%d", att.SolutionID, att.BountyID)
	}
	if att.SolutionHash != HashSolution("solution text") {
		t.Errorf("SolutionHash = %s", att.SolutionHash)
	}

	sub, err := client.SubmitSolution(ctx, 5, 77, "solution text")
	if err != nil {
		t.Fatalf("SubmitSolution: %v", err)
	}
	if sub.BountyID != 5 {
		t.Errorf("BountyID = %d, want 5", sub.BountyID)
	}
}

func TestNewSolutionIDPositive(t *testing.T) {
	client := NewClient(Options{RPC: &fakeRPC{}})
	for i := 0; i < 100; i++ {
		if id := client.NewSolutionID(); id >= 1<<63 {
			t.Fatalf("id %d exceeds 63 bits", id)
		}
	}
}
