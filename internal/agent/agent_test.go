package agent

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"solana-bounty-agent/internal/domain"
	"solana-bounty-agent/internal/gateway"
)

// fptr returns a pointer to v, for optional payload fields.
func fptr(v float64) *float64 { return &v }

type stubSource struct {
	bounties []domain.Bounty
	err      error
}

func (s *stubSource) GetOpenBounties(context.Context) ([]domain.Bounty, error) {
	return s.bounties, s.err
}

type stubReasoner struct {
	result *domain.ReasonResult
	err    error
}

func (s *stubReasoner) Reason(context.Context, string) (*domain.ReasonResult, error) {
	return s.result, s.err
}

// stubGateway serves configured payloads, or err on every data call.
// Pay calls are recorded by capability name.
type stubGateway struct {
	balance  *gateway.Balance
	txs      *gateway.Transactions
	pnl      *gateway.PnL
	summary  *gateway.PnLSummary
	labels   *gateway.Labels
	netflows *gateway.Netflows
	screener *gateway.ScreenerResult
	err      error
	payCalls []string
}

func (s *stubGateway) GetCurrentBalance(context.Context, string, string) (*gateway.Balance, error) {
	return s.balance, s.err
}

func (s *stubGateway) GetTransactions(context.Context, string, string) (*gateway.Transactions, error) {
	return s.txs, s.err
}

func (s *stubGateway) GetPnL(context.Context, string, string) (*gateway.PnL, error) {
	return s.pnl, s.err
}

func (s *stubGateway) GetPnLSummary(context.Context, string, string) (*gateway.PnLSummary, error) {
	return s.summary, s.err
}

func (s *stubGateway) GetLabels(context.Context, string, string) (*gateway.Labels, error) {
	return s.labels, s.err
}

func (s *stubGateway) GetSmartMoneyNetflows(context.Context, []string) (*gateway.Netflows, error) {
	return s.netflows, s.err
}

func (s *stubGateway) GetTokenScreener(context.Context, string, gateway.ScreenerFilters, int, int) (*gateway.ScreenerResult, error) {
	return s.screener, s.err
}

func (s *stubGateway) PayForSwitchboard(context.Context, float64) (map[string]interface{}, error) {
	s.payCalls = append(s.payCalls, "switchboard")
	return map[string]interface{}{"price": 1.0}, nil
}

func (s *stubGateway) PayForLLM(context.Context, float64) (map[string]interface{}, error) {
	s.payCalls = append(s.payCalls, "llm")
	return map[string]interface{}{"analysis": "ok"}, nil
}

func (s *stubGateway) PayForData(context.Context, float64) (map[string]interface{}, error) {
	s.payCalls = append(s.payCalls, "data")
	return map[string]interface{}{"rows": 1}, nil
}

type stubAttestor struct {
	solutionID uint64
	attestErr  error
	submitErr  error
	submitted  []uint64
}

func (s *stubAttestor) NewSolutionID() uint64 { return s.solutionID }

func (s *stubAttestor) AttestSolution(_ context.Context, solutionID uint64, solution string) (*domain.Attestation, error) {
	if s.attestErr != nil {
		return nil, s.attestErr
	}
	return &domain.Attestation{SolutionID: solutionID, SolutionHash: "abcd", Solution: solution}, nil
}

func (s *stubAttestor) SubmitSolution(_ context.Context, bountyID, solutionID uint64, solution string) (*domain.Attestation, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	s.submitted = append(s.submitted, bountyID)
	return &domain.Attestation{SolutionID: solutionID, BountyID: bountyID, SolutionHash: "abcd", Solution: solution}, nil
}

func TestRunCycleEndToEnd(t *testing.T) {
	bounties := []domain.Bounty{
		{ID: 1, Description: "Analyze wallet 7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", Reward: 600000, Status: domain.StatusOpen},
		{ID: 2, Description: "cheap task", Reward: 400000, Status: domain.StatusOpen},
		{ID: 3, Description: "closed task", Reward: 900000, Status: domain.StatusSettled},
	}
	attestor := &stubAttestor{solutionID: 77}
	a := New(Options{
		Source:   &stubSource{bounties: bounties},
		Gateway:  &stubGateway{err: fmt.Errorf("unavailable")},
		Attestor: attestor,
	})

	result := a.RunCycle(context.Background())

	if len(result.Discovered) != 1 {
		t.Fatalf("Discovered = %d bounties, want 1", len(result.Discovered))
	}
	if result.Selected == nil || result.Selected.ID != 1 {
		t.Fatalf("Selected = %+v, want bounty 1", result.Selected)
	}
	if !strings.Contains(result.Solution, "WALLET INTELLIGENCE REPORT") {
		t.Errorf("Solution = %q, want wallet report", result.Solution)
	}
	if result.Analysis == nil || result.Analysis.Type != domain.AnalysisWalletIntelligence {
		t.Errorf("Analysis = %+v", result.Analysis)
	}
	if result.Attestation == nil || result.Attestation.SolutionID != 77 {
		t.Errorf("Attestation = %+v", result.Attestation)
	}
	if result.Submission == nil || result.Submission.BountyID != 1 {
		t.Errorf("Submission = %+v", result.Submission)
	}
	if len(attestor.submitted) != 1 || attestor.submitted[0] != 1 {
		t.Errorf("submitted bounties = %v", attestor.submitted)
	}
}

func TestRunCycleSourceFailure(t *testing.T) {
	a := New(Options{
		Source:  &stubSource{err: fmt.Errorf("rpc down")},
		Gateway: &stubGateway{},
	})

	result := a.RunCycle(context.Background())

	if len(result.Discovered) != 0 {
		t.Errorf("Discovered = %v, want none", result.Discovered)
	}
	if result.Selected != nil || result.Solution != "" {
		t.Errorf("result = %+v, want empty cycle", result)
	}
}

func TestRunCycleEchoSolution(t *testing.T) {
	bounties := []domain.Bounty{
		{ID: 5, Description: "write a haiku", Reward: 800000, Status: domain.StatusOpen},
	}
	a := New(Options{
		Source:   &stubSource{bounties: bounties},
		Gateway:  &stubGateway{},
		Attestor: &stubAttestor{solutionID: 9},
	})

	result := a.RunCycle(context.Background())

	if result.Solution != "Solution for bounty: write a haiku" {
		t.Errorf("Solution = %q", result.Solution)
	}
	if result.Analysis != nil {
		t.Errorf("Analysis = %+v, want nil for echo solution", result.Analysis)
	}
	if result.Attestation == nil {
		t.Error("echo solution should still be attested")
	}
}

func TestRunCycleAttestationFailure(t *testing.T) {
	bounties := []domain.Bounty{
		{ID: 5, Description: "write a haiku", Reward: 800000, Status: domain.StatusOpen},
	}
	a := New(Options{
		Source:   &stubSource{bounties: bounties},
		Gateway:  &stubGateway{},
		Attestor: &stubAttestor{solutionID: 9, attestErr: fmt.Errorf("signer offline")},
	})

	result := a.RunCycle(context.Background())

	if result.Solution == "" {
		t.Fatal("solution should be generated before attestation")
	}
	if result.Attestation != nil || result.Submission != nil {
		t.Errorf("attestation = %+v, submission = %+v, want nil", result.Attestation, result.Submission)
	}
}

func TestHandleNeedsFirstRecognized(t *testing.T) {
	gw := &stubGateway{}
	a := New(Options{Source: &stubSource{}, Gateway: gw})

	a.handleNeeds(context.Background(), &domain.ReasonResult{
		Needs: []string{"unknown_capability", "code_analysis", "data_analysis"},
	})

	if len(gw.payCalls) != 1 || gw.payCalls[0] != "llm" {
		t.Errorf("payCalls = %v, want exactly [llm]", gw.payCalls)
	}
}

func TestHandleNeedsNilReason(t *testing.T) {
	gw := &stubGateway{}
	a := New(Options{Source: &stubSource{}, Gateway: gw})

	a.handleNeeds(context.Background(), nil)

	if len(gw.payCalls) != 0 {
		t.Errorf("payCalls = %v, want none", gw.payCalls)
	}
}

func TestReasonFailureDegradesToNil(t *testing.T) {
	a := New(Options{
		Source:   &stubSource{},
		Gateway:  &stubGateway{},
		Reasoner: &stubReasoner{err: fmt.Errorf("model overloaded")},
	})

	if got := a.reason(context.Background(), "anything"); got != nil {
		t.Errorf("reason = %+v, want nil", got)
	}
}

func TestScanLoopStopsOnCancel(t *testing.T) {
	a := New(Options{
		Source:  &stubSource{},
		Gateway: &stubGateway{},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cycles := 0
	err := a.ScanLoop(ctx, 10*time.Millisecond, func(*CycleResult) {
		cycles++
		cancel()
	})

	if err != context.Canceled {
		t.Errorf("ScanLoop err = %v, want context.Canceled", err)
	}
	if cycles != 1 {
		t.Errorf("cycles = %d, want 1", cycles)
	}
}
