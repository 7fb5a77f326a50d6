// Package agent implements the bounty selection, scoring and
// solution-generation pipeline: discovery -> filter -> select -> reasoning ->
// generation -> attestation, on a fixed-interval loop.
package agent

import (
	"context"
	"fmt"
	"time"

	"solana-bounty-agent/internal/domain"
	"solana-bounty-agent/internal/gateway"
	"solana-bounty-agent/internal/observability"
)

// DefaultChain is assumed when neither the configuration nor the bounty
// names a chain.
const DefaultChain = "solana"

// DefaultScanInterval is the wait between scan cycles.
const DefaultScanInterval = 300 * time.Second

// payAmount is the micropayment attached to paid capability calls.
const payAmount = 0.01

// BountySource discovers bounties. Transient failure is treated as an
// empty result by the agent.
type BountySource interface {
	GetOpenBounties(ctx context.Context) ([]domain.Bounty, error)
}

// Reasoner provides advisory guidance for a bounty description.
type Reasoner interface {
	Reason(ctx context.Context, description string) (*domain.ReasonResult, error)
}

// DataGateway is the paid intelligence surface: five wallet endpoints,
// two token endpoints, and the x402 pay hooks. Any call may fail; the
// agent degrades to absent data.
type DataGateway interface {
	GetCurrentBalance(ctx context.Context, address, chain string) (*gateway.Balance, error)
	GetTransactions(ctx context.Context, address, chain string) (*gateway.Transactions, error)
	GetPnL(ctx context.Context, address, chain string) (*gateway.PnL, error)
	GetPnLSummary(ctx context.Context, address, chain string) (*gateway.PnLSummary, error)
	GetLabels(ctx context.Context, address, chain string) (*gateway.Labels, error)
	GetSmartMoneyNetflows(ctx context.Context, chains []string) (*gateway.Netflows, error)
	GetTokenScreener(ctx context.Context, chain string, filters gateway.ScreenerFilters, page, perPage int) (*gateway.ScreenerResult, error)
	PayForSwitchboard(ctx context.Context, amount float64) (map[string]interface{}, error)
	PayForLLM(ctx context.Context, amount float64) (map[string]interface{}, error)
	PayForData(ctx context.Context, amount float64) (map[string]interface{}, error)
}

// Attestor prepares attestation and submission records. Best-effort: the
// agent does not depend on on-chain success.
type Attestor interface {
	NewSolutionID() uint64
	AttestSolution(ctx context.Context, solutionID uint64, solution string) (*domain.Attestation, error)
	SubmitSolution(ctx context.Context, bountyID, solutionID uint64, solution string) (*domain.Attestation, error)
}

// LogSink receives lifecycle events. Append-only; the agent has no
// dependency on its durability.
type LogSink interface {
	Log(level, message string)
}

// nopSink discards log events.
type nopSink struct{}

func (nopSink) Log(string, string) {}

// Agent runs the scan pipeline against its collaborators.
type Agent struct {
	source    BountySource
	reasoner  Reasoner
	gateway   DataGateway
	attestor  Attestor
	logs      LogSink
	minReward uint64
	chain     string
}

// Options for creating an Agent. Source and Gateway are required;
// Reasoner and Attestor may be nil (those stages are skipped).
type Options struct {
	Source    BountySource
	Reasoner  Reasoner
	Gateway   DataGateway
	Attestor  Attestor
	Logs      LogSink
	MinReward uint64 // 0 means DefaultMinReward
	Chain     string // "" means DefaultChain
}

// New creates an Agent.
func New(opts Options) *Agent {
	a := &Agent{
		source:    opts.Source,
		reasoner:  opts.Reasoner,
		gateway:   opts.Gateway,
		attestor:  opts.Attestor,
		logs:      opts.Logs,
		minReward: opts.MinReward,
		chain:     opts.Chain,
	}
	if a.logs == nil {
		a.logs = nopSink{}
	}
	if a.minReward == 0 {
		a.minReward = DefaultMinReward
	}
	if a.chain == "" {
		a.chain = DefaultChain
	}
	return a
}

func (a *Agent) log(level, message string) {
	a.logs.Log(level, message)
}

// CycleResult captures everything one scan cycle produced. All fields may
// be empty when no eligible bounty was found.
type CycleResult struct {
	Discovered  []domain.Bounty
	Selected    *domain.Bounty
	Reason      *domain.ReasonResult
	Solution    string
	Analysis    *domain.Analysis
	Attestation *domain.Attestation
	Submission  *domain.Attestation
}

// DiscoverBounties fetches, filters and deduplicates open bounties.
// Source failure degrades to an empty result.
func (a *Agent) DiscoverBounties(ctx context.Context) []domain.Bounty {
	bounties, err := a.source.GetOpenBounties(ctx)
	if err != nil {
		a.log("error", fmt.Sprintf("Error discovering bounties: %v", err))
		observability.RecordDiscoveryError()
		return nil
	}

	return DeduplicateBounties(FilterBounties(bounties, a.minReward))
}

// RunCycle executes one full scan cycle. Faults inside the cycle degrade
// to logged events; RunCycle itself never fails.
func (a *Agent) RunCycle(ctx context.Context) *CycleResult {
	start := time.Now()
	result := &CycleResult{}

	a.log("info", "Scanning for bounties...")
	result.Discovered = a.DiscoverBounties(ctx)
	observability.RecordBountiesDiscovered(len(result.Discovered))

	if len(result.Discovered) == 0 {
		a.log("info", "No eligible bounties found")
		observability.RecordCycle("empty", time.Since(start).Seconds())
		return result
	}

	a.log("success", fmt.Sprintf("Discovered %d eligible bounties", len(result.Discovered)))
	for _, b := range result.Discovered {
		a.log("info", fmt.Sprintf("Bounty #%d: %s", b.ID, truncate(b.Description, 60)))
	}

	result.Selected = SelectBounty(result.Discovered)
	a.log("info", fmt.Sprintf("Selected Bounty #%d (reward %.2f USDC)",
		result.Selected.ID, float64(result.Selected.Reward)/1e6))

	result.Reason = a.reason(ctx, result.Selected.Description)
	a.handleNeeds(ctx, result.Reason)

	result.Solution, result.Analysis = a.GenerateSolution(ctx, result.Selected, result.Reason)
	if result.Solution == "" {
		observability.RecordCycle("no_solution", time.Since(start).Seconds())
		return result
	}

	a.log("info", fmt.Sprintf("Generated solution: %s", truncate(result.Solution, 100)))
	observability.RecordSolutionGenerated(analysisLabel(result.Analysis))

	a.attest(ctx, result)

	observability.RecordCycle("success", time.Since(start).Seconds())
	return result
}

// reason queries the reasoning service; failure degrades to nil.
func (a *Agent) reason(ctx context.Context, description string) *domain.ReasonResult {
	if a.reasoner == nil {
		return nil
	}

	reason, err := a.reasoner.Reason(ctx, description)
	if err != nil {
		a.log("warn", fmt.Sprintf("Reasoning unavailable: %v", err))
		return nil
	}
	if reason != nil && reason.Reasoning != "" {
		a.log("info", fmt.Sprintf("Reasoning: %s", reason.Reasoning))
	}
	return reason
}

// handleNeeds invokes at most one paid capability named by the reason
// result. Results are advisory; failures never block generation.
func (a *Agent) handleNeeds(ctx context.Context, reason *domain.ReasonResult) {
	if reason == nil {
		return
	}

	for _, need := range reason.Needs {
		switch need {
		case "switchboard_oracle":
			a.log("info", "Paying for Switchboard oracle access...")
			data, err := a.gateway.PayForSwitchboard(ctx, payAmount)
			a.logPayOutcome("price data", data, err)
		case "code_analysis":
			a.log("info", "Paying for LLM code analysis...")
			data, err := a.gateway.PayForLLM(ctx, payAmount)
			a.logPayOutcome("LLM analysis", data, err)
		case "data_analysis":
			a.log("info", "Paying for data API access...")
			data, err := a.gateway.PayForData(ctx, payAmount)
			a.logPayOutcome("data result", data, err)
		default:
			continue
		}
		return
	}
}

func (a *Agent) logPayOutcome(what string, data map[string]interface{}, err error) {
	if err != nil {
		a.log("warn", fmt.Sprintf("Payment for %s failed: %v", what, err))
		return
	}
	if data != nil {
		a.log("success", fmt.Sprintf("Received %s: %v", what, data))
	}
}

// attest prepares the attestation and, when the bounty has an ID, the
// submission. Both are best-effort.
func (a *Agent) attest(ctx context.Context, result *CycleResult) {
	if a.attestor == nil {
		return
	}

	solutionID := a.attestor.NewSolutionID()
	a.log("info", fmt.Sprintf("Attesting solution (ID: %d)...", solutionID))

	attestation, err := a.attestor.AttestSolution(ctx, solutionID, result.Solution)
	if err != nil {
		a.log("error", fmt.Sprintf("Attestation failed: %v", err))
		return
	}
	result.Attestation = attestation
	a.log("success", fmt.Sprintf("Attestation prepared: %s...", truncate(attestation.SolutionHash, 16)))

	if result.Selected == nil || result.Selected.ID == 0 {
		return
	}

	a.log("info", fmt.Sprintf("Submitting solution to bounty #%d...", result.Selected.ID))
	submission, err := a.attestor.SubmitSolution(ctx, result.Selected.ID, solutionID, result.Solution)
	if err != nil {
		a.log("error", fmt.Sprintf("Submission failed: %v", err))
		return
	}
	result.Submission = submission
	a.log("success", fmt.Sprintf("Submission prepared: %s...", truncate(submission.SolutionHash, 16)))
	a.log("success", "Solution submitted successfully!")
	observability.RecordSubmission()
}

// ScanLoop re-enters RunCycle on a fixed interval until the context is
// cancelled. Cancellation only prevents the next iteration; it does not
// interrupt an in-flight cycle. Each result is passed to onCycle (may be
// nil) before the wait.
func (a *Agent) ScanLoop(ctx context.Context, interval time.Duration, onCycle func(*CycleResult)) error {
	if interval <= 0 {
		interval = DefaultScanInterval
	}

	a.log("info", fmt.Sprintf("Scanning every %v", interval))

	for {
		result := a.RunCycle(ctx)
		if onCycle != nil {
			onCycle(result)
		}

		a.log("info", fmt.Sprintf("Waiting %v...", interval))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func analysisLabel(analysis *domain.Analysis) string {
	if analysis == nil {
		return "generic"
	}
	return string(analysis.Type)
}
