// Package service runs the agent in the background and exposes its state
// to the HTTP API: lifecycle control, buffered logs, the latest scan's
// bounties and analysis.
package service

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"solana-bounty-agent/internal/agent"
	"solana-bounty-agent/internal/domain"
	"solana-bounty-agent/internal/storage"
)

// Log buffer bounds. When the buffer exceeds maxLogBuffer entries it is
// trimmed to keepLogBuffer, oldest first.
const (
	maxLogBuffer  = 1000
	keepLogBuffer = 500
)

// LogEntry is one buffered log event.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// Status is a point-in-time snapshot of the service.
type Status struct {
	IsRunning     bool   `json:"is_running"`
	BountiesCount int    `json:"bounties_count"`
	LogsCount     int    `json:"logs_count"`
	WalletAddress string `json:"wallet_address,omitempty"`
}

// Service owns the agent lifecycle. At most one run (single or
// continuous) is active at a time.
type Service struct {
	agent         *agent.Agent
	walletAddress string
	scanInterval  time.Duration
	logFile       string

	bounties     storage.BountyStore
	analyses     storage.AnalysisStore
	attestations storage.AttestationStore

	logger *log.Logger

	mu              sync.Mutex
	running         bool
	cancel          context.CancelFunc
	done            chan struct{}
	logBuffer       []LogEntry
	currentBounties []domain.Bounty
	lastAnalysis    *domain.Analysis
}

// Options for creating a Service. Agent is required; the stores may be
// nil, in which case results are kept in memory only.
type Options struct {
	Agent         *agent.Agent
	WalletAddress string
	ScanInterval  time.Duration // 0 means agent.DefaultScanInterval
	LogFile       string        // empty disables the on-disk log

	BountyStore      storage.BountyStore
	AnalysisStore    storage.AnalysisStore
	AttestationStore storage.AttestationStore

	Logger *log.Logger
}

// New creates a Service.
func New(opts Options) *Service {
	s := &Service{
		agent:         opts.Agent,
		walletAddress: opts.WalletAddress,
		scanInterval:  opts.ScanInterval,
		logFile:       opts.LogFile,
		bounties:      opts.BountyStore,
		analyses:      opts.AnalysisStore,
		attestations:  opts.AttestationStore,
		logger:        opts.Logger,
	}
	if s.logger == nil {
		s.logger = log.New(log.Writer(), "[service] ", log.LstdFlags)
	}
	return s
}

// Verify the service can act as the agent's log sink.
var _ agent.LogSink = (*Service)(nil)

// AttachAgent sets the agent the service runs. The agent usually takes
// the service as its log sink, so it is built after the service and
// attached here. Must be called before Start.
func (s *Service) AttachAgent(a *agent.Agent) {
	s.agent = a
}

// Log buffers a log event and appends it to the log file.
func (s *Service) Log(level, message string) {
	entry := LogEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		Level:     level,
		Message:   message,
	}

	s.mu.Lock()
	s.logBuffer = append(s.logBuffer, entry)
	if len(s.logBuffer) > maxLogBuffer {
		s.logBuffer = append([]LogEntry(nil), s.logBuffer[len(s.logBuffer)-keepLogBuffer:]...)
	}
	logFile := s.logFile
	s.mu.Unlock()

	s.logger.Printf("%s: %s", level, message)

	if logFile == "" {
		return
	}
	if err := appendLogFile(logFile, entry); err != nil {
		s.logger.Printf("write log file: %v", err)
	}
}

func appendLogFile(path string, entry LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(data, '\n'))
	return err
}

// Start launches the agent in the background. singleRun executes one
// cycle and stops; otherwise the scan loop runs until Stop.
// Returns false if the agent is already running.
func (s *Service) Start(singleRun bool) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.running = true
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	s.Log("info", "Agent service started")
	if s.walletAddress != "" {
		s.Log("info", "Wallet address: "+s.walletAddress)
		s.Log("info", "Fund the wallet with SOL for transaction fees!")
	}

	go func() {
		defer func() {
			s.mu.Lock()
			s.running = false
			s.cancel = nil
			s.mu.Unlock()
			s.Log("info", "Agent service stopped")
			close(done)
		}()

		if singleRun {
			s.Log("info", "Running single scan cycle")
			s.onCycle(ctx, s.agent.RunCycle(ctx))
			return
		}

		s.Log("info", "Starting continuous scan loop")
		_ = s.agent.ScanLoop(ctx, s.scanInterval, func(result *agent.CycleResult) {
			s.onCycle(ctx, result)
		})
	}()

	return true
}

// Stop requests the running agent to halt after the current cycle.
// Returns false if the agent is not running.
func (s *Service) Stop() bool {
	s.mu.Lock()
	cancel := s.cancel
	running := s.running
	s.mu.Unlock()

	if !running || cancel == nil {
		return false
	}

	cancel()
	s.Log("info", "Agent stop requested")
	return true
}

// Wait blocks until the current run finishes. Returns immediately when
// nothing is running.
func (s *Service) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

// onCycle records the cycle's results and persists them to the stores.
func (s *Service) onCycle(ctx context.Context, result *agent.CycleResult) {
	if result == nil {
		return
	}

	s.mu.Lock()
	s.currentBounties = result.Discovered
	if result.Selected != nil {
		// Generation ran: its outcome replaces the slot, nil included
		// (echo and no-address paths produce no analysis). A cycle with
		// no selected bounty leaves the slot untouched.
		s.lastAnalysis = result.Analysis
	}
	s.mu.Unlock()

	if s.bounties != nil {
		for i := range result.Discovered {
			if err := s.bounties.Upsert(ctx, &result.Discovered[i]); err != nil {
				s.logger.Printf("persist bounty %d: %v", result.Discovered[i].ID, err)
			}
		}
	}

	if s.analyses != nil && result.Analysis != nil {
		if err := s.analyses.Insert(ctx, result.Analysis); err != nil {
			s.logger.Printf("persist analysis: %v", err)
		}
	}

	if s.attestations != nil {
		// The submission record supersedes the standalone attestation
		// for the same solution ID; keep whichever is most complete.
		record := result.Submission
		if record == nil {
			record = result.Attestation
		}
		if record != nil {
			if err := s.attestations.Insert(ctx, record); err != nil {
				s.logger.Printf("persist attestation %d: %v", record.SolutionID, err)
			}
		}
	}
}

// Logs returns the most recent buffered log entries, oldest first.
func (s *Service) Logs(limit int) []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := s.logBuffer
	if limit > 0 && len(buf) > limit {
		buf = buf[len(buf)-limit:]
	}
	return append([]LogEntry(nil), buf...)
}

// Bounties returns the bounties from the most recent scan.
func (s *Service) Bounties() []domain.Bounty {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Bounty(nil), s.currentBounties...)
}

// LastAnalysis returns the most recent analysis, or nil.
func (s *Service) LastAnalysis() *domain.Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastAnalysis == nil {
		return nil
	}
	analysisCopy := *s.lastAnalysis
	return &analysisCopy
}

// GetStatus returns a snapshot of the service state.
func (s *Service) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		IsRunning:     s.running,
		BountiesCount: len(s.currentBounties),
		LogsCount:     len(s.logBuffer),
		WalletAddress: s.walletAddress,
	}
}

// WalletAddress returns the agent's wallet address, if configured.
func (s *Service) WalletAddress() string {
	return s.walletAddress
}
