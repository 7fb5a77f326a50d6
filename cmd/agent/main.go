// Package main runs the bounty agent:
// - background scan loop (discovery -> selection -> reasoning -> generation -> attestation)
// - HTTP API for lifecycle control and state snapshots
// - Prometheus metrics endpoint
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"solana-bounty-agent/internal/agent"
	"solana-bounty-agent/internal/config"
	"solana-bounty-agent/internal/contract"
	"solana-bounty-agent/internal/gateway"
	"solana-bounty-agent/internal/httpapi"
	"solana-bounty-agent/internal/observability"
	"solana-bounty-agent/internal/reasoning"
	"solana-bounty-agent/internal/service"
	"solana-bounty-agent/internal/solana"
	"solana-bounty-agent/internal/storage"
	chstore "solana-bounty-agent/internal/storage/clickhouse"
	"solana-bounty-agent/internal/storage/memory"
	"solana-bounty-agent/internal/storage/migrations"
	pgstore "solana-bounty-agent/internal/storage/postgres"
	"solana-bounty-agent/internal/wallet"
)

func main() {
	// Load .env file if exists
	loadEnvFile()

	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	singleRun := flag.Bool("single-run", false, "Run one scan cycle and exit")
	autoStart := flag.Bool("auto-start", true, "Start the scan loop immediately")
	flag.Parse()

	logger := log.New(os.Stdout, "[agent] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if *useMemory {
		cfg.Database.UseMemory = true
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Agent keypair
	w, err := wallet.LoadOrCreate(cfg.Solana.KeypairFile)
	if err != nil {
		logger.Fatalf("Failed to load keypair: %v", err)
	}
	logger.Printf("Wallet address: %s", w.Address())

	// Stores
	stores, cleanup, err := createStores(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Collaborators
	rpcClient := solana.NewHTTPClient(cfg.Solana.RPCEndpoint)
	contractClient := contract.NewClient(contract.Options{
		RPC:       rpcClient,
		ProgramID: cfg.Solana.ProgramID,
		Agent:     w.Address(),
		Logger:    log.New(os.Stdout, "[contract] ", log.LstdFlags),
	})
	gatewayClient := gateway.New(cfg.Gateway.BaseURL)

	var reasoner agent.Reasoner
	if cfg.Reasoning.BaseURL != "" {
		reasoner = reasoning.New(cfg.Reasoning.BaseURL)
	}

	svc := service.New(service.Options{
		WalletAddress:    w.Address(),
		ScanInterval:     cfg.Agent.ScanInterval,
		LogFile:          cfg.Agent.LogFile,
		BountyStore:      stores.bounties,
		AnalysisStore:    stores.analyses,
		AttestationStore: stores.attestations,
		Logger:           log.New(os.Stdout, "[service] ", log.LstdFlags),
	})
	svc.AttachAgent(agent.New(agent.Options{
		Source:    contractClient,
		Reasoner:  reasoner,
		Gateway:   gatewayClient,
		Attestor:  contractClient,
		Logs:      svc,
		MinReward: cfg.Agent.MinReward,
		Chain:     cfg.Agent.Chain,
	}))

	if *singleRun {
		svc.Start(true)
		svc.Wait()
		return
	}

	// Metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		logger.Printf("Metrics listening on %s", cfg.Server.MetricsAddr)
		if err := http.ListenAndServe(cfg.Server.MetricsAddr, mux); err != nil {
			logger.Printf("Metrics server error: %v", err)
		}
	}()

	// HTTP API
	api := httpapi.NewServer(svc, contractClient)
	httpServer := &http.Server{
		Addr:    cfg.Server.APIAddr,
		Handler: api.Router(),
	}
	go func() {
		logger.Printf("API listening on %s", cfg.Server.APIAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("API server error: %v", err)
		}
	}()

	// Bounty event watcher. Advisory: notifications only surface program
	// activity in the service log, the scan loop stays poll-driven.
	if cfg.Solana.WSEndpoint != "" {
		watcher, err := contractClient.WatchBounties(ctx, cfg.Solana.WSEndpoint)
		if err != nil {
			logger.Printf("Bounty watcher unavailable: %v", err)
		} else {
			defer watcher.Close()
			go func() {
				for n := range watcher.Notifications() {
					if n.Err != nil {
						continue
					}
					svc.Log("info", fmt.Sprintf("Program activity: %s (slot %d)", n.Signature, n.Slot))
				}
			}()
		}
	}

	if *autoStart {
		svc.Start(false)
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Printf("Received signal %v, initiating graceful shutdown...", sig)

	svc.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("API shutdown error: %v", err)
	}

	waitDone := make(chan struct{})
	go func() {
		svc.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(30 * time.Second):
		logger.Println("Graceful shutdown timed out after 30s, forcing exit")
		os.Exit(1)
	}

	logger.Println("Shutdown complete")
}

// agentStores holds the storage implementations the service persists to.
type agentStores struct {
	bounties     storage.BountyStore
	analyses     storage.AnalysisStore
	attestations storage.AttestationStore
}

// createStores creates all required stores and applies migrations.
func createStores(ctx context.Context, cfg *config.Config) (*agentStores, func(), error) {
	if cfg.Database.UseMemory {
		stores := &agentStores{
			bounties:     memory.NewBountyStore(),
			analyses:     memory.NewAnalysisStore(),
			attestations: memory.NewAttestationStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.Database.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate postgres: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, cfg.Database.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate clickhouse: %w", err)
	}

	stores := &agentStores{
		bounties:     pgstore.NewBountyStore(pool),
		analyses:     chstore.NewAnalysisStore(chConn),
		attestations: pgstore.NewAttestationStore(pool),
	}
	cleanup := func() {
		pool.Close()
		chConn.Close()
	}
	return stores, cleanup, nil
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
