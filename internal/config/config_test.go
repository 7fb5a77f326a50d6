package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Solana.RPCEndpoint != "https://api.devnet.solana.com" {
		t.Errorf("RPCEndpoint = %q", cfg.Solana.RPCEndpoint)
	}
	if cfg.Agent.ScanInterval != 300*time.Second {
		t.Errorf("ScanInterval = %v", cfg.Agent.ScanInterval)
	}
	if cfg.Agent.Chain != "solana" {
		t.Errorf("Chain = %q", cfg.Agent.Chain)
	}
	if cfg.Server.APIAddr != ":3003" {
		t.Errorf("APIAddr = %q", cfg.Server.APIAddr)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
solana:
  rpc_endpoint: http://localhost:8899
  program_id: MyProgram111
gateway:
  base_url: http://localhost:4000
agent:
  min_reward: 750000
  scan_interval: 30s
database:
  use_memory: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Solana.RPCEndpoint != "http://localhost:8899" {
		t.Errorf("RPCEndpoint = %q", cfg.Solana.RPCEndpoint)
	}
	if cfg.Solana.ProgramID != "MyProgram111" {
		t.Errorf("ProgramID = %q", cfg.Solana.ProgramID)
	}
	if cfg.Agent.MinReward != 750000 {
		t.Errorf("MinReward = %d", cfg.Agent.MinReward)
	}
	if cfg.Agent.ScanInterval != 30*time.Second {
		t.Errorf("ScanInterval = %v", cfg.Agent.ScanInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SOLANA_RPC_ENDPOINT", "http://env:8899")
	t.Setenv("MIN_REWARD", "123456")
	t.Setenv("SCAN_INTERVAL", "45s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Solana.RPCEndpoint != "http://env:8899" {
		t.Errorf("RPCEndpoint = %q", cfg.Solana.RPCEndpoint)
	}
	if cfg.Agent.MinReward != 123456 {
		t.Errorf("MinReward = %d", cfg.Agent.MinReward)
	}
	if cfg.Agent.ScanInterval != 45*time.Second {
		t.Errorf("ScanInterval = %v", cfg.Agent.ScanInterval)
	}
}

func TestValidateRequiresDSNs(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Gateway.BaseURL = "http://localhost:4000"

	if err := cfg.Validate(); err == nil {
		t.Error("expected error without DSNs and use_memory=false")
	}

	cfg.Database.UseMemory = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
