// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Solana struct {
		RPCEndpoint string `yaml:"rpc_endpoint"`
		WSEndpoint  string `yaml:"ws_endpoint"`
		ProgramID   string `yaml:"program_id"`
		KeypairFile string `yaml:"keypair_file"`
	} `yaml:"solana"`
	Gateway struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"gateway"`
	Reasoning struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"reasoning"`
	Agent struct {
		MinReward    uint64        `yaml:"min_reward"`
		ScanInterval time.Duration `yaml:"scan_interval"`
		Chain        string        `yaml:"chain"`
		LogFile      string        `yaml:"log_file"`
	} `yaml:"agent"`
	Server struct {
		APIAddr     string `yaml:"api_addr"`
		MetricsAddr string `yaml:"metrics_addr"`
	} `yaml:"server"`
	Database struct {
		PostgresDSN   string `yaml:"postgres_dsn"`
		ClickhouseDSN string `yaml:"clickhouse_dsn"`
		UseMemory     bool   `yaml:"use_memory"`
	} `yaml:"database"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SOLANA_RPC_ENDPOINT"); v != "" {
		cfg.Solana.RPCEndpoint = v
	}
	if v := os.Getenv("SOLANA_WS_ENDPOINT"); v != "" {
		cfg.Solana.WSEndpoint = v
	}
	if v := os.Getenv("BOUNTY_PROGRAM_ID"); v != "" {
		cfg.Solana.ProgramID = v
	}
	if v := os.Getenv("AGENT_KEYPAIR_FILE"); v != "" {
		cfg.Solana.KeypairFile = v
	}
	if v := os.Getenv("GATEWAY_BASE_URL"); v != "" {
		cfg.Gateway.BaseURL = v
	}
	if v := os.Getenv("REASONING_BASE_URL"); v != "" {
		cfg.Reasoning.BaseURL = v
	}
	if v := os.Getenv("MIN_REWARD"); v != "" {
		var reward uint64
		if _, err := fmt.Sscanf(v, "%d", &reward); err == nil {
			cfg.Agent.MinReward = reward
		}
	}
	if v := os.Getenv("SCAN_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Agent.ScanInterval = d
		}
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Database.PostgresDSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		cfg.Database.ClickhouseDSN = v
	}

	// Defaults
	if cfg.Solana.RPCEndpoint == "" {
		cfg.Solana.RPCEndpoint = "https://api.devnet.solana.com"
	}
	if cfg.Solana.WSEndpoint == "" {
		cfg.Solana.WSEndpoint = "wss://api.devnet.solana.com"
	}
	if cfg.Solana.KeypairFile == "" {
		cfg.Solana.KeypairFile = "data/agent-keypair.json"
	}
	if cfg.Agent.ScanInterval == 0 {
		cfg.Agent.ScanInterval = 300 * time.Second
	}
	if cfg.Agent.Chain == "" {
		cfg.Agent.Chain = "solana"
	}
	if cfg.Agent.LogFile == "" {
		cfg.Agent.LogFile = "logs/agent.log"
	}
	if cfg.Server.APIAddr == "" {
		cfg.Server.APIAddr = ":3003"
	}
	if cfg.Server.MetricsAddr == "" {
		cfg.Server.MetricsAddr = ":9090"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Solana.RPCEndpoint == "" {
		return fmt.Errorf("solana.rpc_endpoint is required")
	}
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway.base_url is required")
	}
	if !c.Database.UseMemory && (c.Database.PostgresDSN == "" || c.Database.ClickhouseDSN == "") {
		return fmt.Errorf("database.postgres_dsn and database.clickhouse_dsn are required (set database.use_memory for in-memory storage)")
	}
	return nil
}
