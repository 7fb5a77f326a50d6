// Package reasoning implements the client for the MCP reasoning service.
package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"solana-bounty-agent/internal/domain"
)

// DefaultTimeout bounds every reasoning call.
const DefaultTimeout = 10 * time.Second

// Client is an HTTP client for the reasoning service.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a reasoning client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// reasonRequest is the POST body for /mcp/reason.
type reasonRequest struct {
	Bounty  string `json:"bounty"`
	Context string `json:"context,omitempty"`
}

// Reason asks the service how to approach a bounty description.
// The result is advisory; callers proceed with empty needs on failure.
func (c *Client) Reason(ctx context.Context, description string) (*domain.ReasonResult, error) {
	body, err := json.Marshal(reasonRequest{Bounty: description})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mcp/reason", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result domain.ReasonResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &result, nil
}
