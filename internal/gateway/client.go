// Package gateway implements the client for the x402 paid data gateway.
// Calls are made at most once per use-site per cycle; failures surface as
// errors that callers degrade to absent data, never as retries.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"solana-bounty-agent/internal/observability"
)

// DefaultTimeout bounds every gateway call.
const DefaultTimeout = 10 * time.Second

// paymentHeader carries the x402 micropayment amount.
const paymentHeader = "X-402-Payment"

// Client is an HTTP client for the data gateway.
type Client struct {
	baseURL string
	client  *http.Client
}

// Option configures Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// New creates a gateway client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a GET request and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(ctx context.Context, path string, body interface{}, payment string, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if payment != "" {
		req.Header.Set(paymentHeader, payment)
	}

	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result interface{}) (err error) {
	start := time.Now()
	defer func() {
		observability.RecordGatewayCall(req.URL.Path, time.Since(start).Seconds(), err)
	}()

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

func walletQuery(address, chain string) url.Values {
	q := url.Values{}
	q.Set("address", address)
	q.Set("chain", chain)
	return q
}

// GetCurrentBalance fetches the current balance for (address, chain).
func (c *Client) GetCurrentBalance(ctx context.Context, address, chain string) (*Balance, error) {
	var result Balance
	if err := c.get(ctx, "/api/wallet/balance", walletQuery(address, chain), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTransactions fetches recent transactions for (address, chain).
func (c *Client) GetTransactions(ctx context.Context, address, chain string) (*Transactions, error) {
	var result Transactions
	if err := c.get(ctx, "/api/wallet/transactions", walletQuery(address, chain), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPnL fetches profit-and-loss data for (address, chain).
func (c *Client) GetPnL(ctx context.Context, address, chain string) (*PnL, error) {
	var result PnL
	if err := c.get(ctx, "/api/wallet/pnl", walletQuery(address, chain), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPnLSummary fetches aggregated trade outcomes for (address, chain).
func (c *Client) GetPnLSummary(ctx context.Context, address, chain string) (*PnLSummary, error) {
	var result PnLSummary
	if err := c.get(ctx, "/api/wallet/pnl-summary", walletQuery(address, chain), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetLabels fetches address labels for (address, chain).
func (c *Client) GetLabels(ctx context.Context, address, chain string) (*Labels, error) {
	var result Labels
	if err := c.get(ctx, "/api/wallet/labels", walletQuery(address, chain), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSmartMoneyNetflows fetches smart-money net flows for the given chains.
func (c *Client) GetSmartMoneyNetflows(ctx context.Context, chains []string) (*Netflows, error) {
	q := url.Values{}
	for _, chain := range chains {
		q.Add("chain", chain)
	}

	var result Netflows
	if err := c.get(ctx, "/api/token/netflows", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// screenerRequest is the POST body for the token screener.
type screenerRequest struct {
	Chain   string          `json:"chain"`
	Filters ScreenerFilters `json:"filters"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

// GetTokenScreener queries the paged token screener.
func (c *Client) GetTokenScreener(ctx context.Context, chain string, filters ScreenerFilters, page, perPage int) (*ScreenerResult, error) {
	body := screenerRequest{
		Chain:   chain,
		Filters: filters,
		Page:    page,
		PerPage: perPage,
	}

	var result ScreenerResult
	if err := c.post(ctx, "/api/token/screener", body, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PayForSwitchboard purchases Switchboard oracle access.
func (c *Client) PayForSwitchboard(ctx context.Context, amount float64) (map[string]interface{}, error) {
	return c.pay(ctx, "/api/switchboard", amount)
}

// PayForLLM purchases LLM code analysis.
func (c *Client) PayForLLM(ctx context.Context, amount float64) (map[string]interface{}, error) {
	return c.pay(ctx, "/api/llm", amount)
}

// PayForData purchases data API access.
func (c *Client) PayForData(ctx context.Context, amount float64) (map[string]interface{}, error) {
	return c.pay(ctx, "/api/data", amount)
}

func (c *Client) pay(ctx context.Context, path string, amount float64) (map[string]interface{}, error) {
	payment := strconv.FormatFloat(amount, 'f', -1, 64)

	var result map[string]interface{}
	if err := c.post(ctx, path, nil, payment, &result); err != nil {
		return nil, err
	}
	observability.RecordPayment(path)
	return result, nil
}
