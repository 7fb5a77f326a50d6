package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetCurrentBalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/wallet/balance" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("address") != "wallet1" || r.URL.Query().Get("chain") != "solana" {
			t.Errorf("query = %v", r.URL.Query())
		}
		w.Write([]byte(`{"total_usd_value": 1234.5, "tokens": [{"symbol": "SOL", "amount": 10, "usd_value": 1234.5}]}`))
	}))
	defer server.Close()

	c := New(server.URL)
	balance, err := c.GetCurrentBalance(context.Background(), "wallet1", "solana")
	if err != nil {
		t.Fatalf("GetCurrentBalance: %v", err)
	}

	if balance.TotalUSDValue == nil || *balance.TotalUSDValue != 1234.5 {
		t.Errorf("TotalUSDValue = %v", balance.TotalUSDValue)
	}
	if len(balance.Tokens) != 1 || balance.Tokens[0].Symbol != "SOL" {
		t.Errorf("Tokens = %+v", balance.Tokens)
	}
}

func TestGetPnLAbsentFieldStaysNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"realized_usd": 50}`))
	}))
	defer server.Close()

	c := New(server.URL)
	pnl, err := c.GetPnL(context.Background(), "wallet1", "solana")
	if err != nil {
		t.Fatalf("GetPnL: %v", err)
	}

	if pnl.PnLPercentage != nil {
		t.Errorf("PnLPercentage = %v, want nil for absent field", *pnl.PnLPercentage)
	}
	if pnl.RealizedUSD != 50 {
		t.Errorf("RealizedUSD = %v", pnl.RealizedUSD)
	}
}

func TestGetPnLExplicitZeroIsPresent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pnl_percentage": 0}`))
	}))
	defer server.Close()

	c := New(server.URL)
	pnl, err := c.GetPnL(context.Background(), "wallet1", "solana")
	if err != nil {
		t.Fatalf("GetPnL: %v", err)
	}

	if pnl.PnLPercentage == nil || *pnl.PnLPercentage != 0 {
		t.Errorf("PnLPercentage = %v, want explicit zero", pnl.PnLPercentage)
	}
}

func TestGetSmartMoneyNetflows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query()["chain"]; len(got) != 2 || got[0] != "solana" || got[1] != "ethereum" {
			t.Errorf("chain query = %v", got)
		}
		w.Write([]byte(`{"netflows": [{"token_address": "tok1", "netflow_usd": 500}]}`))
	}))
	defer server.Close()

	c := New(server.URL)
	netflows, err := c.GetSmartMoneyNetflows(context.Background(), []string{"solana", "ethereum"})
	if err != nil {
		t.Fatalf("GetSmartMoneyNetflows: %v", err)
	}

	if len(netflows.Netflows) != 1 || netflows.Netflows[0].NetflowUSD != 500 {
		t.Errorf("Netflows = %+v", netflows.Netflows)
	}
}

func TestGetTokenScreenerPostBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		if r.URL.Path != "/api/token/screener" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}

		var req screenerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if req.Chain != "solana" || req.Page != 1 || req.PerPage != 10 {
			t.Errorf("request = %+v", req)
		}
		if req.Filters.MinVolumeUSD != 1000000 {
			t.Errorf("filters = %+v", req.Filters)
		}

		w.Write([]byte(`{"tokens": [{"token_address": "tok1", "token": "TOK", "volume_24h_usd": 2000000}]}`))
	}))
	defer server.Close()

	c := New(server.URL)
	filters := ScreenerFilters{MinVolumeUSD: 1000000, MinHolders: 1000, MinHolderGrowth: 5}
	result, err := c.GetTokenScreener(context.Background(), "solana", filters, 1, 10)
	if err != nil {
		t.Fatalf("GetTokenScreener: %v", err)
	}

	if len(result.Tokens) != 1 || result.Tokens[0].Token != "TOK" {
		t.Errorf("Tokens = %+v", result.Tokens)
	}
}

func TestPaySetsPaymentHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-402-Payment"); got != "0.01" {
			t.Errorf("payment header = %q", got)
		}
		w.Write([]byte(`{"price": 142.5}`))
	}))
	defer server.Close()

	c := New(server.URL)
	result, err := c.PayForSwitchboard(context.Background(), 0.01)
	if err != nil {
		t.Fatalf("PayForSwitchboard: %v", err)
	}

	if result["price"] != 142.5 {
		t.Errorf("result = %v", result)
	}
}

func TestErrorStatusSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "payment required", http.StatusPaymentRequired)
	}))
	defer server.Close()

	c := New(server.URL)
	if _, err := c.GetLabels(context.Background(), "wallet1", "solana"); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := New(server.URL)
	if _, err := c.GetTransactions(context.Background(), "wallet1", "solana"); err == nil {
		t.Error("expected error for malformed body")
	}
}
