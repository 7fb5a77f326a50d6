package gateway

// Response payloads are loosely-typed on the wire. Every field is optional;
// a missing numeric field decodes to its zero value and that default is part
// of the contract. Presence of a whole payload is signalled by a non-nil
// pointer from the client methods.

// Balance is the current holdings snapshot for a wallet.
type Balance struct {
	// TotalUSDValue is a pointer because "explicitly zero" and "not
	// reported" are different signals for data quality.
	TotalUSDValue *float64       `json:"total_usd_value"`
	Tokens        []TokenHolding `json:"tokens,omitempty"`
}

// TokenHolding is one position inside a Balance.
type TokenHolding struct {
	Symbol   string  `json:"symbol"`
	Amount   float64 `json:"amount"`
	USDValue float64 `json:"usd_value"`
}

// Transactions is the recent activity for a wallet.
type Transactions struct {
	Transactions []Transaction `json:"transactions"`
}

// Transaction is one historical transaction entry.
type Transaction struct {
	Signature string `json:"signature"`
	BlockTime int64  `json:"block_time"`
	Kind      string `json:"kind,omitempty"`
}

// PnL is realized/unrealized profit data for a wallet.
type PnL struct {
	// PnLPercentage presence gates both scoring branches and the
	// has_pnl quality flag; an explicit 0 is still data.
	PnLPercentage *float64 `json:"pnl_percentage"`
	RealizedUSD   float64  `json:"realized_usd"`
}

// PnLSummary aggregates trade outcomes for a wallet.
type PnLSummary struct {
	// WinRate presence gates the win-rate scoring branch and the
	// report's win-rate line.
	WinRate *float64 `json:"win_rate"` // [0,1]
	Trades  int      `json:"trades"`
}

// Labels is the set of address labels known for a wallet.
type Labels struct {
	Labels []Label `json:"labels"`
}

// Label is one address label with attribution confidence.
type Label struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"` // [0,1], missing = 0
}

// Netflows is aggregate smart-money token flow for a chain list.
type Netflows struct {
	Netflows []Netflow `json:"netflows"`
}

// Netflow is directional movement for one token.
type Netflow struct {
	TokenAddress string  `json:"token_address"`
	NetflowUSD   float64 `json:"netflow_usd"` // missing = 0
}

// ScreenerFilters are the thresholds sent to the token screener.
type ScreenerFilters struct {
	MinVolumeUSD    float64 `json:"min_volume_usd"`
	MinHolders      int64   `json:"min_holders"`
	MinHolderGrowth float64 `json:"min_holder_growth"`
}

// ScreenerResult is a page of candidate tokens matching the filters.
type ScreenerResult struct {
	Tokens []ScreenerToken `json:"tokens"`
}

// ScreenerToken is one screener candidate.
type ScreenerToken struct {
	TokenAddress    string  `json:"token_address"`
	Token           string  `json:"token,omitempty"` // symbol, falls back to address
	Volume24hUSD    float64 `json:"volume_24h_usd"`
	Holders         int64   `json:"holders"`
	HolderGrowth24h float64 `json:"holder_growth_24h"`
	PriceChange24h  float64 `json:"price_change_24h"`
}
