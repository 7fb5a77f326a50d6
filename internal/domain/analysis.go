package domain

// AnalysisType identifies which generator produced an analysis.
type AnalysisType string

const (
	AnalysisWalletIntelligence AnalysisType = "wallet_intelligence"
	AnalysisTokenScreening     AnalysisType = "token_screening"
)

// Analysis is the structured record produced alongside a solution report.
// The agent keeps at most one (the latest); the history store keeps all.
type Analysis struct {
	Type         AnalysisType  `json:"type"`
	Wallet       string        `json:"wallet,omitempty"`
	Chain        string        `json:"chain"`
	IsSmartMoney bool          `json:"is_smart_money,omitempty"`
	Confidence   float64       `json:"confidence,omitempty"` // [0,1]
	RiskScore    float64       `json:"risk_score,omitempty"` // [0,1]
	Summary      string        `json:"summary"`
	Tokens       []RankedToken `json:"tokens,omitempty"`
	CreatedAt    int64         `json:"created_at,omitempty"` // Unix ms
}

// RankedToken is one screening result, ephemeral per cycle.
type RankedToken struct {
	Token       string  `json:"token"`
	Inflow      float64 `json:"inflow"`     // net smart-money inflow USD, rounded to 2
	Confidence  float64 `json:"confidence"` // [0,1], rounded to 2
	Volume      float64 `json:"volume"`     // 24h volume USD
	Holders     int64   `json:"holders"`
	Growth      float64 `json:"growth"` // 24h holder growth
	PriceChange float64 `json:"price_change"`
}

// DataQuality records which wallet endpoints returned usable data.
// Each present flag adds to the confidence score.
type DataQuality struct {
	HasBalance      bool
	HasPnL          bool
	HasLabels       bool
	HasTransactions bool
}
