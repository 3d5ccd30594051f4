package models

// Requests for analytics HTTP endpoints. Defined in domain for consistency and reuse.

type SeriesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"300" validate:"gte=2,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1d" validate:"oneof=1m 1h 1d"`
}

type StockRiskRequest struct {
	Symbol    string `query:"symbol" json:"symbol" validate:"required"`
	Benchmark string `query:"benchmark" json:"benchmark"`
	N         int    `query:"n" json:"n" default:"252" validate:"gte=2,lte=5000"`
	TF        string `query:"tf" json:"tf" default:"1d" validate:"oneof=1m 1h 1d"`
}

type PortfolioHolding struct {
	Symbol string  `json:"symbol" validate:"required"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

type PortfolioRequest struct {
	Holdings []PortfolioHolding `json:"holdings" validate:"required,min=1,max=50,dive"`
	N        int                `json:"n" default:"252" validate:"gte=2,lte=5000"`
	TF       string             `json:"tf" default:"1d" validate:"oneof=1m 1h 1d"`
}

// MonteCarloRequest: zero ExpectedReturn/Volatility are estimated from history.
type MonteCarloRequest struct {
	Symbol         string   `json:"symbol" validate:"required"`
	HorizonDays    int      `json:"horizon_days" default:"21" validate:"gte=1,lte=1260"`
	Paths          int      `json:"paths" default:"1000" validate:"gte=1,lte=100000"`
	ExpectedReturn *float64 `json:"expected_return"`
	Volatility     *float64 `json:"volatility" validate:"omitempty,gte=0"`
	Parallel       bool     `json:"parallel"`
}

type PredictRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	Horizons string `query:"horizons" json:"horizons" default:"1d,1w,1m"`
	N        int    `query:"n" json:"n" default:"300" validate:"gte=2,lte=5000"`
	TF       string `query:"tf" json:"tf" default:"1d" validate:"oneof=1m 1h 1d"`
}

type BacktestRequest struct {
	Symbol     string   `json:"symbol" validate:"required"`
	StartIndex int      `json:"start_index" default:"100" validate:"gte=0"`
	N          int      `json:"n" default:"300" validate:"gte=2,lte=5000"`
	TF         string   `json:"tf" default:"1d" validate:"oneof=1m 1h 1d"`
	Strategy   Strategy `json:"strategy"`
}

// RetrainRequest refits a symbol's prediction models on its latest bars.
type RetrainRequest struct {
	Symbol string `json:"symbol" validate:"required"`
	N      int    `json:"n" default:"300" validate:"gte=2,lte=5000"`
	TF     string `json:"tf" default:"1d" validate:"oneof=1m 1h 1d"`
}

type SentimentRequest struct {
	Text string `json:"text" validate:"max=20000"`
}

type NewsImpactRequest struct {
	Item NewsItem `json:"item"`
}

type NewsTrendRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Hours  int    `query:"hours" json:"hours" default:"24" validate:"gte=1,lte=720"`
}

type NewsRelevanceRequest struct {
	Symbol         string  `query:"symbol" json:"symbol" validate:"required"`
	MinCredibility float64 `query:"min_credibility" json:"min_credibility" validate:"gte=0,lte=1"`
	MinImpact      float64 `query:"min_impact" json:"min_impact" validate:"gte=0,lte=100"`
	Hours          int     `query:"hours" json:"hours" default:"24" validate:"gte=1,lte=720"`
}

type DashboardRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	TF     string `query:"tf" json:"tf" default:"1d" validate:"oneof=1m 1h 1d"`
}
