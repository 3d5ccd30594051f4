package models

// Direction is the ensemble's predicted move. Declaration order breaks vote ties.
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// Directions lists every direction in tie-break order.
var Directions = []Direction{DirectionUp, DirectionDown, DirectionNeutral}

// Sign returns +1 for up, -1 for down and 0 for neutral.
func (d Direction) Sign() float64 {
	switch d {
	case DirectionUp:
		return 1
	case DirectionDown:
		return -1
	default:
		return 0
	}
}

// PredictionResult is one ensemble estimate. Price is a heuristic projection,
// not a calibrated forecast.
type PredictionResult struct {
	Symbol       string    `json:"symbol,omitempty"`
	Horizon      string    `json:"horizon"`
	CurrentPrice float64   `json:"current_price"`
	Price        float64   `json:"price"`
	Confidence   float64   `json:"confidence"`
	Direction    Direction `json:"direction"`
	Probability  float64   `json:"probability"`
}

type TradeSide string

const (
	SideLong  TradeSide = "long"
	SideShort TradeSide = "short"
)

type Trade struct {
	Side       TradeSide `json:"side"`
	EntryIndex int       `json:"entry_index"`
	ExitIndex  int       `json:"exit_index"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Return     float64   `json:"return"`
}

// Strategy controls the backtest loop.
type Strategy struct {
	Horizon             string  `json:"horizon" default:"1d"`
	ConfidenceThreshold float64 `json:"confidence_threshold" default:"0.6"`
	AllowShort          bool    `json:"allow_short"`
}

type BacktestResult struct {
	StartIndex  int     `json:"start_index"`
	Steps       int     `json:"steps"`
	Trades      []Trade `json:"trades"`
	TotalReturn float64 `json:"total_return"`
	WinRate     float64 `json:"win_rate"`
	AverageWin  float64 `json:"average_win"`
	AverageLoss float64 `json:"average_loss"`
	MaxDrawdown float64 `json:"max_drawdown"`
	SharpeRatio float64 `json:"sharpe_ratio"`
}

// TrainingReport summarises a retrain pass.
type TrainingReport struct {
	Symbol    string         `json:"symbol"`
	Timeframe string         `json:"timeframe,omitempty"`
	Bars      int            `json:"bars"`
	Samples   map[string]int `json:"samples"`
	Horizons  []string       `json:"horizons"`
}

// PredictionInput is everything the ensemble reads for one symbol.
// News and Market are optional. Timeframe and Lookback describe how Series
// was loaded; together with Symbol they select the fitted model.
type PredictionInput struct {
	Symbol    string
	Timeframe string
	Lookback  int
	Series    Series
	News      []NewsItem
	Market    Series
}
