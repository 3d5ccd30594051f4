package models

import "time"

// RiskMetrics are dimensionless ratios or fractional returns.
type RiskMetrics struct {
	VaR95         float64 `json:"var95"`
	VaR99         float64 `json:"var99"`
	CVaR95        float64 `json:"cvar95"`
	SharpeRatio   float64 `json:"sharpe_ratio"`
	Beta          float64 `json:"beta"`
	Volatility    float64 `json:"volatility"`
	MaxDrawdown   float64 `json:"max_drawdown"`
	LiquidityRisk float64 `json:"liquidity_risk"`
	CreditRisk    float64 `json:"credit_risk"`
}

// Holding is one portfolio position.
type Holding struct {
	Symbol string  `json:"symbol"`
	Weight float64 `json:"weight"`
	Series Series  `json:"series,omitempty"`
}

// PortfolioRisk rows and columns of CorrelationMatrix follow Symbols.
type PortfolioRisk struct {
	Symbols                []string           `json:"symbols"`
	TotalRisk              float64            `json:"total_risk"`
	DiversificationBenefit float64            `json:"diversification_benefit"`
	CorrelationMatrix      [][]float64        `json:"correlation_matrix"`
	RiskContribution       map[string]float64 `json:"risk_contribution"`
	OptimalWeights         map[string]float64 `json:"optimal_weights"`
}

type MonteCarloRisk struct {
	VaR95               float64 `json:"var95"`
	VaR99               float64 `json:"var99"`
	CVaR95              float64 `json:"cvar95"`
	ProbabilityOfLoss   float64 `json:"probability_of_loss"`
	ExpectedMaxDrawdown float64 `json:"expected_max_drawdown"`
}

// MonteCarloResult keeps at most a bounded sample of full paths in Scenarios;
// percentiles and risk figures cover every simulated path.
type MonteCarloResult struct {
	InitialPrice   float64            `json:"initial_price"`
	HorizonDays    int                `json:"horizon_days"`
	Paths          int                `json:"paths"`
	Scenarios      [][]float64        `json:"scenarios"`
	Percentiles    map[string]float64 `json:"percentiles"`
	MeanTerminal   float64            `json:"mean_terminal"`
	ExpectedReturn float64            `json:"expected_return"`
	RiskMetrics    MonteCarloRisk     `json:"risk_metrics"`
}

// Regime states reported by the market-risk assessment.
const (
	RegimeBull     = "bull"
	RegimeBear     = "bear"
	RegimeVolatile = "volatile"
	RegimeQuiet    = "quiet"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// MarketRisk describes market-wide conditions from a benchmark series.
type MarketRisk struct {
	Regime      string    `json:"regime"`
	Volatility  float64   `json:"volatility"`
	Trend       float64   `json:"trend"`
	Drawdown    float64   `json:"drawdown"`
	Correlation float64   `json:"correlation"`
	Level       RiskLevel `json:"level"`
	Factors     []string  `json:"factors"`
}

type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// RiskAlert is produced by the alert generator. ID and CreatedAt are stamped
// by the publisher, not by the engine.
type RiskAlert struct {
	ID        string    `json:"id,omitempty"`
	Symbol    string    `json:"symbol"`
	Type      string    `json:"type"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type AlertThresholds struct {
	Volatility  float64 `json:"volatility" yaml:"volatility" default:"0.30"`
	VaR95       float64 `json:"var95" yaml:"var95" default:"0.05"`
	MaxDrawdown float64 `json:"max_drawdown" yaml:"max_drawdown" default:"0.20"`
	Beta        float64 `json:"beta" yaml:"beta" default:"2.0"`
	Sharpe      float64 `json:"sharpe" yaml:"sharpe" default:"0.5"`
}

func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{Volatility: 0.30, VaR95: 0.05, MaxDrawdown: 0.20, Beta: 2.0, Sharpe: 0.5}
}

// StockRiskReport is the host-level bundle for a single symbol.
type StockRiskReport struct {
	Symbol  string      `json:"symbol"`
	Bars    int         `json:"bars"`
	Metrics RiskMetrics `json:"metrics"`
	Market  *MarketRisk `json:"market,omitempty"`
	Alerts  []RiskAlert `json:"alerts"`
}
