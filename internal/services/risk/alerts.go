package risk

import (
	"fmt"
	"math"

	"FinSight/internal/domain/models"
)

// Hard limits above which a breached threshold becomes critical.
const (
	criticalVolatility = 0.50
	criticalMultiple   = 2.0
	criticalBeta       = 3.0
	criticalSharpe     = 0.0
)

// GenerateAlerts compares metrics against thresholds. Alerts are returned in
// a fixed order: volatility, var95, max_drawdown, beta, sharpe.
func (e *Engine) GenerateAlerts(symbol string, m models.RiskMetrics, th models.AlertThresholds) []models.RiskAlert {
	out := []models.RiskAlert{}
	add := func(typ string, critical bool, value, threshold float64, msg string) {
		sev := models.SeverityWarning
		if critical {
			sev = models.SeverityCritical
		}
		out = append(out, models.RiskAlert{
			Symbol:    symbol,
			Type:      typ,
			Severity:  sev,
			Message:   msg,
			Value:     value,
			Threshold: threshold,
		})
	}

	if m.Volatility > th.Volatility {
		add("volatility", m.Volatility > criticalVolatility, m.Volatility, th.Volatility,
			fmt.Sprintf("annualized volatility %.1f%% exceeds %.1f%%", m.Volatility*100, th.Volatility*100))
	}
	if m.VaR95 > th.VaR95 {
		add("var95", m.VaR95 > th.VaR95*criticalMultiple, m.VaR95, th.VaR95,
			fmt.Sprintf("1-day VaR95 %.2f%% exceeds %.2f%%", m.VaR95*100, th.VaR95*100))
	}
	if m.MaxDrawdown > th.MaxDrawdown {
		add("max_drawdown", m.MaxDrawdown > th.MaxDrawdown*criticalMultiple, m.MaxDrawdown, th.MaxDrawdown,
			fmt.Sprintf("max drawdown %.1f%% exceeds %.1f%%", m.MaxDrawdown*100, th.MaxDrawdown*100))
	}
	if b := math.Abs(m.Beta); b > th.Beta {
		add("beta", b > criticalBeta, m.Beta, th.Beta,
			fmt.Sprintf("beta %.2f beyond ±%.2f", m.Beta, th.Beta))
	}
	if m.SharpeRatio < th.Sharpe {
		add("sharpe", m.SharpeRatio < criticalSharpe, m.SharpeRatio, th.Sharpe,
			fmt.Sprintf("sharpe ratio %.2f below %.2f", m.SharpeRatio, th.Sharpe))
	}
	return out
}
