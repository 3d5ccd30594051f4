package service

import (
	"FinSight/internal/domain/models"
)

// TechnicalAnalyzer computes indicators, levels and patterns over a series.
type TechnicalAnalyzer interface {
	Analyze(series models.Series) (models.TechnicalReport, error)
	TechnicalScore(series models.Series) models.TechnicalScore
}

// RiskAssessor computes per-asset, portfolio and simulated risk.
type RiskAssessor interface {
	AssessStockRisk(series, market models.Series, riskFreeRate float64) models.RiskMetrics
	AssessPortfolioRisk(holdings []models.Holding) (models.PortfolioRisk, error)
	AssessMarketRisk(market, asset models.Series) models.MarketRisk
	MonteCarlo(initialPrice, expectedReturn, volatility float64, horizonDays, numPaths int) (models.MonteCarloResult, error)
	MonteCarloParallel(initialPrice, expectedReturn, volatility float64, horizonDays, numPaths, workers int) (models.MonteCarloResult, error)
	GenerateAlerts(symbol string, metrics models.RiskMetrics, thresholds models.AlertThresholds) []models.RiskAlert
}

// Predictor produces ensemble direction estimates per horizon.
type Predictor interface {
	Predict(in models.PredictionInput, horizons ...string) ([]models.PredictionResult, error)
	Backtest(series models.Series, startIndex int, strategy models.Strategy) (models.BacktestResult, error)
	Retrain(in models.PredictionInput) (models.TrainingReport, error)
}

// SentimentScorer scores text and news items.
type SentimentScorer interface {
	AnalyzeSentiment(text string) models.SentimentScore
	CalculateNewsImpact(item models.NewsItem) models.NewsImpact
	SentimentTrend(items []models.NewsItem, symbol string) []models.TrendPoint
	FilterByRelevance(items []models.NewsItem, symbol string, minCredibility, minImpact float64) ([]models.NewsItem, error)
	SentimentPriceCorrelation(trend []models.TrendPoint, series models.Series) float64
}
