package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/features"
	"FinSight/internal/services/prediction"
	"FinSight/internal/services/risk"
	"FinSight/internal/services/sentiment"
	"FinSight/internal/services/technical"
	"FinSight/internal/usecase"
	"FinSight/pkg/util"
)

var (
	analyzeBars        string
	analyzeNews        string
	analyzeBenchmark   string
	analyzeSymbol      string
	analyzeHorizons    string
	analyzeSeed        int64
	analyzeRiskFree    float64
	analyzePaths       int
	analyzeHorizonDays int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run every engine over a JSON bar file and print a report",
	Long: `Analyze reads daily bars from a JSON file and prints the technical report,
risk metrics, a Monte Carlo simulation, ensemble predictions and, when a news
file is given, news impact and sentiment trend. No infrastructure is needed.

The bar file is either an array of {timestamp, open, high, low, close, volume}
objects with millisecond timestamps, or {"symbol": ..., "bars": [...]}.

Examples:
  finsight analyze --bars acme.json
  finsight analyze --bars acme.json --news news.json --horizons 1d,1w --seed 42`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeBars, "bars", "", "bar file (required)")
	analyzeCmd.Flags().StringVar(&analyzeNews, "news", "", "news items file")
	analyzeCmd.Flags().StringVar(&analyzeBenchmark, "benchmark", "", "benchmark bar file for beta and market regime")
	analyzeCmd.Flags().StringVar(&analyzeSymbol, "symbol", "", "symbol (default: from the bar file)")
	analyzeCmd.Flags().StringVar(&analyzeHorizons, "horizons", "1d,1w,1m", "prediction horizons")
	analyzeCmd.Flags().Int64Var(&analyzeSeed, "seed", 0, "random seed (0 = time based)")
	analyzeCmd.Flags().Float64Var(&analyzeRiskFree, "risk-free", 0.02, "annual risk-free rate")
	analyzeCmd.Flags().IntVar(&analyzePaths, "paths", 1000, "Monte Carlo paths")
	analyzeCmd.Flags().IntVar(&analyzeHorizonDays, "horizon-days", 21, "Monte Carlo horizon in trading days")
	_ = analyzeCmd.MarkFlagRequired("bars")
}

type analyzeReport struct {
	Symbol      string                    `json:"symbol"`
	Bars        int                       `json:"bars"`
	Technical   models.TechnicalReport    `json:"technical"`
	Risk        models.StockRiskReport    `json:"risk"`
	MonteCarlo  *models.MonteCarloResult  `json:"monte_carlo,omitempty"`
	Predictions []models.PredictionResult `json:"predictions"`
	News        *newsReport               `json:"news,omitempty"`
	Errors      map[string]string         `json:"errors,omitempty"`
}

type newsReport struct {
	Items       int                 `json:"items"`
	Impacts     []models.NewsImpact `json:"impacts"`
	Trend       []models.TrendPoint `json:"trend"`
	Correlation float64             `json:"correlation"`
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	symbol, series, err := readBars(analyzeBars)
	if err != nil {
		return err
	}
	if analyzeSymbol != "" {
		symbol = analyzeSymbol
	}
	var market models.Series
	if analyzeBenchmark != "" {
		if _, market, err = readBars(analyzeBenchmark); err != nil {
			return err
		}
	}
	var news []models.NewsItem
	if analyzeNews != "" {
		if news, err = readNews(analyzeNews); err != nil {
			return err
		}
	}

	rep, err := analyze(symbol, series, market, news)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func analyze(symbol string, series, market models.Series, news []models.NewsItem) (*analyzeReport, error) {
	tech := technical.New()
	scorer := sentiment.New()
	rsk := risk.New(risk.WithSeed(analyzeSeed))
	pred := prediction.New(
		prediction.WithSeed(analyzeSeed),
		prediction.WithExtractor(features.NewExtractor(tech, scorer)),
	)

	techRep, err := tech.Analyze(series)
	if err != nil {
		return nil, fmt.Errorf("technical analysis: %w", err)
	}
	techRep.Symbol = symbol

	rep := &analyzeReport{
		Symbol:    symbol,
		Bars:      len(series),
		Technical: techRep,
		Errors:    map[string]string{},
	}

	metrics := rsk.AssessStockRisk(series, market, analyzeRiskFree)
	rep.Risk = models.StockRiskReport{
		Symbol:  symbol,
		Bars:    len(series),
		Metrics: metrics,
		Alerts:  rsk.GenerateAlerts(symbol, metrics, models.DefaultAlertThresholds()),
	}
	if len(market) > 0 {
		mr := rsk.AssessMarketRisk(market, series)
		rep.Risk.Market = &mr
	}

	mu, sigma := usecase.EstimateDrift(series)
	if mc, err := rsk.MonteCarlo(series.LastClose(), mu, sigma, analyzeHorizonDays, analyzePaths); err != nil {
		rep.Errors["monte_carlo"] = err.Error()
	} else {
		rep.MonteCarlo = &mc
	}

	in := models.PredictionInput{Symbol: symbol, Timeframe: "1d", Series: series, News: news, Market: market}
	if rep.Predictions, err = pred.Predict(in, util.SplitList(strings.ToLower(analyzeHorizons))...); err != nil {
		rep.Errors["predictions"] = err.Error()
	}

	if len(news) > 0 {
		nr := &newsReport{Items: len(news), Impacts: make([]models.NewsImpact, 0, len(news))}
		for _, it := range news {
			nr.Impacts = append(nr.Impacts, scorer.CalculateNewsImpact(it))
		}
		nr.Trend = scorer.SentimentTrend(news, symbol)
		nr.Correlation = scorer.SentimentPriceCorrelation(nr.Trend, series)
		rep.News = nr
	}

	if len(rep.Errors) == 0 {
		rep.Errors = nil
	}
	return rep, nil
}

func readBars(path string) (string, models.Series, error) {
	b, err := readFile(path)
	if err != nil {
		return "", nil, err
	}
	symbol := strings.ToUpper(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	var series models.Series
	if err := json.Unmarshal(b, &series); err != nil {
		var doc struct {
			Symbol string        `json:"symbol"`
			Bars   models.Series `json:"bars"`
		}
		if err := json.Unmarshal(b, &doc); err != nil {
			return "", nil, fmt.Errorf("parse bars %s: %w", path, err)
		}
		series = doc.Bars
		if doc.Symbol != "" {
			symbol = doc.Symbol
		}
	}
	if len(series) == 0 {
		return "", nil, fmt.Errorf("%s: no bars", path)
	}
	if err := series.Validate(); err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	return symbol, series, nil
}

func readNews(path string) ([]models.NewsItem, error) {
	b, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var items []models.NewsItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("parse news %s: %w", path, err)
	}
	return items, nil
}

func readFile(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}
