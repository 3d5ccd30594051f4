package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FinSight/internal/domain/models"
	domrepo "FinSight/internal/domain/repository"
	domsvc "FinSight/internal/domain/service"
	"FinSight/internal/services/features"
	"FinSight/pkg/logger"
	pkgmetrics "FinSight/pkg/metrics"
)

const (
	defaultLookback = 300
	newsWindow      = 7 * 24 * time.Hour
	newsLimit       = 200
)

// AnalyticsConfig carries the host-level knobs the engines do not own.
type AnalyticsConfig struct {
	RiskFreeRate      float64
	Benchmark         string
	Lookback          int
	MonteCarloPaths   int
	MonteCarloWorkers int
	Thresholds        models.AlertThresholds
}

// Analytics loads market data from the stores and runs the engines over it.
type Analytics struct {
	bars    domrepo.BarStore
	news    domrepo.NewsStore
	tech    domsvc.TechnicalAnalyzer
	risk    domsvc.RiskAssessor
	pred    domsvc.Predictor
	sent    domsvc.SentimentScorer
	metrics domrepo.Metrics
	log     *logger.Logger
	cfg     AnalyticsConfig
	now     func() time.Time
}

func NewAnalytics(
	bars domrepo.BarStore,
	news domrepo.NewsStore,
	tech domsvc.TechnicalAnalyzer,
	risk domsvc.RiskAssessor,
	pred domsvc.Predictor,
	sent domsvc.SentimentScorer,
	metrics domrepo.Metrics,
	l *logger.Logger,
	cfg AnalyticsConfig,
) *Analytics {
	if cfg.Lookback <= 0 {
		cfg.Lookback = defaultLookback
	}
	if cfg.MonteCarloPaths <= 0 {
		cfg.MonteCarloPaths = 1000
	}
	if cfg.Thresholds == (models.AlertThresholds{}) {
		cfg.Thresholds = models.DefaultAlertThresholds()
	}
	if l == nil {
		l = logger.Nop()
	}
	if metrics == nil {
		metrics = pkgmetrics.Nop{}
	}
	return &Analytics{
		bars: bars, news: news,
		tech: tech, risk: risk, pred: pred, sent: sent,
		metrics: metrics, log: l, cfg: cfg, now: time.Now,
	}
}

// Thresholds returns the configured alert thresholds.
func (a *Analytics) Thresholds() models.AlertThresholds { return a.cfg.Thresholds }

func (a *Analytics) track(engine, op string, start time.Time) {
	a.metrics.RecordComputation(engine, op, time.Since(start).Seconds())
}

func (a *Analytics) fail(kind string, err error) error {
	if err != nil {
		a.metrics.RecordError(kind)
	}
	return err
}

func (a *Analytics) load(ctx context.Context, symbol string, n int, tf string) (models.Series, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, models.InvalidParameterf("symbol is required")
	}
	if n <= 0 {
		n = a.cfg.Lookback
	}
	series, err := a.bars.GetLatestNBars(ctx, symbol, n, domrepo.NormalizeTimeframe(tf))
	if err != nil {
		return nil, a.fail("load_bars", fmt.Errorf("get bars %s: %w", symbol, err))
	}
	if err := series.Validate(); err != nil {
		return nil, a.fail("invalid_bars", fmt.Errorf("bars %s: %w", symbol, err))
	}
	return series, nil
}

// optional loads a secondary series; failures only degrade the result.
func (a *Analytics) optional(ctx context.Context, symbol string, n int, tf string) models.Series {
	series, err := a.load(ctx, symbol, n, tf)
	if err != nil {
		a.log.Warn("secondary series unavailable", logger.String("symbol", symbol), logger.Error(err))
		return nil
	}
	return series
}

func (a *Analytics) recentNews(ctx context.Context, symbol string, since time.Time) ([]models.NewsItem, error) {
	if a.news == nil {
		return nil, nil
	}
	items, err := a.news.RecentNews(ctx, symbol, since, newsLimit)
	if err != nil {
		return nil, a.fail("load_news", fmt.Errorf("recent news %s: %w", symbol, err))
	}
	return items, nil
}

func (a *Analytics) Technical(ctx context.Context, symbol string, n int, tf string) (models.TechnicalReport, error) {
	series, err := a.load(ctx, symbol, n, tf)
	if err != nil {
		return models.TechnicalReport{}, err
	}
	defer a.track("technical", "analyze", time.Now())
	rep, err := a.tech.Analyze(series)
	if err != nil {
		return models.TechnicalReport{}, a.fail("technical", err)
	}
	rep.Symbol = symbol
	return rep, nil
}

func (a *Analytics) TechnicalScore(ctx context.Context, symbol string, n int, tf string) (models.TechnicalScore, error) {
	series, err := a.load(ctx, symbol, n, tf)
	if err != nil {
		return models.TechnicalScore{}, err
	}
	defer a.track("technical", "score", time.Now())
	return a.tech.TechnicalScore(series), nil
}

// StockRisk assesses symbol against benchmark (the configured benchmark when
// empty). A missing benchmark series leaves Market nil.
func (a *Analytics) StockRisk(ctx context.Context, symbol, benchmark string, n int, tf string) (models.StockRiskReport, error) {
	series, err := a.load(ctx, symbol, n, tf)
	if err != nil {
		return models.StockRiskReport{}, err
	}
	if benchmark == "" {
		benchmark = a.cfg.Benchmark
	}
	var market models.Series
	if benchmark != "" && !strings.EqualFold(benchmark, symbol) {
		market = a.optional(ctx, benchmark, len(series), tf)
	}
	return a.assess(symbol, series, market), nil
}

func (a *Analytics) assess(symbol string, series, market models.Series) models.StockRiskReport {
	defer a.track("risk", "stock", time.Now())
	rep := models.StockRiskReport{
		Symbol:  symbol,
		Bars:    len(series),
		Metrics: a.risk.AssessStockRisk(series, market, a.cfg.RiskFreeRate),
	}
	if len(market) > 0 {
		mr := a.risk.AssessMarketRisk(market, series)
		rep.Market = &mr
	}
	rep.Alerts = a.risk.GenerateAlerts(symbol, rep.Metrics, a.cfg.Thresholds)
	if rep.Alerts == nil {
		rep.Alerts = []models.RiskAlert{}
	}
	return rep
}

func (a *Analytics) Portfolio(ctx context.Context, holdings []models.PortfolioHolding, n int, tf string) (models.PortfolioRisk, error) {
	if len(holdings) == 0 {
		return models.PortfolioRisk{}, models.InvalidParameterf("portfolio needs at least one holding")
	}
	hs := make([]models.Holding, 0, len(holdings))
	for _, h := range holdings {
		series, err := a.load(ctx, h.Symbol, n, tf)
		if err != nil {
			return models.PortfolioRisk{}, err
		}
		hs = append(hs, models.Holding{Symbol: h.Symbol, Weight: h.Weight, Series: series})
	}
	defer a.track("risk", "portfolio", time.Now())
	res, err := a.risk.AssessPortfolioRisk(hs)
	return res, a.fail("risk", err)
}

// MonteCarlo simulates daily paths from the latest close. Drift and volatility
// the request leaves unset are estimated from the daily lookback.
func (a *Analytics) MonteCarlo(ctx context.Context, req models.MonteCarloRequest) (models.MonteCarloResult, error) {
	series, err := a.load(ctx, req.Symbol, a.cfg.Lookback, string(domrepo.TF1d))
	if err != nil {
		return models.MonteCarloResult{}, err
	}
	mu, sigma := EstimateDrift(series)
	if req.ExpectedReturn != nil {
		mu = *req.ExpectedReturn
	}
	if req.Volatility != nil {
		sigma = *req.Volatility
	}
	paths := req.Paths
	if paths <= 0 {
		paths = a.cfg.MonteCarloPaths
	}

	defer a.track("risk", "montecarlo", time.Now())
	var res models.MonteCarloResult
	if req.Parallel && a.cfg.MonteCarloWorkers > 1 {
		res, err = a.risk.MonteCarloParallel(series.LastClose(), mu, sigma, req.HorizonDays, paths, a.cfg.MonteCarloWorkers)
	} else {
		res, err = a.risk.MonteCarlo(series.LastClose(), mu, sigma, req.HorizonDays, paths)
	}
	return res, a.fail("montecarlo", err)
}

// EstimateDrift returns annualized drift and volatility of daily log returns.
func EstimateDrift(series models.Series) (mu, sigma float64) {
	rets := features.ComputeLogReturns(series)
	bpy := domrepo.TF1d.BarsPerYear()
	return features.AnnualizedDrift(rets, len(rets), bpy), features.RealizedVolatility(rets, len(rets), bpy)
}

// Predict attaches a week of stored news and the benchmark series when they
// are available.
func (a *Analytics) Predict(ctx context.Context, symbol string, horizons []string, n int, tf string) ([]models.PredictionResult, error) {
	series, err := a.load(ctx, symbol, n, tf)
	if err != nil {
		return nil, err
	}
	in := predictionInput(symbol, n, tf, series)
	if news, err := a.recentNews(ctx, symbol, a.now().Add(-newsWindow)); err != nil {
		a.log.Warn("predict without news", logger.String("symbol", symbol), logger.Error(err))
	} else {
		in.News = news
	}
	if a.cfg.Benchmark != "" && !strings.EqualFold(a.cfg.Benchmark, symbol) {
		in.Market = a.optional(ctx, a.cfg.Benchmark, len(series), tf)
	}

	defer a.track("prediction", "predict", time.Now())
	res, err := a.pred.Predict(in, horizons...)
	return res, a.fail("prediction", err)
}

// Retrain refits the symbol's models on the latest n bars and drops its
// cached predictions.
func (a *Analytics) Retrain(ctx context.Context, symbol string, n int, tf string) (models.TrainingReport, error) {
	series, err := a.load(ctx, symbol, n, tf)
	if err != nil {
		return models.TrainingReport{}, err
	}
	defer a.track("prediction", "retrain", time.Now())
	rep, err := a.pred.Retrain(predictionInput(symbol, n, tf, series))
	return rep, a.fail("retrain", err)
}

func predictionInput(symbol string, n int, tf string, series models.Series) models.PredictionInput {
	return models.PredictionInput{
		Symbol:    strings.ToUpper(symbol),
		Timeframe: string(domrepo.NormalizeTimeframe(tf)),
		Lookback:  n,
		Series:    series,
	}
}

func (a *Analytics) Backtest(ctx context.Context, req models.BacktestRequest) (models.BacktestResult, error) {
	series, err := a.load(ctx, req.Symbol, req.N, req.TF)
	if err != nil {
		return models.BacktestResult{}, err
	}
	defer a.track("prediction", "backtest", time.Now())
	res, err := a.pred.Backtest(series, req.StartIndex, req.Strategy)
	return res, a.fail("backtest", err)
}

func (a *Analytics) Sentiment(text string) models.SentimentScore {
	defer a.track("sentiment", "analyze", time.Now())
	return a.sent.AnalyzeSentiment(text)
}

func (a *Analytics) NewsImpact(item models.NewsItem) models.NewsImpact {
	defer a.track("sentiment", "impact", time.Now())
	return a.sent.CalculateNewsImpact(item)
}

func (a *Analytics) SentimentTrend(ctx context.Context, symbol string, since time.Time) ([]models.TrendPoint, error) {
	items, err := a.recentNews(ctx, symbol, since)
	if err != nil {
		return nil, err
	}
	defer a.track("sentiment", "trend", time.Now())
	return a.sent.SentimentTrend(items, symbol), nil
}

func (a *Analytics) FilterNews(ctx context.Context, symbol string, minCredibility, minImpact float64, since time.Time) ([]models.NewsItem, error) {
	items, err := a.recentNews(ctx, symbol, since)
	if err != nil {
		return nil, err
	}
	defer a.track("sentiment", "filter", time.Now())
	out, err := a.sent.FilterByRelevance(items, symbol, minCredibility, minImpact)
	return out, a.fail("sentiment", err)
}

// SentimentCorrelation correlates the hourly trend with hourly bars over the
// same window.
func (a *Analytics) SentimentCorrelation(ctx context.Context, symbol string, since time.Time) (models.SentimentCorrelation, error) {
	trend, err := a.SentimentTrend(ctx, symbol, since)
	if err != nil {
		return models.SentimentCorrelation{}, err
	}
	// one extra bar gives the first bucket a previous close
	from := since.Add(-domrepo.TF1h.Duration())
	series, err := a.bars.GetBars(ctx, symbol, from, a.now(), domrepo.TF1h)
	if err != nil {
		return models.SentimentCorrelation{}, a.fail("load_bars", fmt.Errorf("get bars %s: %w", symbol, err))
	}
	defer a.track("sentiment", "correlation", time.Now())
	return models.SentimentCorrelation{
		Symbol:      symbol,
		Correlation: a.sent.SentimentPriceCorrelation(trend, series),
		Trend:       trend,
	}, nil
}
