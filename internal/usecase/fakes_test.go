package usecase

import (
	"context"
	"sync"
	"time"

	"FinSight/internal/domain/models"
	domrepo "FinSight/internal/domain/repository"
	"FinSight/internal/services/risk"
	"FinSight/internal/services/sentiment"
	"FinSight/internal/services/technical"
)

const day = int64(24 * 60 * 60 * 1000)

// wave builds n daily bars from a repeating return pattern.
func wave(n int, start float64) models.Series {
	pattern := []float64{0.012, -0.009, 0.004, -0.011, 0.008, 0.003, -0.005}
	out := make(models.Series, n)
	price := start
	for i := range out {
		if i > 0 {
			price *= 1 + pattern[i%len(pattern)]
		}
		out[i] = models.Bar{
			Timestamp: int64(i+1) * day,
			Open:      price,
			High:      price * 1.01,
			Low:       price * 0.99,
			Close:     price,
			Volume:    int64(1_000_000 + (i%5)*50_000),
		}
	}
	return out
}

type fakeBars struct {
	mu     sync.Mutex
	series map[string]models.Series
	err    error
	calls  []string
}

func newFakeBars() *fakeBars { return &fakeBars{series: map[string]models.Series{}} }

func (f *fakeBars) GetBars(_ context.Context, symbol string, from, to time.Time, _ domrepo.Timeframe) (models.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "range:"+symbol)
	if f.err != nil {
		return nil, f.err
	}
	var out models.Series
	for _, b := range f.series[symbol] {
		if b.Timestamp >= from.UnixMilli() && b.Timestamp <= to.UnixMilli() {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return nil, domrepo.ErrNotFound
	}
	return out, nil
}

func (f *fakeBars) GetLatestNBars(_ context.Context, symbol string, n int, _ domrepo.Timeframe) (models.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "latest:"+symbol)
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.series[symbol]
	if !ok {
		return nil, domrepo.ErrNotFound
	}
	return s.Tail(n), nil
}

func (f *fakeBars) SaveBars(_ context.Context, symbol string, _ domrepo.Timeframe, bars models.Series) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.series[symbol] = append(f.series[symbol], bars...)
	return nil
}

type fakeNews struct {
	mu    sync.Mutex
	items []models.NewsItem
	err   error
}

func (f *fakeNews) SaveNews(_ context.Context, item models.NewsItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.items = append(f.items, item)
	return nil
}

func (f *fakeNews) RecentNews(_ context.Context, symbol string, since time.Time, limit int) ([]models.NewsItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.NewsItem
	for _, it := range f.items {
		if it.PublishedAt >= since.UnixMilli() && it.Mentions(symbol) {
			out = append(out, it)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type fakePredictor struct {
	mu   sync.Mutex
	last models.PredictionInput
	err  error
}

func (f *fakePredictor) Predict(in models.PredictionInput, horizons ...string) ([]models.PredictionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	if len(horizons) == 0 {
		horizons = []string{"1d"}
	}
	out := make([]models.PredictionResult, 0, len(horizons))
	for _, h := range horizons {
		out = append(out, models.PredictionResult{
			Symbol:       in.Symbol,
			Horizon:      h,
			CurrentPrice: in.Series.LastClose(),
			Direction:    models.DirectionNeutral,
		})
	}
	return out, nil
}

func (f *fakePredictor) Backtest(series models.Series, startIndex int, _ models.Strategy) (models.BacktestResult, error) {
	if startIndex >= len(series) {
		return models.BacktestResult{}, models.InvalidParameterf("start index %d beyond %d bars", startIndex, len(series))
	}
	return models.BacktestResult{}, nil
}

func (f *fakePredictor) Retrain(in models.PredictionInput) (models.TrainingReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = in
	if f.err != nil {
		return models.TrainingReport{}, f.err
	}
	return models.TrainingReport{Symbol: in.Symbol, Timeframe: in.Timeframe, Bars: len(in.Series)}, nil
}

type countingMetrics struct {
	mu           sync.Mutex
	computations map[string]int
	errors       map[string]int
	alerts       map[string]int
	ingested     int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{computations: map[string]int{}, errors: map[string]int{}, alerts: map[string]int{}}
}

func (m *countingMetrics) RecordComputation(engine, op string, _ float64) {
	m.mu.Lock()
	m.computations[engine+"/"+op]++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordCacheResult(string, bool) {}

func (m *countingMetrics) RecordAlert(severity string) {
	m.mu.Lock()
	m.alerts[severity]++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordIngested(string) {
	m.mu.Lock()
	m.ingested++
	m.mu.Unlock()
}

type fixture struct {
	bars    *fakeBars
	news    *fakeNews
	pred    *fakePredictor
	metrics *countingMetrics
	uc      *Analytics
}

func newFixture(cfg AnalyticsConfig) *fixture {
	f := &fixture{
		bars:    newFakeBars(),
		news:    &fakeNews{},
		pred:    &fakePredictor{},
		metrics: newCountingMetrics(),
	}
	f.uc = NewAnalytics(f.bars, f.news, technical.New(), risk.New(risk.WithSeed(7)), f.pred, sentiment.New(), f.metrics, nil, cfg)
	return f
}
