package prediction

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"FinSight/internal/domain/models"
	domsvc "FinSight/internal/domain/service"
	"FinSight/internal/service/cache"
	"FinSight/internal/services/features"
	"FinSight/internal/services/seriesmath"
)

const (
	// featureWindow caps the bars fed to the extractor per prediction.
	featureWindow = 120
	// minHistory is the shortest prefix used to build a training sample.
	minHistory = 30
	maxSamples = 250
	hiddenSize = 16
	cacheTTL   = 5 * time.Minute
)

// Option configures Engine.
type Option func(*Engine)

func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithSeed seeds network initialization; 0 keeps a time-based seed. Each
// model draws from its own source derived from the seed and its key, so the
// order in which symbols are first predicted does not change their weights.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = seriesmath.NewRand(seed) }
}

// WithCache caches Predict results for ttl within ttl-sized time buckets.
// A zero ttl uses 5 minutes.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(e *Engine) {
		e.cache = store
		if ttl > 0 {
			e.cacheTTL = ttl
		}
	}
}

func WithTrainer(t Trainer) Option {
	return func(e *Engine) {
		if t != nil {
			e.trainer = t
		}
	}
}

func WithExtractor(x *features.Extractor) Option {
	return func(e *Engine) {
		if x != nil {
			e.extractor = x
		}
	}
}

// WithWeights overrides the ensemble vote weights; the member count follows.
func WithWeights(w []float64) Option {
	return func(e *Engine) {
		if len(w) > 0 {
			e.weights = append([]float64(nil), w...)
		}
	}
}

// WithClock replaces the time source used for cache buckets.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine holds one ensemble per (symbol, timeframe, horizon). An ensemble is
// fitted on the series passed to the first Predict for its key and refitted
// by Retrain. Input without a symbol gets a throwaway fit on every call.
type Engine struct {
	mu         sync.RWMutex
	rng        *rand.Rand
	base       int64
	ensembles  map[string]*Ensemble
	generation int

	extractor *features.Extractor
	trainer   Trainer
	weights   []float64
	cache     cache.Store
	cacheTTL  time.Duration
	now       func() time.Time
}

func New(opts ...Option) *Engine {
	e := &Engine{
		rng:       seriesmath.NewRand(0),
		ensembles: make(map[string]*Ensemble),
		extractor: features.NewExtractor(nil, nil),
		trainer:   DefaultTrainer(),
		weights:   DefaultWeights,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.base = e.rng.Int63()
	return e
}

var _ domsvc.Predictor = (*Engine)(nil)

// Predict returns one result per known horizon, in request order. Unknown
// horizons are skipped; none requested means DefaultHorizons.
func (e *Engine) Predict(in models.PredictionInput, names ...string) ([]models.PredictionResult, error) {
	if err := in.Series.Validate(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		names = DefaultHorizons
	}
	key, cacheable := e.cacheKey(in, names)
	if cacheable {
		if v, ok := e.cache.Get(key); ok {
			if res, ok := v.([]models.PredictionResult); ok {
				return res, nil
			}
		}
	}

	window := in.Series.Tail(featureWindow)
	x := e.extractor.Extract(window, in.News, in.Market)
	current := in.Series.LastClose()

	out := make([]models.PredictionResult, 0, len(names))
	for _, name := range names {
		h, ok := LookupHorizon(name)
		if !ok {
			continue
		}
		en := e.ensembleFor(in, h)
		e.mu.RLock()
		v := en.Vote(x)
		e.mu.RUnlock()
		out = append(out, result(in.Symbol, h, current, v))
	}
	if cacheable {
		e.cache.Set(key, out, e.cacheTTL)
	}
	return out, nil
}

func result(symbol string, h Horizon, current float64, v Vote) models.PredictionResult {
	return models.PredictionResult{
		Symbol:       symbol,
		Horizon:      h.Name,
		CurrentPrice: current,
		Price:        current * (1 + h.Multiplier*v.Direction.Sign()*v.Probability),
		Confidence:   v.Confidence,
		Direction:    v.Direction,
		Probability:  v.Probability,
	}
}

func (e *Engine) cacheKey(in models.PredictionInput, names []string) (string, bool) {
	if e.cache == nil || in.Symbol == "" || len(in.Series) == 0 {
		return "", false
	}
	e.mu.RLock()
	gen := e.generation
	e.mu.RUnlock()
	step := int64(e.cacheTTL / time.Second)
	if step < 1 {
		step = 1
	}
	bucket := e.now().Unix() / step
	last := in.Series[len(in.Series)-1].Timestamp
	return fmt.Sprintf("predict|%s|%s|%d|%s|%d|%d|%d|%d",
		in.Symbol, in.Timeframe, in.Lookback, strings.Join(names, ","), last, len(in.News), bucket, gen), true
}

func modelKey(symbol, tf string, h Horizon) string {
	return symbol + "|" + tf + "|" + h.Name
}

// randFor returns a source that depends only on the engine seed and key.
func (e *Engine) randFor(key string) *rand.Rand {
	return rand.New(rand.NewSource(e.base ^ int64(xxhash.Sum64String(key))))
}

func (e *Engine) fit(key string, h Horizon, series models.Series, limit int) *Ensemble {
	en := newEnsemble(features.Size, hiddenSize, e.weights, e.randFor(key))
	en.train(e.trainer, e.samples(h, series, limit))
	return en
}

// ensembleFor returns the fitted ensemble for the input's key and h, fitting
// it on the input series first when none exists yet.
func (e *Engine) ensembleFor(in models.PredictionInput, h Horizon) *Ensemble {
	key := modelKey(in.Symbol, in.Timeframe, h)
	if in.Symbol == "" {
		return e.fit(key, h, in.Series, len(in.Series))
	}
	e.mu.RLock()
	en, ok := e.ensembles[key]
	e.mu.RUnlock()
	if ok {
		return en
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if en, ok := e.ensembles[key]; ok {
		return en
	}
	en = e.fit(key, h, in.Series, len(in.Series))
	e.ensembles[key] = en
	return en
}

// samples builds labelled vectors whose forward window ends before limit.
func (e *Engine) samples(h Horizon, series models.Series, limit int) []Sample {
	if limit > len(series) {
		limit = len(series)
	}
	last := limit - 1 - h.Days
	first := minHistory - 1
	if last-first+1 > maxSamples {
		first = last - maxSamples + 1
	}
	var out []Sample
	for t := first; t <= last; t++ {
		if t < 0 {
			continue
		}
		prefix := series[:t+1].Tail(featureWindow)
		out = append(out, Sample{
			Features: e.extractor.Extract(prefix, nil, nil),
			Label:    label(h, series[t].Close, series[t+h.Days].Close),
		})
	}
	return out
}

// Retrain refits every known horizon for the input's symbol and timeframe
// with freshly initialized networks and invalidates cached predictions.
// Other symbols keep their fits.
func (e *Engine) Retrain(in models.PredictionInput) (models.TrainingReport, error) {
	if in.Symbol == "" {
		return models.TrainingReport{}, models.InvalidParameterf("retrain needs a symbol")
	}
	if err := in.Series.Validate(); err != nil {
		return models.TrainingReport{}, err
	}
	rep := models.TrainingReport{Symbol: in.Symbol, Timeframe: in.Timeframe, Bars: len(in.Series), Samples: map[string]int{}}
	e.mu.RLock()
	gen := e.generation + 1
	e.mu.RUnlock()

	fitted := make(map[string]*Ensemble)
	for _, h := range KnownHorizons() {
		key := modelKey(in.Symbol, in.Timeframe, h)
		samples := e.samples(h, in.Series, len(in.Series))
		en := newEnsemble(features.Size, hiddenSize, e.weights, e.randFor(fmt.Sprintf("%s|%d", key, gen)))
		en.train(e.trainer, samples)
		fitted[key] = en
		rep.Samples[h.Name] = len(samples)
		rep.Horizons = append(rep.Horizons, h.Name)
	}
	e.mu.Lock()
	for k, en := range fitted {
		e.ensembles[k] = en
	}
	e.generation++
	e.mu.Unlock()
	sort.Strings(rep.Horizons)
	return rep, nil
}
