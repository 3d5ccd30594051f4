package risk

import (
	"math"
	"math/rand"
	"sync"

	domsvc "FinSight/internal/domain/service"
	"FinSight/internal/services/seriesmath"
)

// TradingDays annualizes daily statistics.
const TradingDays = 252

var sqrtTradingDays = math.Sqrt(TradingDays)

// Option configures Engine.
type Option func(*Engine)

// WithRand injects the generator used by Monte Carlo. The engine serializes
// access to it.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithSeed seeds the Monte Carlo generator; 0 keeps a time-based seed.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = seriesmath.NewRand(seed) }
}

// WithMaxScenarios bounds how many full price paths a simulation keeps.
func WithMaxScenarios(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxScenarios = n
		}
	}
}

// Engine computes risk statistics. Everything except Monte Carlo is pure.
type Engine struct {
	mu           sync.Mutex
	rng          *rand.Rand
	maxScenarios int
}

func New(opts ...Option) *Engine {
	e := &Engine{rng: seriesmath.NewRand(0), maxScenarios: 100}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ domsvc.RiskAssessor = (*Engine)(nil)
