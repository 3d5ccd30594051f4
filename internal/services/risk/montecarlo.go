package risk

import (
	"math"
	"math/rand"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/seriesmath"
)

var percentileLevels = []struct {
	name string
	p    float64
}{
	{"p5", 5}, {"p10", 10}, {"p25", 25}, {"p50", 50}, {"p75", 75}, {"p90", 90}, {"p95", 95},
}

type simParams struct {
	initial, drift, shock float64
	horizon               int
}

// chunk holds the outcome of a batch of simulated paths.
type chunk struct {
	index     int
	terminals []float64
	drawdowns []float64
	paths     [][]float64
}

func validateSimulation(initialPrice, volatility float64, horizonDays, numPaths int) error {
	switch {
	case !(initialPrice > 0):
		return models.InvalidParameterf("initial price must be positive, got %g", initialPrice)
	case volatility < 0 || math.IsNaN(volatility):
		return models.InvalidParameterf("volatility must be non-negative, got %g", volatility)
	case horizonDays <= 0:
		return models.InvalidParameterf("horizon must be positive, got %d", horizonDays)
	case numPaths <= 0:
		return models.InvalidParameterf("path count must be positive, got %d", numPaths)
	}
	return nil
}

// MonteCarlo simulates numPaths daily price paths, compounding
// 1 + μ/252 + z·σ/√252 per step.
func (e *Engine) MonteCarlo(initialPrice, expectedReturn, volatility float64, horizonDays, numPaths int) (models.MonteCarloResult, error) {
	if err := validateSimulation(initialPrice, volatility, horizonDays, numPaths); err != nil {
		return models.MonteCarloResult{}, err
	}
	sp := newSimParams(initialPrice, expectedReturn, volatility, horizonDays)

	e.mu.Lock()
	c := simulate(e.rng, sp, numPaths, e.maxScenarios)
	e.mu.Unlock()

	return summarize(sp, []chunk{c}, e.maxScenarios), nil
}

// MonteCarloParallel splits the paths across workers, each with its own
// generator seeded from the engine's. Results are deterministic for a given
// engine seed and worker count.
func (e *Engine) MonteCarloParallel(initialPrice, expectedReturn, volatility float64, horizonDays, numPaths, workers int) (models.MonteCarloResult, error) {
	if err := validateSimulation(initialPrice, volatility, horizonDays, numPaths); err != nil {
		return models.MonteCarloResult{}, err
	}
	if workers <= 0 {
		return models.MonteCarloResult{}, models.InvalidParameterf("workers must be positive, got %d", workers)
	}
	if workers > numPaths {
		workers = numPaths
	}
	sp := newSimParams(initialPrice, expectedReturn, volatility, horizonDays)

	seeds := make([]int64, workers)
	e.mu.Lock()
	for i := range seeds {
		seeds[i] = e.rng.Int63()
	}
	e.mu.Unlock()

	p := pool.NewWithResults[chunk]().WithMaxGoroutines(workers)
	per, extra := numPaths/workers, numPaths%workers
	for i := 0; i < workers; i++ {
		i, n := i, per
		if i < extra {
			n++
		}
		p.Go(func() chunk {
			c := simulate(rand.New(rand.NewSource(seeds[i])), sp, n, e.maxScenarios)
			c.index = i
			return c
		})
	}
	chunks := p.Wait()
	sort.Slice(chunks, func(a, b int) bool { return chunks[a].index < chunks[b].index })
	return summarize(sp, chunks, e.maxScenarios), nil
}

func newSimParams(initialPrice, expectedReturn, volatility float64, horizonDays int) simParams {
	return simParams{
		initial: initialPrice,
		drift:   expectedReturn / TradingDays,
		shock:   volatility / sqrtTradingDays,
		horizon: horizonDays,
	}
}

func simulate(src seriesmath.Source, sp simParams, n, keep int) chunk {
	c := chunk{terminals: make([]float64, n), drawdowns: make([]float64, n)}
	for i := 0; i < n; i++ {
		var path []float64
		if i < keep {
			path = make([]float64, 0, sp.horizon+1)
			path = append(path, sp.initial)
		}
		price, peak, dd := sp.initial, sp.initial, 0.0
		for d := 0; d < sp.horizon; d++ {
			price *= 1 + sp.drift + seriesmath.RandomNormal(src)*sp.shock
			if price < 0 {
				price = 0
			}
			if price > peak {
				peak = price
			}
			if peak > 0 {
				dd = math.Max(dd, (peak-price)/peak)
			}
			if path != nil {
				path = append(path, price)
			}
		}
		c.terminals[i] = price
		c.drawdowns[i] = dd
		if path != nil {
			c.paths = append(c.paths, path)
		}
	}
	return c
}

func summarize(sp simParams, chunks []chunk, keep int) models.MonteCarloResult {
	var terminals, drawdowns []float64
	scenarios := [][]float64{}
	for _, c := range chunks {
		terminals = append(terminals, c.terminals...)
		drawdowns = append(drawdowns, c.drawdowns...)
		for _, p := range c.paths {
			if len(scenarios) < keep {
				scenarios = append(scenarios, p)
			}
		}
	}
	sorted := seriesmath.Sorted(terminals)
	res := models.MonteCarloResult{
		InitialPrice: sp.initial,
		HorizonDays:  sp.horizon,
		Paths:        len(terminals),
		Scenarios:    scenarios,
		Percentiles:  make(map[string]float64, len(percentileLevels)),
		MeanTerminal: seriesmath.Mean(terminals),
	}
	for _, lvl := range percentileLevels {
		res.Percentiles[lvl.name] = seriesmath.Percentile(sorted, lvl.p)
	}
	res.ExpectedReturn = res.MeanTerminal/sp.initial - 1

	returns := make([]float64, len(terminals))
	losses := 0
	for i, t := range terminals {
		returns[i] = t/sp.initial - 1
		if t < sp.initial {
			losses++
		}
	}
	res.RiskMetrics.VaR95, _ = VaR(returns, 0.95, 1)
	res.RiskMetrics.VaR99, _ = VaR(returns, 0.99, 1)
	res.RiskMetrics.CVaR95, _ = CVaR(returns, 0.95)
	res.RiskMetrics.ProbabilityOfLoss = float64(losses) / float64(len(terminals))
	res.RiskMetrics.ExpectedMaxDrawdown = seriesmath.Mean(drawdowns)
	return res
}
