package technical

import (
	"fmt"

	"FinSight/internal/domain/models"
	domsvc "FinSight/internal/domain/service"
)

// Periods holds the default window lengths used by Analyze and TechnicalScore.
type Periods struct {
	RSI           int     `yaml:"rsi" default:"14"`
	MACDFast      int     `yaml:"macd_fast" default:"12"`
	MACDSlow      int     `yaml:"macd_slow" default:"26"`
	MACDSignal    int     `yaml:"macd_signal" default:"9"`
	StochK        int     `yaml:"stoch_k" default:"14"`
	StochD        int     `yaml:"stoch_d" default:"3"`
	WilliamsR     int     `yaml:"williams_r" default:"14"`
	ADX           int     `yaml:"adx" default:"14"`
	Bollinger     int     `yaml:"bollinger" default:"20"`
	BollingerMult float64 `yaml:"bollinger_mult" default:"2"`
	Lookback      int     `yaml:"lookback" default:"50"`
}

func DefaultPeriods() Periods {
	return Periods{
		RSI:           14,
		MACDFast:      12,
		MACDSlow:      26,
		MACDSignal:    9,
		StochK:        14,
		StochD:        3,
		WilliamsR:     14,
		ADX:           14,
		Bollinger:     20,
		BollingerMult: 2,
		Lookback:      50,
	}
}

// Option configures Engine.
type Option func(*Engine)

// WithPeriods overrides the default indicator windows.
func WithPeriods(p Periods) Option {
	return func(e *Engine) { e.p = p }
}

// Engine computes technical indicators. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	p Periods
}

func New(opts ...Option) *Engine {
	e := &Engine{p: DefaultPeriods()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ domsvc.TechnicalAnalyzer = (*Engine)(nil)

// Periods returns the configured windows.
func (e *Engine) Periods() Periods { return e.p }

// Analyze runs every indicator with the configured periods.
func (e *Engine) Analyze(series models.Series) (models.TechnicalReport, error) {
	if err := series.Validate(); err != nil {
		return models.TechnicalReport{}, err
	}
	r := models.TechnicalReport{Bars: len(series), LastClose: series.LastClose()}
	var err error
	if r.RSI, err = e.RSI(series, e.p.RSI); err != nil {
		return r, err
	}
	if r.MACD, err = e.MACD(series, e.p.MACDFast, e.p.MACDSlow, e.p.MACDSignal); err != nil {
		return r, err
	}
	if r.Stochastic, err = e.Stochastic(series, e.p.StochK, e.p.StochD); err != nil {
		return r, err
	}
	if r.WilliamsR, err = e.WilliamsR(series, e.p.WilliamsR); err != nil {
		return r, err
	}
	if r.ADX, err = e.ADX(series, e.p.ADX); err != nil {
		return r, err
	}
	if r.Bollinger, err = e.BollingerBands(series, e.p.Bollinger, e.p.BollingerMult); err != nil {
		return r, err
	}
	r.Volume = e.VolumeAnalysis(series)
	if r.Levels, err = e.SupportResistance(series, e.p.Lookback); err != nil {
		return r, err
	}
	if r.Fibonacci, err = e.FibonacciLevels(series, e.p.Lookback); err != nil {
		return r, err
	}
	r.Patterns = e.ChartPatterns(series)
	r.Candlesticks = e.CandlestickPatterns(series)
	r.Score = e.score(series, r)
	return r, nil
}

func positive(name string, v int) error {
	if v <= 0 {
		return models.InvalidParameterf("%s must be positive, got %d", name, v)
	}
	return nil
}

func insufficient(name string, value float64, need, have int) models.IndicatorResult {
	return models.IndicatorResult{
		Name:        name,
		Value:       value,
		Signal:      models.SignalNeutral,
		Strength:    0,
		Description: fmt.Sprintf("insufficient data: %s needs %d bars, have %d", name, need, have),
	}
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
