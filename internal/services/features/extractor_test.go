package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/technical"
)

const day = int64(24 * 60 * 60 * 1000)

func ramp(n int, start, step float64) models.Series {
	out := make(models.Series, n)
	for i := range out {
		c := start + step*float64(i)
		out[i] = models.Bar{Timestamp: int64(i+1) * day, Open: c, High: c + 0.5, Low: c - 0.5, Close: c, Volume: int64(1000 + 10*i)}
	}
	return out
}

type fixedScorer float64

func (f fixedScorer) AnalyzeSentiment(string) models.SentimentScore {
	return models.SentimentScore{Score: float64(f)}
}

func ptr(v float64) *float64 { return &v }

func TestExtractLengthAndRange(t *testing.T) {
	x := NewExtractor(technical.New(), nil)
	for _, n := range []int{0, 1, 5, 60} {
		v := x.Extract(ramp(n, 100, 1), nil, nil)
		require.Len(t, v, Size, "bars %d", n)
		for i, f := range v {
			assert.GreaterOrEqual(t, f, 0.0, "bars %d feature %d", n, i)
			assert.LessOrEqual(t, f, 1.0, "bars %d feature %d", n, i)
		}
	}
	assert.Equal(t, 57, Size)
}

func TestExtractPricesNormalizedAndPadded(t *testing.T) {
	x := NewExtractor(nil, nil)

	v := x.Extract(ramp(60, 100, 1), nil, nil)
	assert.Equal(t, 0.0, v[0])
	assert.Equal(t, 1.0, v[PriceWindow-1])

	short := x.Extract(ramp(5, 100, 1), nil, nil)
	for i := 0; i < PriceWindow-5; i++ {
		assert.Equal(t, 0.0, short[i])
	}
	assert.Equal(t, 1.0, short[PriceWindow-1])
}

func TestExtractSentimentGroup(t *testing.T) {
	x := NewExtractor(nil, fixedScorer(0.5))
	news := []models.NewsItem{
		{Title: "old", PublishedAt: 1, Sentiment: ptr(-1)},
		{Title: "new", PublishedAt: 3, Sentiment: ptr(1)},
		{Title: "unscored", PublishedAt: 2},
	}
	v := x.Extract(ramp(30, 100, 1), news, nil)
	off := PriceWindow + VolumeWindow + TechnicalCount
	assert.Equal(t, []float64{1, 0.75, 0, 0, 0}, v[off:off+SentimentCount])

	none := x.Extract(ramp(30, 100, 1), nil, nil)
	assert.Equal(t, make([]float64, SentimentCount), none[off:off+SentimentCount])
}

func TestExtractMarketGroup(t *testing.T) {
	x := NewExtractor(nil, nil)
	s := ramp(60, 100, 1)
	off := Size - MarketCount

	without := x.Extract(s, nil, nil)
	assert.Equal(t, make([]float64, MarketCount), without[off:])

	with := x.Extract(s, nil, ramp(60, 200, 2))
	assert.Greater(t, with[off], 0.5)
	assert.InDelta(t, 0, with[off+3], 1e-12)
}

func TestLogReturnsAndRealizedVol(t *testing.T) {
	s := ramp(3, 100, 10)
	r := ComputeLogReturns(s)
	require.Len(t, r, 2)
	assert.InDelta(t, math.Log(1.1), r[0], 1e-12)
	assert.Nil(t, ComputeLogReturns(s[:1]))

	flat := []float64{0.01, 0.01, 0.01, 0.01}
	assert.InDelta(t, 0, RealizedVolatility(flat, 4, 252), 1e-6)
	assert.Equal(t, 0.0, RealizedVolatility(flat, 10, 252))

	alt := []float64{0.01, -0.01, 0.01, -0.01}
	want := math.Sqrt(0.0004 / 3 * 252)
	assert.InDelta(t, want, RealizedVolatility(alt, 4, 252), 1e-12)

	assert.InDelta(t, 0.01*252, AnnualizedDrift(flat, 10, 252), 1e-12)
}
