package prediction

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSight/internal/domain/models"
	"FinSight/internal/service/cache"
	"FinSight/internal/services/features"
)

const day = int64(24 * 60 * 60 * 1000)

func rising(n int) models.Series {
	out := make(models.Series, n)
	for i := range out {
		c := 100 + float64(i)
		out[i] = models.Bar{Timestamp: int64(i+1) * day, Open: c - 0.5, High: c + 0.25, Low: c - 0.75, Close: c, Volume: 1_000_000}
	}
	return out
}

func falling(n int) models.Series {
	out := make(models.Series, n)
	for i := range out {
		c := 300 - float64(i)
		out[i] = models.Bar{Timestamp: int64(i+1) * day, Open: c + 0.5, High: c + 0.75, Low: c - 0.25, Close: c, Volume: 1_000_000}
	}
	return out
}

func TestSoftmaxAndConfidence(t *testing.T) {
	p := softmax(Probs{1, 1, 1})
	for _, v := range p {
		assert.InDelta(t, 1.0/3, v, 1e-12)
	}
	assert.InDelta(t, 0, Confidence(p), 1e-12)
	assert.InDelta(t, 1, Confidence(Probs{0, 0, 1}), 1e-12)

	big := softmax(Probs{1000, 0, -1000})
	assert.InDelta(t, 1, big[0], 1e-12)
	assert.False(t, math.IsNaN(big[2]))
}

func TestXavierRange(t *testing.T) {
	n := NewNetwork(57, 16, rand.New(rand.NewSource(1)))
	assert.Equal(t, 57, n.InputSize())
	limit := math.Sqrt(6.0 / (57 + 16))
	for _, row := range n.w1 {
		for _, w := range row {
			assert.LessOrEqual(t, math.Abs(w), limit)
		}
	}
	p := n.Predict(make([]float64, 57))
	assert.InDelta(t, 1, p[0]+p[1]+p[2], 1e-12)
}

func TestNudgeTrainerLearnsLabel(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	n := NewNetwork(4, 6, rng)
	x := []float64{0.2, 0.9, 0.1, 0.5}
	before := n.Predict(x)[classDown]
	NudgeTrainer{LearningRate: 0.5, Epochs: 200}.Train(n, []Sample{{Features: x, Label: classDown}})
	after := n.Predict(x)
	assert.Greater(t, after[classDown], before)
	assert.Equal(t, classDown, argmax(after))
}

// fixedNet always returns the same distribution.
func fixedNet(p Probs) *Network {
	return &Network{
		w1: [][]float64{{0}},
		b1: []float64{0},
		w2: [][]float64{{0}, {0}, {0}},
		b2: []float64{math.Log(p[0]), math.Log(p[1]), math.Log(p[2])},
	}
}

func TestEnsembleWeightedVote(t *testing.T) {
	down := Probs{0.7, 0.2, 0.1}
	up := Probs{0.1, 0.3, 0.6}
	en := &Ensemble{
		members: []*Network{fixedNet(down), fixedNet(up), fixedNet(up)},
		weights: []float64{0.4, 0.3, 0.3},
	}
	v := en.Vote([]float64{0})
	assert.Equal(t, models.DirectionUp, v.Direction)
	assert.InDelta(t, 0.4*0.1+0.6*0.6, v.Probability, 1e-9)
	wantConf := 0.4*Confidence(down) + 0.6*Confidence(up)
	assert.InDelta(t, wantConf, v.Confidence, 1e-9)
}

func TestEnsembleTieBreaksUpThenDown(t *testing.T) {
	down := Probs{0.8, 0.1, 0.1}
	up := Probs{0.1, 0.1, 0.8}
	en := &Ensemble{members: []*Network{fixedNet(down), fixedNet(up)}, weights: []float64{0.5, 0.5}}
	assert.Equal(t, models.DirectionUp, en.Vote([]float64{0}).Direction)

	neutral := Probs{0.1, 0.8, 0.1}
	en = &Ensemble{members: []*Network{fixedNet(neutral), fixedNet(down)}, weights: []float64{0.5, 0.5}}
	assert.Equal(t, models.DirectionDown, en.Vote([]float64{0}).Direction)
}

func TestPredictRisingSeriesIsUp(t *testing.T) {
	e := New(WithSeed(11))
	s := rising(300)
	res, err := e.Predict(models.PredictionInput{Symbol: "UP", Series: s}, "1d", "bogus", "1w")
	require.NoError(t, err)
	require.Len(t, res, 2)

	d := res[0]
	assert.Equal(t, "1d", d.Horizon)
	assert.Equal(t, models.DirectionUp, d.Direction)
	assert.Equal(t, 399.0, d.CurrentPrice)
	assert.Greater(t, d.Price, d.CurrentPrice)
	assert.InDelta(t, 399*(1+0.02*d.Probability), d.Price, 1e-9)
	assert.Greater(t, d.Confidence, 0.0)
	assert.LessOrEqual(t, d.Confidence, 1.0)
	assert.Equal(t, "1w", res[1].Horizon)
}

func TestPredictFallingSeriesIsDown(t *testing.T) {
	res, err := New(WithSeed(5)).Predict(models.PredictionInput{Series: falling(200)}, "1d")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, models.DirectionDown, res[0].Direction)
	assert.Less(t, res[0].Price, res[0].CurrentPrice)
}

func TestPredictSeededIsReproducible(t *testing.T) {
	in := models.PredictionInput{Series: rising(120)}
	a, err := New(WithSeed(99)).Predict(in)
	require.NoError(t, err)
	b, err := New(WithSeed(99)).Predict(in)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	require.Len(t, a, len(DefaultHorizons))
}

func TestPredictShortHistoryDegrades(t *testing.T) {
	res, err := New(WithSeed(1)).Predict(models.PredictionInput{Series: rising(3)}, "1d")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 102.0, res[0].CurrentPrice)
}

func TestPredictUsesCache(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	store := cache.NewTTLCache().WithClock(func() time.Time { return now })
	e := New(WithSeed(2), WithCache(store, time.Minute), WithClock(func() time.Time { return now }))
	in := models.PredictionInput{Symbol: "C", Series: rising(80)}

	first, err := e.Predict(in, "1d")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	second, err := e.Predict(in, "1d")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = e.Retrain(in)
	require.NoError(t, err)
	_, err = e.Predict(in, "1d")
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len(), "retrain starts a new cache generation")

	in.Timeframe = "1h"
	_, err = e.Predict(in, "1d")
	require.NoError(t, err)
	in.Lookback = 80
	_, err = e.Predict(in, "1d")
	require.NoError(t, err)
	assert.Equal(t, 4, store.Len(), "timeframe and lookback are part of the key")
}

func TestCacheBucketFollowsTTL(t *testing.T) {
	now := time.Unix(1_699_999_800, 0) // multiple of 600s
	store := cache.NewTTLCache().WithClock(func() time.Time { return now })
	e := New(WithSeed(2), WithCache(store, 10*time.Minute), WithClock(func() time.Time { return now }))
	in := models.PredictionInput{Symbol: "C", Series: rising(60)}

	k1, ok := e.cacheKey(in, []string{"1d"})
	require.True(t, ok)
	now = now.Add(6 * time.Minute)
	k2, _ := e.cacheKey(in, []string{"1d"})
	now = now.Add(10 * time.Minute)
	k3, _ := e.cacheKey(in, []string{"1d"})

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestPredictIndependentOfEarlierSymbols(t *testing.T) {
	down := models.PredictionInput{Symbol: "DN", Timeframe: "1d", Series: falling(200)}

	alone, err := New(WithSeed(5)).Predict(down, "1d", "1w")
	require.NoError(t, err)

	e := New(WithSeed(5))
	_, err = e.Predict(models.PredictionInput{Symbol: "UP", Timeframe: "1d", Series: rising(300)}, "1d", "1w")
	require.NoError(t, err)
	after, err := e.Predict(down, "1d", "1w")
	require.NoError(t, err)

	assert.Equal(t, alone, after)
	assert.Equal(t, models.DirectionDown, after[0].Direction)
}

func TestRetrainOnlyTouchesItsSymbol(t *testing.T) {
	e := New(WithSeed(6))
	a := models.PredictionInput{Symbol: "A", Series: rising(150)}
	b := models.PredictionInput{Symbol: "B", Series: falling(150)}

	before, err := e.Predict(b, "1d")
	require.NoError(t, err)
	_, err = e.Retrain(a)
	require.NoError(t, err)
	after, err := e.Predict(b, "1d")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRetrainReport(t *testing.T) {
	rep, err := New(WithSeed(4)).Retrain(models.PredictionInput{Symbol: "R", Timeframe: "1d", Series: rising(120)})
	require.NoError(t, err)
	assert.Equal(t, "R", rep.Symbol)
	assert.Equal(t, 120, rep.Bars)
	assert.Equal(t, []string{"1d", "1m", "1w", "3m"}, rep.Horizons)
	assert.Equal(t, 120-1-1-(minHistory-1)+1, rep.Samples["1d"])
	assert.Equal(t, 120-1-63-(minHistory-1)+1, rep.Samples["3m"])

	_, err = New().Retrain(models.PredictionInput{Symbol: "R", Series: models.Series{{Timestamp: 2, Close: 1}, {Timestamp: 1, Close: 1}}})
	assert.True(t, models.IsInvalidParameter(err))
	_, err = New().Retrain(models.PredictionInput{Series: rising(50)})
	assert.True(t, models.IsInvalidParameter(err))
}

func TestBacktestRisingSeries(t *testing.T) {
	s := rising(260)
	res, err := New(WithSeed(8)).Backtest(s, 200, models.Strategy{Horizon: "1d", ConfidenceThreshold: 0.6})
	require.NoError(t, err)
	assert.Equal(t, 60, res.Steps)
	require.Len(t, res.Trades, 1)

	tr := res.Trades[0]
	assert.Equal(t, models.SideLong, tr.Side)
	assert.Equal(t, 200, tr.EntryIndex)
	assert.Equal(t, 259, tr.ExitIndex)
	assert.InDelta(t, 359.0/300-1, tr.Return, 1e-12)
	assert.InDelta(t, tr.Return, res.TotalReturn, 1e-12)
	assert.Equal(t, 1.0, res.WinRate)
	assert.Equal(t, 0.0, res.MaxDrawdown)
	assert.Equal(t, 0.0, res.AverageLoss)
}

func TestBacktestShortsOnlyWhenAllowed(t *testing.T) {
	s := falling(200)
	noShort, err := New(WithSeed(8)).Backtest(s, 150, models.Strategy{})
	require.NoError(t, err)
	assert.Empty(t, noShort.Trades)

	short, err := New(WithSeed(8)).Backtest(s, 150, models.Strategy{AllowShort: true})
	require.NoError(t, err)
	require.Len(t, short.Trades, 1)
	assert.Equal(t, models.SideShort, short.Trades[0].Side)
	assert.Greater(t, short.TotalReturn, 0.0)
}

func TestBacktestValidation(t *testing.T) {
	e := New(WithSeed(1))
	_, err := e.Backtest(rising(50), 60, models.Strategy{})
	assert.True(t, models.IsInvalidParameter(err))
	_, err = e.Backtest(rising(50), 10, models.Strategy{Horizon: "2y"})
	assert.True(t, models.IsInvalidParameter(err))
}

func TestFeatureSizeMatchesNetworks(t *testing.T) {
	e := New(WithSeed(1))
	en := e.ensembleFor(models.PredictionInput{Symbol: "F", Series: rising(40)}, horizons["1d"])
	for _, m := range en.members {
		assert.Equal(t, features.Size, m.InputSize())
	}
}
