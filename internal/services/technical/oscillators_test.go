package technical

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSight/internal/domain/models"
)

func TestRSISeriesWilderSmoothing(t *testing.T) {
	// changes +1 -0.5 +1 | +0.5 -1
	closes := []float64{10, 11, 10.5, 11.5, 12, 11}
	got := RSISeries(closes, 3)
	require.Equal(t, 3, got.Offset)
	// gains 2/3 losses 1/6, then 11/18 vs 1/9, then 11/27 each
	assert.InDeltaSlice(t, []float64{80, 1100.0 / 13, 50}, got.Values, 1e-9)

	long := RSISeries(sine(120), 14)
	require.Equal(t, 120-14, long.Len())
	for _, v := range long.Values {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestRSISeriesFlatPrefixAndPeriodOne(t *testing.T) {
	got := RSISeries([]float64{5, 5, 5, 5, 6}, 2)
	assert.InDeltaSlice(t, []float64{50, 50, 100}, got.Values, 1e-9)

	one := RSISeries([]float64{1, 2, 2, 1}, 1)
	assert.Equal(t, 1, one.Offset)
	assert.Equal(t, []float64{100, 50, 0}, one.Values)
}

func TestRSISignals(t *testing.T) {
	e := New()

	up, err := e.RSI(rising(60), 14)
	require.NoError(t, err)
	assert.Equal(t, models.SignalSell, up.Signal)
	assert.Greater(t, up.Value, 99.0)
	assert.LessOrEqual(t, up.Value, 100.0)
	assert.InDelta(t, 100, up.Strength, 1e-6)

	down, err := e.RSI(falling(60), 14)
	require.NoError(t, err)
	assert.Equal(t, models.SignalBuy, down.Signal)
	assert.Less(t, down.Value, 1.0)
}

func TestRSIFlatSeriesIsNeutral(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 42
	}
	res, err := New().RSI(seriesFromCloses(closes), 14)
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.Value)
	assert.Equal(t, models.SignalNeutral, res.Signal)
}

func TestOscillatorsInsufficientData(t *testing.T) {
	e := New()
	s := rising(5)

	rsi, err := e.RSI(s, 14)
	require.NoError(t, err)
	assert.Equal(t, 50.0, rsi.Value)
	assert.Equal(t, 0.0, rsi.Strength)
	assert.True(t, strings.HasPrefix(rsi.Description, "insufficient data"))

	st, err := e.Stochastic(s, 14, 3)
	require.NoError(t, err)
	assert.Equal(t, 50.0, st.K)
	assert.Equal(t, 50.0, st.D)
	assert.Equal(t, models.SignalNeutral, st.Signal)

	wr, err := e.WilliamsR(s, 14)
	require.NoError(t, err)
	assert.Equal(t, -50.0, wr.Value)
}

func TestOscillatorsRejectBadPeriods(t *testing.T) {
	e := New()
	s := rising(30)

	_, err := e.RSI(s, 0)
	assert.True(t, models.IsInvalidParameter(err))
	_, err = e.MACD(s, 0, -1, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "macd fast", "parameters are checked in declaration order")
	_, err = e.Stochastic(s, 14, -1)
	assert.True(t, models.IsInvalidParameter(err))
	_, err = e.WilliamsR(s, 0)
	assert.True(t, models.IsInvalidParameter(err))
}

func TestStochasticAndWilliamsR(t *testing.T) {
	e := New()
	s := rising(40)

	st, err := e.Stochastic(s, 14, 3)
	require.NoError(t, err)
	// close sits 0.25 under the window high of a 14-point range
	assert.InDelta(t, 13.75/14*100, st.K, 1e-9)
	assert.InDelta(t, st.K, st.D, 1e-9)
	assert.Equal(t, models.SignalSell, st.Signal)

	wr, err := e.WilliamsR(s, 14)
	require.NoError(t, err)
	assert.InDelta(t, -0.25/14*100, wr.Value, 1e-9)
	assert.Equal(t, models.SignalSell, wr.Signal)

	bar := [4]float64{100, 100, 100, 100}
	flat, err := e.WilliamsR(ohlc(bar, bar, bar, bar, bar), 5)
	require.NoError(t, err)
	assert.Equal(t, -50.0, flat.Value)

	wrDown, err := e.WilliamsR(falling(40), 14)
	require.NoError(t, err)
	assert.Equal(t, models.SignalBuy, wrDown.Signal)
}
