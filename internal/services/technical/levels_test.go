package technical

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSight/internal/domain/models"
)

func zigzag(n int) models.Series {
	pattern := []float64{100, 102, 104, 102}
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = pattern[i%len(pattern)]
	}
	return barsWithShadow(closes, 0.5)
}

func TestSupportResistanceClustersTouches(t *testing.T) {
	got, err := New().SupportResistance(zigzag(20), 50)
	require.NoError(t, err)

	want := []models.Level{
		{Price: 99.5, Type: models.LevelSupport, Touches: 4, Strength: 100},
		{Price: 104.5, Type: models.LevelResistance, Touches: 4, Strength: 100},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("levels mismatch (-want +got):\n%s", diff)
	}
}

func TestSupportResistanceNeedsTwoTouches(t *testing.T) {
	got, err := New().SupportResistance(rising(60), 50)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = New().SupportResistance(rising(60), 0)
	assert.True(t, models.IsInvalidParameter(err))
}

func TestClusterLevelsSplitsDistantPrices(t *testing.T) {
	got := clusterLevels([]float64{100, 101, 150, 151, 152, 200}, models.LevelResistance)
	require.Len(t, got, 2)
	assert.InDelta(t, 100.5, got[0].Price, 1e-9)
	assert.Equal(t, 2, got[0].Touches)
	assert.Equal(t, 50.0, got[0].Strength)
	assert.InDelta(t, 151, got[1].Price, 1e-9)
	assert.Equal(t, 75.0, got[1].Strength)
}

func TestFibonacciLevels(t *testing.T) {
	got, err := New().FibonacciLevels(zigzag(20), 50)
	require.NoError(t, err)
	require.Len(t, got, 7)

	assert.Equal(t, 104.5, got[0].Price)
	assert.Equal(t, models.LevelResistance, got[0].Type)
	assert.InDelta(t, 104.5-0.382*5, got[2].Price, 1e-9)
	assert.Equal(t, models.LevelResistance, got[2].Type)
	assert.Equal(t, models.LevelSupport, got[3].Type)
	assert.Equal(t, 99.5, got[6].Price)

	empty, err := New().FibonacciLevels(nil, 50)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
