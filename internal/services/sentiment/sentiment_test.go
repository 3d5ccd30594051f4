package sentiment

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSight/internal/domain/models"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixed() *Scorer {
	return New(WithClock(func() time.Time { return now }))
}

func ptr(v float64) *float64 { return &v }

func TestAnalyzeSentimentEmpty(t *testing.T) {
	s := fixed()
	for _, in := range []string{"", "   ", "..."} {
		got := s.AnalyzeSentiment(in)
		assert.Equal(t, models.SentimentScore{Label: models.SentimentNeutral}, got, in)
	}
}

func TestAnalyzeSentimentLabels(t *testing.T) {
	s := fixed()

	pos := s.AnalyzeSentiment("Strong earnings beat, stock hits record high")
	assert.Equal(t, models.SentimentPositive, pos.Label)
	assert.Greater(t, pos.Score, 0.1)

	neg := s.AnalyzeSentiment("Company files for bankruptcy amid fraud investigation")
	assert.Equal(t, models.SentimentNegative, neg.Label)
	assert.InDelta(t, -0.4, neg.Score, 1e-9)
	assert.InDelta(t, 0.6, neg.Confidence, 1e-9)
	assert.Equal(t, 1.0, neg.Magnitude)

	flat := s.AnalyzeSentiment("The company held a meeting on Tuesday")
	assert.Equal(t, models.SentimentNeutral, flat.Label)
	assert.Zero(t, flat.Score)
	assert.Zero(t, flat.Confidence)
}

func TestAnalyzeSentimentHedgingDampens(t *testing.T) {
	s := fixed()
	plain := s.AnalyzeSentiment("Results were good")
	hedged := s.AnalyzeSentiment("Results were good however")
	assert.InDelta(t, 0.5, plain.Score, 1e-9)
	assert.InDelta(t, 0.46, hedged.Score, 1e-9)
}

func TestAnalyzeSentimentBounded(t *testing.T) {
	s := fixed()
	got := s.AnalyzeSentiment("bankruptcy crash fraud plunge recession selloff bad worst crisis fed earnings market")
	assert.GreaterOrEqual(t, got.Score, -1.0)
	assert.LessOrEqual(t, got.Score, 1.0)
	assert.Equal(t, models.SentimentNegative, got.Label)
}

func TestAnalyzeSentimentReproducible(t *testing.T) {
	require.Len(t, financialTerms, len(financialKeywords))
	assert.True(t, sort.StringsAreSorted(financialTerms))

	text := "Bullish rally as shares soar after raised guidance, despite layoffs, a lawsuit and a rate hike; analysts upgrade on buyback and margin expansion"
	first := fixed().AnalyzeSentiment(text)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, fixed().AnalyzeSentiment(text))
	}
}

func TestCalculateNewsImpact(t *testing.T) {
	s := fixed()
	item := models.NewsItem{
		Title:       "Acme earnings beat expectations, FDA approval and merger",
		Source:      "Reuters",
		PublishedAt: now.UnixMilli(),
	}
	got := s.CalculateNewsImpact(item)
	assert.InDelta(t, 90, got.Score, 1e-9)
	assert.Equal(t, models.ImpactHigh, got.Level)
	assert.InDelta(t, 4.5, got.PriceImpact, 1e-9)
	assert.Len(t, got.Factors, 5)

	item.Source = "some blog"
	got = s.CalculateNewsImpact(item)
	assert.InDelta(t, 45, got.Score, 1e-9)
	assert.Equal(t, models.ImpactMedium, got.Level)
	assert.InDelta(t, 2.25, got.PriceImpact, 1e-9)

	item.Sentiment = ptr(-0.5)
	got = s.CalculateNewsImpact(item)
	assert.InDelta(t, -2.25, got.PriceImpact, 1e-9)
}

func TestCalculateNewsImpactNeutralAndCapped(t *testing.T) {
	s := fixed()
	got := s.CalculateNewsImpact(models.NewsItem{Title: "Acme announces merger", Source: "reuters", PublishedAt: now.UnixMilli()})
	assert.InDelta(t, 30, got.Score, 1e-9)
	assert.Equal(t, models.ImpactMedium, got.Level)
	assert.Zero(t, got.PriceImpact)

	got = s.CalculateNewsImpact(models.NewsItem{
		Title:       "earnings merger acquisition bankruptcy lawsuit fraud",
		Source:      "bloomberg",
		PublishedAt: now.UnixMilli(),
	})
	assert.Equal(t, 100.0, got.Score)

	got = s.CalculateNewsImpact(models.NewsItem{Title: "nothing to see", PublishedAt: now.UnixMilli()})
	assert.Zero(t, got.Score)
	assert.Equal(t, models.ImpactLow, got.Level)
}

func TestDecay(t *testing.T) {
	s := fixed()
	at := func(d time.Duration) int64 { return now.Add(-d).UnixMilli() }
	assert.Equal(t, 1.0, s.Decay(at(0)))
	assert.Equal(t, 1.0, s.Decay(at(-time.Hour)))
	assert.InDelta(t, 0.65, s.Decay(at(12*time.Hour)), 1e-9)
	assert.InDelta(t, 0.3, s.Decay(at(24*time.Hour)), 1e-9)
	assert.Equal(t, 0.3, s.Decay(at(48*time.Hour)))
}

func TestCredibilityOverride(t *testing.T) {
	s := New(WithCredibility(map[string]float64{"Acme Wire": 0.9, "reddit": 2}))
	assert.Equal(t, 0.9, s.Credibility("acme wire"))
	assert.Equal(t, 1.0, s.Credibility("Reddit"))
	assert.Equal(t, 0.5, s.Credibility("unknown"))
	assert.Equal(t, 0.3, New().Credibility("reddit"))
}

func TestFilterByRelevance(t *testing.T) {
	s := fixed()
	ts := now.UnixMilli()
	items := []models.NewsItem{
		{ID: "a", Title: "Acme announces merger", Source: "reuters", PublishedAt: ts, RelevantSymbols: []string{"ACME"}},
		{ID: "b", Title: "Acme announces merger", Source: "reddit", PublishedAt: ts, RelevantSymbols: []string{"ACME"}},
		{ID: "c", Title: "Other merger", Source: "reuters", PublishedAt: ts, RelevantSymbols: []string{"OTHR"}},
		{ID: "d", Title: "Acme product update", Source: "reuters", PublishedAt: ts, RelevantSymbols: []string{"ACME"}},
	}

	got, err := s.FilterByRelevance(items, "ACME", 0.5, 20)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	got, err = s.FilterByRelevance(items, "ACME", 0, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = s.FilterByRelevance(items, "ACME", 1.5, 0)
	assert.True(t, models.IsInvalidParameter(err))
	_, err = s.FilterByRelevance(items, "ACME", 0, 101)
	assert.True(t, models.IsInvalidParameter(err))
}

func TestSentimentTrend(t *testing.T) {
	s := fixed()
	h := int64(time.Hour / time.Millisecond)
	base := now.Truncate(time.Hour).UnixMilli()
	items := []models.NewsItem{
		{Source: "reuters", PublishedAt: base + 10, Sentiment: ptr(0.6), RelevantSymbols: []string{"ACME"}},
		{Source: "blog", PublishedAt: base + h - 1, Sentiment: ptr(0), RelevantSymbols: []string{"ACME"}},
		{Source: "blog", PublishedAt: base + h + 5, Sentiment: ptr(0.4), RelevantSymbols: []string{"ACME"}},
		{Source: "blog", PublishedAt: base + h + 6, Sentiment: ptr(0), RelevantSymbols: []string{"ACME"}},
		{Source: "reuters", PublishedAt: base - h, Sentiment: ptr(-1), RelevantSymbols: []string{"OTHR"}},
	}
	got := s.SentimentTrend(items, "ACME")
	require.Len(t, got, 2)

	assert.Equal(t, base, got[0].BucketStart)
	assert.Equal(t, 2, got[0].Count)
	assert.InDelta(t, 0.4, got[0].Sentiment, 1e-9)
	assert.Equal(t, models.SentimentPositive, got[0].Label)

	assert.Equal(t, base+h, got[1].BucketStart)
	assert.InDelta(t, 0.2, got[1].Sentiment, 1e-9)

	assert.Len(t, s.SentimentTrend(items, ""), 3)
	assert.Empty(t, s.SentimentTrend(nil, "ACME"))
}

func TestSentimentPriceCorrelation(t *testing.T) {
	s := fixed()
	h := int64(time.Hour / time.Millisecond)
	closes := []float64{100, 101, 100, 102, 101}
	series := make(models.Series, len(closes))
	for i, c := range closes {
		series[i] = models.Bar{Timestamp: int64(i) * h, Open: c, High: c, Low: c, Close: c, Volume: 1}
	}

	var trend []models.TrendPoint
	for i := 1; i < len(closes); i++ {
		change := (closes[i] - closes[i-1]) / closes[i-1]
		trend = append(trend, models.TrendPoint{BucketStart: int64(i)*h + 60_000, Sentiment: change})
	}
	trend = append(trend, models.TrendPoint{BucketStart: 10 * h, Sentiment: -5})
	assert.InDelta(t, 1, s.SentimentPriceCorrelation(trend, series), 1e-9)

	assert.Zero(t, s.SentimentPriceCorrelation(trend[:1], series))
	assert.Zero(t, s.SentimentPriceCorrelation(trend, nil))
}
