package sentiment

import (
	"sort"
	"time"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/seriesmath"
)

var hourMs = int64(time.Hour / time.Millisecond)

// SentimentTrend averages item sentiment per hour for items mentioning
// symbol; an empty symbol keeps every item. Items are weighted by source
// credibility, so a bucket of unknown outlets reduces to the plain mean.
// Buckets are ascending.
func (s *Scorer) SentimentTrend(items []models.NewsItem, symbol string) []models.TrendPoint {
	type acc struct {
		sum, wsum, wtot float64
		n               int
	}
	buckets := map[int64]*acc{}
	for _, item := range items {
		if !item.Mentions(symbol) {
			continue
		}
		start := item.PublishedAt - mod(item.PublishedAt, hourMs)
		a, ok := buckets[start]
		if !ok {
			a = &acc{}
			buckets[start] = a
		}
		v := s.itemSentiment(item)
		a.sum += v
		a.n++
		w := s.Credibility(item.Source)
		a.wsum += w * v
		a.wtot += w
	}
	out := make([]models.TrendPoint, 0, len(buckets))
	for start, a := range buckets {
		avg := a.sum / float64(a.n)
		if a.wtot > 0 {
			avg = a.wsum / a.wtot
		}
		out = append(out, models.TrendPoint{BucketStart: start, Sentiment: avg, Count: a.n, Label: labelFor(avg)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BucketStart < out[j].BucketStart })
	return out
}

// SentimentPriceCorrelation pairs each trend bucket with the bar closest in
// time within one hour and correlates sentiment with that bar's change from
// the previous close. Fewer than two pairs yields 0.
func (s *Scorer) SentimentPriceCorrelation(trend []models.TrendPoint, series models.Series) float64 {
	var xs, ys []float64
	for _, p := range trend {
		i := nearestBar(series, p.BucketStart)
		if i < 1 {
			continue
		}
		d := series[i].Timestamp - p.BucketStart
		if d < 0 {
			d = -d
		}
		prev := series[i-1].Close
		if d > hourMs || prev == 0 {
			continue
		}
		xs = append(xs, p.Sentiment)
		ys = append(ys, (series[i].Close-prev)/prev)
	}
	if len(xs) < 2 {
		return 0
	}
	return seriesmath.Correlation(xs, ys)
}

// nearestBar returns the index of the bar closest to ts, or -1 for an empty series.
func nearestBar(series models.Series, ts int64) int {
	if len(series) == 0 {
		return -1
	}
	i := sort.Search(len(series), func(i int) bool { return series[i].Timestamp >= ts })
	switch {
	case i == len(series):
		return i - 1
	case i == 0:
		return 0
	case ts-series[i-1].Timestamp <= series[i].Timestamp-ts:
		return i - 1
	default:
		return i
	}
}

func mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
