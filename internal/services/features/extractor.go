package features

import (
	"math"
	"sort"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/risk"
	"FinSight/internal/services/seriesmath"
	"FinSight/internal/services/technical"
)

// Vector layout. Every group is scaled into [0,1].
const (
	PriceWindow     = 20
	VolumeWindow    = 20
	TechnicalCount  = 8
	SentimentCount  = 5
	MarketCount     = 4
	Size            = PriceWindow + VolumeWindow + TechnicalCount + SentimentCount + MarketCount
	marketWindow    = 20
	drawdownWindow  = 50
	trendSharpening = 10.0
)

// TextScorer scores news text that arrives without a sentiment value.
type TextScorer interface {
	AnalyzeSentiment(text string) models.SentimentScore
}

// Extractor builds fixed-length feature vectors for the prediction models.
type Extractor struct {
	tech   *technical.Engine
	scorer TextScorer
}

// NewExtractor uses tech for indicator features. scorer may be nil, in which
// case unscored news items count as neutral.
func NewExtractor(tech *technical.Engine, scorer TextScorer) *Extractor {
	if tech == nil {
		tech = technical.New()
	}
	return &Extractor{tech: tech, scorer: scorer}
}

// Extract returns a vector of length Size. Short history is zero-padded on the
// left; missing news or market input leaves its group at zero.
func (x *Extractor) Extract(series models.Series, news []models.NewsItem, market models.Series) []float64 {
	out := make([]float64, 0, Size)
	out = append(out, padLeft(seriesmath.Normalize(lastN(series.Closes(), PriceWindow)), PriceWindow)...)
	out = append(out, padLeft(seriesmath.Normalize(lastN(series.Volumes(), VolumeWindow)), VolumeWindow)...)
	out = append(out, x.technical(series)...)
	out = append(out, x.sentiment(news)...)
	out = append(out, marketContext(series, market)...)
	return out
}

func (x *Extractor) technical(series models.Series) []float64 {
	out := make([]float64, TechnicalCount)
	if len(series) < 2 {
		return out
	}
	p := x.tech.Periods()
	rsi, _ := x.tech.RSI(series, p.RSI)
	stoch, _ := x.tech.Stochastic(series, p.StochK, p.StochD)
	wr, _ := x.tech.WilliamsR(series, p.WilliamsR)
	adx, _ := x.tech.ADX(series, p.ADX)
	bb, _ := x.tech.BollingerBands(series, p.Bollinger, p.BollingerMult)
	macd, _ := x.tech.MACD(series, p.MACDFast, p.MACDSlow, p.MACDSignal)
	vol := x.tech.VolumeAnalysis(series)
	score := x.tech.TechnicalScore(series)

	histScale := 0.0
	if last := series.LastClose(); last != 0 {
		histScale = math.Tanh(macd.Histogram / last * 100)
	}
	out[0] = rsi.Value / 100
	out[1] = stoch.K / 100
	out[2] = (wr.Value + 100) / 100
	out[3] = adx.Value / 100
	out[4] = seriesmath.Clamp(bb.PercentB, 0, 1)
	out[5] = 0.5 + 0.5*histScale
	out[6] = math.Min(vol.VolumeRatio/3, 1)
	out[7] = score.Overall / 100
	for i, v := range out {
		out[i] = seriesmath.Clamp(seriesmath.Finite(v, 0), 0, 1)
	}
	return out
}

// sentiment maps the most recent items' scores from [-1,1] to [0,1].
func (x *Extractor) sentiment(news []models.NewsItem) []float64 {
	out := make([]float64, SentimentCount)
	items := append([]models.NewsItem(nil), news...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].PublishedAt > items[j].PublishedAt })
	for i := 0; i < len(items) && i < SentimentCount; i++ {
		s := 0.0
		switch {
		case items[i].Sentiment != nil:
			s = *items[i].Sentiment
		case x.scorer != nil:
			s = x.scorer.AnalyzeSentiment(items[i].Text()).Score
		}
		out[i] = (seriesmath.Clamp(s, -1, 1) + 1) / 2
	}
	return out
}

func marketContext(series, market models.Series) []float64 {
	out := make([]float64, MarketCount)
	if len(market) < 2 {
		return out
	}
	closes := market.Tail(marketWindow + 1).Closes()
	if first := closes[0]; first != 0 {
		out[0] = 0.5 + 0.5*math.Tanh(trendSharpening*(closes[len(closes)-1]/first-1))
	}
	out[1] = math.Min(1, risk.Volatility(risk.CalculateReturns(closes)))

	a, m := alignedReturns(series, market)
	out[2] = (seriesmath.Correlation(lastN(a, marketWindow), lastN(m, marketWindow)) + 1) / 2
	out[3] = risk.MaxDrawdown(market.Tail(drawdownWindow).Closes())
	return out
}

func alignedReturns(series, market models.Series) ([]float64, []float64) {
	idx := make(map[int64]float64, len(market))
	for _, b := range market {
		idx[b.Timestamp] = b.Close
	}
	var a, m []float64
	for _, b := range series {
		if c, ok := idx[b.Timestamp]; ok {
			a = append(a, b.Close)
			m = append(m, c)
		}
	}
	return risk.CalculateReturns(a), risk.CalculateReturns(m)
}

func lastN(xs []float64, n int) []float64 {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

func padLeft(xs []float64, n int) []float64 {
	if len(xs) >= n {
		return xs
	}
	out := make([]float64, n)
	copy(out[n-len(xs):], xs)
	return out
}
