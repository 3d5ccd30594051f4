package models

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

type SentimentScore struct {
	Score      float64        `json:"score"`
	Magnitude  float64        `json:"magnitude"`
	Confidence float64        `json:"confidence"`
	Label      SentimentLabel `json:"label"`
}

// NewsItem carries an optional pre-computed Sentiment in [-1,1].
// PublishedAt is unix milliseconds.
type NewsItem struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Summary         string   `json:"summary"`
	Source          string   `json:"source"`
	PublishedAt     int64    `json:"published_at"`
	Sentiment       *float64 `json:"sentiment,omitempty"`
	RelevantSymbols []string `json:"relevant_symbols"`
}

// Text returns the title and summary joined for scoring.
func (n NewsItem) Text() string {
	if n.Summary == "" {
		return n.Title
	}
	if n.Title == "" {
		return n.Summary
	}
	return n.Title + ". " + n.Summary
}

// Mentions reports whether the item is relevant to symbol.
func (n NewsItem) Mentions(symbol string) bool {
	if symbol == "" {
		return true
	}
	for _, s := range n.RelevantSymbols {
		if s == symbol {
			return true
		}
	}
	return false
}

type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// NewsImpact.PriceImpact is a signed percentage estimate.
type NewsImpact struct {
	Level       ImpactLevel `json:"level"`
	Score       float64     `json:"score"`
	Factors     []string    `json:"factors"`
	PriceImpact float64     `json:"price_impact"`
}

// TrendPoint is one hourly sentiment bucket.
type TrendPoint struct {
	BucketStart int64          `json:"bucket_start"`
	Sentiment   float64        `json:"sentiment"`
	Count       int            `json:"count"`
	Label       SentimentLabel `json:"label"`
}

// SentimentCorrelation pairs hourly sentiment with same-hour price moves.
type SentimentCorrelation struct {
	Symbol      string       `json:"symbol"`
	Correlation float64      `json:"correlation"`
	Trend       []TrendPoint `json:"trend"`
}
