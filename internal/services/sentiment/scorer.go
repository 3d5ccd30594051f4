package sentiment

import (
	"math"
	"strings"
	"time"
	"unicode"

	"FinSight/internal/domain/models"
	domsvc "FinSight/internal/domain/service"
	"FinSight/internal/services/seriesmath"
)

const (
	genericWeight    = 0.3
	financialWeight  = 0.5
	contextualWeight = 0.2
	labelThreshold   = 0.1
)

// Option configures Scorer.
type Option func(*Scorer)

// WithClock replaces the time source used for recency decay.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCredibility adds or overrides outlet credibility scores.
func WithCredibility(table map[string]float64) Option {
	return func(s *Scorer) {
		for k, v := range table {
			s.credibility[strings.ToLower(k)] = seriesmath.Clamp(v, 0, 1)
		}
	}
}

// Scorer is a lexicon-based sentiment and news-impact scorer. It is safe for
// concurrent use once built.
type Scorer struct {
	now         func() time.Time
	credibility map[string]float64
}

func New(opts ...Option) *Scorer {
	s := &Scorer{now: time.Now, credibility: make(map[string]float64, len(credibility))}
	for k, v := range credibility {
		s.credibility[k] = v
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ domsvc.SentimentScorer = (*Scorer)(nil)

// text is a tokenized document with a padded phrase form for multi-word lookups.
type text struct {
	tokens []string
	phrase string
}

func tokenize(s string) text {
	tokens := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '&' || r == '-')
	})
	return text{tokens: tokens, phrase: " " + strings.Join(tokens, " ") + " "}
}

func (t text) has(term string) bool {
	return strings.Contains(t.phrase, " "+term+" ")
}

func (t text) count(term string) int {
	return strings.Count(t.phrase, " "+term+" ")
}

func (t text) hasAny(terms []string) bool {
	for _, term := range terms {
		if t.has(term) {
			return true
		}
	}
	return false
}

// AnalyzeSentiment blends generic polarity, weighted financial keywords and
// a topic-adjusted generic pass.
func (s *Scorer) AnalyzeSentiment(raw string) models.SentimentScore {
	t := tokenize(raw)
	if len(t.tokens) == 0 {
		return models.SentimentScore{Label: models.SentimentNeutral}
	}

	generic, genericHits := genericPass(t)
	financial, financialHits := financialPass(t)
	contextual := contextualPass(t, generic)

	score := seriesmath.Clamp(genericWeight*generic+financialWeight*financial+contextualWeight*contextual, -1, 1)
	hits := genericHits + financialHits

	confidence := math.Min(1, 0.2*float64(hits))
	if generic*financial < 0 {
		confidence *= 0.5
	}
	return models.SentimentScore{
		Score:      score,
		Magnitude:  math.Min(1, 4*float64(hits)/float64(len(t.tokens))),
		Confidence: confidence,
		Label:      labelFor(score),
	}
}

func labelFor(score float64) models.SentimentLabel {
	switch {
	case score > labelThreshold:
		return models.SentimentPositive
	case score < -labelThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func genericPass(t text) (float64, int) {
	pos, neg := 0, 0
	for _, tok := range t.tokens {
		if _, ok := positiveWords[tok]; ok {
			pos++
		}
		if _, ok := negativeWords[tok]; ok {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0, 0
	}
	return float64(pos-neg) / float64(pos+neg), pos + neg
}

// financialTerms fixes the summation order so scores are reproducible to the bit.
var financialTerms = sortedKeys(financialKeywords)

func financialPass(t text) (float64, int) {
	sum, hits := 0.0, 0
	for _, term := range financialTerms {
		if n := t.count(term); n > 0 {
			sum += financialKeywords[term] * float64(n)
			hits += n
		}
	}
	if hits == 0 {
		return 0, 0
	}
	return seriesmath.Clamp(sum/float64(hits), -1, 1), hits
}

func contextualPass(t text, generic float64) float64 {
	v := generic
	for _, b := range topicBoosts {
		if t.hasAny(b.terms) {
			v *= b.factor
		}
	}
	if t.hasAny(hedgingTerms) {
		v *= hedgingDamp
	}
	if t.hasAny(speculativeTerms) {
		v *= speculativeDamp
	}
	return seriesmath.Clamp(v, -1, 1)
}

// itemSentiment prefers a pre-computed score over re-analysis.
func (s *Scorer) itemSentiment(item models.NewsItem) float64 {
	if item.Sentiment != nil {
		return seriesmath.Clamp(*item.Sentiment, -1, 1)
	}
	return s.AnalyzeSentiment(item.Text()).Score
}
