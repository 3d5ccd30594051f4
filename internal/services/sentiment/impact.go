package sentiment

import (
	"fmt"
	"math"
	"strings"
	"time"

	"FinSight/internal/domain/models"
	"FinSight/internal/services/seriesmath"
)

const (
	maxImpact     = 100.0
	decayHours    = 24.0
	decayFloor    = 0.3
	priceImpactPc = 5.0
	highImpact    = 50.0
	mediumImpact  = 20.0
)

// CalculateNewsImpact scores keyword tiers, then scales by source credibility
// and recency decay. PriceImpact is a heuristic percentage, not a fitted
// elasticity.
func (s *Scorer) CalculateNewsImpact(item models.NewsItem) models.NewsImpact {
	t := tokenize(item.Text())
	raw := 0.0
	factors := []string{}
	for _, tier := range impactTiers {
		for _, term := range tier.terms {
			if t.has(term) {
				raw += tier.points
				factors = append(factors, fmt.Sprintf("%s-impact keyword %q", tier.name, term))
			}
		}
	}
	raw = math.Min(raw, maxImpact)

	cred := s.Credibility(item.Source)
	decay := s.Decay(item.PublishedAt)
	factors = append(factors,
		fmt.Sprintf("source credibility %.2f", cred),
		fmt.Sprintf("recency decay %.2f", decay),
	)
	score := math.Min(maxImpact, raw*cred*decay)

	sign := 0.0
	switch labelFor(s.itemSentiment(item)) {
	case models.SentimentPositive:
		sign = 1
	case models.SentimentNegative:
		sign = -1
	}
	return models.NewsImpact{
		Level:       impactLevel(score),
		Score:       score,
		Factors:     factors,
		PriceImpact: score / maxImpact * sign * priceImpactPc,
	}
}

func impactLevel(score float64) models.ImpactLevel {
	switch {
	case score >= highImpact:
		return models.ImpactHigh
	case score >= mediumImpact:
		return models.ImpactMedium
	default:
		return models.ImpactLow
	}
}

// Credibility looks up an outlet case-insensitively.
func (s *Scorer) Credibility(source string) float64 {
	if c, ok := s.credibility[strings.ToLower(strings.TrimSpace(source))]; ok {
		return c
	}
	return defaultCredibility
}

// Decay falls linearly from 1 to 0.3 over the first 24 hours after
// publication. Items dated in the future are not decayed.
func (s *Scorer) Decay(publishedAt int64) float64 {
	age := float64(s.now().UnixMilli()-publishedAt) / float64(time.Hour/time.Millisecond)
	if age <= 0 {
		return 1
	}
	return math.Max(decayFloor, 1-(1-decayFloor)*age/decayHours)
}

// FilterByRelevance keeps items mentioning symbol whose source credibility
// and impact score reach the minimums. Input order is preserved.
func (s *Scorer) FilterByRelevance(items []models.NewsItem, symbol string, minCredibility, minImpact float64) ([]models.NewsItem, error) {
	if minCredibility < 0 || minCredibility > 1 {
		return nil, models.InvalidParameterf("min credibility must be in [0,1], got %g", minCredibility)
	}
	if minImpact < 0 || minImpact > maxImpact {
		return nil, models.InvalidParameterf("min impact must be in [0,100], got %g", minImpact)
	}
	out := []models.NewsItem{}
	for _, item := range items {
		if !item.Mentions(symbol) {
			continue
		}
		if s.Credibility(item.Source) < minCredibility {
			continue
		}
		if seriesmath.Finite(s.CalculateNewsImpact(item).Score, 0) < minImpact {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
