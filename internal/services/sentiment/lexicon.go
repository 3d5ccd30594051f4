package sentiment

import "sort"

// Generic polarity words, unweighted.
var (
	positiveWords = set(
		"good", "great", "excellent", "positive", "strong", "gain", "gains", "improve", "improved",
		"improving", "success", "successful", "optimistic", "win", "wins", "boost", "boosted", "rise",
		"rises", "rising", "up", "high", "record", "growth", "grow", "growing", "profit", "profitable",
		"best", "better", "beat", "beats", "solid", "robust", "upbeat", "confident",
	)
	negativeWords = set(
		"bad", "poor", "weak", "negative", "loss", "losses", "decline", "declines", "declining", "fall",
		"falls", "falling", "drop", "drops", "down", "low", "worst", "worse", "fail", "fails", "failure",
		"concern", "concerns", "risk", "risks", "fear", "fears", "pessimistic", "miss", "misses",
		"trouble", "crisis", "slump", "warning", "uncertain",
	)
)

// financialKeywords carry signed weights in [-1,1]. Multi-word entries are
// matched as phrases.
var financialKeywords = map[string]float64{
	"bullish":             0.8,
	"bearish":             -0.8,
	"rally":               0.7,
	"surge":               0.8,
	"soar":                0.8,
	"soars":               0.8,
	"outperform":          0.6,
	"upgrade":             0.6,
	"upgraded":            0.6,
	"downgrade":           -0.6,
	"downgraded":          -0.6,
	"beat expectations":   0.7,
	"beats expectations":  0.7,
	"missed expectations": -0.7,
	"misses expectations": -0.7,
	"dividend increase":   0.5,
	"buyback":             0.4,
	"raised guidance":     0.7,
	"cut guidance":        -0.7,
	"lowered guidance":    -0.7,
	"record revenue":      0.6,
	"revenue growth":      0.5,
	"margin expansion":    0.5,
	"rate cut":            0.4,
	"rate hike":           -0.4,
	"recession":           -0.8,
	"bankruptcy":          -1.0,
	"default":             -0.8,
	"layoffs":             -0.5,
	"selloff":             -0.7,
	"sell-off":            -0.7,
	"plunge":              -0.8,
	"plunges":             -0.8,
	"crash":               -0.9,
	"lawsuit":             -0.5,
	"investigation":       -0.5,
	"fraud":               -0.9,
	"underperform":        -0.6,
	"volatility":          -0.2,
	"inflation":           -0.3,
	"acquisition":         0.3,
	"partnership":         0.3,
	"approval":            0.5,
}

// Contextual modifiers applied to the generic score.
var (
	topicBoosts = []struct {
		terms  []string
		factor float64
	}{
		{[]string{"market", "markets", "stocks", "index", "s&p", "nasdaq", "dow"}, 1.1},
		{[]string{"fed", "federal reserve", "fomc", "powell", "central bank"}, 1.2},
		{[]string{"earnings", "eps", "quarterly results", "revenue"}, 1.3},
	}
	hedgingTerms     = []string{"however", "but", "although", "though", "despite"}
	speculativeTerms = []string{"expect", "expects", "expected", "forecast", "forecasts", "may", "might", "could", "predict", "predicts"}
)

const (
	hedgingDamp     = 0.8
	speculativeDamp = 0.9
)

// Impact vocabularies and their per-match score.
var impactTiers = []struct {
	name   string
	points float64
	terms  []string
}{
	{"high", 30, []string{
		"earnings", "merger", "acquisition", "bankruptcy", "fda approval", "lawsuit", "sec investigation",
		"guidance", "recall", "ceo", "layoffs", "fraud", "default", "takeover",
	}},
	{"medium", 15, []string{
		"upgrade", "downgrade", "dividend", "buyback", "partnership", "contract", "analyst", "price target",
		"expansion", "launch", "rate hike", "rate cut",
	}},
	{"low", 5, []string{
		"conference", "interview", "announcement", "update", "product", "event", "report",
	}},
}

// credibility scores known outlets; unknown sources get defaultCredibility.
var credibility = map[string]float64{
	"reuters":             1.0,
	"bloomberg":           1.0,
	"wsj":                 0.95,
	"wall street journal": 0.95,
	"financial times":     0.95,
	"cnbc":                0.85,
	"marketwatch":         0.8,
	"yahoo finance":       0.75,
	"seeking alpha":       0.6,
	"twitter":             0.4,
	"reddit":              0.3,
}

const defaultCredibility = 0.5

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
