package prediction

import (
	"math"
	"strings"
)

// Horizon defines a forecast distance in trading days and the heuristic
// multiplier used for the projected price.
type Horizon struct {
	Name       string
	Days       int
	Multiplier float64
}

var horizons = map[string]Horizon{
	"1d": {Name: "1d", Days: 1, Multiplier: 0.02},
	"1w": {Name: "1w", Days: 5, Multiplier: 0.05},
	"1m": {Name: "1m", Days: 21, Multiplier: 0.10},
	"3m": {Name: "3m", Days: 63, Multiplier: 0.20},
}

// DefaultHorizons are used when a caller names none.
var DefaultHorizons = []string{"1d", "1w", "1m"}

// LookupHorizon is case-insensitive.
func LookupHorizon(name string) (Horizon, bool) {
	h, ok := horizons[strings.ToLower(strings.TrimSpace(name))]
	return h, ok
}

// KnownHorizons lists every horizon from shortest to longest.
func KnownHorizons() []Horizon {
	return []Horizon{horizons["1d"], horizons["1w"], horizons["1m"], horizons["3m"]}
}

// labelThreshold is the forward return beyond which a move counts as directional.
func labelThreshold(h Horizon) float64 {
	return 0.002 * math.Sqrt(float64(h.Days))
}

func label(h Horizon, from, to float64) int {
	if from == 0 {
		return classNeutral
	}
	r := to/from - 1
	th := labelThreshold(h)
	switch {
	case r > th:
		return classUp
	case r < -th:
		return classDown
	default:
		return classNeutral
	}
}
