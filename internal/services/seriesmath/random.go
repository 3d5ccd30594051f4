package seriesmath

import (
	"math"
	"math/rand"
	"time"
)

// Source is the uniform generator consumed by samplers. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewRand returns a generator for seed; seed 0 selects a time-based seed.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RandomNormal draws a standard normal sample with the Box-Muller transform.
func RandomNormal(src Source) float64 {
	u1 := src.Float64()
	for u1 <= 0 {
		u1 = src.Float64()
	}
	u2 := src.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
