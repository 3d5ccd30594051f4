package prediction

import (
	"math"
	"math/rand"

	"FinSight/internal/domain/models"
)

// Output classes of every network, in softmax order.
const (
	classDown = iota
	classNeutral
	classUp
	numClasses
)

var classDirection = [numClasses]models.Direction{models.DirectionDown, models.DirectionNeutral, models.DirectionUp}

// Probs is a 3-way distribution over [down, neutral, up].
type Probs [numClasses]float64

// Network is a single-hidden-layer tanh scorer with a softmax output.
type Network struct {
	w1 [][]float64 // hidden x in
	b1 []float64
	w2 [][]float64 // classes x hidden
	b2 []float64
}

// NewNetwork draws weights uniformly from the Xavier range ±sqrt(6/(fanIn+fanOut)).
func NewNetwork(in, hidden int, rng *rand.Rand) *Network {
	return &Network{
		w1: xavier(hidden, in, rng),
		b1: make([]float64, hidden),
		w2: xavier(numClasses, hidden, rng),
		b2: make([]float64, numClasses),
	}
}

func xavier(rows, cols int, rng *rand.Rand) [][]float64 {
	limit := math.Sqrt(6 / float64(rows+cols))
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		for j := range m[i] {
			m[i][j] = (rng.Float64()*2 - 1) * limit
		}
	}
	return m
}

// InputSize is the feature length the network was built for.
func (n *Network) InputSize() int {
	if len(n.w1) == 0 {
		return 0
	}
	return len(n.w1[0])
}

// forward returns the hidden activations and output distribution. Missing
// trailing features read as zero.
func (n *Network) forward(x []float64) ([]float64, Probs) {
	h := make([]float64, len(n.w1))
	for i, row := range n.w1 {
		z := n.b1[i]
		for j, w := range row {
			if j < len(x) {
				z += w * x[j]
			}
		}
		h[i] = math.Tanh(z)
	}
	var logits Probs
	for k, row := range n.w2 {
		z := n.b2[k]
		for j, w := range row {
			z += w * h[j]
		}
		logits[k] = z
	}
	return h, softmax(logits)
}

// Predict scores one feature vector.
func (n *Network) Predict(x []float64) Probs {
	_, p := n.forward(x)
	return p
}

func softmax(z Probs) Probs {
	maxZ := z[0]
	for _, v := range z[1:] {
		maxZ = math.Max(maxZ, v)
	}
	var out Probs
	sum := 0.0
	for i, v := range z {
		out[i] = math.Exp(v - maxZ)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Confidence is 1 minus the entropy of p normalized by ln 3.
func Confidence(p Probs) float64 {
	h := 0.0
	for _, v := range p {
		if v > 0 {
			h -= v * math.Log(v)
		}
	}
	c := 1 - h/math.Log(numClasses)
	return math.Max(0, math.Min(1, c))
}

func argmax(p Probs) int {
	best := 0
	for i, v := range p {
		if v > p[best] {
			best = i
		}
	}
	return best
}
