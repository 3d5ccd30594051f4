package prediction

import (
	"math/rand"

	"FinSight/internal/domain/models"
)

// DefaultWeights are the per-member vote weights.
var DefaultWeights = []float64{0.4, 0.3, 0.3}

// Ensemble combines independently initialized networks by weighted vote.
type Ensemble struct {
	members []*Network
	weights []float64
}

func newEnsemble(in, hidden int, weights []float64, rng *rand.Rand) *Ensemble {
	en := &Ensemble{weights: weights, members: make([]*Network, len(weights))}
	for i := range en.members {
		en.members[i] = NewNetwork(in, hidden, rng)
	}
	return en
}

func (en *Ensemble) train(t Trainer, samples []Sample) {
	for _, m := range en.members {
		t.Train(m, samples)
	}
}

// Vote is the outcome of one ensemble evaluation.
type Vote struct {
	Direction models.Direction
	// Confidence is the weight-averaged member confidence.
	Confidence float64
	// Probability is the weight-averaged member probability of Direction.
	Probability float64
}

// Vote gives each member's argmax class its weight. The class with the largest
// total wins; ties follow models.Directions order.
func (en *Ensemble) Vote(x []float64) Vote {
	var votes, probSum [numClasses]float64
	confSum, wSum := 0.0, 0.0
	for i, m := range en.members {
		w := en.weights[i]
		p := m.Predict(x)
		votes[argmax(p)] += w
		for k := range p {
			probSum[k] += w * p[k]
		}
		confSum += w * Confidence(p)
		wSum += w
	}
	if wSum == 0 {
		return Vote{Direction: models.DirectionNeutral}
	}

	winner := -1
	for _, d := range models.Directions {
		k := classOf(d)
		if winner < 0 || votes[k] > votes[winner] {
			winner = k
		}
	}
	return Vote{
		Direction:   classDirection[winner],
		Confidence:  confSum / wSum,
		Probability: probSum[winner] / wSum,
	}
}

func classOf(d models.Direction) int {
	for k, cd := range classDirection {
		if cd == d {
			return k
		}
	}
	return classNeutral
}
