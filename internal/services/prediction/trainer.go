package prediction

// Sample is one labelled feature vector; Label is a class index.
type Sample struct {
	Features []float64
	Label    int
}

// Trainer updates a network from labelled samples.
type Trainer interface {
	Train(n *Network, samples []Sample)
}

// NudgeTrainer takes plain gradient steps on the softmax cross-entropy of the
// output layer only. The hidden layer keeps its random projection.
type NudgeTrainer struct {
	LearningRate float64
	Epochs       int
}

func DefaultTrainer() NudgeTrainer {
	return NudgeTrainer{LearningRate: 0.05, Epochs: 20}
}

func (t NudgeTrainer) Train(n *Network, samples []Sample) {
	for epoch := 0; epoch < t.Epochs; epoch++ {
		for _, s := range samples {
			if s.Label < 0 || s.Label >= numClasses {
				continue
			}
			h, p := n.forward(s.Features)
			for k := 0; k < numClasses; k++ {
				g := p[k]
				if k == s.Label {
					g -= 1
				}
				step := t.LearningRate * g
				for j := range n.w2[k] {
					n.w2[k][j] -= step * h[j]
				}
				n.b2[k] -= step
			}
		}
	}
}
