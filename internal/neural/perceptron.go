package neural

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Perceptron is a single neuron. Weights holds one weight per input
// followed by the bias weight.
type Perceptron struct {
	Weights []float64
	// Momentum holds the previous update of each weight.
	Momentum []float64
	// Error is scratch space for backpropagation.
	Error float64

	fn Func
}

// NewPerceptron returns a neuron with zeroed weights.
func NewPerceptron(inputCount int, fn Func) *Perceptron {
	return &Perceptron{
		Weights:  make([]float64, inputCount+1),
		Momentum: make([]float64, inputCount+1),
		fn:       fn,
	}
}

// InputCount is the number of inputs, excluding the bias.
func (p *Perceptron) InputCount() int { return len(p.Weights) - 1 }

// Func returns the neuron's activation.
func (p *Perceptron) Func() Func { return p.fn }

// Process returns f(w·input + bias). len(input) must equal InputCount.
func (p *Perceptron) Process(input []float64) float64 {
	n := p.InputCount()
	return p.fn.Calculate(floats.Dot(p.Weights[:n], input) + p.Weights[n])
}

// Reset draws fresh weights from u and clears training state.
func (p *Perceptron) Reset(u distuv.Uniform) {
	for i := range p.Weights {
		p.Weights[i] = u.Rand()
		p.Momentum[i] = 0
	}
	p.Error = 0
}
