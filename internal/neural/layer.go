package neural

import "github.com/banshee-data/spellbook/internal/contract"

// Layer is a set of neurons that share their input. Output caches the
// result of the last Process call.
type Layer struct {
	Neurons []*Perceptron
	Output  []float64
}

// NewLayer returns a layer of size neurons with inputCount inputs each.
func NewLayer(size, inputCount int, fn Func) *Layer {
	l := &Layer{
		Neurons: make([]*Perceptron, size),
		Output:  make([]float64, size),
	}
	for i := range l.Neurons {
		l.Neurons[i] = NewPerceptron(inputCount, fn)
	}
	return l
}

// Process applies every neuron to input and stores the result in Output.
func (l *Layer) Process(input []float64) []float64 {
	for i, n := range l.Neurons {
		l.Output[i] = n.Process(input)
	}
	return l.Output
}

func (l *Layer) evaluate(input []float64) []float64 {
	out := make([]float64, len(l.Neurons))
	for i, n := range l.Neurons {
		out[i] = n.Process(input)
	}
	return out
}

// ProcessLayers chains layers, feeding each one the cached output of the
// previous. It returns the last layer's output.
func ProcessLayers(layers []*Layer, input []float64) []float64 {
	for _, l := range layers {
		input = l.Process(input)
	}
	return input
}

// CreateLayers builds len(hidden)+1 layers: one per hidden size followed
// by an output layer of outputCount neurons.
func CreateLayers(inputCount, outputCount int, hidden []int, t FuncType) ([]*Layer, error) {
	fn, err := GetFunc(t)
	if err != nil {
		return nil, err
	}
	if inputCount < 1 || outputCount < 1 {
		return nil, contract.Invalidf("layer shape %d -> %d", inputCount, outputCount)
	}

	layers := make([]*Layer, 0, len(hidden)+1)
	in := inputCount
	for i, size := range hidden {
		if size < 1 {
			return nil, contract.Invalidf("hidden layer %d has %d neurons", i, size)
		}
		layers = append(layers, NewLayer(size, in, fn))
		in = size
	}
	layers = append(layers, NewLayer(outputCount, in, fn))
	return layers, nil
}
