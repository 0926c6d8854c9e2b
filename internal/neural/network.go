package neural

import (
	"fmt"
	"math"
	"slices"

	"github.com/banshee-data/spellbook/internal/contract"
)

// Settings fixes the shape of a Network.
type Settings struct {
	InputCount  int
	OutputCount int
	// HiddenLayers holds the neuron count of each hidden layer.
	HiddenLayers []int
	FuncType     FuncType
}

// Valid reports whether a network can be built from s.
func (s Settings) Valid() bool {
	if s.InputCount < 1 || s.OutputCount < 1 {
		return false
	}
	for _, h := range s.HiddenLayers {
		if h < 1 {
			return false
		}
	}
	_, err := GetFunc(s.FuncType)
	return err == nil
}

// Equal compares two settings field by field.
func (s Settings) Equal(o Settings) bool {
	return s.InputCount == o.InputCount &&
		s.OutputCount == o.OutputCount &&
		slices.Equal(s.HiddenLayers, o.HiddenLayers) &&
		s.FuncType == o.FuncType
}

// DefaultSettings sizes a sigmoid network for sample. Every hidden layer
// gets (inputs+outputs)/2 neurons, rounded half to even.
func DefaultSettings(sample Sample, hiddenLayers int) Settings {
	in, out := len(sample.Input), len(sample.Output)
	avg := int(math.RoundToEven(float64(in+out) / 2))

	hidden := make([]int, max(hiddenLayers, 0))
	for i := range hidden {
		hidden[i] = avg
	}
	return Settings{
		InputCount:   in,
		OutputCount:  out,
		HiddenLayers: hidden,
		FuncType:     Sigmoid,
	}
}

// Network is a multilayer perceptron with a fixed shape.
type Network struct {
	settings Settings
	layers   []*Layer
}

// New builds a network with zeroed weights.
func New(settings Settings) (*Network, error) {
	if !settings.Valid() {
		return nil, contract.Invalidf("network settings %+v", settings)
	}
	layers, err := CreateLayers(settings.InputCount, settings.OutputCount, settings.HiddenLayers, settings.FuncType)
	if err != nil {
		return nil, err
	}
	settings.HiddenLayers = slices.Clone(settings.HiddenLayers)
	return &Network{settings: settings, layers: layers}, nil
}

// Settings returns the shape the network was built with.
func (n *Network) Settings() Settings {
	s := n.settings
	s.HiddenLayers = slices.Clone(s.HiddenLayers)
	return s
}

// InputCount is the expected length of every input vector.
func (n *Network) InputCount() int { return n.settings.InputCount }

// OutputCount is the length of every output vector.
func (n *Network) OutputCount() int { return n.settings.OutputCount }

// Layers exposes the layers for training. Callers must not reshape them.
func (n *Network) Layers() []*Layer { return n.layers }

func (n *Network) checkInput(input []float64) error {
	if len(input) != n.settings.InputCount {
		return contract.Invalidf("input has %d values, network expects %d", len(input), n.settings.InputCount)
	}
	fn := n.layers[0].Neurons[0].Func()
	for i, v := range input {
		if !InRange(fn, v) {
			return contract.Invalidf("input[%d] = %v is outside the %v range", i, v, fn.Type())
		}
	}
	return nil
}

// Process runs the forward pass and caches every layer's output.
// It must not run concurrently with training or another Process call.
func (n *Network) Process(input []float64) error {
	if err := n.checkInput(input); err != nil {
		return err
	}
	ProcessLayers(n.layers, input)
	return nil
}

// Output returns a copy of the last layer's cached output.
func (n *Network) Output() []float64 {
	return slices.Clone(n.layers[len(n.layers)-1].Output)
}

// Evaluate runs a forward pass without touching cached state. It is safe
// for concurrent use as long as the weights are not being trained.
func (n *Network) Evaluate(input []float64) ([]float64, error) {
	if err := n.checkInput(input); err != nil {
		return nil, err
	}
	out := input
	for _, l := range n.layers {
		out = l.evaluate(out)
	}
	return out, nil
}

// Matches reports whether sample fits the network's input and output.
func (n *Network) Matches(sample Sample) bool {
	return len(sample.Input) == n.settings.InputCount && len(sample.Output) == n.settings.OutputCount
}

func (n *Network) String() string {
	neurons, weights := 0, 0
	for _, l := range n.layers {
		neurons += len(l.Neurons)
		for _, p := range l.Neurons {
			weights += len(p.Weights)
		}
	}
	return fmt.Sprintf("MLP (Inputs: %d, Outputs: %d, Layers: %d, Neurons: %d, Weights: %d, Activation: %v)",
		n.settings.InputCount, n.settings.OutputCount, len(n.layers), neurons, weights, n.settings.FuncType)
}

// NetworkState is the serializable form of a network: its shape and the
// weights of every neuron, indexed [layer][neuron][weight].
type NetworkState struct {
	Settings Settings
	Weights  [][][]float64
}

// State snapshots the network's weights.
func (n *Network) State() NetworkState {
	w := make([][][]float64, len(n.layers))
	for i, l := range n.layers {
		w[i] = make([][]float64, len(l.Neurons))
		for j, p := range l.Neurons {
			w[i][j] = slices.Clone(p.Weights)
		}
	}
	return NetworkState{Settings: n.Settings(), Weights: w}
}

// FromState rebuilds a network from a snapshot.
func FromState(state NetworkState) (*Network, error) {
	n, err := New(state.Settings)
	if err != nil {
		return nil, err
	}
	if len(state.Weights) != len(n.layers) {
		return nil, contract.Invalidf("state has %d layers, settings imply %d", len(state.Weights), len(n.layers))
	}
	for i, l := range n.layers {
		if len(state.Weights[i]) != len(l.Neurons) {
			return nil, contract.Invalidf("layer %d: state has %d neurons, want %d", i, len(state.Weights[i]), len(l.Neurons))
		}
		for j, p := range l.Neurons {
			if len(state.Weights[i][j]) != len(p.Weights) {
				return nil, contract.Invalidf("layer %d neuron %d: state has %d weights, want %d",
					i, j, len(state.Weights[i][j]), len(p.Weights))
			}
			copy(p.Weights, state.Weights[i][j])
		}
	}
	return n, nil
}

// Clone returns an independent copy with the same weights. Training
// state is not copied.
func (n *Network) Clone() *Network {
	c, err := FromState(n.State())
	if err != nil {
		// State always matches its own settings.
		panic(err)
	}
	return c
}
