package neural

import (
	"github.com/banshee-data/spellbook/internal/contract"
)

// TrainSettings configures one backpropagation run.
type TrainSettings struct {
	LearningRate float64
	Momentum     float64
	// TargetError stops training once an epoch's mean error reaches it.
	TargetError   float64
	MaxIterations int
	// WeightMin and WeightMax bound the initial random weights.
	WeightMin float64
	WeightMax float64
}

// DefaultTrainSettings returns the stock backpropagation parameters.
func DefaultTrainSettings() TrainSettings {
	return TrainSettings{
		LearningRate:  0.3,
		Momentum:      0.9,
		TargetError:   0.2,
		MaxIterations: 1000,
		WeightMin:     -1,
		WeightMax:     1,
	}
}

// Valid reports whether all rates are non-negative and the weight range
// is well formed.
func (s TrainSettings) Valid() bool {
	return s.LearningRate >= 0 && s.Momentum >= 0 && s.TargetError >= 0 &&
		s.MaxIterations >= 0 && s.WeightMin <= s.WeightMax
}

// CalcError sets the error term of every output neuron from target and
// the network's cached output. It returns the sample's mean squared error.
func CalcError(net *Network, target []float64) float64 {
	out := net.layers[len(net.layers)-1]
	var sum float64
	for i, p := range out.Neurons {
		diff := target[i] - out.Output[i]
		p.Error = diff * p.fn.Derivative(out.Output[i])
		sum += diff * diff
	}
	return sum / float64(len(target))
}

// PropagateError walks the error terms back from the output layer to the
// first hidden layer.
func PropagateError(net *Network) {
	layers := net.layers
	for l := len(layers) - 1; l > 0; l-- {
		layer, next := layers[l-1], layers[l].Neurons
		for c, p := range layer.Neurons {
			var sum float64
			for _, n := range next {
				sum += n.Error * n.Weights[c]
			}
			p.Error = sum * p.fn.Derivative(layer.Output[c])
		}
	}
}

// AdjustWeights applies one gradient step with momentum to every neuron.
// The bias weight sees a constant input of 1.
func AdjustWeights(net *Network, input []float64, learningRate, momentum float64) {
	for i, l := range net.layers {
		in := input
		if i > 0 {
			in = net.layers[i-1].Output
		}
		for _, p := range l.Neurons {
			for w := range p.Weights {
				x := 1.0
				if w < len(in) {
					x = in[w]
				}
				delta := learningRate*p.Error*x + momentum*p.Momentum[w]
				p.Weights[w] += delta
				p.Momentum[w] = delta
			}
		}
	}
}

// TrainSample runs forward, backward and update for one sample and
// returns its mean squared error.
func TrainSample(net *Network, sample Sample, learningRate, momentum float64) float64 {
	ProcessLayers(net.layers, sample.Input)
	e := CalcError(net, sample.Output)
	PropagateError(net)
	AdjustWeights(net, sample.Input, learningRate, momentum)
	return e
}

// Epoch trains every sample in order and returns the mean error.
// Momentum carries over from the previous epoch.
func Epoch(net *Network, samples []Sample, learningRate, momentum float64) float64 {
	var sum float64
	for _, s := range samples {
		sum += TrainSample(net, s, learningRate, momentum)
	}
	return sum / float64(len(samples))
}

// validateRun checks everything RunAsync needs before touching net.
func validateRun(net *Network, samples []Sample, settings TrainSettings) error {
	if net == nil {
		return contract.Invalidf("nil network")
	}
	if !ValidTrainingSet(samples) {
		return contract.Invalidf("training set of %d samples is not valid", len(samples))
	}
	if !net.Matches(samples[0]) {
		return contract.Invalidf("samples are %d -> %d, network is %d -> %d",
			len(samples[0].Input), len(samples[0].Output), net.InputCount(), net.OutputCount())
	}
	if !settings.Valid() {
		return contract.Invalidf("train settings %+v", settings)
	}
	out := net.layers[len(net.layers)-1].Neurons[0].Func()
	for i, s := range samples {
		if err := net.checkInput(s.Input); err != nil {
			return contract.Invalidf("sample %d: %v", i, err)
		}
		for j, v := range s.Output {
			if !InRange(out, v) {
				return contract.Invalidf("sample %d: output[%d] = %v is outside the %v range", i, j, v, out.Type())
			}
		}
	}
	return nil
}
