package neural

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banshee-data/spellbook/internal/contract"
)

// randomize fills net with reproducible weights.
func randomize(net *Network, seed uint64) {
	u := distuv.Uniform{Min: -1, Max: 1, Src: rand.NewPCG(seed, seed)}
	for _, l := range net.Layers() {
		for _, p := range l.Neurons {
			p.Reset(u)
		}
	}
}

func TestDefaultSettings_RoundsHalfToEven(t *testing.T) {
	tests := []struct {
		in, out, hidden int
		want            []int
	}{
		{2, 1, 1, []int{2}},
		{4, 1, 1, []int{2}},
		{5, 2, 2, []int{4, 4}},
		{36, 3, 1, []int{20}},
		{3, 1, 0, []int{}},
	}
	for _, tt := range tests {
		s := DefaultSettings(Sample{Input: make([]float64, tt.in), Output: make([]float64, tt.out)}, tt.hidden)
		assert.Equal(t, tt.in, s.InputCount)
		assert.Equal(t, tt.out, s.OutputCount)
		assert.Equal(t, tt.want, s.HiddenLayers)
		assert.Equal(t, Sigmoid, s.FuncType)
	}
}

func TestSettings_ValidAndEqual(t *testing.T) {
	s := Settings{InputCount: 4, OutputCount: 2, HiddenLayers: []int{3}}
	assert.True(t, s.Valid())
	assert.True(t, s.Equal(Settings{InputCount: 4, OutputCount: 2, HiddenLayers: []int{3}}))
	assert.False(t, s.Equal(Settings{InputCount: 4, OutputCount: 2, HiddenLayers: []int{3}, FuncType: Tanh}))

	assert.False(t, Settings{InputCount: 0, OutputCount: 1}.Valid())
	assert.False(t, Settings{InputCount: 1, OutputCount: 1, HiddenLayers: []int{0}}.Valid())
	assert.False(t, Settings{InputCount: 1, OutputCount: 1, FuncType: 9}.Valid())

	_, err := New(Settings{})
	assert.ErrorIs(t, err, contract.ErrInvalidInput)
}

func TestNetwork_Shape(t *testing.T) {
	net, err := New(Settings{InputCount: 3, OutputCount: 2, HiddenLayers: []int{4, 5}})
	require.NoError(t, err)

	layers := net.Layers()
	require.Len(t, layers, 3)
	assert.Len(t, layers[0].Neurons, 4)
	assert.Equal(t, 3, layers[0].Neurons[0].InputCount())
	assert.Len(t, layers[1].Neurons, 5)
	assert.Equal(t, 4, layers[1].Neurons[0].InputCount())
	assert.Len(t, layers[2].Neurons, 2)
	assert.Equal(t, 5, layers[2].Neurons[0].InputCount())

	assert.Equal(t, "MLP (Inputs: 3, Outputs: 2, Layers: 3, Neurons: 11, Weights: 53, Activation: Sigmoid)", net.String())
}

func TestNetwork_ProcessAndEvaluateAgree(t *testing.T) {
	net, err := New(Settings{InputCount: 3, OutputCount: 2, HiddenLayers: []int{2}})
	require.NoError(t, err)
	randomize(net, 3)

	in := []float64{1, 0, 0.5}
	require.NoError(t, net.Process(in))
	got, err := net.Evaluate(in)
	require.NoError(t, err)

	if diff := cmp.Diff(net.Output(), got); diff != "" {
		t.Errorf("Evaluate differs from Process (-process +evaluate):\n%s", diff)
	}
}

func TestNetwork_RejectsBadInput(t *testing.T) {
	net, err := New(Settings{InputCount: 2, OutputCount: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, net.Process([]float64{1}), contract.ErrInvalidInput)
	assert.ErrorIs(t, net.Process([]float64{1, 1.5}), contract.ErrInvalidInput)
	_, err = net.Evaluate([]float64{-0.1, 0})
	assert.ErrorIs(t, err, contract.ErrInvalidInput)

	tanh, err := New(Settings{InputCount: 2, OutputCount: 1, FuncType: Tanh})
	require.NoError(t, err)
	assert.NoError(t, tanh.Process([]float64{-0.5, 1}))
}

func TestNetwork_StateRoundTrip(t *testing.T) {
	net, err := New(Settings{InputCount: 4, OutputCount: 2, HiddenLayers: []int{3}})
	require.NoError(t, err)
	randomize(net, 11)

	back, err := FromState(net.State())
	require.NoError(t, err)
	if diff := cmp.Diff(net.State(), back.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}

	bad := net.State()
	bad.Weights[1] = bad.Weights[1][:1]
	_, err = FromState(bad)
	assert.ErrorIs(t, err, contract.ErrInvalidInput)
}

func TestNetwork_CloneIsIndependent(t *testing.T) {
	net, err := New(Settings{InputCount: 2, OutputCount: 1, HiddenLayers: []int{2}})
	require.NoError(t, err)
	randomize(net, 5)

	c := net.Clone()
	c.Layers()[0].Neurons[0].Weights[0] += 1
	assert.NotEqual(t, net.Layers()[0].Neurons[0].Weights[0], c.Layers()[0].Neurons[0].Weights[0])
	assert.True(t, net.Settings().Equal(c.Settings()))
}

func TestNetwork_Matches(t *testing.T) {
	net, err := New(DefaultSettings(XORTrainingSet()[0], 1))
	require.NoError(t, err)
	assert.True(t, net.Matches(XORTrainingSet()[3]))
	assert.False(t, net.Matches(Sample{Input: []float64{1}, Output: []float64{1}}))
}

func TestValidTrainingSet(t *testing.T) {
	assert.True(t, ValidTrainingSet(XORTrainingSet()))
	assert.False(t, ValidTrainingSet(nil))
	assert.False(t, ValidTrainingSet([]Sample{{Input: []float64{1}}}))
	assert.False(t, ValidTrainingSet([]Sample{
		{Input: []float64{1}, Output: []float64{1}},
		{Input: []float64{1, 0}, Output: []float64{1}},
	}))
	assert.Equal(t, "(0.00, 1.00) : (1.00)", XORTrainingSet()[1].String())
}
