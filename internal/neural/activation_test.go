package neural

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/spellbook/internal/contract"
)

func TestActivation_Zero(t *testing.T) {
	sig, err := GetFunc(Sigmoid)
	require.NoError(t, err)
	assert.Equal(t, 0.5, sig.Calculate(0))

	th, err := GetFunc(Tanh)
	require.NoError(t, err)
	assert.Equal(t, 0.0, th.Calculate(0))
}

func TestActivation_MonotonicWithNonNegativeDerivative(t *testing.T) {
	for _, ft := range []FuncType{Sigmoid, Tanh} {
		t.Run(ft.String(), func(t *testing.T) {
			f, err := GetFunc(ft)
			require.NoError(t, err)

			prev := f.Calculate(-10)
			for x := -10.0; x <= 10; x += 0.25 {
				y := f.Calculate(x)
				assert.GreaterOrEqual(t, y, prev, "not monotonic at x=%v", x)
				assert.True(t, InRange(f, y), "f(%v)=%v out of range", x, y)
				assert.GreaterOrEqual(t, f.Derivative(y), 0.0, "negative derivative at y=%v", y)
				prev = y
			}

			lo, hi := f.Range()
			assert.GreaterOrEqual(t, f.Derivative(lo), 0.0)
			assert.GreaterOrEqual(t, f.Derivative(hi), 0.0)
		})
	}
}

func TestActivation_SigmoidBeta(t *testing.T) {
	steep := SigmoidFunc{Beta: 2}
	assert.InDelta(t, SigmoidFunc{Beta: 1}.Calculate(2), steep.Calculate(1), 1e-15)
	assert.InDelta(t, 2*0.25, steep.Derivative(0.5), 1e-15)
}

func TestGetFunc_Unknown(t *testing.T) {
	_, err := GetFunc(FuncType(7))
	assert.ErrorIs(t, err, contract.ErrInvalidInput)
	assert.Equal(t, "FuncType(7)", FuncType(7).String())
}
