package neural

import (
	"fmt"
	"math"

	"github.com/banshee-data/spellbook/internal/contract"
)

// FuncType selects a neuron activation function.
type FuncType int

const (
	Sigmoid FuncType = iota
	Tanh
)

func (t FuncType) String() string {
	switch t {
	case Sigmoid:
		return "Sigmoid"
	case Tanh:
		return "Tanh"
	default:
		return fmt.Sprintf("FuncType(%d)", int(t))
	}
}

// Func is a neuron activation function.
type Func interface {
	Type() FuncType
	// Calculate returns f(x).
	Calculate(x float64) float64
	// Derivative returns f'(x) expressed in terms of y = f(x).
	Derivative(y float64) float64
	// Range returns the closed output interval of f.
	Range() (min, max float64)
}

// InRange reports whether y lies in the output interval of f.
func InRange(f Func, y float64) bool {
	lo, hi := f.Range()
	return y >= lo && y <= hi
}

// SigmoidFunc is the logistic function with steepness Beta.
type SigmoidFunc struct {
	Beta float64
}

func (SigmoidFunc) Type() FuncType { return Sigmoid }

func (s SigmoidFunc) Calculate(x float64) float64 {
	return 1 / (1 + math.Exp(-s.Beta*x))
}

func (s SigmoidFunc) Derivative(y float64) float64 {
	return s.Beta * y * (1 - y)
}

func (SigmoidFunc) Range() (float64, float64) { return 0, 1 }

// TanhFunc is the hyperbolic tangent.
type TanhFunc struct{}

func (TanhFunc) Type() FuncType { return Tanh }

func (TanhFunc) Calculate(x float64) float64 { return math.Tanh(x) }

func (TanhFunc) Derivative(y float64) float64 { return 1 - y*y }

func (TanhFunc) Range() (float64, float64) { return -1, 1 }

// GetFunc returns the default instance of the activation t.
func GetFunc(t FuncType) (Func, error) {
	switch t {
	case Sigmoid:
		return SigmoidFunc{Beta: 1}, nil
	case Tanh:
		return TanhFunc{}, nil
	default:
		return nil, contract.Invalidf("unknown activation %v", t)
	}
}
