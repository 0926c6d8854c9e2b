package neural

import (
	"fmt"
	"strings"
)

// Sample is one training pair. Values are expected to lie in [0,1].
type Sample struct {
	Input  []float64
	Output []float64
}

// Valid reports whether both vectors are non-empty.
func (s Sample) Valid() bool {
	return len(s.Input) > 0 && len(s.Output) > 0
}

func (s Sample) String() string {
	return fmt.Sprintf("(%s) : (%s)", joinValues(s.Input), joinValues(s.Output))
}

func joinValues(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.2f", x)
	}
	return strings.Join(parts, ", ")
}

// ValidTrainingSet reports whether samples is non-empty, every sample is
// valid and all samples share the same input and output lengths.
func ValidTrainingSet(samples []Sample) bool {
	if len(samples) == 0 {
		return false
	}
	in, out := len(samples[0].Input), len(samples[0].Output)
	for _, s := range samples {
		if !s.Valid() || len(s.Input) != in || len(s.Output) != out {
			return false
		}
	}
	return true
}
