package learner

import (
	"fmt"

	"github.com/sourcegraph/conc/iter"

	"github.com/banshee-data/spellbook/internal/gesture"
	"github.com/banshee-data/spellbook/internal/neural"
	"github.com/banshee-data/spellbook/internal/preprocess"
)

type labelled struct {
	spell   int
	gesture *gesture.Gesture
}

// CreateSamples preprocesses every gesture of spells whose hand count
// matches pre. Each sample's output is one-hot over len(spells) with the
// spell's index set. Gestures are preprocessed in parallel; the result
// keeps spell order.
func CreateSamples(spells []*gesture.Spell, pre *preprocess.Preprocessor) ([]neural.Sample, error) {
	var jobs []labelled
	for i, s := range spells {
		if s == nil {
			continue
		}
		for _, g := range s.Gestures {
			if g.HandCount() == pre.HandCount() {
				jobs = append(jobs, labelled{spell: i, gesture: g})
			}
		}
	}

	return iter.MapErr(jobs, func(j *labelled) (neural.Sample, error) {
		in, err := pre.Input(j.gesture)
		if err != nil {
			return neural.Sample{}, fmt.Errorf("spell %d: %w", j.spell, err)
		}
		out := make([]float64, len(spells))
		out[j.spell] = 1
		return neural.Sample{Input: in, Output: out}, nil
	})
}
