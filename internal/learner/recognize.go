package learner

import "fmt"

// NotRecognized is the spell index of a gesture that matched nothing.
const NotRecognized = -1

// Recognition is the outcome of classifying one gesture.
type Recognition struct {
	Spell      int
	Confidence float64
}

// Recognized reports whether a spell was matched.
func (r Recognition) Recognized() bool { return r.Spell != NotRecognized }

func (r Recognition) String() string {
	if !r.Recognized() {
		return "not recognized"
	}
	return fmt.Sprintf("spell %d (%.3f)", r.Spell, r.Confidence)
}

// PickBest returns the index of the strictly greatest output among those at
// or above threshold. Ties keep the lowest index.
func PickBest(outputs []float64, threshold float64) Recognition {
	best := Recognition{Spell: NotRecognized}
	for i, o := range outputs {
		if o < threshold {
			continue
		}
		if best.Spell == NotRecognized || best.Confidence < o {
			best = Recognition{Spell: i, Confidence: o}
		}
	}
	return best
}
