package gesture

import (
	"math"

	"github.com/banshee-data/spellbook/internal/contract"
)

// NoEffect is the EffectID of a spell that has not been bound to an effect.
const NoEffect = -1

// Spell is a classifier label: a set of example gestures plus the
// presentation data the game attaches to it. A spell's position in the
// configured spell list is its output neuron index.
type Spell struct {
	ID       string     `json:"id,omitempty"`
	Name     string     `json:"name"`
	Color    string     `json:"color"`
	EffectID int        `json:"effect_id"`
	Gestures []*Gesture `json:"gestures"`
}

// NewSpell returns an empty spell with the default color and no effect.
func NewSpell(name string, gestures ...*Gesture) *Spell {
	return &Spell{
		Name:     name,
		Color:    "#000000",
		EffectID: NoEffect,
		Gestures: gestures,
	}
}

// Valid reports whether the spell has at least one gesture and all of its
// gestures are valid.
func (s *Spell) Valid() bool {
	if s == nil || len(s.Gestures) == 0 {
		return false
	}
	for _, g := range s.Gestures {
		if !g.Valid() {
			return false
		}
	}
	return true
}

// Longest returns the gesture with the longest first-hand trail.
func (s *Spell) Longest() *Gesture {
	var best *Gesture
	for _, g := range s.Gestures {
		if !g.Valid() {
			continue
		}
		if best == nil || best.Length[0] < g.Length[0] {
			best = g
		}
	}
	return best
}

// Preview averages the spell's gestures into a single trail with
// pointDensity points per unit of the longest gesture's length.
func (s *Spell) Preview(pointDensity float64) (*Gesture, error) {
	if !s.Valid() {
		return nil, contract.Invalidf("preview of invalid spell %q", s.Name)
	}
	size := int(math.RoundToEven(s.Longest().Length[0] * pointDensity))
	return Averaged(s.Gestures, size)
}
