package gesture

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/banshee-data/spellbook/internal/contract"
)

// Gesture is a completed stroke: one ordered point trail per hand.
//
// Limits, Length and Radius are derived from Points when the gesture is
// built and are not serialized.
type Gesture struct {
	Points [][]mgl64.Vec3 `json:"points"`

	// Limits is the bounding box over every point of every hand.
	Limits Limits `json:"-"`
	// Length holds the arclength of each hand's trail.
	Length []float64 `json:"-"`
	// Radius is the largest distance of any point from Limits.Center.
	Radius float64 `json:"-"`
}

// New copies points and computes the derived geometry.
// Consecutive points of a hand must be distinct.
func New(points [][]mgl64.Vec3) (*Gesture, error) {
	g := &Gesture{Points: make([][]mgl64.Vec3, len(points))}
	for i, hand := range points {
		g.Points[i] = append([]mgl64.Vec3(nil), hand...)
	}
	if err := g.recalculate(); err != nil {
		return nil, err
	}
	return g, nil
}

// HandCount returns the number of hands represented.
func (g *Gesture) HandCount() int {
	if g == nil {
		return 0
	}
	return len(g.Points)
}

// Valid reports whether the gesture has at least one hand and at least one
// point per hand.
func (g *Gesture) Valid() bool {
	if g == nil || len(g.Points) == 0 {
		return false
	}
	for _, hand := range g.Points {
		if len(hand) == 0 {
			return false
		}
	}
	return true
}

// PointCount returns the total number of points over all hands.
func (g *Gesture) PointCount() int {
	n := 0
	for _, hand := range g.Points {
		n += len(hand)
	}
	return n
}

func (g *Gesture) recalculate() error {
	if !g.Valid() {
		return contract.Invalidf("gesture needs at least one point per hand")
	}

	min := g.Points[0][0]
	max := min
	g.Length = make([]float64, len(g.Points))

	for i, hand := range g.Points {
		for j, p := range hand {
			for k := 0; k < 3; k++ {
				min[k] = math.Min(min[k], p[k])
				max[k] = math.Max(max[k], p[k])
			}
			if j == 0 {
				continue
			}
			d := p.Sub(hand[j-1]).Len()
			if !(d > 0) {
				return contract.Invalidf("hand %d: points %d and %d coincide", i, j-1, j)
			}
			g.Length[i] += d
		}
	}
	g.Limits = NewLimitsMinMax(min, max)

	var r2 float64
	for _, hand := range g.Points {
		for _, p := range hand {
			r2 = math.Max(r2, p.Sub(g.Limits.Center).LenSqr())
		}
	}
	g.Radius = math.Sqrt(r2)
	return nil
}

// UnmarshalJSON decodes the point trails and recomputes derived geometry.
func (g *Gesture) UnmarshalJSON(data []byte) error {
	var raw struct {
		Points [][]mgl64.Vec3 `json:"points"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := New(raw.Points)
	if err != nil {
		return fmt.Errorf("decode gesture: %w", err)
	}
	*g = *parsed
	return nil
}

// String summarises the gesture for logs.
func (g *Gesture) String() string {
	return fmt.Sprintf("Gesture (Hands: %d, Points: %d, Radius: %.3f, Length: %v)",
		g.HandCount(), g.PointCount(), g.Radius, g.Length)
}
