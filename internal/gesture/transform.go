package gesture

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/banshee-data/spellbook/internal/contract"
)

// mapPoints builds a new gesture by applying f to every point.
func (g *Gesture) mapPoints(f func(p mgl64.Vec3) mgl64.Vec3) (*Gesture, error) {
	if !g.Valid() {
		return nil, contract.Invalidf("transform of invalid gesture")
	}
	points := make([][]mgl64.Vec3, len(g.Points))
	for i, hand := range g.Points {
		points[i] = make([]mgl64.Vec3, len(hand))
		for j, p := range hand {
			points[i][j] = f(p)
		}
	}
	out := &Gesture{Points: points}
	if err := out.recalculate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Normalized centres the gesture on the origin, scales it to unit radius
// and applies rotation.
func (g *Gesture) Normalized(rotation mgl64.Quat) (*Gesture, error) {
	if g.Valid() && !(g.Radius > 0) {
		return nil, contract.Invalidf("cannot normalize a gesture with zero radius")
	}
	center, scale := g.Limits.Center, 1/g.Radius
	return g.mapPoints(func(p mgl64.Vec3) mgl64.Vec3 {
		return rotation.Rotate(p.Sub(center).Mul(scale))
	})
}

// MirrorX negates every X coordinate.
func (g *Gesture) MirrorX() (*Gesture, error) { return g.mirror(0) }

// MirrorY negates every Y coordinate.
func (g *Gesture) MirrorY() (*Gesture, error) { return g.mirror(1) }

// MirrorZ negates every Z coordinate.
func (g *Gesture) MirrorZ() (*Gesture, error) { return g.mirror(2) }

func (g *Gesture) mirror(axis int) (*Gesture, error) {
	return g.mapPoints(func(p mgl64.Vec3) mgl64.Vec3 {
		p[axis] = -p[axis]
		return p
	})
}

// Lerp returns the point at fraction t of the hand's arclength. t is
// clamped to [0,1]. ok is false when hand is out of range.
func (g *Gesture) Lerp(t float64, hand int) (p mgl64.Vec3, ok bool) {
	if !g.Valid() || hand < 0 || hand >= len(g.Points) {
		return mgl64.Vec3{}, false
	}
	t = mgl64.Clamp(t, 0, 1)

	trail := g.Points[hand]
	dist := t * g.Length[hand]
	total := 0.0
	for j := 1; j < len(trail); j++ {
		v := trail[j].Sub(trail[j-1])
		l := v.Len()
		total += l
		if total >= dist {
			return trail[j].Sub(v.Mul((total - dist) / l)), true
		}
	}
	return trail[len(trail)-1], true
}

// Resampled returns a copy with size points per hand, evenly spaced along
// each hand's arclength.
func (g *Gesture) Resampled(size int) (*Gesture, error) {
	if !g.Valid() || size < 2 {
		return nil, contract.Invalidf("resample to %d points", size)
	}

	same := true
	for _, hand := range g.Points {
		if len(hand) != size {
			same = false
			break
		}
	}
	if same {
		return New(g.Points)
	}

	points := make([][]mgl64.Vec3, len(g.Points))
	for i := range g.Points {
		points[i] = make([]mgl64.Vec3, size)
		for j := range points[i] {
			points[i][j], _ = g.Lerp(float64(j)/float64(size-1), i)
		}
	}
	return New(points)
}

// Averaged resamples every gesture to size points and returns their
// point-wise mean. All gestures must have the same hand count.
func Averaged(gestures []*Gesture, size int) (*Gesture, error) {
	if size < 2 || len(gestures) == 0 {
		return nil, contract.Invalidf("average %d gestures at %d points", len(gestures), size)
	}
	hands := gestures[0].HandCount()
	resampled := make([]*Gesture, len(gestures))
	for i, g := range gestures {
		if !g.Valid() || g.HandCount() != hands {
			return nil, contract.Invalidf("gesture %d: invalid or hand count mismatch", i)
		}
		r, err := g.Resampled(size)
		if err != nil {
			return nil, err
		}
		resampled[i] = r
	}

	n := float64(len(resampled))
	points := make([][]mgl64.Vec3, hands)
	for h := range points {
		points[h] = make([]mgl64.Vec3, size)
		for i := range points[h] {
			var sum mgl64.Vec3
			for _, r := range resampled {
				sum = sum.Add(r.Points[h][i])
			}
			points[h][i] = sum.Mul(1 / n)
		}
	}
	return New(points)
}
