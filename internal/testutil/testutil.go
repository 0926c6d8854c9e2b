// Package testutil provides shared test helpers and gesture fixtures.
package testutil

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/banshee-data/spellbook/internal/gesture"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		tb.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(tb testing.TB, err error) {
	tb.Helper()
	if err == nil {
		tb.Fatal("expected error, got nil")
	}
}

// Line returns n evenly spaced points from a to b inclusive.
func Line(a, b mgl64.Vec3, n int) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = a.Add(b.Sub(a).Mul(t))
	}
	return out
}

// Circle returns n points on an almost closed circle in the XY plane.
func Circle(center mgl64.Vec3, radius float64, n int) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, n)
	for i := range out {
		a := 1.9 * math.Pi * float64(i) / float64(n-1)
		out[i] = center.Add(mgl64.Vec3{radius * math.Cos(a), radius * math.Sin(a), 0})
	}
	return out
}

// Jitter offsets every point by a uniform amount in [-amount, amount] on
// X and Y. The same seed always produces the same offsets.
func Jitter(points []mgl64.Vec3, amount float64, seed uint64) []mgl64.Vec3 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	out := make([]mgl64.Vec3, len(points))
	for i, p := range points {
		out[i] = p.Add(mgl64.Vec3{
			(rng.Float64()*2 - 1) * amount,
			(rng.Float64()*2 - 1) * amount,
			0,
		})
	}
	return out
}

// Gesture builds a gesture from hand trails or fails the test.
func Gesture(tb testing.TB, hands ...[]mgl64.Vec3) *gesture.Gesture {
	tb.Helper()
	g, err := gesture.New(hands)
	if err != nil {
		tb.Fatalf("gesture.New: %v", err)
	}
	return g
}

// Spell returns a spell with variants jittered copies of the given hand
// trails.
func Spell(tb testing.TB, name string, variants int, seed uint64, hands ...[]mgl64.Vec3) *gesture.Spell {
	tb.Helper()
	gestures := make([]*gesture.Gesture, variants)
	for v := range gestures {
		trails := make([][]mgl64.Vec3, len(hands))
		for h, trail := range hands {
			trails[h] = Jitter(trail, 0.02, seed+uint64(v*len(hands)+h))
		}
		gestures[v] = Gesture(tb, trails...)
	}
	return gesture.NewSpell(name, gestures...)
}

// Spells returns three one-handed spells that map to clearly different
// cells of a 6x6x1 grid: a horizontal swipe, a vertical rise and a circle.
func Spells(tb testing.TB) []*gesture.Spell {
	tb.Helper()
	return []*gesture.Spell{
		Spell(tb, "swipe", 5, 100, Line(mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}, 12)),
		Spell(tb, "rise", 5, 200, Line(mgl64.Vec3{0, -1, 0}, mgl64.Vec3{0, 1, 0}, 12)),
		Spell(tb, "circle", 5, 300, Circle(mgl64.Vec3{}, 1, 16)),
	}
}
