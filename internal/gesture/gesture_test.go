package gesture

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/spellbook/internal/contract"
)

func square() [][]mgl64.Vec3 {
	return [][]mgl64.Vec3{{
		{0, 0, 0},
		{2, 0, 0},
		{2, 2, 0},
		{0, 2, 0},
	}}
}

func TestNew_DerivedGeometry(t *testing.T) {
	t.Parallel()
	g, err := New(square())
	require.NoError(t, err)

	assert.Equal(t, 1, g.HandCount())
	assert.Equal(t, 4, g.PointCount())
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, g.Limits.Min)
	assert.Equal(t, mgl64.Vec3{2, 2, 0}, g.Limits.Max)
	assert.Equal(t, mgl64.Vec3{1, 1, 0}, g.Limits.Center)
	assert.InDelta(t, 6.0, g.Length[0], 1e-12)
	assert.InDelta(t, math.Sqrt2, g.Radius, 1e-12)
}

func TestNew_CopiesPoints(t *testing.T) {
	t.Parallel()
	pts := square()
	g, err := New(pts)
	require.NoError(t, err)

	pts[0][0] = mgl64.Vec3{9, 9, 9}
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, g.Points[0][0])
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		points [][]mgl64.Vec3
	}{
		{"no hands", nil},
		{"empty hand", [][]mgl64.Vec3{{{0, 0, 0}, {1, 0, 0}}, {}}},
		{"repeated point", [][]mgl64.Vec3{{{0, 0, 0}, {0, 0, 0}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.points)
			assert.True(t, errors.Is(err, contract.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestNew_TwoHandsLimitsCoverBothHands(t *testing.T) {
	t.Parallel()
	g, err := New([][]mgl64.Vec3{
		{{0, 0, 0}, {1, 0, 0}},
		{{-3, 0, 0}, {-3, 4, 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{-3, 0, 0}, g.Limits.Min)
	assert.Equal(t, mgl64.Vec3{1, 4, 0}, g.Limits.Max)
	assert.Equal(t, []float64{1, 4}, g.Length)
}

func TestLimits(t *testing.T) {
	t.Parallel()
	l := NewLimitsCenterRadius(mgl64.Vec3{1, 1, 1}, 0.5)
	assert.Equal(t, mgl64.Vec3{0.5, 0.5, 0.5}, l.Min)
	assert.Equal(t, mgl64.Vec3{1.5, 1.5, 1.5}, l.Max)
	assert.True(t, l.Contains(mgl64.Vec3{1.5, 0.5, 1}))
	assert.False(t, l.Contains(mgl64.Vec3{1.6, 1, 1}))
	assert.Equal(t, mgl64.Vec3{1, 0, 0.5}, l.Normalized(mgl64.Vec3{1.5, 0.5, 1}))
}

func TestMirror_DoesNotMutateReceiver(t *testing.T) {
	t.Parallel()
	g, err := New(square())
	require.NoError(t, err)

	m, err := g.MirrorX()
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{-2, 0, 0}, m.Points[0][1])
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, g.Points[0][1])
	assert.InDelta(t, g.Length[0], m.Length[0], 1e-12)

	my, err := g.MirrorY()
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{2, -2, 0}, my.Points[0][2])

	mz, err := g.MirrorZ()
	require.NoError(t, err)
	assert.Equal(t, g.Points[0][2], mz.Points[0][2])
}

func TestNormalized(t *testing.T) {
	t.Parallel()
	g, err := New(square())
	require.NoError(t, err)

	n, err := g.Normalized(mgl64.QuatIdent())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, n.Radius, 1e-12)
	assert.InDelta(t, 0, n.Limits.Center.Len(), 1e-12)

	rot := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	r, err := g.Normalized(rot)
	require.NoError(t, err)
	// (-1,-1,0)/sqrt2 rotated by 90deg about Z lands on (1,-1,0)/sqrt2.
	assert.InDelta(t, 1/math.Sqrt2, r.Points[0][0][0], 1e-9)
	assert.InDelta(t, -1/math.Sqrt2, r.Points[0][0][1], 1e-9)
}

func TestNormalized_ZeroRadius(t *testing.T) {
	t.Parallel()
	g, err := New([][]mgl64.Vec3{{{1, 1, 1}}})
	require.NoError(t, err)
	_, err = g.Normalized(mgl64.QuatIdent())
	assert.ErrorIs(t, err, contract.ErrInvalidInput)
}

func TestLerp(t *testing.T) {
	t.Parallel()
	g, err := New(square())
	require.NoError(t, err)

	p, ok := g.Lerp(0, 0)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, p)

	p, _ = g.Lerp(0.5, 0)
	assert.InDelta(t, 2, p[0], 1e-12)
	assert.InDelta(t, 1, p[1], 1e-12)

	p, _ = g.Lerp(7, 0)
	assert.Equal(t, mgl64.Vec3{0, 2, 0}, p)

	_, ok = g.Lerp(0.5, 1)
	assert.False(t, ok)
}

func TestResampled(t *testing.T) {
	t.Parallel()
	g, err := New(square())
	require.NoError(t, err)

	r, err := g.Resampled(7)
	require.NoError(t, err)
	require.Len(t, r.Points[0], 7)
	assert.InDelta(t, g.Length[0], r.Length[0], 1e-9)
	assert.Equal(t, g.Points[0][0], r.Points[0][0])
	assert.InDelta(t, 0, r.Points[0][6].Sub(g.Points[0][3]).Len(), 1e-9)

	_, err = g.Resampled(1)
	assert.ErrorIs(t, err, contract.ErrInvalidInput)
}

func TestAveraged(t *testing.T) {
	t.Parallel()
	a, err := New([][]mgl64.Vec3{{{0, 0, 0}, {1, 0, 0}}})
	require.NoError(t, err)
	b, err := New([][]mgl64.Vec3{{{0, 2, 0}, {1, 2, 0}}})
	require.NoError(t, err)

	avg, err := Averaged([]*Gesture{a, b}, 3)
	require.NoError(t, err)
	require.Len(t, avg.Points[0], 3)
	assert.InDelta(t, 0, avg.Points[0][0].Sub(mgl64.Vec3{0, 1, 0}).Len(), 1e-12)
	assert.InDelta(t, 0, avg.Points[0][1].Sub(mgl64.Vec3{0.5, 1, 0}).Len(), 1e-12)

	two, err := New([][]mgl64.Vec3{{{0, 0, 0}, {1, 0, 0}}, {{0, 0, 0}, {1, 0, 0}}})
	require.NoError(t, err)
	_, err = Averaged([]*Gesture{a, two}, 3)
	assert.ErrorIs(t, err, contract.ErrInvalidInput)
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()
	g, err := New(square())
	require.NoError(t, err)

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{"points":[[[0,0,0],[2,0,0],[2,2,0],[0,2,0]]]}`, string(data))

	var back Gesture
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, g.Radius, back.Radius)
	assert.Equal(t, g.Limits, back.Limits)

	err = json.Unmarshal([]byte(`{"points":[[[0,0,0],[0,0,0]]]}`), &back)
	assert.ErrorIs(t, err, contract.ErrInvalidInput)
}

func TestSpell(t *testing.T) {
	t.Parallel()
	short, err := New([][]mgl64.Vec3{{{0, 0, 0}, {1, 0, 0}}})
	require.NoError(t, err)
	long, err := New([][]mgl64.Vec3{{{0, 0, 0}, {2, 0, 0}}})
	require.NoError(t, err)

	s := NewSpell("fireball", short, long)
	assert.True(t, s.Valid())
	assert.Equal(t, NoEffect, s.EffectID)
	assert.Same(t, long, s.Longest())

	preview, err := s.Preview(2.5)
	require.NoError(t, err)
	assert.Len(t, preview.Points[0], 5)

	assert.False(t, NewSpell("empty").Valid())
	_, err = NewSpell("empty").Preview(1)
	assert.ErrorIs(t, err, contract.ErrInvalidInput)
}
