package preprocess

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/banshee-data/spellbook/internal/contract"
	"github.com/banshee-data/spellbook/internal/gesture"
)

// Preprocessor converts gestures with a fixed hand count into feature
// vectors. It keeps no per-call state and is safe for concurrent use.
type Preprocessor struct {
	size  GridSize
	hands int
}

// New returns a preprocessor for gestures with handCount hands.
func New(size GridSize, handCount int) (*Preprocessor, error) {
	if !size.Valid() {
		return nil, contract.Invalidf("grid size %dx%dx%d", size.X, size.Y, size.Z)
	}
	if handCount < 1 {
		return nil, contract.Invalidf("hand count %d", handCount)
	}
	return &Preprocessor{size: size, hands: handCount}, nil
}

// Size returns the grid resolution.
func (p *Preprocessor) Size() GridSize { return p.size }

// HandCount returns the number of hands the preprocessor accepts.
func (p *Preprocessor) HandCount() int { return p.hands }

// InputSize is the length of every feature vector this preprocessor
// produces, whatever the gesture.
func (p *Preprocessor) InputSize() int {
	return p.hands * p.size.Cells()
}

// Input returns the flattened voxel grid of g.
func (p *Preprocessor) Input(g *gesture.Gesture) ([]float64, error) {
	grid, err := p.Extract(g)
	if err != nil {
		return nil, err
	}
	return grid.Flatten(), nil
}

// Extract voxelizes g. The cube used for normalization is centred on the
// gesture's bounding-box center with the gesture's radius as half-extent,
// whatever the gesture's aspect ratio.
func (p *Preprocessor) Extract(g *gesture.Gesture) (*Grid, error) {
	if !g.Valid() {
		return nil, contract.Invalidf("gesture is not valid")
	}
	if g.HandCount() != p.hands {
		return nil, contract.Invalidf("gesture has %d hands, preprocessor expects %d", g.HandCount(), p.hands)
	}

	grid, err := NewGrid(p.size, p.hands)
	if err != nil {
		return nil, err
	}
	limits := gesture.NewLimitsCenterRadius(g.Limits.Center, g.Radius)

	for h, trail := range g.Points {
		for j := 0; j+1 < len(trail); j++ {
			p1, p2 := trail[j], trail[j+1]
			c1 := discretize(limits.Normalized(p1), p.size)
			c2 := discretize(limits.Normalized(p2), p.size)

			steps := chebyshev(c1, c2)
			if steps <= 1 {
				grid.Set(h, c1)
				grid.Set(h, c2)
				continue
			}

			v := p2.Sub(p1).Mul(1 / float64(steps))
			for s := 0; s <= steps; s++ {
				pt := p1.Add(v.Mul(float64(s)))
				grid.Set(h, discretize(limits.Normalized(pt), p.size))
			}
		}
	}
	return grid, nil
}

// discretize maps a normalized coordinate to a cell, clamping so that 1.0
// lands in the last cell.
func discretize(n mgl64.Vec3, size GridSize) Cell {
	return Cell{
		X: clampIndex(n[0], size.X),
		Y: clampIndex(n[1], size.Y),
		Z: clampIndex(n[2], size.Z),
	}
}

func clampIndex(v float64, size int) int {
	i := int(math.Floor(v * float64(size)))
	if i < 0 {
		return 0
	}
	if i > size-1 {
		return size - 1
	}
	return i
}

func chebyshev(a, b Cell) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y), abs(a.Z-b.Z))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
