package preprocess

import (
	"fmt"
	"strings"

	"github.com/banshee-data/spellbook/internal/contract"
)

// GridSize is the voxel resolution along each axis.
type GridSize struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Valid reports whether every axis has at least one cell.
func (s GridSize) Valid() bool {
	return s.X > 0 && s.Y > 0 && s.Z > 0
}

// Cells returns X*Y*Z.
func (s GridSize) Cells() int {
	return s.X * s.Y * s.Z
}

// Cell addresses one voxel.
type Cell struct {
	X, Y, Z int
}

// Grid is a [hand][x][y][z] boolean voxel grid stored flat in that order.
type Grid struct {
	Size  GridSize
	Hands int
	cells []bool
}

// NewGrid allocates an empty grid.
func NewGrid(size GridSize, hands int) (*Grid, error) {
	if !size.Valid() || hands < 1 {
		return nil, contract.Invalidf("grid %dx%dx%d for %d hands", size.X, size.Y, size.Z, hands)
	}
	return &Grid{Size: size, Hands: hands, cells: make([]bool, hands*size.Cells())}, nil
}

func (g *Grid) index(hand int, c Cell) int {
	return ((hand*g.Size.X+c.X)*g.Size.Y+c.Y)*g.Size.Z + c.Z
}

// Set marks a cell.
func (g *Grid) Set(hand int, c Cell) {
	g.cells[g.index(hand, c)] = true
}

// At reports whether a cell is marked.
func (g *Grid) At(hand int, c Cell) bool {
	return g.cells[g.index(hand, c)]
}

// Count returns the number of marked cells over all hands.
func (g *Grid) Count() int {
	n := 0
	for _, v := range g.cells {
		if v {
			n++
		}
	}
	return n
}

// Flatten returns the grid as 1.0/0.0 values in hand, x, y, z order.
func (g *Grid) Flatten() []float64 {
	out := make([]float64, len(g.cells))
	for i, v := range g.cells {
		if v {
			out[i] = 1
		}
	}
	return out
}

// String renders one block per hand and z slice, y rows top-down.
func (g *Grid) String() string {
	var b strings.Builder
	for h := 0; h < g.Hands; h++ {
		for z := 0; z < g.Size.Z; z++ {
			fmt.Fprintf(&b, "hand %d z=%d\n", h, z)
			for y := g.Size.Y - 1; y >= 0; y-- {
				for x := 0; x < g.Size.X; x++ {
					if g.At(h, Cell{x, y, z}) {
						b.WriteByte('#')
					} else {
						b.WriteByte('.')
					}
				}
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}
