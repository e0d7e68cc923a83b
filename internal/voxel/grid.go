package voxel

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a local position lies outside the grid
var ErrOutOfBounds = errors.New("voxel: position out of bounds")

// ErrInvalidBlock is returned when a block id is not in the block table
var ErrInvalidBlock = errors.New("voxel: invalid block type")

// Grid is a dense size^3 block array in x-major order (x, then y, then z).
// It is not safe for concurrent mutation; share a Clone with other goroutines.
type Grid struct {
	size   int
	blocks []BlockType
	solid  int
}

// NewGrid allocates an all-air grid with the given edge length
func NewGrid(size int) *Grid {
	if size <= 0 {
		panic(fmt.Sprintf("voxel: invalid grid size %d", size))
	}
	return &Grid{
		size:   size,
		blocks: make([]BlockType, size*size*size),
	}
}

// Size returns the edge length
func (g *Grid) Size() int {
	return g.size
}

func (g *Grid) index(x, y, z int) int {
	return x*g.size*g.size + y*g.size + z
}

// InBounds reports whether (x, y, z) is a valid local position
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.size && y >= 0 && y < g.size && z >= 0 && z < g.size
}

// Get returns the block at (x, y, z); positions outside the grid read as air.
func (g *Grid) Get(x, y, z int) BlockType {
	if !g.InBounds(x, y, z) {
		return BlockTypeAir
	}
	return g.blocks[g.index(x, y, z)]
}

// Set writes the block at (x, y, z) and reports whether the stored value changed.
func (g *Grid) Set(x, y, z int, b BlockType) (bool, error) {
	if !g.InBounds(x, y, z) {
		return false, fmt.Errorf("set (%d, %d, %d) in grid of size %d: %w", x, y, z, g.size, ErrOutOfBounds)
	}
	if !b.Valid() {
		return false, fmt.Errorf("set (%d, %d, %d) to %d: %w", x, y, z, uint8(b), ErrInvalidBlock)
	}
	idx := g.index(x, y, z)
	old := g.blocks[idx]
	if old == b {
		return false, nil
	}
	g.blocks[idx] = b
	switch {
	case old == BlockTypeAir:
		g.solid++
	case b == BlockTypeAir:
		g.solid--
	}
	return true, nil
}

// Fill sets every cell in the inclusive box [min, max] to b, clipped to the grid.
func (g *Grid) Fill(x0, y0, z0, x1, y1, z1 int, b BlockType) {
	x0, x1 = max(x0, 0), min(x1, g.size-1)
	y0, y1 = max(y0, 0), min(y1, g.size-1)
	z0, z1 = max(z0, 0), min(z1, g.size-1)
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for z := z0; z <= z1; z++ {
				_, _ = g.Set(x, y, z, b)
			}
		}
	}
}

// Empty reports whether every cell is air
func (g *Grid) Empty() bool {
	return g.solid == 0
}

// Clone returns an independent copy of g
func (g *Grid) Clone() *Grid {
	out := &Grid{
		size:   g.size,
		blocks: make([]BlockType, len(g.blocks)),
		solid:  g.solid,
	}
	copy(out.blocks, g.blocks)
	return out
}
