package voxel

import (
	"fmt"
)

// ChunkCoord is a chunk's position in the chunk grid (block position / chunk size, floored)
type ChunkCoord struct {
	X, Y, Z int32
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// Add returns c offset by the given chunk deltas
func (c ChunkCoord) Add(dx, dy, dz int32) ChunkCoord {
	return ChunkCoord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

// DistSqXZ returns the squared horizontal distance in chunks
func (c ChunkCoord) DistSqXZ(o ChunkCoord) int64 {
	dx := int64(c.X) - int64(o.X)
	dz := int64(c.Z) - int64(o.Z)
	return dx*dx + dz*dz
}

// SameColumn reports whether c and o share X and Z
func (c ChunkCoord) SameColumn(o ChunkCoord) bool {
	return c.X == o.X && c.Z == o.Z
}

// ChunkCoordOf returns the chunk containing world block (x, y, z)
func ChunkCoordOf(x, y, z, size int) ChunkCoord {
	return ChunkCoord{
		X: int32(floorDiv(x, size)),
		Y: int32(floorDiv(y, size)),
		Z: int32(floorDiv(z, size)),
	}
}

// LocalOf returns the chunk-local position of world block (x, y, z)
func LocalOf(x, y, z, size int) (lx, ly, lz int) {
	return floorMod(x, size), floorMod(y, size), floorMod(z, size)
}

// Origin returns the world block position of the chunk's minimum corner
func (c ChunkCoord) Origin(size int) (x, y, z int) {
	return int(c.X) * size, int(c.Y) * size, int(c.Z) * size
}

// floorDiv performs floor division for ints (works for negatives)
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod returns a modulo b in [0, b)
func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
