package world

import (
	"errors"
	"fmt"

	"mini-voxel/internal/voxel"
)

// ErrChunkDisposed is returned for writes to a chunk that has been disposed
var ErrChunkDisposed = errors.New("world: chunk disposed")

// MeshResource is the GPU geometry owned by one chunk.
// Both methods are called on the main thread only.
type MeshResource interface {
	Upload(quads []voxel.Quad)
	Release()
}

// Chunk is one cubic region of the world: its blocks plus the mesh drawn for them.
//
// Lifecycle: created dirty, clean after its first upload, dirty again on any
// real block change, and finally disposed.
type Chunk struct {
	coord  voxel.ChunkCoord
	serial uint64
	grid   *voxel.Grid
	mesh   MeshResource

	dirty    bool
	version  uint64
	disposed bool
}

// NewChunk wraps grid and mesh. serial must be unique per chunk instance.
func NewChunk(coord voxel.ChunkCoord, serial uint64, grid *voxel.Grid, mesh MeshResource) *Chunk {
	return &Chunk{
		coord:  coord,
		serial: serial,
		grid:   grid,
		mesh:   mesh,
		dirty:  true,
	}
}

func (c *Chunk) Coord() voxel.ChunkCoord { return c.coord }

// Serial distinguishes this chunk from earlier chunks loaded at the same coordinate
func (c *Chunk) Serial() uint64 { return c.serial }

// Version counts real block changes
func (c *Chunk) Version() uint64 { return c.version }

func (c *Chunk) Mesh() MeshResource { return c.mesh }

func (c *Chunk) IsDisposed() bool { return c.disposed }

// NeedsRemesh reports whether the uploaded mesh is stale
func (c *Chunk) NeedsRemesh() bool { return c.dirty }

// Empty reports whether the chunk holds only air
func (c *Chunk) Empty() bool {
	return c.disposed || c.grid.Empty()
}

// GetBlock returns the block at local (x, y, z); out of range and disposed reads return air.
func (c *Chunk) GetBlock(x, y, z int) voxel.BlockType {
	if c.disposed {
		return voxel.BlockTypeAir
	}
	return c.grid.Get(x, y, z)
}

// SetBlock writes the block at local (x, y, z). The chunk becomes dirty only
// if the stored value changed.
func (c *Chunk) SetBlock(x, y, z int, b voxel.BlockType) (bool, error) {
	if c.disposed {
		return false, fmt.Errorf("set block in %v: %w", c.coord, ErrChunkDisposed)
	}
	changed, err := c.grid.Set(x, y, z, b)
	if err != nil {
		return false, err
	}
	if changed {
		c.dirty = true
		c.version++
	}
	return changed, nil
}

// Snapshot returns a private copy of the blocks and the version it reflects.
func (c *Chunk) Snapshot() (*voxel.Grid, uint64) {
	return c.grid.Clone(), c.version
}

// MarkClean clears the dirty flag if no edit happened after version was captured.
func (c *Chunk) MarkClean(version uint64) bool {
	if c.version != version {
		return false
	}
	c.dirty = false
	return true
}

// Dispose releases the mesh. Later calls do nothing.
func (c *Chunk) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	if c.mesh != nil {
		c.mesh.Release()
	}
	c.grid = nil
}
