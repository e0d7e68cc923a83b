package world

import (
	"sort"
	"sync"

	"mini-voxel/internal/voxel"
)

// ChunkStore is the loaded-chunk map. Writes happen on the main thread;
// the lock lets other goroutines read block data.
type ChunkStore struct {
	chunks map[voxel.ChunkCoord]*Chunk
	mu     sync.RWMutex
}

// NewChunkStore creates an empty store
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[voxel.ChunkCoord]*Chunk),
	}
}

// Get returns the chunk at coord, or nil
func (cs *ChunkStore) Get(coord voxel.ChunkCoord) *Chunk {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.chunks[coord]
}

// Has reports whether coord is loaded
func (cs *ChunkStore) Has(coord voxel.ChunkCoord) bool {
	cs.mu.RLock()
	_, ok := cs.chunks[coord]
	cs.mu.RUnlock()
	return ok
}

// Add inserts c, replacing and returning any chunk already at its coordinate
func (cs *ChunkStore) Add(c *Chunk) *Chunk {
	coord := c.Coord()
	cs.mu.Lock()
	defer cs.mu.Unlock()

	old := cs.chunks[coord]
	cs.chunks[coord] = c
	return old
}

// Remove deletes and returns the chunk at coord, or nil
func (cs *ChunkStore) Remove(coord voxel.ChunkCoord) *Chunk {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	c, ok := cs.chunks[coord]
	if !ok {
		return nil
	}
	delete(cs.chunks, coord)
	return c
}

// Len returns the number of loaded chunks
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// Coords returns the loaded coordinates in a stable order (X, Z, then Y)
func (cs *ChunkStore) Coords() []voxel.ChunkCoord {
	cs.mu.RLock()
	out := make([]voxel.ChunkCoord, 0, len(cs.chunks))
	for c := range cs.chunks {
		out = append(out, c)
	}
	cs.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.Y < b.Y
	})
	return out
}

// Clear removes and returns every chunk
func (cs *ChunkStore) Clear() []*Chunk {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	out := make([]*Chunk, 0, len(cs.chunks))
	for _, c := range cs.chunks {
		out = append(out, c)
	}
	cs.chunks = make(map[voxel.ChunkCoord]*Chunk)
	return out
}
