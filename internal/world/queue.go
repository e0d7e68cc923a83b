package world

import (
	"sync"

	"mini-voxel/internal/meshing"
	"mini-voxel/internal/voxel"
)

// Queue is a mutex-guarded FIFO keyed by chunk coordinate.
// Duplicates are allowed; Contains is O(1).
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
	head  int
	keys  map[voxel.ChunkCoord]int
	key   func(T) voxel.ChunkCoord
}

// NewQueue creates a queue that indexes entries by key(entry)
func NewQueue[T any](key func(T) voxel.ChunkCoord) *Queue[T] {
	return &Queue[T]{
		keys: make(map[voxel.ChunkCoord]int),
		key:  key,
	}
}

// NewCoordQueue creates a queue of bare coordinates
func NewCoordQueue() *Queue[voxel.ChunkCoord] {
	return NewQueue(func(c voxel.ChunkCoord) voxel.ChunkCoord { return c })
}

// NewResultQueue creates the upload queue; it is the mesh pool's result sink
func NewResultQueue() *Queue[meshing.Result] {
	return NewQueue(func(r meshing.Result) voxel.ChunkCoord { return r.Coord })
}

// Push appends v
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.keys[q.key(v)]++
	q.mu.Unlock()
}

// PushIfAbsent appends v unless an entry with the same key is queued
func (q *Queue[T]) PushIfAbsent(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	k := q.key(v)
	if q.keys[k] > 0 {
		return false
	}
	q.items = append(q.items, v)
	q.keys[k]++
	return true
}

// Pop removes the oldest entry
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.head >= len(q.items) {
		return zero, false
	}
	v := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	k := q.key(v)
	if q.keys[k] <= 1 {
		delete(q.keys, k)
	} else {
		q.keys[k]--
	}

	// compact once the consumed prefix dominates
	if q.head > 64 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return v, true
}

// Contains reports whether an entry keyed by coord is queued
func (q *Queue[T]) Contains(coord voxel.ChunkCoord) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.keys[coord] > 0
}

// Len returns the number of queued entries
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Clear drops every entry and returns how many were dropped
func (q *Queue[T]) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items) - q.head
	q.items = nil
	q.head = 0
	q.keys = make(map[voxel.ChunkCoord]int)
	return n
}
