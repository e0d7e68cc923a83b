package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkCoordOfNegative(t *testing.T) {
	cases := []struct {
		x, y, z int
		want    ChunkCoord
	}{
		{0, 0, 0, ChunkCoord{0, 0, 0}},
		{15, 15, 15, ChunkCoord{0, 0, 0}},
		{16, 0, -1, ChunkCoord{1, 0, -1}},
		{-16, -17, -15, ChunkCoord{-1, -2, -1}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ChunkCoordOf(tc.x, tc.y, tc.z, 16), "block (%d, %d, %d)", tc.x, tc.y, tc.z)
	}

	lx, ly, lz := LocalOf(-1, -16, 17, 16)
	assert.Equal(t, []int{15, 0, 1}, []int{lx, ly, lz})
}

func TestChunkCoordAsMapKey(t *testing.T) {
	m := map[ChunkCoord]int{}
	m[ChunkCoord{1, 2, 3}] = 1
	m[ChunkCoord{1, 2, 3}]++
	m[ChunkCoord{3, 2, 1}] = 7

	assert.Len(t, m, 2)
	assert.Equal(t, 2, m[ChunkCoord{1, 2, 3}])
	assert.Equal(t, "(1, 2, 3)", ChunkCoord{1, 2, 3}.String())
}

func TestChunkCoordDistances(t *testing.T) {
	a := ChunkCoord{0, 5, 0}
	b := ChunkCoord{3, -1, 4}
	assert.Equal(t, int64(25), a.DistSqXZ(b))
	assert.True(t, a.SameColumn(ChunkCoord{0, 9, 0}))
	assert.Equal(t, ChunkCoord{2, 4, -3}, a.Add(2, -1, -3))
}

func TestGridOutOfBounds(t *testing.T) {
	g := NewGrid(4)
	assert.Equal(t, BlockTypeAir, g.Get(-1, 0, 0))
	assert.Equal(t, BlockTypeAir, g.Get(0, 4, 0))

	changed, err := g.Set(4, 0, 0, BlockTypeStone)
	require.ErrorIs(t, err, ErrOutOfBounds)
	assert.False(t, changed)
	assert.True(t, g.Empty())
}

func TestGridRejectsUnknownBlock(t *testing.T) {
	g := NewGrid(4)

	changed, err := g.Set(1, 1, 1, BlockType(200))
	require.ErrorIs(t, err, ErrInvalidBlock)
	assert.False(t, changed)
	assert.Equal(t, BlockTypeAir, g.Get(1, 1, 1))
	assert.True(t, g.Empty())

	_, err = g.Set(1, 1, 1, NumBlockTypes)
	assert.ErrorIs(t, err, ErrInvalidBlock)
}

func TestGridSetTracksEmptiness(t *testing.T) {
	g := NewGrid(4)

	changed, err := g.Set(1, 2, 3, BlockTypeDirt)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, g.Empty())

	changed, err = g.Set(1, 2, 3, BlockTypeDirt)
	require.NoError(t, err)
	assert.False(t, changed, "writing the same value is not a change")

	_, _ = g.Set(1, 2, 3, BlockTypeStone)
	assert.False(t, g.Empty())

	_, _ = g.Set(1, 2, 3, BlockTypeAir)
	assert.True(t, g.Empty())
}

func TestGridCloneIsIndependent(t *testing.T) {
	g := NewGrid(2)
	g.Fill(0, 0, 0, 1, 1, 1, BlockTypeStone)
	c := g.Clone()
	_, _ = g.Set(0, 0, 0, BlockTypeAir)

	assert.Equal(t, BlockTypeStone, c.Get(0, 0, 0))
	assert.Equal(t, BlockTypeAir, g.Get(0, 0, 0))

	g.Fill(0, 0, 0, 1, 1, 1, BlockTypeAir)
	assert.True(t, g.Empty())
	assert.False(t, c.Empty())
}

func TestFaceNormals(t *testing.T) {
	seen := map[[3]int]bool{}
	for f := Face(0); f < NumFaces; f++ {
		dx, dy, dz := f.Normal()
		assert.Equal(t, 1, abs(dx)+abs(dy)+abs(dz), "face %s", f)
		seen[[3]int{dx, dy, dz}] = true
	}
	assert.Len(t, seen, NumFaces)
	assert.Equal(t, "north", FaceNorth.String())
}

func TestBlockTable(t *testing.T) {
	assert.True(t, BlockTypeAir.IsAir())
	assert.Equal(t, "grass", BlockTypeGrass.String())
	assert.Len(t, Palette(), int(NumBlockTypes))
	assert.False(t, BlockType(200).Valid())
	assert.Equal(t, "block(200)", BlockType(200).String())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
