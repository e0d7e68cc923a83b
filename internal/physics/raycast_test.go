package physics_test

import (
	"testing"

	"mini-voxel/internal/physics"
	"mini-voxel/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockMap map[[3]int]voxel.BlockType

func (m blockMap) GetBlock(x, y, z int) voxel.BlockType {
	return m[[3]int{x, y, z}]
}

func TestRaycast(t *testing.T) {
	w := blockMap{{5, 0, 0}: voxel.BlockTypeStone}
	start := mgl32.Vec3{0.5, 0.5, 0.5}

	res := physics.Raycast(start, mgl32.Vec3{1, 0, 0}, 0.1, 10, w)
	require.True(t, res.Hit)
	assert.Equal(t, [3]int{5, 0, 0}, res.HitPosition)
	assert.Equal(t, [3]int{4, 0, 0}, res.AdjacentPosition)
	assert.Equal(t, voxel.FaceWest, res.Face)
	assert.InDelta(t, 4.5, res.Distance, 1e-4)

	short := physics.Raycast(start, mgl32.Vec3{1, 0, 0}, 0.1, 4, w)
	assert.False(t, short.Hit, "beyond max distance")

	up := physics.Raycast(start, mgl32.Vec3{0, 1, 0}, 0.1, 10, w)
	assert.False(t, up.Hit)
}

func TestRaycastNegativeDirection(t *testing.T) {
	w := blockMap{{-3, 2, 0}: voxel.BlockTypeDirt}
	res := physics.Raycast(mgl32.Vec3{0.5, 2.5, 0.5}, mgl32.Vec3{-1, 0, 0}, 0, 10, w)
	require.True(t, res.Hit)
	assert.Equal(t, [3]int{-3, 2, 0}, res.HitPosition)
	assert.Equal(t, [3]int{-2, 2, 0}, res.AdjacentPosition)
	assert.Equal(t, voxel.FaceEast, res.Face)
	assert.InDelta(t, 2.5, res.Distance, 1e-4)
}

func TestRaycastDownOntoGround(t *testing.T) {
	w := blockMap{}
	for x := -2; x <= 2; x++ {
		for z := -2; z <= 2; z++ {
			w[[3]int{x, 0, z}] = voxel.BlockTypeGrass
		}
	}
	res := physics.Raycast(mgl32.Vec3{0.3, 3.2, 0.7}, mgl32.Vec3{0, -1, 0}, 0, 10, w)
	require.True(t, res.Hit)
	assert.Equal(t, [3]int{0, 0, 0}, res.HitPosition)
	assert.Equal(t, [3]int{0, 1, 0}, res.AdjacentPosition)
	assert.Equal(t, voxel.FaceTop, res.Face)
	assert.InDelta(t, 2.2, res.Distance, 1e-4)
}

func TestRaycastDiagonal(t *testing.T) {
	w := blockMap{{2, 2, 2}: voxel.BlockTypeStone}
	res := physics.Raycast(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{1, 1, 1}, 0.1, 10, w)
	require.True(t, res.Hit)
	assert.Equal(t, [3]int{2, 2, 2}, res.HitPosition)
	// enters at the corner (2,2,2): t = 1.5*sqrt(3)
	assert.InDelta(t, 2.598, res.Distance, 1e-2)
}

func TestRaycastZeroDirection(t *testing.T) {
	assert.False(t, physics.Raycast(mgl32.Vec3{}, mgl32.Vec3{}, 0, 5, blockMap{}).Hit)
}
