package physics

import (
	"math"

	"mini-voxel/internal/profiling"
	"mini-voxel/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 6.0
)

// BlockReader is the read side of a voxel world
type BlockReader interface {
	GetBlock(x, y, z int) voxel.BlockType
}

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int // last empty cell before the hit
	Face             voxel.Face
	Distance         float32
	Hit              bool
}

// Raycast walks the block grid cell by cell from start along direction and
// returns the first solid block between minDist and maxDist. Block (x, y, z)
// occupies [x, x+1) on each axis.
func Raycast(start, direction mgl32.Vec3, minDist, maxDist float32, w BlockReader) RaycastResult {
	defer profiling.Track("physics.Raycast")()

	if direction.Len() == 0 {
		return RaycastResult{}
	}
	dir := direction.Normalize()

	var (
		cell  [3]int
		step  [3]int
		tMax  [3]float64
		tDelt [3]float64
	)
	for i := 0; i < 3; i++ {
		p := float64(start[i])
		d := float64(dir[i])
		cell[i] = int(math.Floor(p))
		switch {
		case d > 0:
			step[i] = 1
			tMax[i] = (float64(cell[i]+1) - p) / d
			tDelt[i] = 1 / d
		case d < 0:
			step[i] = -1
			tMax[i] = (p - float64(cell[i])) / -d
			tDelt[i] = -1 / d
		default:
			tMax[i] = math.Inf(1)
			tDelt[i] = math.Inf(1)
		}
	}

	// faces entered when stepping along +axis / -axis
	entered := [3][2]voxel.Face{
		{voxel.FaceWest, voxel.FaceEast},
		{voxel.FaceBottom, voxel.FaceTop},
		{voxel.FaceSouth, voxel.FaceNorth},
	}

	prev := cell
	var t float64
	var face voxel.Face
	for t <= float64(maxDist) {
		if t >= float64(minDist) && !w.GetBlock(cell[0], cell[1], cell[2]).IsAir() {
			return RaycastResult{
				HitPosition:      cell,
				AdjacentPosition: prev,
				Face:             face,
				Distance:         float32(t),
				Hit:              true,
			}
		}

		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		prev = cell
		t = tMax[axis]
		cell[axis] += step[axis]
		tMax[axis] += tDelt[axis]
		if step[axis] > 0 {
			face = entered[axis][0]
		} else {
			face = entered[axis][1]
		}
	}
	return RaycastResult{}
}
