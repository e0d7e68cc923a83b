package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Face identifies one of the six axis-aligned face normals.
// The numeric values are part of the GPU instance format.
type Face uint8

const (
	FaceNorth  Face = iota // +Z
	FaceSouth              // -Z
	FaceWest               // -X
	FaceEast               // +X
	FaceTop                // +Y
	FaceBottom             // -Y

	NumFaces = 6
)

var faceNames = [NumFaces]string{"north", "south", "west", "east", "top", "bottom"}

func (f Face) String() string {
	if int(f) >= NumFaces {
		return "invalid"
	}
	return faceNames[f]
}

// Normal returns the unit normal as integer offsets
func (f Face) Normal() (dx, dy, dz int) {
	switch f {
	case FaceNorth:
		return 0, 0, 1
	case FaceSouth:
		return 0, 0, -1
	case FaceWest:
		return -1, 0, 0
	case FaceEast:
		return 1, 0, 0
	case FaceTop:
		return 0, 1, 0
	case FaceBottom:
		return 0, -1, 0
	}
	return 0, 0, 0
}

// Quad is one greedy-merged face: a rectangle of identical exposed block faces.
// Origin is the minimum corner in chunk-local block units. Extent holds the
// spans along the face plane's (u, v) axes.
type Quad struct {
	Origin mgl32.Vec3
	Extent mgl32.Vec2
	Face   Face
	Block  BlockType
}
