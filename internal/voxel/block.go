package voxel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// BlockType identifies the contents of one grid cell. Zero is air.
type BlockType uint8

const (
	BlockTypeAir BlockType = iota
	BlockTypeGrass
	BlockTypeDirt
	BlockTypeStone
	BlockTypeBedrock
	BlockTypeSand
	BlockTypeWater

	// NumBlockTypes is the size of the block table; the shader palette has one entry per type.
	NumBlockTypes
)

// BlockInfo describes how a block type is presented
type BlockInfo struct {
	Name  string
	Color mgl32.Vec3
}

var blockTable = [NumBlockTypes]BlockInfo{
	BlockTypeAir:     {Name: "air"},
	BlockTypeGrass:   {Name: "grass", Color: mgl32.Vec3{0.36, 0.66, 0.25}},
	BlockTypeDirt:    {Name: "dirt", Color: mgl32.Vec3{0.47, 0.33, 0.2}},
	BlockTypeStone:   {Name: "stone", Color: mgl32.Vec3{0.5, 0.5, 0.52}},
	BlockTypeBedrock: {Name: "bedrock", Color: mgl32.Vec3{0.18, 0.18, 0.2}},
	BlockTypeSand:    {Name: "sand", Color: mgl32.Vec3{0.86, 0.8, 0.55}},
	BlockTypeWater:   {Name: "water", Color: mgl32.Vec3{0.2, 0.4, 0.85}},
}

// IsAir reports whether the block is empty space
func (b BlockType) IsAir() bool {
	return b == BlockTypeAir
}

// Valid reports whether b has an entry in the block table
func (b BlockType) Valid() bool {
	return b < NumBlockTypes
}

func (b BlockType) String() string {
	if !b.Valid() {
		return fmt.Sprintf("block(%d)", uint8(b))
	}
	return blockTable[b].Name
}

// Info returns the table entry for b; unknown types map to a magenta placeholder.
func (b BlockType) Info() BlockInfo {
	if !b.Valid() {
		return BlockInfo{Name: b.String(), Color: mgl32.Vec3{1, 0, 1}}
	}
	return blockTable[b]
}

// Palette returns the block colors indexed by type, as uploaded to the chunk shader.
func Palette() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, NumBlockTypes)
	for i := range blockTable {
		out[i] = blockTable[i].Color
	}
	return out
}
