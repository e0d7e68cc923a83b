package main

import (
	"image"
	"image/color"

	"mini-voxel/internal/voxel"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Heightmap samples surface heights over a square of columns
type Heightmap struct {
	Gen        world.TerrainGenerator
	MinX, MinZ int
	Size       int
	SeaLevel   int
	Water      bool
	MaxY       int
}

// surface returns the top block type and height of a column
func (h Heightmap) surface(x, z int) (voxel.BlockType, int) {
	y := h.Gen.HeightAt(x, z)
	switch {
	case h.Water && y < h.SeaLevel:
		return voxel.BlockTypeWater, y
	case h.Water && y <= h.SeaLevel+1:
		return voxel.BlockTypeSand, y
	}
	return voxel.BlockTypeGrass, y
}

// Sample draws one pixel per column, shaded by height
func (h Heightmap) Sample() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, h.Size, h.Size))
	maxY := float32(max(h.MaxY, 1))
	for pz := 0; pz < h.Size; pz++ {
		for px := 0; px < h.Size; px++ {
			b, y := h.surface(h.MinX+px, h.MinZ+pz)
			shade := 0.35 + 0.65*mgl32.Clamp(float32(y)/maxY, 0, 1)
			if b == voxel.BlockTypeWater {
				// deeper water is darker
				shade = 0.5 + 0.5*mgl32.Clamp(float32(y)/float32(max(h.SeaLevel, 1)), 0, 1)
			}
			img.SetRGBA(px, pz, toRGBA(b.Info().Color.Mul(shade)))
		}
	}
	return img
}

// Render scales the sampled map and stamps label in the top-left corner
func (h Heightmap) Render(scale int, label string) *image.RGBA {
	src := h.Sample()
	scale = max(scale, 1)
	dst := image.NewRGBA(image.Rect(0, 0, h.Size*scale, h.Size*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	if label != "" {
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(color.White),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(6, 16),
		}
		d.DrawString(label)
	}
	return dst
}

func toRGBA(c mgl32.Vec3) color.RGBA {
	ch := func(v float32) uint8 {
		return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
	}
	return color.RGBA{ch(c.X()), ch(c.Y()), ch(c.Z()), 255}
}
