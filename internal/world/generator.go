package world

import (
	"errors"
	"fmt"
	"math"

	"mini-voxel/internal/voxel"

	lru "github.com/hashicorp/golang-lru"
)

// TerrainGenerator produces the initial block data of a chunk.
// Implementations must be deterministic and safe for concurrent use.
type TerrainGenerator interface {
	Generate(coord voxel.ChunkCoord) *voxel.Grid
	HeightAt(worldX, worldZ int) int
}

// TerrainConfig parameterizes the heightmap generator
type TerrainConfig struct {
	Noise       string
	Frequency   float64
	Octaves     int
	Persistence float64
	Lacunarity  float64

	BaseElevation int
	Amplitude     float64

	BedrockThickness int
	DirtThickness    int
	GrassThickness   int

	SeaLevel int
	Water    bool

	// CacheColumns bounds the per-column heightmap cache; 0 disables it.
	CacheColumns int
}

// DefaultTerrainConfig returns rolling hills with a shallow sea
func DefaultTerrainConfig() TerrainConfig {
	return TerrainConfig{
		Noise:            NoiseSimplex,
		Frequency:        0.004,
		Octaves:          6,
		Persistence:      0.5,
		Lacunarity:       2.0,
		BaseElevation:    40,
		Amplitude:        64,
		BedrockThickness: 1,
		DirtThickness:    3,
		GrassThickness:   1,
		SeaLevel:         52,
		Water:            true,
		CacheColumns:     1024,
	}
}

// Validate checks the config for values the generator cannot work with
func (c TerrainConfig) Validate() error {
	var errs []error
	if c.Frequency <= 0 {
		errs = append(errs, fmt.Errorf("frequency must be positive, got %v", c.Frequency))
	}
	if c.Octaves < 1 {
		errs = append(errs, fmt.Errorf("octaves must be at least 1, got %d", c.Octaves))
	}
	if c.Amplitude < 0 {
		errs = append(errs, fmt.Errorf("amplitude must not be negative, got %v", c.Amplitude))
	}
	if c.BedrockThickness < 0 || c.DirtThickness < 0 || c.GrassThickness < 0 {
		errs = append(errs, errors.New("layer thicknesses must not be negative"))
	}
	if c.CacheColumns < 0 {
		errs = append(errs, fmt.Errorf("cache_columns must not be negative, got %d", c.CacheColumns))
	}
	return errors.Join(errs...)
}

// Generator builds terrain from a fractal noise heightmap.
// Output depends only on (coord, seed, config).
type Generator struct {
	seed  int64
	size  int
	minY  int // lowest world block Y, inclusive
	maxY  int // highest world block Y, exclusive
	cfg   TerrainConfig
	noise noise2D

	columns *lru.Cache // [2]int32{chunkX, chunkZ} -> []int surface heights
}

// NewGenerator creates a generator for chunks of the given edge length whose
// world spans block Y in [minY, maxY).
func NewGenerator(seed int64, size, minY, maxY int, cfg TerrainConfig) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("terrain config: %w", err)
	}
	if size <= 0 || maxY <= minY {
		return nil, fmt.Errorf("invalid generator bounds: size=%d y=[%d, %d)", size, minY, maxY)
	}
	src, err := newNoise2D(cfg.Noise, seed)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		seed:  seed,
		size:  size,
		minY:  minY,
		maxY:  maxY,
		cfg:   cfg,
		noise: src,
	}
	if cfg.CacheColumns > 0 {
		g.columns, err = lru.New(cfg.CacheColumns)
		if err != nil {
			return nil, fmt.Errorf("column cache: %w", err)
		}
	}
	return g, nil
}

// HeightAt returns the surface block Y of the world column at (worldX, worldZ)
func (g *Generator) HeightAt(worldX, worldZ int) int {
	x := float64(worldX) * g.cfg.Frequency
	z := float64(worldZ) * g.cfg.Frequency
	v := fbm(g.noise, x, z, g.cfg.Octaves, g.cfg.Persistence, g.cfg.Lacunarity)
	t := (v + 1) / 2

	height := g.cfg.BaseElevation + int(math.Floor(t*g.cfg.Amplitude))
	lo := g.minY + g.cfg.BedrockThickness + g.cfg.DirtThickness + g.cfg.GrassThickness
	hi := g.maxY - 1
	return max(lo, min(hi, height))
}

// columnHeights returns the surface heights of one chunk column, x-major
func (g *Generator) columnHeights(cx, cz int32) []int {
	key := [2]int32{cx, cz}
	if g.columns != nil {
		if v, ok := g.columns.Get(key); ok {
			return v.([]int)
		}
	}

	heights := make([]int, g.size*g.size)
	baseX, baseZ := int(cx)*g.size, int(cz)*g.size
	for lx := 0; lx < g.size; lx++ {
		for lz := 0; lz < g.size; lz++ {
			heights[lx*g.size+lz] = g.HeightAt(baseX+lx, baseZ+lz)
		}
	}

	if g.columns != nil {
		g.columns.Add(key, heights)
	}
	return heights
}

// Generate fills a fresh grid for coord
func (g *Generator) Generate(coord voxel.ChunkCoord) *voxel.Grid {
	grid := voxel.NewGrid(g.size)
	_, baseY, _ := coord.Origin(g.size)
	if baseY >= g.maxY || baseY+g.size <= g.minY {
		return grid
	}

	heights := g.columnHeights(coord.X, coord.Z)
	for lx := 0; lx < g.size; lx++ {
		for lz := 0; lz < g.size; lz++ {
			surface := heights[lx*g.size+lz]
			for ly := 0; ly < g.size; ly++ {
				b := g.blockAt(baseY+ly, surface)
				if b != voxel.BlockTypeAir {
					_, _ = grid.Set(lx, ly, lz, b)
				}
			}
		}
	}
	return grid
}

// blockAt picks the block for world height y in a column whose top is surface
func (g *Generator) blockAt(y, surface int) voxel.BlockType {
	c := g.cfg
	switch {
	case y < g.minY || y >= g.maxY:
		return voxel.BlockTypeAir
	case y < g.minY+c.BedrockThickness:
		return voxel.BlockTypeBedrock
	case y > surface:
		if c.Water && y <= c.SeaLevel {
			return voxel.BlockTypeWater
		}
		return voxel.BlockTypeAir
	case y > surface-c.GrassThickness:
		if c.Water && surface < c.SeaLevel {
			return voxel.BlockTypeSand
		}
		return voxel.BlockTypeGrass
	case y >= surface-c.GrassThickness-c.DirtThickness:
		return voxel.BlockTypeDirt
	default:
		return voxel.BlockTypeStone
	}
}

// FlatGenerator produces level ground: bedrock at the world floor, dirt up to
// the surface and a grass top layer.
type FlatGenerator struct {
	size   int
	minY   int
	height int
}

// NewFlatGenerator creates a flat world with the grass layer at world Y height
func NewFlatGenerator(size, minY, height int) *FlatGenerator {
	return &FlatGenerator{size: size, minY: minY, height: height}
}

func (f *FlatGenerator) HeightAt(worldX, worldZ int) int {
	return f.height
}

func (f *FlatGenerator) Generate(coord voxel.ChunkCoord) *voxel.Grid {
	grid := voxel.NewGrid(f.size)
	_, baseY, _ := coord.Origin(f.size)
	for ly := 0; ly < f.size; ly++ {
		y := baseY + ly
		var b voxel.BlockType
		switch {
		case y < f.minY || y > f.height:
			continue
		case y == f.minY:
			b = voxel.BlockTypeBedrock
		case y == f.height:
			b = voxel.BlockTypeGrass
		default:
			b = voxel.BlockTypeDirt
		}
		grid.Fill(0, ly, 0, f.size-1, ly, f.size-1, b)
	}
	return grid
}
