package world

import (
	"crypto/sha256"
	"testing"

	"mini-voxel/internal/voxel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorsImplementInterface(t *testing.T) {
	var _ TerrainGenerator = &Generator{}
	var _ TerrainGenerator = NewFlatGenerator(16, 0, 10)
}

func newTestGenerator(t *testing.T, seed int64, mutate ...func(*TerrainConfig)) *Generator {
	t.Helper()
	cfg := DefaultTerrainConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	g, err := NewGenerator(seed, 16, 0, 128, cfg)
	require.NoError(t, err)
	return g
}

// hashGrid computes a SHA-256 hash of all blocks in a grid
func hashGrid(g *voxel.Grid) [32]byte {
	h := sha256.New()
	n := g.Size()
	buf := make([]byte, 0, n*n*n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				buf = append(buf, byte(g.Get(x, y, z)))
			}
		}
	}
	h.Write(buf)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func TestGeneratorDeterministicAcrossInstances(t *testing.T) {
	coords := []voxel.ChunkCoord{{X: 0, Y: 0, Z: 0}, {X: 3, Y: 1, Z: -7}, {X: -12, Y: 2, Z: 5}, {X: 100, Y: 0, Z: -100}}
	for _, noise := range []string{NoiseSimplex, NoisePerlin, NoiseValue} {
		a := newTestGenerator(t, 12345, func(c *TerrainConfig) { c.Noise = noise })
		b := newTestGenerator(t, 12345, func(c *TerrainConfig) { c.Noise = noise })
		for _, coord := range coords {
			assert.Equal(t, hashGrid(a.Generate(coord)), hashGrid(b.Generate(coord)), "%s %v", noise, coord)
		}
	}
}

func TestGeneratorSeedsDiffer(t *testing.T) {
	a := newTestGenerator(t, 1)
	b := newTestGenerator(t, 2)
	differ := false
	for x := 0; x < 256 && !differ; x += 7 {
		differ = a.HeightAt(x, x*3) != b.HeightAt(x, x*3)
	}
	assert.True(t, differ, "different seeds should give different terrain")
}

func TestGeneratorCacheDoesNotChangeOutput(t *testing.T) {
	cached := newTestGenerator(t, 99, func(c *TerrainConfig) { c.CacheColumns = 4 })
	uncached := newTestGenerator(t, 99, func(c *TerrainConfig) { c.CacheColumns = 0 })
	for i := 0; i < 3; i++ {
		for _, coord := range []voxel.ChunkCoord{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 5, Y: 2, Z: 5}, {X: -3, Y: 0, Z: 9}, {X: 0, Y: 3, Z: 0}} {
			require.Equal(t, hashGrid(uncached.Generate(coord)), hashGrid(cached.Generate(coord)), "%v", coord)
		}
	}
}

func TestGeneratorLayers(t *testing.T) {
	g := newTestGenerator(t, 7, func(c *TerrainConfig) { c.Water = false })
	const size = 16

	for _, col := range [][2]int{{0, 0}, {5, 11}, {15, 3}} {
		x, z := col[0], col[1]
		surface := g.HeightAt(x, z)
		require.GreaterOrEqual(t, surface, 5)
		require.Less(t, surface, 128)

		blockAt := func(y int) voxel.BlockType {
			grid := g.Generate(voxel.ChunkCoord{X: 0, Y: int32(y / size), Z: 0})
			return grid.Get(x, y%size, z)
		}
		assert.Equal(t, voxel.BlockTypeBedrock, blockAt(0))
		assert.Equal(t, voxel.BlockTypeGrass, blockAt(surface))
		assert.Equal(t, voxel.BlockTypeDirt, blockAt(surface-1))
		assert.Equal(t, voxel.BlockTypeDirt, blockAt(surface-3))
		assert.Equal(t, voxel.BlockTypeDirt, blockAt(surface-4))
		if surface-5 >= 1 {
			assert.Equal(t, voxel.BlockTypeStone, blockAt(surface-5))
		}
		if surface+1 < 128 {
			assert.Equal(t, voxel.BlockTypeAir, blockAt(surface+1))
		}
	}
}

func TestGeneratorLayerBoundaries(t *testing.T) {
	g := newTestGenerator(t, 1, func(c *TerrainConfig) {
		c.Water = false
		c.DirtThickness = 3
		c.GrassThickness = 2
	})
	const surface = 40

	assert.Equal(t, voxel.BlockTypeAir, g.blockAt(surface+1, surface))
	assert.Equal(t, voxel.BlockTypeGrass, g.blockAt(surface, surface))
	assert.Equal(t, voxel.BlockTypeGrass, g.blockAt(surface-1, surface))
	assert.Equal(t, voxel.BlockTypeDirt, g.blockAt(surface-2, surface))
	assert.Equal(t, voxel.BlockTypeDirt, g.blockAt(surface-4, surface))
	assert.Equal(t, voxel.BlockTypeStone, g.blockAt(surface-5, surface))

	// the lowest clamped surface leaves room for every layer above bedrock
	assert.Equal(t, voxel.BlockTypeDirt, g.blockAt(1, 1+3+2))
	assert.Equal(t, voxel.BlockTypeBedrock, g.blockAt(0, 1+3+2))
}

func TestGeneratorWaterFillsToSeaLevel(t *testing.T) {
	g := newTestGenerator(t, 3, func(c *TerrainConfig) {
		c.Amplitude = 0
		c.BaseElevation = 20
		c.SeaLevel = 30
	})
	grid := g.Generate(voxel.ChunkCoord{X: 0, Y: 1, Z: 0}) // y in [16, 32)
	assert.Equal(t, voxel.BlockTypeSand, grid.Get(4, 20-16, 4))
	assert.Equal(t, voxel.BlockTypeWater, grid.Get(4, 21-16, 4))
	assert.Equal(t, voxel.BlockTypeWater, grid.Get(4, 30-16, 4))
	assert.Equal(t, voxel.BlockTypeAir, grid.Get(4, 31-16, 4))
}

func TestGeneratorOutsideWorldIsEmpty(t *testing.T) {
	g := newTestGenerator(t, 5)
	assert.True(t, g.Generate(voxel.ChunkCoord{Y: 8}).Empty())
	assert.True(t, g.Generate(voxel.ChunkCoord{Y: -1}).Empty())
	assert.False(t, g.Generate(voxel.ChunkCoord{Y: 0}).Empty())
}

func TestGeneratorRejectsBadConfig(t *testing.T) {
	cfg := DefaultTerrainConfig()
	cfg.Noise = "fractal-carrots"
	_, err := NewGenerator(1, 16, 0, 64, cfg)
	assert.Error(t, err)

	cfg = DefaultTerrainConfig()
	cfg.Octaves = 0
	cfg.Frequency = -1
	_, err = NewGenerator(1, 16, 0, 64, cfg)
	assert.ErrorContains(t, err, "octaves")
	assert.ErrorContains(t, err, "frequency")

	_, err = NewGenerator(1, 16, 64, 64, DefaultTerrainConfig())
	assert.Error(t, err)
}

func TestFlatGeneratorPopulate(t *testing.T) {
	g := NewFlatGenerator(8, 0, 5)
	assert.Equal(t, 5, g.HeightAt(100, -50))

	grid := g.Generate(voxel.ChunkCoord{})
	assert.Equal(t, voxel.BlockTypeBedrock, grid.Get(0, 0, 0))
	for y := 1; y < 5; y++ {
		assert.Equal(t, voxel.BlockTypeDirt, grid.Get(3, y, 3), "y=%d", y)
	}
	assert.Equal(t, voxel.BlockTypeGrass, grid.Get(7, 5, 7))
	assert.Equal(t, voxel.BlockTypeAir, grid.Get(0, 6, 0))
	assert.True(t, g.Generate(voxel.ChunkCoord{Y: 1}).Empty())
}

func TestFbmRange(t *testing.T) {
	for _, kind := range []string{NoiseSimplex, NoisePerlin, NoiseValue} {
		src, err := newNoise2D(kind, 42)
		require.NoError(t, err)
		for i := 0; i < 500; i++ {
			v := fbm(src, float64(i)*0.37, float64(i)*-0.11, 5, 0.5, 2)
			require.GreaterOrEqual(t, v, -1.0, kind)
			require.LessOrEqual(t, v, 1.0, kind)
		}
	}
}

func BenchmarkGenerate(b *testing.B) {
	g, err := NewGenerator(12345, 32, 0, 128, DefaultTerrainConfig())
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.Generate(voxel.ChunkCoord{X: int32(i), Y: 1, Z: 0})
	}
}
