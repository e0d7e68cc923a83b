package world

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Noise source names accepted by TerrainConfig.Noise
const (
	NoiseSimplex = "simplex"
	NoisePerlin  = "perlin"
	NoiseValue   = "value"
)

// noise2D is a seeded 2D gradient or value noise returning roughly [-1, 1].
// Implementations must be safe for concurrent reads.
type noise2D interface {
	Eval2(x, z float64) float64
}

func newNoise2D(kind string, seed int64) (noise2D, error) {
	switch kind {
	case "", NoiseSimplex:
		return opensimplex.New(seed), nil
	case NoisePerlin:
		// single octave; octaves are layered by fbm
		return perlinNoise{p: perlin.NewPerlin(2, 2, 1, seed)}, nil
	case NoiseValue:
		return valueNoise{seed: seed}, nil
	}
	return nil, fmt.Errorf("unknown noise source %q", kind)
}

type perlinNoise struct {
	p *perlin.Perlin
}

func (n perlinNoise) Eval2(x, z float64) float64 {
	return n.p.Noise2D(x, z)
}

// valueNoise is hash-lattice value noise with quintic smoothing.
type valueNoise struct {
	seed int64
}

func (n valueNoise) Eval2(x, z float64) float64 {
	return valueNoise2D(x, z, n.seed)*2 - 1
}

// fbm layers octaves of src and returns a value clamped to [-1, 1].
// Each octave is shifted so lattice artifacts do not line up.
func fbm(src noise2D, x, z float64, octaves int, persistence, lacunarity float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := range octaves {
		shift := float64(i) * 31.7
		sum += src.Eval2(x*frequency+shift, z*frequency-shift) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return clamp(sum/norm, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// hash2 is a SplitMix64-style lattice hash, stable across runs
func hash2(x, z, seed int64) uint64 {
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(z)*0x517CC1B727220A95 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

func latticeValue(x, z, seed int64) float64 {
	return float64(hash2(x, z, seed)&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

// valueNoise2D returns smoothed lattice noise in [0, 1]
func valueNoise2D(x, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	fx := fade(x - x0)
	fz := fade(z - z0)

	ix, iz := int64(x0), int64(z0)
	v00 := latticeValue(ix, iz, seed)
	v10 := latticeValue(ix+1, iz, seed)
	v01 := latticeValue(ix, iz+1, seed)
	v11 := latticeValue(ix+1, iz+1, seed)

	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fz)
}
