package world

import (
	"mini-voxel/internal/config"
)

// NewTerrain builds the generator selected by terrain.noise. The world
// spans the configured chunk layers.
func NewTerrain(cfg *config.Config) (TerrainGenerator, error) {
	size := cfg.World.ChunkSize
	minY := int(cfg.World.MinChunkY) * size
	maxY := int(cfg.World.MaxChunkY+1) * size
	t := cfg.Terrain

	if t.Noise == "flat" {
		return NewFlatGenerator(size, minY, t.BaseElevation), nil
	}
	return NewGenerator(cfg.World.Seed, size, minY, maxY, TerrainConfig{
		Noise:            t.Noise,
		Frequency:        t.Frequency,
		Octaves:          t.Octaves,
		Persistence:      t.Persistence,
		Lacunarity:       t.Lacunarity,
		BaseElevation:    t.BaseElevation,
		Amplitude:        t.Amplitude,
		BedrockThickness: t.Bedrock,
		DirtThickness:    t.Dirt,
		GrassThickness:   t.Grass,
		SeaLevel:         t.SeaLevel,
		Water:            t.Water,
		CacheColumns:     t.CacheColumns,
	})
}

// OptionsFromConfig maps the world and limits sections onto Options.
// Generator, Renderer and the observability hooks are left to the caller.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ChunkSize:      cfg.World.ChunkSize,
		RenderDistance: cfg.World.RenderDistance,
		MinChunkY:      cfg.World.MinChunkY,
		MaxChunkY:      cfg.World.MaxChunkY,
		Limits: Limits{
			ForceUpdate: cfg.Limits.ForceUpdate,
			Unload:      cfg.Limits.Unload,
			Generate:    cfg.Limits.Generate,
			Upload:      cfg.Limits.Upload,
		},
		Workers:         cfg.World.Workers,
		JobQueueSize:    cfg.World.JobQueueSize,
		ShutdownTimeout: cfg.World.ShutdownTimeout,
	}
}
