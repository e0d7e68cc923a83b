package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voxel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("VOXEL_SEED", "")
	t.Setenv("VOXEL_RENDER_DISTANCE", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	t.Setenv("VOXEL_SEED", "")
	t.Setenv("VOXEL_RENDER_DISTANCE", "")
	path := writeConfig(t, `
world:
  seed: 42
  render_distance: 6
  shutdown_timeout: 750ms
terrain:
  noise: perlin
  water: false
metrics:
  addr: ":2112"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.World.Seed)
	assert.Equal(t, 6, cfg.World.RenderDistance)
	assert.Equal(t, 750*time.Millisecond, cfg.World.ShutdownTimeout)
	assert.Equal(t, "perlin", cfg.Terrain.Noise)
	assert.False(t, cfg.Terrain.Water)
	assert.Equal(t, ":2112", cfg.Metrics.Addr)

	// untouched keys keep their defaults
	assert.Equal(t, Default().World.ChunkSize, cfg.World.ChunkSize)
	assert.Equal(t, Default().Limits, cfg.Limits)
}

func TestLoadFromEnvPath(t *testing.T) {
	t.Setenv("VOXEL_SEED", "")
	t.Setenv("VOXEL_RENDER_DISTANCE", "")
	t.Setenv(EnvConfigPath, writeConfig(t, "world:\n  chunk_size: 16\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.World.ChunkSize)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("VOXEL_SEED", "-7")
	t.Setenv("VOXEL_RENDER_DISTANCE", "3")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(-7), cfg.World.Seed)
	assert.Equal(t, 3, cfg.World.RenderDistance)

	t.Setenv("VOXEL_SEED", "many")
	_, err = Load("")
	assert.ErrorContains(t, err, "VOXEL_SEED")
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("VOXEL_SEED", "")
	t.Setenv("VOXEL_RENDER_DISTANCE", "")
	path := writeConfig(t, `
world:
  chunk_size: 0
  min_chunk_y: 4
  max_chunk_y: 1
limits:
  upload: 0
terrain:
  noise: marble
`)
	_, err := Load(path)
	require.Error(t, err)
	for _, want := range []string{"chunk_size", "max_chunk_y", "limits", "terrain.noise"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSetRenderDistanceClamps(t *testing.T) {
	prev := GetRenderDistance()
	t.Cleanup(func() { SetRenderDistance(prev) })

	assert.Equal(t, MinRenderDistance, SetRenderDistance(-3))
	assert.Equal(t, MaxRenderDistance, SetRenderDistance(1000))
	assert.Equal(t, 9, SetRenderDistance(9))
	assert.Equal(t, 9, GetRenderDistance())
	assert.Greater(t, GetFarPlane(32), float32(9*32))
}
