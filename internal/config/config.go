package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the config file when no path is given
const EnvConfigPath = "VOXEL_CONFIG"

// Config is the root of the YAML configuration
type Config struct {
	World   WorldConfig   `yaml:"world"`
	Limits  LimitsConfig  `yaml:"limits"`
	Terrain TerrainConfig `yaml:"terrain"`
	Window  WindowConfig  `yaml:"window"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

type WorldConfig struct {
	Seed            int64         `yaml:"seed"`
	ChunkSize       int           `yaml:"chunk_size"`
	RenderDistance  int           `yaml:"render_distance"`
	MinChunkY       int32         `yaml:"min_chunk_y"`
	MaxChunkY       int32         `yaml:"max_chunk_y"`
	Workers         int           `yaml:"workers"` // 0 = logical CPUs - 1
	JobQueueSize    int           `yaml:"job_queue_size"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LimitsConfig caps per-frame work for each scheduler queue
type LimitsConfig struct {
	ForceUpdate int `yaml:"force_update"`
	Unload      int `yaml:"unload"`
	Generate    int `yaml:"generate"`
	Upload      int `yaml:"upload"`
}

type TerrainConfig struct {
	Noise         string  `yaml:"noise"` // simplex, perlin, value or flat
	Frequency     float64 `yaml:"frequency"`
	Octaves       int     `yaml:"octaves"`
	Persistence   float64 `yaml:"persistence"`
	Lacunarity    float64 `yaml:"lacunarity"`
	BaseElevation int     `yaml:"base_elevation"`
	Amplitude     float64 `yaml:"amplitude"`
	Bedrock       int     `yaml:"bedrock"`
	Dirt          int     `yaml:"dirt"`
	Grass         int     `yaml:"grass"`
	SeaLevel      int     `yaml:"sea_level"`
	Water         bool    `yaml:"water"`
	CacheColumns  int     `yaml:"cache_columns"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
	// FPSLimit caps frames per second when vsync is off; 0 is unlimited
	FPSLimit int `yaml:"fps_limit"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the /metrics listener
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:            12345,
			ChunkSize:       32,
			RenderDistance:  12,
			MinChunkY:       0,
			MaxChunkY:       3,
			ShutdownTimeout: 5 * time.Second,
		},
		Limits: LimitsConfig{
			ForceUpdate: 4,
			Unload:      8,
			Generate:    2,
			Upload:      4,
		},
		Terrain: TerrainConfig{
			Noise:         "simplex",
			Frequency:     0.004,
			Octaves:       6,
			Persistence:   0.5,
			Lacunarity:    2.0,
			BaseElevation: 40,
			Amplitude:     64,
			Bedrock:       1,
			Dirt:          3,
			Grass:         1,
			SeaLevel:      52,
			Water:         true,
			CacheColumns:  1024,
		},
		Window: WindowConfig{
			Width:    1280,
			Height:   720,
			Title:    "mini-voxel",
			VSync:    true,
			FPSLimit: 144,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults. An empty path falls back to
// $VOXEL_CONFIG; if that is unset too, the defaults are returned.
// VOXEL_SEED and VOXEL_RENDER_DISTANCE override the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("VOXEL_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("VOXEL_SEED: %w", err)
		}
		c.World.Seed = seed
	}
	if v := os.Getenv("VOXEL_RENDER_DISTANCE"); v != "" {
		rd, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("VOXEL_RENDER_DISTANCE: %w", err)
		}
		c.World.RenderDistance = rd
	}
	return nil
}

// Validate reports every invalid field at once
func (c *Config) Validate() error {
	var errs []error
	w := c.World
	if w.ChunkSize < 1 || w.ChunkSize > 256 {
		errs = append(errs, fmt.Errorf("world.chunk_size must be in [1, 256], got %d", w.ChunkSize))
	}
	if w.RenderDistance < MinRenderDistance || w.RenderDistance > MaxRenderDistance {
		errs = append(errs, fmt.Errorf("world.render_distance must be in [%d, %d], got %d",
			MinRenderDistance, MaxRenderDistance, w.RenderDistance))
	}
	if w.MaxChunkY < w.MinChunkY {
		errs = append(errs, fmt.Errorf("world.max_chunk_y (%d) is below world.min_chunk_y (%d)", w.MaxChunkY, w.MinChunkY))
	}
	if w.Workers < 0 {
		errs = append(errs, fmt.Errorf("world.workers must not be negative, got %d", w.Workers))
	}
	if w.JobQueueSize < 0 {
		errs = append(errs, fmt.Errorf("world.job_queue_size must not be negative, got %d", w.JobQueueSize))
	}
	if w.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("world.shutdown_timeout must be positive"))
	}

	l := c.Limits
	if l.ForceUpdate < 1 || l.Unload < 1 || l.Generate < 1 || l.Upload < 1 {
		errs = append(errs, fmt.Errorf("limits must all be at least 1, got %+v", l))
	}

	switch c.Terrain.Noise {
	case "simplex", "perlin", "value", "flat":
	default:
		errs = append(errs, fmt.Errorf("terrain.noise %q is not one of simplex, perlin, value, flat", c.Terrain.Noise))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.FPSLimit < 0 {
		errs = append(errs, fmt.Errorf("window.fps_limit must not be negative, got %d", c.Window.FPSLimit))
	}
	return errors.Join(errs...)
}
