// Command terrainview renders a top-down heightmap of generated terrain to a
// PNG, for tuning terrain settings without opening a window.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"mini-voxel/internal/config"
	"mini-voxel/internal/logging"
	"mini-voxel/internal/world"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		seed       = flag.Int64("seed", 0, "override the world seed")
		noise      = flag.String("noise", "", "override terrain.noise")
		cx         = flag.Int("x", 0, "center block X")
		cz         = flag.Int("z", 0, "center block Z")
		extent     = flag.Int("size", 512, "blocks per side")
		scale      = flag.Int("scale", 2, "output pixels per block")
		out        = flag.String("o", "terrain.png", "output file")
	)
	flag.Parse()
	log := logging.Default().With("terrainview")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(2)
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if *noise != "" {
		cfg.Terrain.Noise = *noise
	}

	gen, err := world.NewTerrain(cfg)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(2)
	}

	view := Heightmap{
		Gen:      gen,
		MinX:     *cx - *extent/2,
		MinZ:     *cz - *extent/2,
		Size:     *extent,
		SeaLevel: cfg.Terrain.SeaLevel,
		Water:    cfg.Terrain.Water && cfg.Terrain.Noise != "flat",
		MaxY:     int(cfg.World.MaxChunkY+1) * cfg.World.ChunkSize,
	}
	label := fmt.Sprintf("seed %d  %s  (%d, %d)", cfg.World.Seed, cfg.Terrain.Noise, *cx, *cz)
	img := view.Render(*scale, label)

	f, err := os.Create(*out)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		log.Errorf("encode: %v", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	log.Infof("wrote %s (%dx%d)", *out, img.Bounds().Dx(), img.Bounds().Dy())
}
