package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mini-voxel/internal/config"
	"mini-voxel/internal/graphics"
	"mini-voxel/internal/logging"
	"mini-voxel/internal/metrics"
	"mini-voxel/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupWindow(cfg config.WindowConfig) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, fmt.Errorf("gl init: %w", err)
	}
	return window, nil
}

// startMetrics registers the engine collectors and, when addr is set,
// serves them on /metrics. The returned stop func is safe to call once.
func startMetrics(addr string, log *logging.Logger) (*metrics.Engine, func(), error) {
	m, err := metrics.NewEngine(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, nil, err
	}
	if addr == "" {
		return m, func() {}, nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Infof("metrics listening on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server: %v", err)
		}
	}()
	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warnf("metrics shutdown: %v", err)
		}
	}
	return m, stop, nil
}

// spawnCamera places the camera a few blocks above the terrain at the origin
func spawnCamera(cam *graphics.Camera, gen world.TerrainGenerator) {
	cam.Position[0] = 0.5
	cam.Position[2] = 0.5
	cam.Position[1] = float32(gen.HeightAt(0, 0)) + 6
}
