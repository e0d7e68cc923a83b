package main

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"mini-voxel/internal/config"
	"mini-voxel/internal/graphics"
	"mini-voxel/internal/input"
	"mini-voxel/internal/logging"
	"mini-voxel/internal/physics"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/voxel"
	"mini-voxel/internal/world"

	"github.com/faiface/mainthread"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	slowFrame      = 50 * time.Millisecond
	fastMultiplier = 4
)

// app owns the window, renderer and world. Everything touching GL or GLFW
// runs through mainthread.Call.
type app struct {
	cfg *config.Config
	log *logging.Logger

	window   *glfw.Window
	renderer *graphics.Renderer
	world    *world.World
	camera   *graphics.Camera
	input    *input.Manager
	limiter  *fpsLimiter

	stopMetrics func()
	glfwReady   bool
	cursorFree  bool

	quit     atomic.Bool
	done     chan struct{}
	teardown sync.Once

	frames    int
	lastTitle time.Time
}

func newApp(cfg *config.Config, log *logging.Logger) *app {
	return &app{
		cfg:  cfg,
		log:  log,
		done: make(chan struct{}),
	}
}

func (a *app) requestQuit() {
	a.quit.Store(true)
}

func (a *app) run() error {
	defer close(a.done)
	defer mainthread.Call(a.dispose)

	var err error
	mainthread.Call(func() { err = a.init() })
	if err != nil {
		return err
	}

	last := time.Now()
	for !a.quit.Load() {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now

		var closing bool
		mainthread.Call(func() { closing = a.frame(dt) })
		if closing {
			break
		}
		a.limiter.Wait()
	}
	return nil
}

func (a *app) init() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	a.glfwReady = true

	window, err := setupWindow(a.cfg.Window)
	if err != nil {
		return err
	}
	a.window = window

	m, stop, err := startMetrics(a.cfg.Metrics.Addr, a.log)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	a.stopMetrics = stop

	size := a.cfg.World.ChunkSize
	a.renderer = graphics.NewRenderer(size, a.log)
	if err := a.renderer.Init(); err != nil {
		return err
	}

	gen, err := world.NewTerrain(a.cfg)
	if err != nil {
		return err
	}

	rd := config.SetRenderDistance(a.cfg.World.RenderDistance)
	a.camera = graphics.NewCamera(a.cfg.Window.Width, a.cfg.Window.Height)
	a.camera.FarPlane = config.GetFarPlane(size)
	a.renderer.SetFogDistance(float32(rd * size))
	spawnCamera(a.camera, gen)

	opts := world.OptionsFromConfig(a.cfg)
	opts.Generator = gen
	opts.Renderer = a.renderer
	opts.HasCamera = func() bool { return a.camera != nil }
	opts.Logger = a.log
	opts.Metrics = m
	a.world, err = world.New(opts)
	if err != nil {
		return err
	}

	a.input = input.NewManager()
	a.input.Attach(window)
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !a.cursorFree {
			a.camera.HandleMouseMovement(xpos, ypos)
		}
	})
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
		a.camera.SetViewport(width, height)
	})
	fbw, fbh := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbw), int32(fbh))

	limit := a.cfg.Window.FPSLimit
	if a.cfg.Window.VSync {
		limit = 0
	}
	a.limiter = newFPSLimiter(limit)
	a.lastTitle = time.Now()

	a.log.Infof("seed %d, spawn at %.1f %.1f %.1f", a.cfg.World.Seed,
		a.camera.Position.X(), a.camera.Position.Y(), a.camera.Position.Z())
	return nil
}

// frame runs one iteration and reports whether the window should close
func (a *app) frame(dt float64) bool {
	profiling.BeginFrame()
	glfw.PollEvents()

	a.handleActions()
	speed := float32(1)
	if a.input.IsActive(input.ActionFast) {
		speed = fastMultiplier
	}
	a.camera.Move(
		a.input.Axis(input.ActionMoveForward, input.ActionMoveBackward)*speed,
		a.input.Axis(input.ActionMoveRight, input.ActionMoveLeft)*speed,
		a.input.Axis(input.ActionMoveUp, input.ActionMoveDown)*speed,
		dt,
	)

	a.world.SetObserverPosition(a.camera.Position)
	a.world.Update()

	a.renderer.Clear()
	a.renderer.DrawAll(a.camera.ViewMatrix(), a.camera.ProjectionMatrix())
	a.window.SwapBuffers()
	a.input.PostUpdate()

	if elapsed := profiling.FrameElapsed(); elapsed > slowFrame {
		a.log.Debugf("slow frame %v: %s", elapsed.Round(time.Millisecond), profiling.TopN(3))
	}
	a.updateTitle()
	return a.window.ShouldClose()
}

func (a *app) handleActions() {
	in := a.input
	if in.JustPressed(input.ActionQuit) {
		a.window.SetShouldClose(true)
	}
	if in.JustPressed(input.ActionToggleCursor) {
		a.cursorFree = !a.cursorFree
		mode := glfw.CursorDisabled
		if a.cursorFree {
			mode = glfw.CursorNormal
		}
		a.window.SetInputMode(glfw.CursorMode, mode)
	}
	if in.JustPressed(input.ActionRenderDistanceUp) {
		a.changeRenderDistance(1)
	}
	if in.JustPressed(input.ActionRenderDistanceDown) {
		a.changeRenderDistance(-1)
	}
	if in.JustPressed(input.ActionPlaceBlock) {
		a.editTarget(voxel.BlockTypeStone)
	}
	if in.JustPressed(input.ActionRemoveBlock) {
		a.editTarget(voxel.BlockTypeAir)
	}
	if in.JustPressed(input.ActionShowStats) {
		s := a.world.Stats()
		rs := a.renderer.Stats()
		a.log.Infof("loaded %d | queues gen %d unload %d force %d upload %d | jobs %d | drawn %d culled %d quads %d",
			s.Loaded, s.Generate, s.Unload, s.ForceUpdate, s.Upload, s.MeshJobs, rs.Drawn, rs.Culled, rs.Quads)
	}
}

func (a *app) changeRenderDistance(delta int) {
	rd := config.SetRenderDistance(config.GetRenderDistance() + delta)
	size := a.world.ChunkSize()
	a.world.SetRenderDistance(rd)
	a.camera.FarPlane = config.GetFarPlane(size)
	a.renderer.SetFogDistance(float32(rd * size))
}

// editTarget removes the block under the crosshair, or places b against
// the face that was hit
func (a *app) editTarget(b voxel.BlockType) {
	hit := physics.Raycast(a.camera.Position, a.camera.Front(),
		physics.MinReachDistance, physics.MaxReachDistance, a.world)
	if !hit.Hit {
		return
	}
	pos := hit.HitPosition
	if !b.IsAir() {
		pos = hit.AdjacentPosition
	}
	x, y, z := pos[0], pos[1], pos[2]

	changed, err := a.world.SetBlock(x, y, z, b)
	switch {
	case errors.Is(err, voxel.ErrOutOfBounds):
		a.log.Warnf("cannot edit %d %d %d: outside the world", x, y, z)
	case err != nil:
		a.log.Errorf("edit %d %d %d: %v", x, y, z, err)
	case changed:
		a.log.Debugf("set %d %d %d to %s", x, y, z, b)
	}
}

func (a *app) updateTitle() {
	a.frames++
	if since := time.Since(a.lastTitle); since >= time.Second {
		fps := float64(a.frames) / since.Seconds()
		a.window.SetTitle(fmt.Sprintf("%s | %.0f fps | %d chunks", a.cfg.Window.Title, fps, a.world.Stats().Loaded))
		a.frames = 0
		a.lastTitle = time.Now()
	}
}

// dispose releases everything in reverse order of creation; it tolerates a
// partially initialised app and runs once.
func (a *app) dispose() {
	a.teardown.Do(func() {
		if a.world != nil {
			a.world.Dispose()
		}
		if a.renderer != nil {
			a.renderer.Dispose()
		}
		if a.stopMetrics != nil {
			a.stopMetrics()
		}
		if a.window != nil {
			a.window.Destroy()
		}
		if a.glfwReady {
			glfw.Terminate()
		}
		a.log.Infof("shutdown complete")
	})
}
