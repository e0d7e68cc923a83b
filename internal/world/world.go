package world

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"mini-voxel/internal/logging"
	"mini-voxel/internal/meshing"
	"mini-voxel/internal/metrics"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrWorldDisposed is returned by edits after Dispose
var ErrWorldDisposed = errors.New("world: disposed")

// Renderer is what the world needs from the drawing side: mesh handles and a
// registry of meshes to draw. All calls happen on the main thread.
type Renderer interface {
	NewMesh() MeshResource
	RegisterMesh(coord voxel.ChunkCoord, mesh MeshResource)
	// DisposeMesh drops the registration only; the chunk releases the mesh.
	DisposeMesh(coord voxel.ChunkCoord)
}

// Limits caps how many entries of each queue one Update processes
type Limits struct {
	ForceUpdate int
	Unload      int
	Generate    int
	Upload      int
}

// DefaultLimits keeps a frame's main-thread work small
func DefaultLimits() Limits {
	return Limits{ForceUpdate: 4, Unload: 8, Generate: 2, Upload: 4}
}

// Options configures a World
type Options struct {
	ChunkSize      int
	RenderDistance int   // radius in chunks on the XZ plane
	MinChunkY      int32 // inclusive vertical band of chunk layers
	MaxChunkY      int32
	Limits         Limits

	Workers         int // 0 selects meshing.DefaultWorkers
	JobQueueSize    int
	ShutdownTimeout time.Duration

	Generator TerrainGenerator
	Renderer  Renderer
	// HasCamera, when set, gates Update: no camera means nothing to stream around.
	HasCamera func() bool

	Logger  *logging.Logger
	Metrics *metrics.Engine
}

// Stats is a point-in-time view of the scheduler
type Stats struct {
	Loaded      int
	Generate    int
	Unload      int
	ForceUpdate int
	Upload      int
	MeshJobs    int
}

// World streams chunks around an observer: it decides which chunks should
// exist, generates them, hands them to the mesh workers and uploads results.
// Everything except the mesh workers runs on the caller's (main) thread.
type World struct {
	opts     Options
	size     int
	store    *ChunkStore
	gen      TerrainGenerator
	renderer Renderer
	pool     *meshing.WorkerPool

	generateQ *Queue[voxel.ChunkCoord]
	unloadQ   *Queue[voxel.ChunkCoord]
	forceQ    *Queue[voxel.ChunkCoord]
	uploadQ   *Queue[meshing.Result]

	observer       mgl32.Vec3
	center         voxel.ChunkCoord
	hasCenter      bool
	renderDistance int
	desired        map[voxel.ChunkCoord]struct{}

	nextSerial    uint64
	cameraMissing bool
	disposed      bool

	log     *logging.Logger
	metrics *metrics.Engine
}

// New validates opts and starts the mesh workers
func New(opts Options) (*World, error) {
	if opts.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", opts.ChunkSize)
	}
	if opts.RenderDistance < 0 {
		return nil, fmt.Errorf("render distance must not be negative, got %d", opts.RenderDistance)
	}
	if opts.MaxChunkY < opts.MinChunkY {
		return nil, fmt.Errorf("vertical band [%d, %d] is empty", opts.MinChunkY, opts.MaxChunkY)
	}
	if opts.Generator == nil {
		return nil, errors.New("world: generator is required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("world: renderer is required")
	}

	def := DefaultLimits()
	if opts.Limits.ForceUpdate <= 0 {
		opts.Limits.ForceUpdate = def.ForceUpdate
	}
	if opts.Limits.Unload <= 0 {
		opts.Limits.Unload = def.Unload
	}
	if opts.Limits.Generate <= 0 {
		opts.Limits.Generate = def.Generate
	}
	if opts.Limits.Upload <= 0 {
		opts.Limits.Upload = def.Upload
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	w := &World{
		opts:           opts,
		size:           opts.ChunkSize,
		store:          NewChunkStore(),
		gen:            opts.Generator,
		renderer:       opts.Renderer,
		generateQ:      NewCoordQueue(),
		unloadQ:        NewCoordQueue(),
		forceQ:         NewCoordQueue(),
		uploadQ:        NewResultQueue(),
		renderDistance: opts.RenderDistance,
		desired:        make(map[voxel.ChunkCoord]struct{}),
		log:            opts.Logger.With("world"),
		metrics:        opts.Metrics,
	}
	w.pool = meshing.NewWorkerPool(w.uploadQ, meshing.PoolOptions{
		Workers:   opts.Workers,
		QueueSize: opts.JobQueueSize,
		Logger:    opts.Logger,
		Metrics:   opts.Metrics,
	})
	w.log.Infof("started: chunk size %d, render distance %d, layers [%d, %d], %d mesh workers",
		w.size, w.renderDistance, opts.MinChunkY, opts.MaxChunkY, w.pool.Workers())
	return w, nil
}

// ChunkSize returns the chunk edge length in blocks
func (w *World) ChunkSize() int { return w.size }

// RenderDistance returns the current streaming radius in chunks
func (w *World) RenderDistance() int { return w.renderDistance }

// SetObserverPosition records where the observer is; call once per frame before Update.
func (w *World) SetObserverPosition(pos mgl32.Vec3) {
	w.observer = pos
}

// SetRenderDistance changes the streaming radius; the desired set is recomputed on the next Update.
func (w *World) SetRenderDistance(r int) {
	r = max(r, 0)
	if r == w.renderDistance {
		return
	}
	w.log.Infof("render distance %d -> %d", w.renderDistance, r)
	w.renderDistance = r
	w.hasCenter = false
}

// Update runs one frame of scheduling: it refreshes the desired set when the
// observer changed chunk column, then drains force-update, unload, generate
// and upload work in that order, each up to its per-frame limit.
func (w *World) Update() {
	if w.disposed {
		return
	}
	defer profiling.Track("world.Update")()

	if w.opts.HasCamera != nil && !w.opts.HasCamera() {
		if !w.cameraMissing {
			w.log.Warnf("no camera, skipping chunk updates")
			w.cameraMissing = true
		}
		return
	}
	if w.cameraMissing {
		w.log.Infof("camera available, resuming chunk updates")
		w.cameraMissing = false
	}

	center := voxel.ChunkCoordOf(
		int(math.Floor(float64(w.observer.X()))),
		int(math.Floor(float64(w.observer.Y()))),
		int(math.Floor(float64(w.observer.Z()))),
		w.size,
	)
	if !w.hasCenter || !center.SameColumn(w.center) {
		w.center = center
		w.hasCenter = true
		w.refreshDesired()
	}

	w.processForceUpdates()
	w.processUnloads()
	w.processGenerates()
	w.processUploads()
	w.reportMetrics()
}

// IsDesired reports whether coord lies in the current streaming region
func (w *World) IsDesired(coord voxel.ChunkCoord) bool {
	_, ok := w.desired[coord]
	return ok
}

// refreshDesired recomputes the desired set around the current center and
// queues the difference against what is loaded.
func (w *World) refreshDesired() {
	defer profiling.Track("world.refreshDesired")()

	r := w.renderDistance
	r2 := int64(r) * int64(r)
	desired := make(map[voxel.ChunkCoord]struct{}, len(w.desired))
	var fresh []voxel.ChunkCoord

	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			if int64(dx*dx+dz*dz) > r2 {
				continue
			}
			col := voxel.ChunkCoord{X: w.center.X, Z: w.center.Z}.Add(int32(dx), 0, int32(dz))
			for y := w.opts.MinChunkY; y <= w.opts.MaxChunkY; y++ {
				c := col.Add(0, y, 0)
				desired[c] = struct{}{}
				if !w.store.Has(c) && !w.generateQ.Contains(c) {
					fresh = append(fresh, c)
				}
			}
		}
	}

	center := w.center
	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].DistSqXZ(center) < fresh[j].DistSqXZ(center)
	})
	for _, c := range fresh {
		w.generateQ.Push(c)
	}

	stale := 0
	for _, c := range w.store.Coords() {
		if _, ok := desired[c]; !ok && w.unloadQ.PushIfAbsent(c) {
			stale++
		}
	}
	w.desired = desired

	w.log.Debugf("center %v: %d desired, %d queued for generation, %d queued for unload",
		center, len(desired), len(fresh), stale)
}

func (w *World) processForceUpdates() {
	defer profiling.Track("world.forceUpdate")()
	for i := 0; i < w.opts.Limits.ForceUpdate; i++ {
		coord, ok := w.forceQ.Pop()
		if !ok {
			return
		}
		if c := w.store.Get(coord); c != nil && !c.IsDisposed() {
			w.submit(c)
		}
	}
}

func (w *World) processUnloads() {
	defer profiling.Track("world.unload")()
	for done := 0; done < w.opts.Limits.Unload; {
		coord, ok := w.unloadQ.Pop()
		if !ok {
			return
		}
		if w.IsDesired(coord) {
			continue
		}
		c := w.store.Remove(coord)
		if c == nil {
			continue
		}
		w.renderer.DisposeMesh(coord)
		c.Dispose()
		w.metrics.ChunkUnloaded()
		done++
	}
}

func (w *World) processGenerates() {
	defer profiling.Track("world.generate")()
	for done := 0; done < w.opts.Limits.Generate; {
		coord, ok := w.generateQ.Pop()
		if !ok {
			return
		}
		if !w.IsDesired(coord) || w.store.Has(coord) {
			continue
		}
		w.submit(w.loadChunk(coord))
		done++
	}
}

func (w *World) processUploads() {
	defer profiling.Track("world.upload")()
	for i := 0; i < w.opts.Limits.Upload; i++ {
		r, ok := w.uploadQ.Pop()
		if !ok {
			return
		}
		c := w.store.Get(r.Coord)
		if c == nil || c.Serial() != r.Serial || c.IsDisposed() {
			// chunk was unloaded (or replaced) while meshing
			continue
		}

		mesh := c.Mesh()
		mesh.Upload(r.Quads)
		w.renderer.RegisterMesh(r.Coord, mesh)
		w.metrics.Uploaded(len(r.Quads))

		if !c.MarkClean(r.Version) {
			// edited while the job ran; the uploaded mesh is already out of date
			w.forceQ.PushIfAbsent(r.Coord)
		}
	}
}

// loadChunk generates the chunk at coord and inserts it into the store
func (w *World) loadChunk(coord voxel.ChunkCoord) *Chunk {
	grid := w.gen.Generate(coord)
	w.nextSerial++
	c := NewChunk(coord, w.nextSerial, grid, w.renderer.NewMesh())
	w.store.Add(c)
	w.metrics.ChunkGenerated()
	return c
}

// submit hands a snapshot of c to the mesh workers. Empty chunks skip the
// workers and get an empty result directly.
func (w *World) submit(c *Chunk) {
	if c.Empty() {
		w.uploadQ.Push(meshing.Result{Coord: c.Coord(), Serial: c.Serial(), Version: c.Version()})
		return
	}

	grid, version := c.Snapshot()
	err := w.pool.Submit(meshing.Job{
		Coord:   c.Coord(),
		Serial:  c.Serial(),
		Version: version,
		Grid:    grid,
	})
	switch {
	case err == nil:
	case errors.Is(err, meshing.ErrQueueFull):
		// retry on a later frame
		w.forceQ.PushIfAbsent(c.Coord())
	default:
		w.log.Warnf("submit mesh job for %v: %v", c.Coord(), err)
	}
}

// GetBlock returns the block at world (x, y, z); unloaded chunks read as air.
func (w *World) GetBlock(x, y, z int) voxel.BlockType {
	c := w.store.Get(voxel.ChunkCoordOf(x, y, z, w.size))
	if c == nil {
		return voxel.BlockTypeAir
	}
	lx, ly, lz := voxel.LocalOf(x, y, z, w.size)
	return c.GetBlock(lx, ly, lz)
}

// SetBlock writes the block at world (x, y, z) and reports whether it changed.
// An unloaded target chunk is generated synchronously first. Changed or
// force-loaded chunks are queued once on the force-update queue. The generate
// and upload queues are not consulted since neither remeshes an edited chunk.
func (w *World) SetBlock(x, y, z int, b voxel.BlockType) (bool, error) {
	if w.disposed {
		return false, ErrWorldDisposed
	}
	if !b.Valid() {
		w.log.Warnf("set block (%d, %d, %d): unknown block type %d", x, y, z, uint8(b))
		return false, fmt.Errorf("set block (%d, %d, %d): %w", x, y, z, voxel.ErrInvalidBlock)
	}
	coord := voxel.ChunkCoordOf(x, y, z, w.size)
	if coord.Y < w.opts.MinChunkY || coord.Y > w.opts.MaxChunkY {
		w.log.Warnf("set block (%d, %d, %d): outside vertical layers [%d, %d]",
			x, y, z, w.opts.MinChunkY, w.opts.MaxChunkY)
		return false, fmt.Errorf("set block (%d, %d, %d): %w", x, y, z, voxel.ErrOutOfBounds)
	}

	c := w.store.Get(coord)
	loaded := false
	if c == nil {
		w.log.Warnf("set block (%d, %d, %d): chunk %v not loaded, generating it now", x, y, z, coord)
		c = w.loadChunk(coord)
		loaded = true
	}

	lx, ly, lz := voxel.LocalOf(x, y, z, w.size)
	changed, err := c.SetBlock(lx, ly, lz, b)
	if err != nil {
		w.log.Warnf("set block (%d, %d, %d): %v", x, y, z, err)
		return false, err
	}
	if changed || loaded {
		w.forceQ.PushIfAbsent(coord)
	}
	return changed, nil
}

// Chunk returns the loaded chunk at coord, or nil
func (w *World) Chunk(coord voxel.ChunkCoord) *Chunk {
	return w.store.Get(coord)
}

// LoadedCoords returns the coordinates of all loaded chunks
func (w *World) LoadedCoords() []voxel.ChunkCoord {
	return w.store.Coords()
}

// Stats reports loaded chunks and queue depths
func (w *World) Stats() Stats {
	s := Stats{
		Loaded:      w.store.Len(),
		Generate:    w.generateQ.Len(),
		Unload:      w.unloadQ.Len(),
		ForceUpdate: w.forceQ.Len(),
		Upload:      w.uploadQ.Len(),
	}
	if w.pool != nil {
		s.MeshJobs = w.pool.Pending()
	}
	return s
}

// Idle reports whether no work is queued anywhere and no mesh job is queued or running
func (w *World) Idle() bool {
	s := w.Stats()
	return s.Generate == 0 && s.Unload == 0 && s.ForceUpdate == 0 && s.Upload == 0 && s.MeshJobs == 0
}

func (w *World) reportMetrics() {
	if w.metrics == nil {
		return
	}
	s := w.Stats()
	w.metrics.SetLoaded(s.Loaded)
	w.metrics.SetQueueDepth("generate", s.Generate)
	w.metrics.SetQueueDepth("unload", s.Unload)
	w.metrics.SetQueueDepth("force_update", s.ForceUpdate)
	w.metrics.SetQueueDepth("upload", s.Upload)
	w.metrics.SetQueueDepth("mesh_jobs", s.MeshJobs)
}

// Dispose stops the mesh workers and releases every chunk. Results still in
// flight are discarded. Calling Dispose again does nothing.
func (w *World) Dispose() {
	if w.disposed {
		return
	}
	w.disposed = true

	w.generateQ.Clear()
	w.unloadQ.Clear()
	w.forceQ.Clear()
	if err := w.pool.Shutdown(w.opts.ShutdownTimeout); err != nil {
		w.log.Warnf("mesh workers: %v", err)
	}
	w.uploadQ.Clear()

	chunks := w.store.Clear()
	for _, c := range chunks {
		w.renderer.DisposeMesh(c.Coord())
		c.Dispose()
	}
	w.desired = make(map[voxel.ChunkCoord]struct{})
	w.log.Infof("disposed %d chunks", len(chunks))
}
