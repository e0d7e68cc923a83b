package meshing

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"mini-voxel/internal/logging"
	"mini-voxel/internal/metrics"
	"mini-voxel/internal/voxel"

	"github.com/shirou/gopsutil/v3/cpu"
)

var (
	ErrPoolClosed      = errors.New("meshing: worker pool closed")
	ErrQueueFull       = errors.New("meshing: job queue full")
	ErrShutdownTimeout = errors.New("meshing: shutdown timed out")
)

// Job asks a worker to mesh a snapshot of one chunk's blocks.
// Serial and Version are echoed back so the consumer can detect stale results.
type Job struct {
	Coord   voxel.ChunkCoord
	Serial  uint64
	Version uint64
	Grid    *voxel.Grid
}

// Result is the mesher output for one Job
type Result struct {
	Coord   voxel.ChunkCoord
	Serial  uint64
	Version uint64
	Quads   []voxel.Quad
}

// ResultSink receives finished results. Push is called from worker goroutines.
type ResultSink interface {
	Push(Result)
}

// MeshFunc builds quads for a grid
type MeshFunc func(ctx context.Context, g *voxel.Grid) ([]voxel.Quad, error)

// PoolOptions configures a WorkerPool. Zero values select defaults.
type PoolOptions struct {
	Workers   int
	QueueSize int
	Logger    *logging.Logger
	Metrics   *metrics.Engine
	Mesh      MeshFunc
}

// WorkerPool manages goroutines for mesh generation
type WorkerPool struct {
	jobs    chan Job
	sink    ResultSink
	workers int
	mesh    MeshFunc
	log     *logging.Logger
	metrics *metrics.Engine

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex // guards closed and sends on jobs
	closed bool

	// accepted jobs whose result has not been delivered or dropped yet
	outstanding atomic.Int64
}

// DefaultWorkers returns logical CPUs minus one, at least one
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		n = runtime.NumCPU()
	}
	if n > 1 {
		n--
	}
	return n
}

// NewWorkerPool starts the workers; results are delivered to sink
func NewWorkerPool(sink ResultSink, opts PoolOptions) *WorkerPool {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1024
	}
	if opts.Mesh == nil {
		opts.Mesh = MeshContext
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &WorkerPool{
		jobs:    make(chan Job, opts.QueueSize),
		sink:    sink,
		workers: opts.Workers,
		mesh:    opts.Mesh,
		log:     opts.Logger.With("mesh-pool"),
		metrics: opts.Metrics,
		ctx:     ctx,
		cancel:  cancel,
	}

	for i := range p.workers {
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

// Workers returns the number of worker goroutines
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Submit queues a job without blocking.
// It returns ErrQueueFull when the queue is at capacity and ErrPoolClosed after Shutdown.
func (p *WorkerPool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.outstanding.Add(1)
	select {
	case p.jobs <- job:
		return nil
	default:
		p.outstanding.Add(-1)
		p.metrics.MeshJob(metrics.OutcomeRejected)
		return ErrQueueFull
	}
}

// Pending returns the number of accepted jobs that are queued or running.
// A job stops counting once its result has been pushed to the sink.
func (p *WorkerPool) Pending() int {
	return int(p.outstanding.Load())
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		if p.ctx.Err() != nil {
			p.metrics.MeshJob(metrics.OutcomeCancelled)
			p.outstanding.Add(-1)
			continue
		}
		p.run(id, job)
		p.outstanding.Add(-1)
	}
}

// run meshes one job. A panic is contained to the job: it is logged and no result is produced.
func (p *WorkerPool) run(id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorf("worker %d: mesh %v panicked: %v", id, job.Coord, r)
			p.metrics.MeshJob(metrics.OutcomeFailed)
		}
	}()

	start := time.Now()
	quads, err := p.mesh(p.ctx, job.Grid)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			p.metrics.MeshJob(metrics.OutcomeCancelled)
			return
		}
		p.log.Errorf("worker %d: mesh %v: %v", id, job.Coord, err)
		p.metrics.MeshJob(metrics.OutcomeFailed)
		return
	}
	p.metrics.ObserveMesh(time.Since(start))
	p.metrics.MeshJob(metrics.OutcomeOK)

	p.sink.Push(Result{
		Coord:   job.Coord,
		Serial:  job.Serial,
		Version: job.Version,
		Quads:   quads,
	})
}

// Shutdown stops accepting jobs and lets workers drain the queue.
// If they have not finished within timeout, in-flight work is cancelled
// and ErrShutdownTimeout is returned. Calling Shutdown again is a no-op.
func (p *WorkerPool) Shutdown(timeout time.Duration) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		p.cancel()
		return nil
	case <-timer.C:
	}

	p.log.Warnf("workers still busy after %v, cancelling", timeout)
	p.cancel()
	select {
	case <-done:
	case <-time.After(timeout):
		p.log.Errorf("workers did not stop after cancellation")
	}
	return fmt.Errorf("after %v: %w", timeout, ErrShutdownTimeout)
}
