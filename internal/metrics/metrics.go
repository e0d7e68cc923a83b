package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "voxel"

// Mesh job outcomes
const (
	OutcomeOK        = "ok"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
	OutcomeCancelled = "cancelled"
)

// Engine holds the world pipeline collectors. A nil *Engine records nothing.
//
// Metrics:
// * voxel_queue_depth{queue} - gauge
// * voxel_chunks_loaded - gauge
// * voxel_chunks_generated_total, voxel_chunks_unloaded_total - counters
// * voxel_mesh_jobs_total{outcome} - counter
// * voxel_mesh_duration_seconds - histogram
// * voxel_mesh_uploads_total, voxel_mesh_quads_uploaded_total - counters
type Engine struct {
	queueDepth   *prometheus.GaugeVec
	loaded       prometheus.Gauge
	generated    prometheus.Counter
	unloaded     prometheus.Counter
	meshJobs     *prometheus.CounterVec
	meshDuration prometheus.Histogram
	uploads      prometheus.Counter
	quads        prometheus.Counter
}

// NewEngine creates the collectors and registers them with reg
func NewEngine(reg prometheus.Registerer) (*Engine, error) {
	e := &Engine{
		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Entries waiting in each world work queue.",
		}, []string{"queue"}),
		loaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks_loaded",
			Help:      "Chunks currently held by the world.",
		}),
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_generated_total",
			Help:      "Chunks constructed by the terrain generator.",
		}),
		unloaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_unloaded_total",
			Help:      "Chunks removed from the world.",
		}),
		meshJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mesh_jobs_total",
			Help:      "Mesh jobs by outcome.",
		}, []string{"outcome"}),
		meshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mesh_duration_seconds",
			Help:      "Time spent greedy-meshing one chunk.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		uploads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mesh_uploads_total",
			Help:      "Mesh results uploaded to the GPU.",
		}),
		quads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mesh_quads_uploaded_total",
			Help:      "Quads uploaded to the GPU.",
		}),
	}

	for _, c := range []prometheus.Collector{
		e.queueDepth, e.loaded, e.generated, e.unloaded,
		e.meshJobs, e.meshDuration, e.uploads, e.quads,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// SetQueueDepth records the length of the named queue
func (e *Engine) SetQueueDepth(queue string, n int) {
	if e == nil {
		return
	}
	e.queueDepth.WithLabelValues(queue).Set(float64(n))
}

// SetLoaded records the loaded chunk count
func (e *Engine) SetLoaded(n int) {
	if e == nil {
		return
	}
	e.loaded.Set(float64(n))
}

func (e *Engine) ChunkGenerated() {
	if e == nil {
		return
	}
	e.generated.Inc()
}

func (e *Engine) ChunkUnloaded() {
	if e == nil {
		return
	}
	e.unloaded.Inc()
}

// MeshJob counts one job with the given outcome
func (e *Engine) MeshJob(outcome string) {
	if e == nil {
		return
	}
	e.meshJobs.WithLabelValues(outcome).Inc()
}

// ObserveMesh records how long one mesh build took
func (e *Engine) ObserveMesh(d time.Duration) {
	if e == nil {
		return
	}
	e.meshDuration.Observe(d.Seconds())
}

// Uploaded counts one GPU upload of n quads
func (e *Engine) Uploaded(n int) {
	if e == nil {
		return
	}
	e.uploads.Inc()
	e.quads.Add(float64(n))
}
