// Package telemetry exposes renderer and bake timings as Prometheus metrics.
package telemetry

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/process"
)

const namespace = "gridcaster"

// Metrics owns a private registry so several instances can coexist.
type Metrics struct {
	registry *prometheus.Registry

	frameDuration  prometheus.Histogram
	stripeDuration *prometheus.HistogramVec
	frames         prometheus.Counter
	entities       prometheus.Gauge
	bakeDuration   prometheus.Gauge
	lightPlanes    prometheus.Gauge
	processCPU     prometheus.Gauge
	processRSS     prometheus.Gauge

	proc *process.Process
}

// New creates and registers every metric.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Wall time of a full frame, from dispatch to HUD overlay.",
			Buckets:   []float64{0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066, 0.1, 0.25},
		}),
		stripeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stripe_duration_seconds",
			Help:      "Time one worker spent on its stripe of columns.",
			Buckets:   []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033},
		}, []string{"stripe"}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames rendered.",
		}),
		entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Entities in the world.",
		}),
		bakeDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lightmap_bake_seconds",
			Help:      "Duration of the last lightmap bake.",
		}),
		lightPlanes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lightmap_planes",
			Help:      "Light planes in the last baked lightmap.",
		}),
		processCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_cpu_percent",
			Help:      "CPU usage of this process.",
		}),
		processRSS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_resident_bytes",
			Help:      "Resident memory of this process.",
		}),
	}
	m.registry.MustRegister(
		m.frameDuration, m.stripeDuration, m.frames, m.entities,
		m.bakeDuration, m.lightPlanes, m.processCPU, m.processRSS,
	)

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Printf("WARNING: process metrics unavailable: %v", err)
	}
	m.proc = proc
	return m
}

// Registry returns the registry the metrics live in.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveFrame records a frame.
func (m *Metrics) ObserveFrame(d time.Duration) {
	m.frames.Inc()
	m.frameDuration.Observe(d.Seconds())
}

// ObserveStripe records one worker's share of a frame. Safe for concurrent use.
func (m *Metrics) ObserveStripe(stripe int, d time.Duration) {
	m.stripeDuration.WithLabelValues(strconv.Itoa(stripe)).Observe(d.Seconds())
}

// SetEntities records the entity count.
func (m *Metrics) SetEntities(n int) { m.entities.Set(float64(n)) }

// ObserveBake records a finished lightmap bake.
func (m *Metrics) ObserveBake(d time.Duration, planes int) {
	m.bakeDuration.Set(d.Seconds())
	m.lightPlanes.Set(float64(planes))
}

// SampleProcess refreshes the process CPU and memory gauges.
func (m *Metrics) SampleProcess() {
	if m.proc == nil {
		return
	}
	if pct, err := m.proc.CPUPercent(); err == nil {
		m.processCPU.Set(pct)
	}
	if mem, err := m.proc.MemoryInfo(); err == nil && mem != nil {
		m.processRSS.Set(float64(mem.RSS))
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts the /metrics endpoint on addr in the background and samples
// process stats every interval until the returned server is shut down.
func (m *Metrics) Serve(addr string, interval time.Duration) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	done := make(chan struct{})
	srv.RegisterOnShutdown(func() { close(done) })

	go func() {
		log.Printf("Prometheus /metrics available at %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Prometheus HTTP server error: %v", err)
		}
	}()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				m.SampleProcess()
			}
		}
	}()
	return srv
}
