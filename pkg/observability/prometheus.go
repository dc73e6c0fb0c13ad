package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus implements every hook interface on top of Prometheus
// collectors registered on one registry.
type Prometheus struct {
	registry *prometheus.Registry

	StageTotal    *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	ScannedFiles  prometheus.Counter
	CyclesFound   prometheus.Gauge

	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheWriteBytes  *prometheus.HistogramVec

	HTTPRequestsInFlight prometheus.Gauge
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them on registry.
func NewPrometheus(registry *prometheus.Registry) *Prometheus {
	p := &Prometheus{
		registry: registry,

		StageTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pkgcycle_stage_total",
				Help: "Total number of pipeline stage runs",
			},
			[]string{"stage", "label", "status"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pkgcycle_stage_duration_seconds",
				Help:    "Pipeline stage duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage", "label"},
		),
		ScannedFiles: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pkgcycle_scanned_files_total",
				Help: "Total number of source files scanned",
			},
		),
		CyclesFound: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pkgcycle_cycles_found",
				Help: "Number of package cycles found by the last analysis",
			},
		),

		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pkgcycle_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"stage"},
		),
		CacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pkgcycle_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"stage"},
		),
		CacheWriteBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pkgcycle_cache_write_bytes",
				Help:    "Size of cache writes in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"stage"},
		),

		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pkgcycle_http_requests_in_flight",
				Help: "Number of HTTP requests being served",
			},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pkgcycle_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pkgcycle_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	registry.MustRegister(
		p.StageTotal,
		p.StageDuration,
		p.ScannedFiles,
		p.CyclesFound,
		p.CacheHitsTotal,
		p.CacheMissesTotal,
		p.CacheWriteBytes,
		p.HTTPRequestsInFlight,
		p.HTTPRequestsTotal,
		p.HTTPRequestDuration,
	)
	return p
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *Prometheus) stage(stage, label string, d time.Duration, err error) {
	p.StageTotal.WithLabelValues(stage, label, status(err)).Inc()
	p.StageDuration.WithLabelValues(stage, label).Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnScanStart implements PipelineHooks.
func (p *Prometheus) OnScanStart(context.Context, string, string) {}

// OnScanComplete implements PipelineHooks.
func (p *Prometheus) OnScanComplete(_ context.Context, language string, files int, d time.Duration, err error) {
	p.stage("scan", language, d, err)
	p.ScannedFiles.Add(float64(files))
}

// OnAnalyzeStart implements PipelineHooks.
func (p *Prometheus) OnAnalyzeStart(context.Context, int) {}

// OnAnalyzeComplete implements PipelineHooks.
func (p *Prometheus) OnAnalyzeComplete(_ context.Context, cycles int, d time.Duration, err error) {
	p.stage("analyze", "", d, err)
	if err == nil {
		p.CyclesFound.Set(float64(cycles))
	}
}

// OnRenderStart implements PipelineHooks.
func (p *Prometheus) OnRenderStart(context.Context, string) {}

// OnRenderComplete implements PipelineHooks.
func (p *Prometheus) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	p.stage("render", format, d, err)
}

// OnCacheHit implements CacheHooks.
func (p *Prometheus) OnCacheHit(_ context.Context, stage string) {
	p.CacheHitsTotal.WithLabelValues(stage).Inc()
}

// OnCacheMiss implements CacheHooks.
func (p *Prometheus) OnCacheMiss(_ context.Context, stage string) {
	p.CacheMissesTotal.WithLabelValues(stage).Inc()
}

// OnCacheSet implements CacheHooks.
func (p *Prometheus) OnCacheSet(_ context.Context, stage string, size int) {
	p.CacheWriteBytes.WithLabelValues(stage).Observe(float64(size))
}

// OnRequest implements HTTPHooks.
func (p *Prometheus) OnRequest(context.Context, string, string) {
	p.HTTPRequestsInFlight.Inc()
}

// OnResponse implements HTTPHooks.
func (p *Prometheus) OnResponse(_ context.Context, method, route string, statusCode int, d time.Duration) {
	p.HTTPRequestsInFlight.Dec()
	p.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	p.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
