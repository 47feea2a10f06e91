package prometheusmetrics

import (
	"time"

	"github.com/prebid/prebid-vast/config"
	"github.com/prebid/prebid-vast/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics defines the Prometheus metrics backing the MetricsEngine implementation.
type Metrics struct {
	Registry *prometheus.Registry

	resolutions         *prometheus.CounterVec
	resolutionDepth     prometheus.Histogram
	wrapperFetchTimer   *prometheus.HistogramVec
	documentCacheResult *prometheus.CounterVec
	trackerPings        *prometheus.CounterVec
}

const (
	cacheResultLabel = "cache_result"
	eventLabel       = "event"
	outcomeLabel     = "outcome"
	statusLabel      = "status"
)

// NewMetrics initializes a new Prometheus metrics instance with preloaded label values.
func NewMetrics(cfg config.PrometheusMetrics) *Metrics {
	standardTimeBuckets := []float64{0.05, 0.1, 0.15, 0.20, 0.25, 0.3, 0.4, 0.5, 0.75, 1, 2}
	depthBuckets := []float64{0, 1, 2, 3, 4, 5, 7, 10, 15, 20}

	metrics := Metrics{}
	metrics.Registry = prometheus.NewRegistry()

	metrics.resolutions = newCounter(cfg, metrics.Registry,
		"resolutions",
		"Count of wrapper chain resolutions labeled by outcome.",
		[]string{outcomeLabel})

	metrics.resolutionDepth = newHistogram(cfg, metrics.Registry,
		"resolution_depth",
		"Number of wrapper hops fetched per resolution.",
		depthBuckets)

	metrics.wrapperFetchTimer = newHistogramVec(cfg, metrics.Registry,
		"wrapper_fetch_time_seconds",
		"Seconds to download and parse a wrapper redirect labeled by status.",
		[]string{statusLabel},
		standardTimeBuckets)

	metrics.documentCacheResult = newCounter(cfg, metrics.Registry,
		"document_cache_performance",
		"Count of wrapper document cache lookups labeled by hit or miss.",
		[]string{cacheResultLabel})

	metrics.trackerPings = newCounter(cfg, metrics.Registry,
		"tracker_pings",
		"Count of tracking pings labeled by event and status.",
		[]string{eventLabel, statusLabel})

	preloadLabelValues(&metrics)

	return &metrics
}

func newCounter(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string) *prometheus.CounterVec {
	opts := prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
	}
	counter := prometheus.NewCounterVec(opts, labels)
	registry.MustRegister(counter)
	return counter
}

func newHistogramVec(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	opts := prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
	histogram := prometheus.NewHistogramVec(opts, labels)
	registry.MustRegister(histogram)
	return histogram
}

func newHistogram(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, buckets []float64) prometheus.Histogram {
	opts := prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
	histogram := prometheus.NewHistogram(opts)
	registry.MustRegister(histogram)
	return histogram
}

func (m *Metrics) RecordResolution(labels metrics.ResolutionLabels) {
	m.resolutions.With(prometheus.Labels{
		outcomeLabel: string(labels.Outcome),
	}).Inc()
}

func (m *Metrics) RecordResolutionDepth(depth int) {
	m.resolutionDepth.Observe(float64(depth))
}

func (m *Metrics) RecordWrapperFetch(labels metrics.FetchLabels, length time.Duration) {
	m.wrapperFetchTimer.With(prometheus.Labels{
		statusLabel: string(labels.Status),
	}).Observe(length.Seconds())
}

func (m *Metrics) RecordDocumentCacheResult(cacheResult metrics.CacheResult, inc int) {
	m.documentCacheResult.With(prometheus.Labels{
		cacheResultLabel: string(cacheResult),
	}).Add(float64(inc))
}

func (m *Metrics) RecordTrackerPing(labels metrics.TrackerLabels) {
	m.trackerPings.With(prometheus.Labels{
		eventLabel:  labels.Event,
		statusLabel: string(labels.Status),
	}).Inc()
}
