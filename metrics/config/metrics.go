package config

import (
	"time"

	"github.com/golang/glog"
	mainConfig "github.com/prebid/prebid-vast/config"
	"github.com/prebid/prebid-vast/metrics"
	prometheusmetrics "github.com/prebid/prebid-vast/metrics/prometheus"
	gometrics "github.com/rcrowley/go-metrics"
	influxdb "github.com/vrischmann/go-metrics-influxdb"
)

// NewMetricsEngine reads the configuration and returns the appropriate metrics engine
// for this instance.
func NewMetricsEngine(cfg *mainConfig.Configuration) *DetailedMetricsEngine {
	// Create a list of metrics engines to use.
	// Capacity of 2, as unlikely to have more than 2 metrics backends, and in the case
	// of 1 we won't use the list so it will be garbage collected.
	engineList := make(MultiMetricsEngine, 0, 2)
	returnEngine := DetailedMetricsEngine{}

	if cfg.Metrics.Influxdb.Host != "" {
		// Currently use go-metrics as the metrics piece for influx
		returnEngine.GoMetrics = metrics.NewMetrics(gometrics.NewPrefixedRegistry("vast."))
		engineList = append(engineList, returnEngine.GoMetrics)
		// Set up the Influx logger
		go influxdb.InfluxDB(
			returnEngine.GoMetrics.MetricsRegistry,
			time.Second*time.Duration(cfg.Metrics.Influxdb.MetricSendInterval),
			cfg.Metrics.Influxdb.Host,
			cfg.Metrics.Influxdb.Database,
			cfg.Metrics.Influxdb.Measurement,
			cfg.Metrics.Influxdb.Username,
			cfg.Metrics.Influxdb.Password,
			true,
		)
		// Influx is not added to the engine list as goMetrics takes care of it already.
		glog.Infof("Reporting go-metrics to InfluxDB at %s every %ds", cfg.Metrics.Influxdb.Host, cfg.Metrics.Influxdb.MetricSendInterval)
	}
	if cfg.Metrics.Prometheus.Port != 0 {
		// Set up the Prometheus metrics.
		returnEngine.PrometheusMetrics = prometheusmetrics.NewMetrics(cfg.Metrics.Prometheus)
		engineList = append(engineList, returnEngine.PrometheusMetrics)
	}

	// Now return the proper metrics engine
	if len(engineList) > 1 {
		returnEngine.MetricsEngine = &engineList
	} else if len(engineList) == 1 {
		returnEngine.MetricsEngine = engineList[0]
	} else {
		returnEngine.MetricsEngine = &NilMetricsEngine{}
	}

	return &returnEngine
}

// DetailedMetricsEngine is a MultiMetricsEngine that preserves links to underlying metrics engines.
type DetailedMetricsEngine struct {
	metrics.MetricsEngine
	GoMetrics         *metrics.Metrics
	PrometheusMetrics *prometheusmetrics.Metrics
}

// MultiMetricsEngine logs metrics to multiple metrics databases The can be useful in transitioning
// an instance from one engine to another, you can run both in parallel to verify stats match up.
type MultiMetricsEngine []metrics.MetricsEngine

// RecordResolution across all engines
func (me *MultiMetricsEngine) RecordResolution(labels metrics.ResolutionLabels) {
	for _, thisME := range *me {
		thisME.RecordResolution(labels)
	}
}

// RecordResolutionDepth across all engines
func (me *MultiMetricsEngine) RecordResolutionDepth(depth int) {
	for _, thisME := range *me {
		thisME.RecordResolutionDepth(depth)
	}
}

// RecordWrapperFetch across all engines
func (me *MultiMetricsEngine) RecordWrapperFetch(labels metrics.FetchLabels, length time.Duration) {
	for _, thisME := range *me {
		thisME.RecordWrapperFetch(labels, length)
	}
}

// RecordDocumentCacheResult across all engines
func (me *MultiMetricsEngine) RecordDocumentCacheResult(cacheResult metrics.CacheResult, inc int) {
	for _, thisME := range *me {
		thisME.RecordDocumentCacheResult(cacheResult, inc)
	}
}

// RecordTrackerPing across all engines
func (me *MultiMetricsEngine) RecordTrackerPing(labels metrics.TrackerLabels) {
	for _, thisME := range *me {
		thisME.RecordTrackerPing(labels)
	}
}

// NilMetricsEngine implements the MetricsEngine interface where no metrics are desired.
type NilMetricsEngine = metrics.NilMetricsEngine
