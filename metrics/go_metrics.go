package metrics

import (
	"fmt"
	"time"

	"github.com/rcrowley/go-metrics"
)

// Metrics is the go-metrics implementation of MetricsEngine.
// The registry can be reported to InfluxDB, see metrics/config.
type Metrics struct {
	MetricsRegistry    metrics.Registry
	ResolutionMeters   map[ResolutionOutcome]metrics.Meter
	ResolutionDepth    metrics.Histogram
	WrapperFetchTimers map[FetchStatus]metrics.Timer
	DocumentCacheMeter map[CacheResult]metrics.Meter
	TrackerPingMeter   map[TrackerStatus]metrics.Meter
}

// NewBlankMetrics creates a new Metrics object with all blank metrics object. This may also be useful for
// testing routines to ensure that no metrics are written anywhere.
func NewBlankMetrics(registry metrics.Registry) *Metrics {
	blankMeter := &metrics.NilMeter{}
	newMetrics := &Metrics{
		MetricsRegistry:    registry,
		ResolutionMeters:   make(map[ResolutionOutcome]metrics.Meter),
		ResolutionDepth:    &metrics.NilHistogram{},
		WrapperFetchTimers: make(map[FetchStatus]metrics.Timer),
		DocumentCacheMeter: make(map[CacheResult]metrics.Meter),
		TrackerPingMeter:   make(map[TrackerStatus]metrics.Meter),
	}

	for _, o := range ResolutionOutcomes() {
		newMetrics.ResolutionMeters[o] = blankMeter
	}
	for _, s := range FetchStatuses() {
		newMetrics.WrapperFetchTimers[s] = &metrics.NilTimer{}
	}
	for _, c := range CacheResults() {
		newMetrics.DocumentCacheMeter[c] = blankMeter
	}
	for _, s := range TrackerStatuses() {
		newMetrics.TrackerPingMeter[s] = blankMeter
	}
	return newMetrics
}

// NewMetrics creates a new Metrics object with needed metrics defined. Use a prefixed
// registry such as gometrics.NewPrefixedRegistry("vast.") to namespace them.
func NewMetrics(registry metrics.Registry) *Metrics {
	newMetrics := NewBlankMetrics(registry)

	for _, o := range ResolutionOutcomes() {
		newMetrics.ResolutionMeters[o] = metrics.GetOrRegisterMeter(fmt.Sprintf("resolutions.%s", o), registry)
	}
	newMetrics.ResolutionDepth = metrics.GetOrRegisterHistogram("resolution_depth", registry, metrics.NewUniformSample(1028))
	for _, s := range FetchStatuses() {
		newMetrics.WrapperFetchTimers[s] = metrics.GetOrRegisterTimer(fmt.Sprintf("wrapper_fetch.%s.request_time", s), registry)
	}
	for _, c := range CacheResults() {
		newMetrics.DocumentCacheMeter[c] = metrics.GetOrRegisterMeter(fmt.Sprintf("document_cache_%s", c), registry)
	}
	for _, s := range TrackerStatuses() {
		newMetrics.TrackerPingMeter[s] = metrics.GetOrRegisterMeter(fmt.Sprintf("tracker_pings.%s", s), registry)
	}
	return newMetrics
}

func (me *Metrics) RecordResolution(labels ResolutionLabels) {
	if m, ok := me.ResolutionMeters[labels.Outcome]; ok {
		m.Mark(1)
	}
}

func (me *Metrics) RecordResolutionDepth(depth int) {
	me.ResolutionDepth.Update(int64(depth))
}

func (me *Metrics) RecordWrapperFetch(labels FetchLabels, length time.Duration) {
	if t, ok := me.WrapperFetchTimers[labels.Status]; ok {
		t.Update(length)
	}
}

func (me *Metrics) RecordDocumentCacheResult(cacheResult CacheResult, inc int) {
	if m, ok := me.DocumentCacheMeter[cacheResult]; ok {
		m.Mark(int64(inc))
	}
}

// RecordTrackerPing keeps one meter per status and one per event and status.
func (me *Metrics) RecordTrackerPing(labels TrackerLabels) {
	m, ok := me.TrackerPingMeter[labels.Status]
	if !ok {
		return
	}
	m.Mark(1)
	if labels.Event != "" {
		metrics.GetOrRegisterMeter(fmt.Sprintf("tracker_pings.%s.%s", labels.Event, labels.Status), me.MetricsRegistry).Mark(1)
	}
}
