package metrics

import (
	"testing"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
)

func TestNewMetrics(t *testing.T) {
	registry := metrics.NewRegistry()
	m := NewMetrics(registry)

	ensureContains(t, registry, "resolutions.inline", m.ResolutionMeters[OutcomeInLine])
	ensureContains(t, registry, "resolutions.depth_exceeded", m.ResolutionMeters[OutcomeDepthExceeded])
	ensureContains(t, registry, "resolution_depth", m.ResolutionDepth)
	ensureContains(t, registry, "wrapper_fetch.timeout.request_time", m.WrapperFetchTimers[FetchTimeout])
	ensureContains(t, registry, "document_cache_hit", m.DocumentCacheMeter[CacheHit])
	ensureContains(t, registry, "tracker_pings.dropped", m.TrackerPingMeter[TrackerDropped])
}

func TestRecordResolution(t *testing.T) {
	m := NewMetrics(metrics.NewRegistry())

	m.RecordResolution(ResolutionLabels{Outcome: OutcomeCycle})
	m.RecordResolution(ResolutionLabels{Outcome: OutcomeCycle})
	m.RecordResolution(ResolutionLabels{Outcome: "unknown"})
	m.RecordResolutionDepth(3)

	assert.Equal(t, int64(2), m.ResolutionMeters[OutcomeCycle].Count())
	assert.Equal(t, int64(0), m.ResolutionMeters[OutcomeInLine].Count())
	assert.Equal(t, int64(1), m.ResolutionDepth.Count())
	assert.Equal(t, int64(3), m.ResolutionDepth.Max())
}

func TestRecordWrapperFetch(t *testing.T) {
	m := NewMetrics(metrics.NewRegistry())

	m.RecordWrapperFetch(FetchLabels{Status: FetchOK}, 20*time.Millisecond)
	m.RecordWrapperFetch(FetchLabels{Status: FetchMalformed}, 5*time.Millisecond)

	assert.Equal(t, int64(1), m.WrapperFetchTimers[FetchOK].Count())
	assert.Equal(t, int64(20*time.Millisecond), m.WrapperFetchTimers[FetchOK].Max())
	assert.Equal(t, int64(1), m.WrapperFetchTimers[FetchMalformed].Count())
}

func TestRecordDocumentCacheResult(t *testing.T) {
	m := NewMetrics(metrics.NewRegistry())

	m.RecordDocumentCacheResult(CacheHit, 2)
	m.RecordDocumentCacheResult(CacheMiss, 1)

	assert.Equal(t, int64(2), m.DocumentCacheMeter[CacheHit].Count())
	assert.Equal(t, int64(1), m.DocumentCacheMeter[CacheMiss].Count())
}

func TestRecordTrackerPing(t *testing.T) {
	registry := metrics.NewRegistry()
	m := NewMetrics(registry)

	m.RecordTrackerPing(TrackerLabels{Event: "impression", Status: TrackerOK})
	m.RecordTrackerPing(TrackerLabels{Event: "impression", Status: TrackerFailed})
	m.RecordTrackerPing(TrackerLabels{Event: "error", Status: TrackerOK})

	assert.Equal(t, int64(2), m.TrackerPingMeter[TrackerOK].Count())
	assert.Equal(t, int64(1), m.TrackerPingMeter[TrackerFailed].Count())
	perEvent, ok := registry.Get("tracker_pings.impression.ok").(metrics.Meter)
	assert.True(t, ok)
	assert.Equal(t, int64(1), perEvent.Count())
}

func TestBlankMetricsRecordNothing(t *testing.T) {
	registry := metrics.NewRegistry()
	m := NewBlankMetrics(registry)

	m.RecordResolution(ResolutionLabels{Outcome: OutcomeInLine})
	m.RecordWrapperFetch(FetchLabels{Status: FetchOK}, time.Second)

	assert.Equal(t, int64(0), m.ResolutionMeters[OutcomeInLine].Count())
	assert.Nil(t, registry.Get("resolutions.inline"))
}

func ensureContains(t *testing.T, registry metrics.Registry, name string, metric interface{}) {
	t.Helper()
	if inRegistry := registry.Get(name); inRegistry == nil {
		t.Errorf("No metric in registry at %s.", name)
	} else if inRegistry != metric {
		t.Errorf("Bad value stored at metric %s.", name)
	}
}
