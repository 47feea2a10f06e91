package metrics

import "time"

// NilMetricsEngine implements MetricsEngine, swallowing every metric.
// The server uses it when no metrics backend is configured.
type NilMetricsEngine struct{}

func (me *NilMetricsEngine) RecordResolution(labels ResolutionLabels) {
}

func (me *NilMetricsEngine) RecordResolutionDepth(depth int) {
}

func (me *NilMetricsEngine) RecordWrapperFetch(labels FetchLabels, length time.Duration) {
}

func (me *NilMetricsEngine) RecordDocumentCacheResult(cacheResult CacheResult, inc int) {
}

func (me *NilMetricsEngine) RecordTrackerPing(labels TrackerLabels) {
}
