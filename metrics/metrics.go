package metrics

import (
	"time"
)

// ResolutionOutcome is how a wrapper chain resolution ended.
type ResolutionOutcome string

const (
	OutcomeInLine        ResolutionOutcome = "inline"
	OutcomeNoAd          ResolutionOutcome = "no_ad"
	OutcomeDepthExceeded ResolutionOutcome = "depth_exceeded"
	OutcomeCycle         ResolutionOutcome = "cycle"
	OutcomeFetchFailed   ResolutionOutcome = "fetch_failed"
	OutcomeCanceled      ResolutionOutcome = "canceled"
)

func ResolutionOutcomes() []ResolutionOutcome {
	return []ResolutionOutcome{
		OutcomeInLine,
		OutcomeNoAd,
		OutcomeDepthExceeded,
		OutcomeCycle,
		OutcomeFetchFailed,
		OutcomeCanceled,
	}
}

// ResolutionLabels defines the labels attached to a finished resolution.
type ResolutionLabels struct {
	Outcome ResolutionOutcome
}

// FetchStatus is the result of downloading one wrapper redirect.
type FetchStatus string

const (
	FetchOK        FetchStatus = "ok"
	FetchTimeout   FetchStatus = "timeout"
	FetchNetwork   FetchStatus = "network"
	FetchMalformed FetchStatus = "malformed"
)

func FetchStatuses() []FetchStatus {
	return []FetchStatus{
		FetchOK,
		FetchTimeout,
		FetchNetwork,
		FetchMalformed,
	}
}

// FetchLabels defines the labels attached to a wrapper fetch.
type FetchLabels struct {
	Status FetchStatus
}

// CacheResult is a cache hit or miss.
type CacheResult string

const (
	CacheHit  CacheResult = "hit"
	CacheMiss CacheResult = "miss"
)

// CacheResults returns possible cache results.
func CacheResults() []CacheResult {
	return []CacheResult{
		CacheHit,
		CacheMiss,
	}
}

// TrackerStatus is the result of one tracking ping.
type TrackerStatus string

const (
	TrackerOK      TrackerStatus = "ok"
	TrackerFailed  TrackerStatus = "failed"
	TrackerDropped TrackerStatus = "dropped"
)

func TrackerStatuses() []TrackerStatus {
	return []TrackerStatus{
		TrackerOK,
		TrackerFailed,
		TrackerDropped,
	}
}

// TrackerLabels defines the labels attached to a tracking ping.
// Event must come from a bounded set, see tracking.Events.
type TrackerLabels struct {
	Event  string
	Status TrackerStatus
}

// MetricsEngine is a generic interface to record resolver metrics into the desired backend.
// RecordResolution and RecordResolutionDepth fire once per resolution, RecordWrapperFetch
// once per downloaded redirect and RecordTrackerPing once per tracking URL.
type MetricsEngine interface {
	RecordResolution(labels ResolutionLabels)
	RecordResolutionDepth(depth int)
	RecordWrapperFetch(labels FetchLabels, length time.Duration)
	RecordDocumentCacheResult(cacheResult CacheResult, inc int)
	RecordTrackerPing(labels TrackerLabels)
}
