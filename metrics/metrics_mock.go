package metrics

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MetricsEngineMock is mock for the MetricsEngine interface
type MetricsEngineMock struct {
	mock.Mock
}

// RecordResolution mock
func (me *MetricsEngineMock) RecordResolution(labels ResolutionLabels) {
	me.Called(labels)
}

// RecordResolutionDepth mock
func (me *MetricsEngineMock) RecordResolutionDepth(depth int) {
	me.Called(depth)
}

// RecordWrapperFetch mock
func (me *MetricsEngineMock) RecordWrapperFetch(labels FetchLabels, length time.Duration) {
	me.Called(labels, length)
}

// RecordDocumentCacheResult mock
func (me *MetricsEngineMock) RecordDocumentCacheResult(cacheResult CacheResult, inc int) {
	me.Called(cacheResult, inc)
}

// RecordTrackerPing mock
func (me *MetricsEngineMock) RecordTrackerPing(labels TrackerLabels) {
	me.Called(labels)
}
