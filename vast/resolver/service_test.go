package resolver

import (
	"context"
	"testing"

	"github.com/prebid/prebid-vast/errortypes"
	"github.com/prebid/prebid-vast/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetricsMock(outcome metrics.ResolutionOutcome, depth int) *metrics.MetricsEngineMock {
	me := &metrics.MetricsEngineMock{}
	me.On("RecordResolution", metrics.ResolutionLabels{Outcome: outcome}).Once()
	me.On("RecordResolutionDepth", depth).Once()
	return me
}

func TestResolverResolve(t *testing.T) {
	f := newFakeFetcher()
	root := buildChain(t, f, 2)
	me := newMetricsMock(metrics.OutcomeInLine, 2)

	r := New(f, Config{MaxDepth: 3}, me)
	result := r.Resolve(context.Background(), root)

	assert.Equal(t, OutcomeInLine, result.Outcome)
	me.AssertExpectations(t)
}

func TestResolverRecordsDepthExceeded(t *testing.T) {
	f := newFakeFetcher()
	root := buildChain(t, f, 3)
	me := newMetricsMock(metrics.OutcomeDepthExceeded, 2)

	r := New(f, Config{MaxDepth: 2}, me)
	result := r.Resolve(context.Background(), root)

	assert.Equal(t, OutcomeDepthExceeded, result.Outcome)
	me.AssertExpectations(t)
}

func TestResolverNilMetrics(t *testing.T) {
	f := newFakeFetcher()
	root := buildChain(t, f, 1)

	r := New(f, Config{}, nil)

	assert.NotPanics(t, func() {
		result := r.Resolve(context.Background(), root)
		assert.Equal(t, OutcomeInLine, result.Outcome)
	})
}

func TestResolverResolveTag(t *testing.T) {
	f := newFakeFetcher()
	f.docs["http://root"] = parseDoc(t, wrapperXML("A", "http://a", "http://imp/a", ""))
	f.docs["http://a"] = parseDoc(t, inlineXML("B", "http://imp/b"))
	me := newMetricsMock(metrics.OutcomeInLine, 1)

	r := New(f, Config{}, me)
	result := r.ResolveTag(context.Background(), "http://root")

	require.Equal(t, OutcomeInLine, result.Outcome)
	assert.Equal(t, []string{"http://imp/a", "http://imp/b"}, result.Trackers.Impressions)
	assert.Equal(t, 1, result.Depth, "the root fetch is not a redirect")
	assert.Equal(t, []string{"http://root", "http://a"}, f.calls)
	me.AssertExpectations(t)
}

func TestResolverResolveTagCycleToRoot(t *testing.T) {
	f := newFakeFetcher()
	f.docs["http://root"] = parseDoc(t, wrapperXML("A", "http://root", "http://imp/a", ""))
	me := newMetricsMock(metrics.OutcomeCycle, 0)

	r := New(f, Config{}, me)
	result := r.ResolveTag(context.Background(), "http://root")

	assert.Equal(t, OutcomeCycle, result.Outcome)
	assert.Equal(t, 1, f.callCount())
	me.AssertExpectations(t)
}

func TestResolverResolveTagFetchFailed(t *testing.T) {
	f := newFakeFetcher()
	f.errs["http://root"] = &errortypes.MalformedResponse{Message: "garbage"}
	me := newMetricsMock(metrics.OutcomeFetchFailed, 0)

	r := New(f, Config{}, me)
	result := r.ResolveTag(context.Background(), "http://root")

	assert.Equal(t, OutcomeFetchFailed, result.Outcome)
	assert.Equal(t, errortypes.XMLParseErrorCode, result.ErrorCode())
	assert.Empty(t, result.Trackers.Impressions)
	me.AssertExpectations(t)
}

func TestResolverResolveTagCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	me := newMetricsMock(metrics.OutcomeCanceled, 0)

	r := New(newFakeFetcher(), Config{}, me)
	result := r.ResolveTag(ctx, "http://root")

	assert.Equal(t, OutcomeCanceled, result.Outcome)
	me.AssertExpectations(t)
}
