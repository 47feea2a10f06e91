package tracking

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prebid/prebid-vast/config"
	"github.com/prebid/prebid-vast/macros"
	"github.com/prebid/prebid-vast/metrics"
	"github.com/prebid/prebid-vast/vast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type pixelServer struct {
	*httptest.Server
	mu   sync.Mutex
	hits []string
}

func newPixelServer(t *testing.T) *pixelServer {
	ps := &pixelServer{}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.mu.Lock()
		ps.hits = append(ps.hits, r.URL.RequestURI())
		ps.mu.Unlock()
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(ps.Close)
	return ps
}

func (ps *pixelServer) requests() []string {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	hits := append([]string(nil), ps.hits...)
	sort.Strings(hits)
	return hits
}

func testTracking() config.Tracking {
	return config.Tracking{MaxWorkers: 4, MaxCapacity: 64, TimeoutMS: 1000}
}

func TestFireHitsEveryURLOnce(t *testing.T) {
	ps := newPixelServer(t)
	me := &metrics.MetricsEngineMock{}
	me.On("RecordTrackerPing", metrics.TrackerLabels{Event: EventImpression, Status: metrics.TrackerOK}).Times(2)
	me.On("RecordTrackerPing", metrics.TrackerLabels{Event: EventImpression, Status: metrics.TrackerFailed}).Once()

	emitter := NewEmitter(ps.Client(), testTracking(), me)
	emitter.Fire(EventImpression, []string{ps.URL + "/a", "", ps.URL + "/fail", "  ", ps.URL + "/b"}, nil)
	emitter.Close()

	assert.Equal(t, []string{"/a", "/b", "/fail"}, ps.requests())
	me.AssertExpectations(t)
}

func TestFireExpandsMacros(t *testing.T) {
	ps := newPixelServer(t)
	mockClock := clock.NewMock()
	mockClock.Set(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	provider := macros.NewProvider(macros.MacroContext{
		AssetURI: "http://cdn/ad.mp4",
		Clock:    mockClock,
		Custom:   map[string]string{"campaign": "c 1"},
	})

	emitter := NewEmitter(ps.Client(), testTracking(), nil)
	emitter.Fire("start", []string{ps.URL + "/s?asset=[ASSETURI]&ts=[TIMESTAMP]&c=[CAMPAIGN]&u=[UNKNOWN]&keep=[lower]"}, provider)
	emitter.Close()

	require.Len(t, ps.requests(), 1)
	assert.Equal(t, "/s?asset=http%3A%2F%2Fcdn%2Fad.mp4&ts=2024-03-01T12%3A00%3A00.000Z&c=c+1&u=&keep=[lower]", ps.requests()[0])
}

func TestFireError(t *testing.T) {
	ps := newPixelServer(t)
	trackers := vast.Trackers{Errors: []string{ps.URL + "/e1?code=[ERRORCODE]", ps.URL + "/e2?code=[ERRORCODE]"}}

	emitter := NewEmitter(ps.Client(), testTracking(), nil)
	emitter.FireError(trackers, 303, nil)
	emitter.Close()

	assert.Equal(t, []string{"/e1?code=303", "/e2?code=303"}, ps.requests())
}

func TestFireLifecycleHelpers(t *testing.T) {
	ps := newPixelServer(t)
	trackers := vast.Trackers{
		Impressions:    []string{ps.URL + "/imp/a", ps.URL + "/imp/b"},
		TrackingEvents: vast.TrackingEvents{"start": {ps.URL + "/start"}, "complete": {ps.URL + "/complete"}},
		ClickTracking:  []string{ps.URL + "/click"},
	}

	emitter := NewEmitter(ps.Client(), testTracking(), nil)
	emitter.FireImpressions(trackers, nil)
	emitter.FireEvent(trackers, "start", nil)
	emitter.FireEvent(trackers, "skip", nil)
	emitter.FireClickTracking(trackers, nil)
	emitter.Close()

	assert.Equal(t, []string{"/click", "/imp/a", "/imp/b", "/start"}, ps.requests())
}

func TestFireUnreachableDoesNotStopOthers(t *testing.T) {
	ps := newPixelServer(t)
	me := &metrics.MetricsEngineMock{}
	me.On("RecordTrackerPing", mock.Anything).Return()

	emitter := NewEmitter(ps.Client(), testTracking(), me)
	emitter.Fire("complete", []string{"http://127.0.0.1:1/unreachable", "::not a url", ps.URL + "/ok"}, nil)
	emitter.Close()

	assert.Equal(t, []string{"/ok"}, ps.requests())
	me.AssertCalled(t, "RecordTrackerPing", metrics.TrackerLabels{Event: "complete", Status: metrics.TrackerOK})
	me.AssertCalled(t, "RecordTrackerPing", metrics.TrackerLabels{Event: "complete", Status: metrics.TrackerFailed})
}

type fullPool struct{}

func (fullPool) TrySubmit(task func()) bool { return false }
func (fullPool) StopAndWait()               {}

func TestFireDropsWhenPoolIsFull(t *testing.T) {
	me := &metrics.MetricsEngineMock{}
	me.On("RecordTrackerPing", metrics.TrackerLabels{Event: EventOther, Status: metrics.TrackerDropped}).Times(2)

	emitter := newEmitter(fullPool{}, nil, time.Second, me)

	done := make(chan struct{})
	go func() {
		emitter.Fire("customEvent", []string{"http://a", "http://b"}, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Fire blocked on a full pool")
	}
	me.AssertExpectations(t)
}

func TestMetricEvent(t *testing.T) {
	assert.Equal(t, "start", metricEvent("start"))
	assert.Equal(t, EventImpression, metricEvent(EventImpression))
	assert.Equal(t, EventOther, metricEvent("made-up"))
	assert.Equal(t, EventOther, metricEvent(""))
}
