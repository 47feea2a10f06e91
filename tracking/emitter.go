// Package tracking fires VAST tracking pixels. Firing never fails to the
// caller: every URL is pinged independently and failures are only logged
// and counted.
package tracking

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alitto/pond"
	"github.com/prebid/prebid-vast/config"
	"github.com/prebid/prebid-vast/logger"
	"github.com/prebid/prebid-vast/macros"
	"github.com/prebid/prebid-vast/metrics"
	"github.com/prebid/prebid-vast/vast"
	"golang.org/x/net/context/ctxhttp"
)

type WorkerPool interface {
	TrySubmit(task func()) bool
	StopAndWait()
}

// Emitter dispatches pings on a bounded worker pool. When the pool queue is
// full a ping is dropped rather than blocking the caller.
type Emitter struct {
	pool         WorkerPool
	client       *http.Client
	timeout      time.Duration
	replacer     macros.Replacer
	metricEngine metrics.MetricsEngine
}

func NewEmitter(client *http.Client, cfg config.Tracking, metricEngine metrics.MetricsEngine) *Emitter {
	return newEmitter(pond.New(cfg.MaxWorkers, cfg.MaxCapacity), client, cfg.Timeout(), metricEngine)
}

func newEmitter(pool WorkerPool, client *http.Client, timeout time.Duration, metricEngine metrics.MetricsEngine) *Emitter {
	if client == nil {
		client = http.DefaultClient
	}
	if metricEngine == nil {
		metricEngine = &metrics.NilMetricsEngine{}
	}
	return &Emitter{
		pool:         pool,
		client:       client,
		timeout:      timeout,
		replacer:     macros.NewReplacer(),
		metricEngine: metricEngine,
	}
}

// Fire expands the macros of every URL template and pings each one.
// Empty templates are skipped. A nil provider expands every macro to "".
func (e *Emitter) Fire(event string, urls []string, provider macros.Provider) {
	if provider == nil {
		provider = macros.NewProvider(macros.MacroContext{})
	}
	label := metricEvent(event)

	for _, template := range urls {
		if strings.TrimSpace(template) == "" {
			continue
		}
		target, err := e.replacer.Replace(template, provider)
		if err != nil {
			logger.Warnf("tracking: could not expand %s tracker %q: %v", event, template, err)
			e.record(label, metrics.TrackerFailed)
			continue
		}
		if !e.pool.TrySubmit(func() { e.ping(label, target) }) {
			logger.Warnf("tracking: worker pool full, dropped %s tracker %s", event, target)
			e.record(label, metrics.TrackerDropped)
		}
	}
}

// FireImpressions pings the impression URLs of every hop.
func (e *Emitter) FireImpressions(trackers vast.Trackers, provider macros.Provider) {
	e.Fire(EventImpression, trackers.Impressions, provider)
}

// FireError pings the error URLs of every hop with [ERRORCODE] set to code.
func (e *Emitter) FireError(trackers vast.Trackers, code int, provider macros.Provider) {
	if provider == nil {
		provider = macros.NewProvider(macros.MacroContext{})
	}
	e.Fire(EventError, trackers.Errors, macros.WithErrorCode(provider, code))
}

// FireEvent pings the URLs registered for a <Tracking> event such as "start" or "complete".
func (e *Emitter) FireEvent(trackers vast.Trackers, event string, provider macros.Provider) {
	e.Fire(event, trackers.TrackingEvents[event], provider)
}

func (e *Emitter) FireClickTracking(trackers vast.Trackers, provider macros.Provider) {
	e.Fire(EventClick, trackers.ClickTracking, provider)
}

// Close waits for queued and in flight pings.
func (e *Emitter) Close() {
	e.pool.StopAndWait()
}

func (e *Emitter) ping(label, target string) {
	ctx := context.Background()
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	if err := e.get(ctx, target); err != nil {
		logger.Warnf("tracking: %s tracker %s failed: %v", label, target, err)
		e.record(label, metrics.TrackerFailed)
		return
	}
	e.record(label, metrics.TrackerOK)
}

func (e *Emitter) get(ctx context.Context, target string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	httpResp, err := ctxhttp.Do(ctx, e.client, httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()
	io.Copy(io.Discard, httpResp.Body)

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected response status %d", httpResp.StatusCode)
	}
	return nil
}

func (e *Emitter) record(label string, status metrics.TrackerStatus) {
	e.metricEngine.RecordTrackerPing(metrics.TrackerLabels{Event: label, Status: status})
}
