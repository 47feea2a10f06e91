package resolver

import (
	"context"

	"github.com/prebid/prebid-vast/logger"
	"github.com/prebid/prebid-vast/metrics"
	"github.com/prebid/prebid-vast/vast"
)

// Resolver binds a Fetcher, its limits and a metrics engine. It holds no
// per resolution state and is safe for concurrent use.
type Resolver struct {
	fetcher Fetcher
	cfg     Config
	me      metrics.MetricsEngine
}

func New(fetcher Fetcher, cfg Config, me metrics.MetricsEngine) *Resolver {
	if me == nil {
		me = &metrics.NilMetricsEngine{}
	}
	return &Resolver{
		fetcher: fetcher,
		cfg:     cfg.withDefaults(),
		me:      me,
	}
}

// Resolve resolves an already parsed document.
func (r *Resolver) Resolve(ctx context.Context, doc *vast.Document) *ResolvedAd {
	result := resolve(ctx, doc, r.fetcher, r.cfg, newChainState())
	r.record("document", result)
	return result
}

// ResolveTag fetches the document at uri and resolves it. The root fetch does
// not count towards the depth limit, but uri is marked visited.
func (r *Resolver) ResolveTag(ctx context.Context, uri string) *ResolvedAd {
	state := newChainState()
	state.visited[uri] = struct{}{}

	var result *ResolvedAd
	doc, err := fetchHop(ctx, r.fetcher, uri, r.cfg.TimeoutPerHop)
	switch {
	case err != nil && ctx.Err() != nil:
		result = state.result(OutcomeCanceled, ctx.Err())
	case err != nil:
		result = state.result(OutcomeFetchFailed, err)
	default:
		result = resolve(ctx, doc, r.fetcher, r.cfg, state)
	}
	r.record(uri, result)
	return result
}

func (r *Resolver) record(source string, result *ResolvedAd) {
	r.me.RecordResolution(metrics.ResolutionLabels{Outcome: result.Outcome.metricsOutcome()})
	r.me.RecordResolutionDepth(result.Depth)

	if result.Err != nil {
		logger.Debugf("vast resolution of %s: outcome=%s depth=%d err=%v", source, result.Outcome, result.Depth, result.Err)
		return
	}
	logger.Debugf("vast resolution of %s: outcome=%s depth=%d impressions=%d", source, result.Outcome, result.Depth, len(result.Trackers.Impressions))
}
