// Package resolver follows VAST wrapper redirects until an inline ad is found,
// collecting the trackers of every hop on the way.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prebid/prebid-vast/errortypes"
	"github.com/prebid/prebid-vast/vast"
)

// DefaultMaxDepth is the number of wrapper redirects followed when Config.MaxDepth is unset.
const DefaultMaxDepth = 5

// Fetcher downloads and parses the VAST document behind a wrapper's tag URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (*vast.Document, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, uri string) (*vast.Document, error)

func (f FetcherFunc) Fetch(ctx context.Context, uri string) (*vast.Document, error) {
	return f(ctx, uri)
}

type Config struct {
	// MaxDepth <= 0 means DefaultMaxDepth.
	MaxDepth int
	// TimeoutPerHop bounds each fetch. <= 0 leaves only the caller's deadline.
	TimeoutPerHop time.Duration
}

func (cfg Config) withDefaults() Config {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return cfg
}

// ResolvedAd is the result of a resolution. Trackers holds whatever was
// gathered before the chain ended, whatever the outcome.
type ResolvedAd struct {
	Outcome Outcome
	// Ad is set only for OutcomeInLine.
	Ad       *vast.InLineAd
	Trackers vast.Trackers
	// Chain lists the wrappers traversed, root first.
	Chain []*vast.WrapperAd
	// Depth is the number of redirects fetched.
	Depth int
	Err   error
	// ParseErrors collects the ParseErrors of every document in the chain, root first.
	ParseErrors []error

	// FollowAdditionalWrappers is false if any wrapper in Chain said so.
	FollowAdditionalWrappers bool
	// AllowMultipleAds is the last explicit value found in Chain.
	AllowMultipleAds *bool
}

// ErrorCode is the VAST error code to report through the [ERRORCODE] macro, 0 when there is nothing to report.
func (r *ResolvedAd) ErrorCode() int {
	switch r.Outcome {
	case OutcomeDepthExceeded, OutcomeCycle:
		return errortypes.WrapperLimitErrorCode
	case OutcomeFetchFailed:
		return errortypes.ReadCode(r.Err)
	case OutcomeNoAd:
		return errortypes.NoAdsAfterWrapperErrorCode
	}
	return 0
}

// Playable reports whether resolution reached an inline ad with creatives.
func (r *ResolvedAd) Playable() bool {
	return r.Outcome == OutcomeInLine && r.Ad != nil && r.Ad.Playable()
}

// chainState is owned by a single resolution.
type chainState struct {
	depth         int
	visited       map[string]struct{}
	trackers      vast.Trackers
	chain         []*vast.WrapperAd
	follow        bool
	allowMultiple *bool
	parseErrors   []error
}

func newChainState() *chainState {
	return &chainState{
		visited: make(map[string]struct{}),
		follow:  true,
	}
}

func (s *chainState) result(outcome Outcome, err error) *ResolvedAd {
	return &ResolvedAd{
		Outcome:                  outcome,
		Trackers:                 s.trackers,
		Chain:                    s.chain,
		Depth:                    s.depth,
		Err:                      err,
		FollowAdditionalWrappers: s.follow,
		AllowMultipleAds:         s.allowMultiple,
		ParseErrors:              s.parseErrors,
	}
}

// Resolve walks the wrapper chain starting at root. It always terminates:
// the chain is bounded by cfg.MaxDepth and a tag URI is never fetched twice.
// Resolve never fires trackers.
func Resolve(ctx context.Context, root *vast.Document, fetch Fetcher, cfg Config) *ResolvedAd {
	return resolve(ctx, root, fetch, cfg.withDefaults(), newChainState())
}

func resolve(ctx context.Context, doc *vast.Document, fetch Fetcher, cfg Config, state *chainState) *ResolvedAd {
	for {
		if doc != nil {
			state.trackers.Errors = append(state.trackers.Errors, doc.Errors...)
			state.parseErrors = append(state.parseErrors, doc.ParseErrors...)
		}

		candidate := doc.FirstAd()
		if candidate == nil {
			return state.result(OutcomeNoAd, nil)
		}
		state.trackers.Append(candidate)

		var wrapper *vast.WrapperAd
		switch ad := candidate.(type) {
		case *vast.InLineAd:
			result := state.result(OutcomeInLine, nil)
			result.Ad = ad
			return result
		case *vast.WrapperAd:
			wrapper = ad
		default:
			return state.result(OutcomeNoAd, fmt.Errorf("unsupported ad type %T", candidate))
		}

		state.chain = append(state.chain, wrapper)
		state.follow = state.follow && wrapper.FollowAdditionalWrappers
		if wrapper.AllowMultipleAds != nil {
			state.allowMultiple = wrapper.AllowMultipleAds
		}

		if state.depth+1 > cfg.MaxDepth {
			return state.result(OutcomeDepthExceeded, nil)
		}
		if _, seen := state.visited[wrapper.AdTagURI]; seen {
			return state.result(OutcomeCycle, nil)
		}
		if err := ctx.Err(); err != nil {
			return state.result(OutcomeCanceled, err)
		}

		state.visited[wrapper.AdTagURI] = struct{}{}
		state.depth++

		next, err := fetchHop(ctx, fetch, wrapper.AdTagURI, cfg.TimeoutPerHop)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return state.result(OutcomeCanceled, ctxErr)
			}
			if wrapper.FallbackOnNoAd != nil && *wrapper.FallbackOnNoAd {
				return state.result(OutcomeNoAd, err)
			}
			return state.result(OutcomeFetchFailed, err)
		}
		doc = next
	}
}

type fetchResult struct {
	doc *vast.Document
	err error
}

// fetchHop runs one fetch under the per hop deadline. The wait ends at the
// deadline even if the Fetcher does not honour its context.
func fetchHop(ctx context.Context, fetch Fetcher, uri string, timeout time.Duration) (*vast.Document, error) {
	hopCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		hopCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan fetchResult, 1)
	go func() {
		doc, err := fetch.Fetch(hopCtx, uri)
		done <- fetchResult{doc: doc, err: err}
	}()

	var res fetchResult
	select {
	case res = <-done:
	case <-hopCtx.Done():
		res = fetchResult{err: hopCtx.Err()}
	}

	if res.err == nil {
		if res.doc == nil {
			res.doc = &vast.Document{}
		}
		return res.doc, nil
	}

	if errors.Is(res.err, context.DeadlineExceeded) && ctx.Err() == nil {
		var timeoutErr *errortypes.Timeout
		if !errors.As(res.err, &timeoutErr) {
			return nil, &errortypes.Timeout{
				Message: fmt.Sprintf("wrapper %s did not answer within %s", uri, timeout),
				Cause:   res.err,
			}
		}
	}
	return nil, res.err
}
