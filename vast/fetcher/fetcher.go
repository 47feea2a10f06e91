// Package fetcher downloads wrapper redirects over HTTP.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	validator "github.com/asaskevich/govalidator"
	"github.com/golang/glog"
	"github.com/patrickmn/go-cache"
	"github.com/prebid/prebid-vast/config"
	"github.com/prebid/prebid-vast/errortypes"
	"github.com/prebid/prebid-vast/metrics"
	"github.com/prebid/prebid-vast/vast"
	"github.com/prebid/prebid-vast/vast/xmltree"
	"golang.org/x/net/context/ctxhttp"
	"golang.org/x/sync/singleflight"
)

// HTTPFetcher implements resolver.Fetcher. Concurrent fetches of one URI
// share a single request and, when a TTL is configured, parsed documents
// are cached by URI.
type HTTPFetcher struct {
	client       *http.Client
	cfg          config.Fetcher
	cache        *cache.Cache // nil when caching is disabled
	fetchGroup   singleflight.Group
	metricEngine metrics.MetricsEngine
}

func NewHTTPFetcher(client *http.Client, cfg config.Fetcher, metricEngine metrics.MetricsEngine) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if metricEngine == nil {
		metricEngine = &metrics.NilMetricsEngine{}
	}

	fetcher := &HTTPFetcher{
		client:       client,
		cfg:          cfg,
		metricEngine: metricEngine,
	}
	if cfg.CacheTTLSeconds > 0 {
		fetcher.cache = cache.New(time.Duration(cfg.CacheTTLSeconds)*time.Second, time.Duration(cfg.CacheCleanupSeconds)*time.Second)
	}
	return fetcher
}

// Fetch returns the document behind uri. The returned document is shared with
// other callers and must not be modified.
func (f *HTTPFetcher) Fetch(ctx context.Context, uri string) (*vast.Document, error) {
	if !validator.IsRequestURL(uri) {
		f.metricEngine.RecordWrapperFetch(metrics.FetchLabels{Status: metrics.FetchNetwork}, 0)
		return nil, &errortypes.NetworkFailure{Message: fmt.Sprintf("invalid wrapper URI %q", uri)}
	}

	if f.cache != nil {
		if cached, found := f.cache.Get(uri); found {
			if doc, ok := cached.(*vast.Document); ok {
				f.metricEngine.RecordDocumentCacheResult(metrics.CacheHit, 1)
				return doc, nil
			}
		}
		f.metricEngine.RecordDocumentCacheResult(metrics.CacheMiss, 1)
	}

	// The shared download outlives any single caller and is bounded by the fetcher timeout.
	detached := context.WithoutCancel(ctx)
	resultChan := f.fetchGroup.DoChan(uri, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(detached, f.cfg.Timeout())
		defer cancel()

		doc, err := f.download(fetchCtx, uri)
		if err != nil {
			return nil, err
		}
		if f.cache != nil {
			f.cache.SetDefault(uri, doc)
		}
		return doc, nil
	})

	select {
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*vast.Document), nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &errortypes.Timeout{
				Message: fmt.Sprintf("gave up waiting for %s", uri),
				Cause:   ctx.Err(),
			}
		}
		return nil, ctx.Err()
	}
}

func (f *HTTPFetcher) download(ctx context.Context, uri string) (*vast.Document, error) {
	startTime := time.Now()
	doc, err := f.doRequest(ctx, uri)
	f.metricEngine.RecordWrapperFetch(metrics.FetchLabels{Status: fetchStatus(err)}, time.Since(startTime))
	if err != nil {
		glog.Warningf("Error fetching VAST wrapper %s: %v", uri, err)
	}
	return doc, err
}

func (f *HTTPFetcher) doRequest(ctx context.Context, uri string) (*vast.Document, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &errortypes.NetworkFailure{Message: fmt.Sprintf("build request failed: %v", err), Cause: err}
	}
	httpReq.Header.Set("Accept", "application/xml")
	if f.cfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", f.cfg.UserAgent)
	}

	httpResp, err := ctxhttp.Do(ctx, f.client, httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &errortypes.Timeout{
				Message: fmt.Sprintf("no response from %s within %s", uri, f.cfg.Timeout()),
				Cause:   context.DeadlineExceeded,
			}
		}
		return nil, &errortypes.NetworkFailure{Message: fmt.Sprintf("request failed: %v", err), Cause: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusNoContent {
		return &vast.Document{}, nil
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, &errortypes.NetworkFailure{Message: fmt.Sprintf("unexpected response status %d", httpResp.StatusCode)}
	}

	body, err := readBody(httpResp.Body, f.cfg.MaxResponseBytes)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &errortypes.Timeout{
				Message: fmt.Sprintf("response from %s not read within %s", uri, f.cfg.Timeout()),
				Cause:   context.DeadlineExceeded,
			}
		}
		return nil, err
	}

	root, err := xmltree.Parse(body)
	if err != nil {
		return nil, &errortypes.MalformedResponse{Message: fmt.Sprintf("invalid XML: %v", err), Cause: err}
	}
	return vast.ParseDocument(root)
}

// readBody reads at most limit bytes. A limit <= 0 means unbounded.
func readBody(body io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, &errortypes.NetworkFailure{Message: fmt.Sprintf("error reading response: %v", err), Cause: err}
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, &errortypes.NetworkFailure{Message: fmt.Sprintf("error reading response: %v", err), Cause: err}
	}
	if int64(len(data)) > limit {
		return nil, &errortypes.MalformedResponse{Message: fmt.Sprintf("response is larger than %d bytes", limit)}
	}
	return data, nil
}

func fetchStatus(err error) metrics.FetchStatus {
	if err == nil {
		return metrics.FetchOK
	}
	var timeout *errortypes.Timeout
	if errors.As(err, &timeout) {
		return metrics.FetchTimeout
	}
	var malformed *errortypes.MalformedResponse
	if errors.As(err, &malformed) {
		return metrics.FetchMalformed
	}
	return metrics.FetchNetwork
}
