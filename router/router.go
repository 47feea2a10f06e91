package router

import (
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
	"github.com/prebid/prebid-vast/config"
	"github.com/prebid/prebid-vast/endpoints"
	metricsConf "github.com/prebid/prebid-vast/metrics/config"
	"github.com/prebid/prebid-vast/tracking"
	"github.com/prebid/prebid-vast/vast/fetcher"
	"github.com/prebid/prebid-vast/vast/resolver"
	"github.com/rs/cors"
)

// Router serves the public endpoints and owns the components behind them.
type Router struct {
	*httprouter.Router
	MetricsEngine *metricsConf.DetailedMetricsEngine
	Resolver      *resolver.Resolver
	Emitter       *tracking.Emitter
	Shutdown      func()
}

func getTransport(cfg *config.Configuration) *http.Transport {
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		MaxConnsPerHost: cfg.Client.MaxConnsPerHost,
		IdleConnTimeout: time.Duration(cfg.Client.IdleConnTimeout) * time.Second,
	}

	if cfg.Client.MaxIdleConns > 0 {
		transport.MaxIdleConns = cfg.Client.MaxIdleConns
	}
	if cfg.Client.MaxIdleConnsPerHost > 0 {
		transport.MaxIdleConnsPerHost = cfg.Client.MaxIdleConnsPerHost
	}
	return transport
}

// New builds the resolver, the tracking emitter and their shared HTTP client from cfg,
// and registers the VAST endpoints.
func New(cfg *config.Configuration) (r *Router, err error) {
	r = &Router{
		Router: httprouter.New(),
	}

	generalHttpClient := &http.Client{
		Transport: getTransport(cfg),
	}

	r.MetricsEngine = metricsConf.NewMetricsEngine(cfg)

	wrapperFetcher := fetcher.NewHTTPFetcher(generalHttpClient, cfg.Fetcher, r.MetricsEngine)
	r.Resolver = resolver.New(wrapperFetcher, resolver.Config{
		MaxDepth:      cfg.Resolver.MaxDepth,
		TimeoutPerHop: cfg.Resolver.TimeoutPerHop(),
	}, r.MetricsEngine)
	r.Emitter = tracking.NewEmitter(generalHttpClient, cfg.Tracking, r.MetricsEngine)

	resolveEndpoint := endpoints.NewResolveEndpoint(r.Resolver, r.Emitter, cfg.Fetcher.MaxResponseBytes)
	r.GET("/vast/resolve", resolveEndpoint)
	r.POST("/vast/resolve", resolveEndpoint)
	r.POST("/vast/track", endpoints.NewTrackEndpoint(r.Emitter, 0))
	r.GET("/status", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Shutdown = func() {
		glog.Info("waiting for in flight tracking pings")
		r.Emitter.Close()
	}

	return r, nil
}

// Admin returns the handler served on the admin port.
func Admin(version, revision string) http.Handler {
	admin := httprouter.New()
	admin.GET("/version", endpoints.NewVersionEndpoint(version, revision))
	return admin
}

func SupportCORS(handler http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowCredentials: true,
		AllowOriginFunc: func(string) bool {
			return true
		},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept"},
		ExposedHeaders: []string{"X-Request-Id"},
	})
	return c.Handler(handler)
}

type NoCache struct {
	Handler http.Handler
}

func (m NoCache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Add("Pragma", "no-cache")
	w.Header().Add("Expires", "0")
	m.Handler.ServeHTTP(w, r)
}
