package endpoints

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
	"github.com/prebid/prebid-vast/errortypes"
	"github.com/prebid/prebid-vast/macros"
	"github.com/prebid/prebid-vast/vast"
	"github.com/prebid/prebid-vast/vast/resolver"
	"github.com/prebid/prebid-vast/vast/xmltree"
)

const (
	requestIDHeader = "X-Request-Id"

	tagParameter  = "tag"
	fireParameter = "fire"

	defaultMaxBodyBytes = 1 << 20
)

// Resolver is satisfied by *resolver.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, doc *vast.Document) *resolver.ResolvedAd
	ResolveTag(ctx context.Context, uri string) *resolver.ResolvedAd
}

// Emitter is satisfied by *tracking.Emitter.
type Emitter interface {
	Fire(event string, urls []string, provider macros.Provider)
	FireImpressions(trackers vast.Trackers, provider macros.Provider)
	FireError(trackers vast.Trackers, code int, provider macros.Provider)
}

type resolveEndpoint struct {
	resolver     Resolver
	emitter      Emitter
	maxBodyBytes int64
}

// NewResolveEndpoint serves
//
//	GET  /vast/resolve?tag={uri}   resolves the tag hosted at uri
//	POST /vast/resolve             resolves the VAST document in the body
//
// and answers with a JSON summary of the resolution. With fire=1 the
// impression or error trackers of the chain are fired as a player would.
func NewResolveEndpoint(res Resolver, emitter Emitter, maxBodyBytes int64) httprouter.Handle {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	e := &resolveEndpoint{
		resolver:     res,
		emitter:      emitter,
		maxBodyBytes: maxBodyBytes,
	}
	return e.Handle
}

func (e *resolveEndpoint) Handle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := newRequestID()
	w.Header().Set(requestIDHeader, requestID)

	var result *resolver.ResolvedAd
	switch r.Method {
	case http.MethodGet:
		tag := r.URL.Query().Get(tagParameter)
		if tag == "" {
			writeError(w, http.StatusBadRequest, "missing required parameter 'tag'")
			return
		}
		result = e.resolver.ResolveTag(r.Context(), tag)
	case http.MethodPost:
		doc, err := e.readDocument(w, r)
		if err != nil {
			glog.V(2).Infof("request %s: rejected VAST body: %v", requestID, err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		result = e.resolver.Resolve(r.Context(), doc)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	glog.V(2).Infof("request %s: outcome=%s depth=%d", requestID, result.Outcome, result.Depth)

	if r.URL.Query().Get(fireParameter) == "1" && e.emitter != nil {
		e.fire(r, requestID, result)
	}

	writeJSON(w, http.StatusOK, newResolveResponse(requestID, result))
}

func (e *resolveEndpoint) readDocument(w http.ResponseWriter, r *http.Request) (*vast.Document, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, e.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("could not read request body: %v", err)
	}
	root, err := xmltree.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("invalid XML body: %v", err)
	}
	return vast.ParseDocument(root)
}

func (e *resolveEndpoint) fire(r *http.Request, requestID string, result *resolver.ResolvedAd) {
	provider := macros.NewProvider(macros.MacroContext{
		AdServingID: requestID,
		DeviceUA:    r.UserAgent(),
		PageURL:     r.Referer(),
	})

	switch {
	case result.Outcome == resolver.OutcomeInLine:
		e.emitter.FireImpressions(result.Trackers, provider)
	case result.Outcome != resolver.OutcomeCanceled:
		e.emitter.FireError(result.Trackers, result.ErrorCode(), provider)
	}
}

func newRequestID() string {
	id, err := uuid.NewV4()
	if err != nil {
		glog.Errorf("could not generate request id: %v", err)
		return ""
	}
	return id.String()
}

type resolveResponse struct {
	RequestID                string        `json:"request_id"`
	Outcome                  string        `json:"outcome"`
	ErrorCode                int           `json:"error_code,omitempty"`
	Error                    string        `json:"error,omitempty"`
	Depth                    int           `json:"depth"`
	Wrappers                 []string      `json:"wrappers,omitempty"`
	FollowAdditionalWrappers bool          `json:"follow_additional_wrappers"`
	AllowMultipleAds         *bool         `json:"allow_multiple_ads,omitempty"`
	Ad                       *adSummary    `json:"ad,omitempty"`
	Trackers                 trackersReply `json:"trackers"`
	Warnings                 []string      `json:"warnings,omitempty"`
	ParseErrors              []string      `json:"parse_errors,omitempty"`
}

type adSummary struct {
	ID        string            `json:"id,omitempty"`
	AdSystem  string            `json:"ad_system"`
	Title     string            `json:"title,omitempty"`
	Playable  bool              `json:"playable"`
	Creatives []creativeSummary `json:"creatives,omitempty"`
}

type creativeSummary struct {
	Type       string             `json:"type"`
	ID         string             `json:"id,omitempty"`
	Duration   string             `json:"duration,omitempty"`
	MediaFiles []mediaFileSummary `json:"media_files,omitempty"`
}

type mediaFileSummary struct {
	URL      string `json:"url"`
	Type     string `json:"type,omitempty"`
	Delivery string `json:"delivery,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Bitrate  int    `json:"bitrate,omitempty"`
}

type trackersReply struct {
	Impressions    []string            `json:"impressions"`
	Errors         []string            `json:"errors"`
	TrackingEvents map[string][]string `json:"tracking_events,omitempty"`
	ClickTracking  []string            `json:"click_tracking,omitempty"`
}

func newResolveResponse(requestID string, result *resolver.ResolvedAd) resolveResponse {
	resp := resolveResponse{
		RequestID:                requestID,
		Outcome:                  result.Outcome.String(),
		ErrorCode:                result.ErrorCode(),
		Depth:                    result.Depth,
		FollowAdditionalWrappers: result.FollowAdditionalWrappers,
		AllowMultipleAds:         result.AllowMultipleAds,
		Trackers: trackersReply{
			Impressions:    nonNil(result.Trackers.Impressions),
			Errors:         nonNil(result.Trackers.Errors),
			TrackingEvents: result.Trackers.TrackingEvents,
			ClickTracking:  result.Trackers.ClickTracking,
		},
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	for _, w := range result.Chain {
		resp.Wrappers = append(resp.Wrappers, w.AdSystem)
	}
	if result.Ad != nil {
		resp.Ad = summarizeAd(result.Ad)
	}
	resp.Warnings = errorMessages(errortypes.WarningOnly(result.ParseErrors))
	resp.ParseErrors = errorMessages(errortypes.FatalOnly(result.ParseErrors))
	return resp
}

func errorMessages(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

func summarizeAd(ad *vast.InLineAd) *adSummary {
	summary := &adSummary{
		ID:       ad.ID,
		AdSystem: ad.AdSystem,
		Title:    ad.AdTitle,
		Playable: ad.Playable(),
	}
	for _, c := range ad.Creatives {
		cs := creativeSummary{ID: c.Common().ID}
		switch creative := c.(type) {
		case *vast.Linear:
			cs.Type = "linear"
			cs.Duration = creative.RawDuration
			for _, mf := range creative.MediaFiles {
				cs.MediaFiles = append(cs.MediaFiles, mediaFileSummary{
					URL:      mf.URL,
					Type:     mf.Type,
					Delivery: mf.Delivery,
					Width:    mf.Width,
					Height:   mf.Height,
					Bitrate:  mf.Bitrate,
				})
			}
		case *vast.NonLinearAds:
			cs.Type = "nonlinear"
		case *vast.CompanionAds:
			cs.Type = "companion"
		}
		summary.Creatives = append(summary.Creatives, cs)
	}
	return summary
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		glog.Errorf("error writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: message})
}
