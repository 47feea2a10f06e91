package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/buger/jsonparser"
	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
	"github.com/prebid/prebid-vast/macros"
)

type trackEndpoint struct {
	emitter      Emitter
	maxBodyBytes int64
}

// NewTrackEndpoint serves POST /vast/track. The body is
//
//	{"event": "start", "urls": ["https://..."], "macros": {"CONTENTPLAYHEAD": "00:00:05.000"}, "error_code": 0}
//
// Every URL is fired asynchronously and the endpoint answers 204 at once.
func NewTrackEndpoint(emitter Emitter, maxBodyBytes int64) httprouter.Handle {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	e := &trackEndpoint{
		emitter:      emitter,
		maxBodyBytes: maxBodyBytes,
	}
	return e.Handle
}

type trackRequest struct {
	Event     string
	URLs      []string
	ErrorCode int
	Macros    map[string]string
}

func (e *trackEndpoint) Handle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := newRequestID()
	w.Header().Set(requestIDHeader, requestID)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, e.maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("could not read request body: %v", err))
		return
	}

	req, err := parseTrackRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	provider := macros.NewProvider(macros.MacroContext{
		ErrorCode:   req.ErrorCode,
		AdServingID: requestID,
		DeviceUA:    r.UserAgent(),
		Custom:      req.Macros,
	})
	glog.V(2).Infof("request %s: firing %d %s trackers", requestID, len(req.URLs), req.Event)
	e.emitter.Fire(req.Event, req.URLs, provider)

	w.WriteHeader(http.StatusNoContent)
}

func parseTrackRequest(body []byte) (*trackRequest, error) {
	req := &trackRequest{Macros: map[string]string{}}

	urls, dataType, _, err := jsonparser.Get(body, "urls")
	if err != nil {
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return nil, errors.New("missing required field 'urls'")
		}
		return nil, fmt.Errorf("invalid request body: %v", err)
	}
	if dataType != jsonparser.Array {
		return nil, errors.New("'urls' must be an array of strings")
	}

	var itemErr error
	if _, err := jsonparser.ArrayEach(urls, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if dataType != jsonparser.String {
			itemErr = errors.New("'urls' must be an array of strings")
			return
		}
		url, err := jsonparser.ParseString(value)
		if err != nil {
			itemErr = err
			return
		}
		req.URLs = append(req.URLs, url)
	}); err != nil {
		return nil, fmt.Errorf("invalid 'urls': %v", err)
	}
	if itemErr != nil {
		return nil, itemErr
	}

	if event, err := jsonparser.GetString(body, "event"); err == nil {
		req.Event = event
	} else if !errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, fmt.Errorf("invalid 'event': %v", err)
	}

	if code, err := jsonparser.GetInt(body, "error_code"); err == nil {
		req.ErrorCode = int(code)
	} else if !errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, fmt.Errorf("invalid 'error_code': %v", err)
	}

	err = jsonparser.ObjectEach(body, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		if dataType != jsonparser.String {
			return fmt.Errorf("macro %s must be a string", key)
		}
		v, err := jsonparser.ParseString(value)
		if err != nil {
			return err
		}
		req.Macros[string(key)] = v
		return nil
	}, "macros")
	if err != nil && !errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, fmt.Errorf("invalid 'macros': %v", err)
	}

	return req, nil
}
