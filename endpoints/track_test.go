package endpoints

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackEndpoint(t *testing.T) {
	emitter := &recordingEmitter{}
	handle := NewTrackEndpoint(emitter, 0)

	body := `{"event": "start", "urls": ["http://t/1?c=[ERRORCODE]", "http://t/2"], "error_code": 405, "macros": {"CONTENTPLAYHEAD": "00:00:05.000"}}`
	req := httptest.NewRequest(http.MethodPost, "/vast/track", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handle(rec, req, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	require.Len(t, emitter.calls, 1)
	assert.Equal(t, firedCall{event: "start", urls: []string{"http://t/1?c=[ERRORCODE]", "http://t/2"}, errorCode: "405"}, emitter.calls[0])
}

func TestTrackEndpointBadRequests(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "missing-urls", body: `{"event": "start"}`},
		{name: "urls-not-array", body: `{"urls": "http://t/1"}`},
		{name: "url-not-string", body: `{"urls": [1, 2]}`},
		{name: "macro-not-string", body: `{"urls": ["http://t/1"], "macros": {"A": 1}}`},
		{name: "bad-error-code", body: `{"urls": ["http://t/1"], "error_code": "x"}`},
		{name: "not-json", body: `nope`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			emitter := &recordingEmitter{}
			handle := NewTrackEndpoint(emitter, 0)

			req := httptest.NewRequest(http.MethodPost, "/vast/track", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handle(rec, req, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, emitter.calls)
		})
	}
}

func TestParseTrackRequest(t *testing.T) {
	req, err := parseTrackRequest([]byte(`{"urls": [], "macros": {"campaign": "summer \"sale\""}}`))

	require.NoError(t, err)
	assert.Empty(t, req.Event)
	assert.Empty(t, req.URLs)
	assert.Equal(t, 0, req.ErrorCode)
	assert.Equal(t, map[string]string{"campaign": `summer "sale"`}, req.Macros)
}
