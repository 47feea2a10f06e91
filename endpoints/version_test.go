package endpoints

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionEndpoint(t *testing.T) {
	testCases := []struct {
		description string
		version     string
		revision    string
		expected    string
	}{
		{
			description: "Set",
			version:     "1.2.3",
			revision:    "abc123",
			expected:    `{"revision":"abc123","version":"1.2.3"}`,
		},
		{
			description: "Not Set",
			expected:    `{"revision":"not-set","version":"not-set"}`,
		},
	}

	for _, test := range testCases {
		handler := NewVersionEndpoint(test.version, test.revision)
		w := httptest.NewRecorder()

		handler(w, httptest.NewRequest(http.MethodGet, "/version", nil), nil)

		assert.Equal(t, http.StatusOK, w.Code, test.description)
		assert.JSONEq(t, test.expected, w.Body.String(), test.description)
	}
}
