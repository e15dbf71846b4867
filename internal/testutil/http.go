package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// HTTPTestHelper provides utilities for HTTP testing
type HTTPTestHelper struct {
	t      *testing.T
	router http.Handler
}

// NewHTTPTestHelper creates a new HTTP test helper
func NewHTTPTestHelper(t *testing.T, router http.Handler) *HTTPTestHelper {
	gin.SetMode(gin.TestMode)
	return &HTTPTestHelper{
		t:      t,
		router: router,
	}
}

// Do performs a request with the given method and no body
func (h *HTTPTestHelper) Do(method, url string, headers map[string]string) *httptest.ResponseRecorder {
	req, err := http.NewRequest(method, url, nil)
	require.NoError(h.t, err, "Failed to create HTTP request")

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, req)

	return recorder
}

// GetJSON performs a GET request expecting JSON response
func (h *HTTPTestHelper) GetJSON(url string) *httptest.ResponseRecorder {
	return h.Do(http.MethodGet, url, map[string]string{"Accept": "application/json"})
}

// Options performs a CORS preflight request
func (h *HTTPTestHelper) Options(url string) *httptest.ResponseRecorder {
	return h.Do(http.MethodOptions, url, map[string]string{
		"Origin":                        "http://localhost:4200",
		"Access-Control-Request-Method": http.MethodGet,
	})
}

// AssertJSONResponse asserts that the response is valid JSON and unmarshals it
func (h *HTTPTestHelper) AssertJSONResponse(recorder *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	require.Equal(h.t, expectedStatus, recorder.Code, "Unexpected status code")
	require.Equal(h.t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"), "Expected JSON content type")

	err := json.Unmarshal(recorder.Body.Bytes(), target)
	require.NoError(h.t, err, "Failed to unmarshal JSON response")
}

// AssertErrorResponse asserts the exact error envelope and the CORS origin header
func (h *HTTPTestHelper) AssertErrorResponse(recorder *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	var errorResponse map[string]interface{}
	h.AssertJSONResponse(recorder, expectedStatus, &errorResponse)

	require.Equal(h.t, map[string]interface{}{"error": expectedError}, errorResponse, "Unexpected error envelope")
	require.Equal(h.t, "*", recorder.Header().Get("Access-Control-Allow-Origin"), "Expected CORS origin header")
}
