package testing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// HTTPErrorPayload is a wire structure of an error response
type HTTPErrorPayload struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// NewHTTPErrorPayload returns an error payload with a status resolved from the code
func NewHTTPErrorPayload(statusCode int, message string) *HTTPErrorPayload {
	return &HTTPErrorPayload{
		StatusCode: statusCode,
		Error:      http.StatusText(statusCode),
		Message:    message,
	}
}

// AssertHTTPErrorResponse asserts that a recorded response is an error response
// with a given payload
func AssertHTTPErrorResponse(t *testing.T, want *HTTPErrorPayload, recorder *httptest.ResponseRecorder) bool {
	if !assert.Equal(t, want.StatusCode, recorder.Code, "Unexpected status code") {
		return false
	}
	got := HTTPErrorPayload{}
	if !JSONUnmarshalReader(t, recorder.Body, &got) {
		return false
	}
	return assert.Equal(t, *want, got)
}
