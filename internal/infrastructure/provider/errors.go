package provider

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError is an error returned by the directions provider's HTTP API.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	RawBody    []byte `json:"-"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider: API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider: API error %d", e.StatusCode)
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode, RawBody: body}
	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch {
		case errResp.Message != "":
			apiErr.Message = errResp.Message
		case errResp.Error != "":
			apiErr.Message = errResp.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = string(body)
	}
	return apiErr
}

// IsAPIError extracts an *APIError from err, if present in its chain.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// isRetryable reports whether a status code should trigger the
// retry-with-backoff policy (§4.2 "retried on transient network
// failures ... persistent failure is reported per-vehicle").
func isRetryable(statusCode int) bool {
	return statusCode == 429 || statusCode >= 500
}
