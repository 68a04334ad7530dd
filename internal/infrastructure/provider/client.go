// Package provider is the HTTP client for the external directions
// provider (§6): it turns a vehicle's start/via/end points into a
// DirectionsRequest, posts it, and decodes the feature-collection
// response.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the directions-provider HTTP client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      *retryConfig
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client, e.g. for test doubles.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithRetry enables bounded exponential backoff with jitter on
// transient failures (transport errors, 429 and 5xx responses).
func WithRetry(maxRetries int, initialDelay, maxDelay time.Duration) Option {
	return func(cl *Client) {
		cl.retry = &retryConfig{
			maxRetries:   maxRetries,
			initialDelay: initialDelay,
			maxDelay:     maxDelay,
		}
	}
}

// NewClient builds a provider client against baseURL using apiKey.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Directions requests road geometry and timing for one vehicle's
// start/via/end points under the given materialization params.
func (c *Client) Directions(ctx context.Context, req DirectionsRequest) (*DirectionsResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("provider: marshal request: %w", err)
	}

	var result DirectionsResponse
	execute := func() (*retryHint, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/directions", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("provider: build request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return &retryHint{}, fmt.Errorf("provider: execute request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("provider: read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := newAPIError(resp.StatusCode, respBody)
			if isRetryable(resp.StatusCode) {
				hint := &retryHint{}
				if ra := resp.Header.Get("Retry-After"); ra != "" {
					hint.retryAfter = ra
				}
				return hint, apiErr
			}
			return nil, apiErr
		}

		if err := json.Unmarshal(respBody, &result); err != nil {
			return nil, fmt.Errorf("provider: decode response: %w", err)
		}
		return nil, nil
	}

	var err2 error
	if c.retry != nil {
		err2 = c.retry.do(ctx, execute)
	} else {
		_, err2 = execute()
	}
	if err2 != nil {
		return nil, err2
	}
	return &result, nil
}
