package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDirectionsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/directions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req DirectionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 10.0, req.Start.Lon)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(DirectionsResponse{
			Type: "FeatureCollection",
			Properties: ResponseProperties{TotalTime: 120, TotalDistance: 800},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	resp, err := client.Directions(context.Background(), DirectionsRequest{Start: Point{Lon: 10, Lat: 20}})
	require.NoError(t, err)
	assert.Equal(t, 120.0, resp.Properties.TotalTime)
	assert.Equal(t, 800.0, resp.Properties.TotalDistance)
}

func TestClientDirectionsNonRetryableError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"invalid start point"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.Directions(context.Background(), DirectionsRequest{})
	require.Error(t, err)

	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid start point", apiErr.Message)
}

func TestClientDirectionsRetriesOnServerErrorThenSucceeds(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"message":"temporarily unavailable"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(DirectionsResponse{Properties: ResponseProperties{TotalTime: 42}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", WithRetry(5, time.Millisecond, 5*time.Millisecond))
	resp, err := client.Directions(context.Background(), DirectionsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 42.0, resp.Properties.TotalTime)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestClientDirectionsGivesUpAfterMaxRetries(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"rate limited"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", WithRetry(2, time.Millisecond, 5*time.Millisecond))
	_, err := client.Directions(context.Background(), DirectionsRequest{})
	require.Error(t, err)

	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts)) // initial + 2 retries
}

func TestClientDirectionsHonorsRetryAfterHeader(t *testing.T) {
	var attempts int32
	var gapSeen time.Duration
	var lastCall time.Time

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		if !lastCall.IsZero() {
			gapSeen = now.Sub(lastCall)
		}
		lastCall = now

		n := atomic.AddInt32(&attempts, 1)
		if n == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(DirectionsResponse{})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", WithRetry(3, 50*time.Millisecond, time.Second))
	_, err := client.Directions(context.Background(), DirectionsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
	assert.Less(t, gapSeen, 50*time.Millisecond)
}

func TestClientDirectionsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, "", WithRetry(3, 10*time.Millisecond, 100*time.Millisecond))
	_, err := client.Directions(ctx, DirectionsRequest{})
	require.Error(t, err)
}
