package materializer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CielmobilityWorks/route-optimization-tools/internal/domain"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/provider"
)

func lineStringFeature(coords [][2]float64, timeSec, distM float64) provider.Feature {
	raw, _ := json.Marshal(coords)
	return provider.Feature{
		Type:       "Feature",
		Geometry:   provider.Geometry{Type: "LineString", Coordinates: raw},
		Properties: provider.FeatureProperties{Time: timeSec, Distance: distM},
	}
}

func directionsHandler(t *testing.T, byVehicleSeq func(n int) (provider.DirectionsResponse, int)) http.HandlerFunc {
	t.Helper()
	calls := 0
	return func(w http.ResponseWriter, r *http.Request) {
		calls++
		resp, status := byVehicleSeq(calls)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
	}
}

func twoStopStops(t *testing.T) *domain.StopSet {
	t.Helper()
	set, err := domain.NewStopSet([]domain.Stop{
		{ID: "depot", Lon: 0, Lat: 0, Demand: 0},
		{ID: "a", Lon: 1, Lat: 1, Demand: 3},
	}, "depot")
	require.NoError(t, err)
	return set
}

// Invariants 1 & 2: cumulative time/distance monotone non-decreasing
// along a materialized route, and the start point's cumulatives are
// both zero.
func TestMaterializeInvariantsMonotoneAndZeroStart(t *testing.T) {
	server := httptest.NewServer(directionsHandler(t, func(n int) (provider.DirectionsResponse, int) {
		resp := provider.DirectionsResponse{
			Features: []provider.Feature{
				lineStringFeature([][2]float64{{0, 0}, {0.5, 0.5}, {1, 1}}, 120, 900),
				lineStringFeature([][2]float64{{1, 1}, {0.5, 0.5}, {0, 0}}, 120, 900),
			},
			Properties: provider.ResponseProperties{TotalTime: 240, TotalDistance: 1800},
		}
		return resp, http.StatusOK
	}))
	defer server.Close()

	client := provider.NewClient(server.URL, "")
	m := New(client)
	stops := twoStopStops(t)

	route := &domain.VehicleRoute{VehicleID: "vehicle-1", StopIDs: []string{"depot", "a", "depot"}, RouteLoad: 3}
	plan := &domain.OrderedPlan{Routes: map[string]*domain.VehicleRoute{"vehicle-1": route}}

	artifact := m.Materialize(context.Background(), plan, stops, "matrix-1", domain.MaterializationParams{})
	result := artifact.Vehicles["vehicle-1"]
	require.Equal(t, domain.VehicleStatusOK, result.Status)
	require.Len(t, result.Waypoints, 3)

	start := result.StartPoint()
	assert.Zero(t, start.CumulativeTime)
	assert.Zero(t, start.CumulativeDistance)

	for i := 1; i < len(result.Waypoints); i++ {
		assert.GreaterOrEqual(t, result.Waypoints[i].CumulativeTime, result.Waypoints[i-1].CumulativeTime)
		assert.GreaterOrEqual(t, result.Waypoints[i].CumulativeDistance, result.Waypoints[i-1].CumulativeDistance)
	}
}

// Invariant 11: a depot-only (zero-via) vehicle is excluded from
// materialization entirely rather than producing a degenerate call.
func TestMaterializeInvariant11SkipsDepotOnlyVehicle(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(provider.DirectionsResponse{})
	}))
	defer server.Close()

	client := provider.NewClient(server.URL, "")
	m := New(client)
	stops := twoStopStops(t)

	route := &domain.VehicleRoute{VehicleID: "vehicle-1", StopIDs: []string{"depot"}}
	plan := &domain.OrderedPlan{Routes: map[string]*domain.VehicleRoute{"vehicle-1": route}}

	artifact := m.Materialize(context.Background(), plan, stops, "matrix-1", domain.MaterializationParams{})
	_, present := artifact.Vehicles["vehicle-1"]
	assert.False(t, present)
	assert.False(t, called)
}

// Scenario S6: provider failure isolation. Vehicle 2's directions call
// fails persistently; vehicles 1 and 3 still materialize successfully
// and the failure is reported per-vehicle, not fatal to the run.
func TestMaterializeScenarioS6ProviderFailureIsolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req provider.DirectionsRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Via) > 0 && req.Via[0].Lat == 99 { // vehicle-2's via sentinel
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"message":"no route found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(provider.DirectionsResponse{
			Features: []provider.Feature{
				lineStringFeature([][2]float64{{0, 0}, {1, 1}}, 60, 500),
			},
			Properties: provider.ResponseProperties{TotalTime: 60, TotalDistance: 500},
		})
	}))
	defer server.Close()

	client := provider.NewClient(server.URL, "")
	m := New(client)

	stops, err := domain.NewStopSet([]domain.Stop{
		{ID: "depot", Lon: 0, Lat: 0},
		{ID: "a", Lon: 1, Lat: 1, Demand: 1},
		{ID: "failing", Lon: 1, Lat: 99, Demand: 1},
		{ID: "c", Lon: 1, Lat: 1, Demand: 1},
	}, "depot")
	require.NoError(t, err)

	plan := &domain.OrderedPlan{Routes: map[string]*domain.VehicleRoute{
		"vehicle-1": {VehicleID: "vehicle-1", StopIDs: []string{"depot", "a", "depot"}},
		"vehicle-2": {VehicleID: "vehicle-2", StopIDs: []string{"depot", "failing", "depot"}},
		"vehicle-3": {VehicleID: "vehicle-3", StopIDs: []string{"depot", "c", "depot"}},
	}}

	artifact := m.Materialize(context.Background(), plan, stops, "matrix-1", domain.MaterializationParams{})

	assert.Equal(t, domain.VehicleStatusOK, artifact.Vehicles["vehicle-1"].Status)
	assert.Equal(t, domain.VehicleStatusOK, artifact.Vehicles["vehicle-3"].Status)

	failed := artifact.Vehicles["vehicle-2"]
	assert.Equal(t, domain.VehicleStatusProviderError, failed.Status)
	assert.NotEmpty(t, failed.FailureReason)
	assert.Nil(t, failed.RouteGeometry)

	var failedIDs []string
	for id, v := range artifact.Vehicles {
		if v.Status != domain.VehicleStatusOK {
			failedIDs = append(failedIDs, id)
		}
	}
	assert.Equal(t, []string{"vehicle-2"}, failedIDs)
}

func TestMaterializeRespectsCallTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(provider.DirectionsResponse{})
	}))
	defer server.Close()

	client := provider.NewClient(server.URL, "")
	m := New(client, WithCallTimeout(5*time.Millisecond))
	stops := twoStopStops(t)

	route := &domain.VehicleRoute{VehicleID: "vehicle-1", StopIDs: []string{"depot", "a", "depot"}}
	plan := &domain.OrderedPlan{Routes: map[string]*domain.VehicleRoute{"vehicle-1": route}}

	artifact := m.Materialize(context.Background(), plan, stops, "matrix-1", domain.MaterializationParams{})
	assert.Equal(t, domain.VehicleStatusProviderError, artifact.Vehicles["vehicle-1"].Status)
}
