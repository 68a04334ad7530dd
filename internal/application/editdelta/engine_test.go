package editdelta

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CielmobilityWorks/route-optimization-tools/internal/application/materializer"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/domain"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/provider"
)

func lineString(coords [][2]float64, timeSec, distM float64) provider.Feature {
	raw, _ := json.Marshal(coords)
	return provider.Feature{
		Geometry:   provider.Geometry{Type: "LineString", Coordinates: raw},
		Properties: provider.FeatureProperties{Time: timeSec, Distance: distM},
	}
}

func fakeDirectionsServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req provider.DirectionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		coords := [][2]float64{{req.Start.Lon, req.Start.Lat}}
		for _, v := range req.Via {
			coords = append(coords, [2]float64{v.Lon, v.Lat})
		}
		coords = append(coords, [2]float64{req.End.Lon, req.End.Lat})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(provider.DirectionsResponse{
			Features:   []provider.Feature{lineString(coords, 100, 1000)},
			Properties: provider.ResponseProperties{TotalTime: 100, TotalDistance: 1000},
		})
	}))
}

func twoVehicleStops(t *testing.T) *domain.StopSet {
	t.Helper()
	set, err := domain.NewStopSet([]domain.Stop{
		{ID: "depot", Lon: 0, Lat: 0},
		{ID: "a", Lon: 1, Lat: 1, Demand: 2},
		{ID: "b", Lon: 2, Lat: 2, Demand: 2},
	}, "depot")
	require.NoError(t, err)
	return set
}

func baselinePlan() domain.EditPlan {
	return domain.EditPlan{Rows: []domain.EditPlanRow{
		{VehicleID: "vehicle-1", StopOrder: 1, StopID: "a"},
		{VehicleID: "vehicle-2", StopOrder: 1, StopID: "b"},
	}}
}

func newEngine(t *testing.T) (*Engine, *httptest.Server) {
	t.Helper()
	server := fakeDirectionsServer(t)
	client := provider.NewClient(server.URL, "")
	mat := materializer.New(client)
	return New(mat), server
}

// Invariant 6 (round trip): re-running edit-delta on an unchanged
// scenario reuses every vehicle and regenerates none.
func TestEngineReloadInvariant6RoundTrip(t *testing.T) {
	engine, server := newEngine(t)
	defer server.Close()
	stops := twoVehicleStops(t)

	scenario := &domain.EditScenario{ID: "e1", Plan: baselinePlan()}

	firstArtifact, firstStats, err := engine.Reload(context.Background(), scenario, stops, "matrix-1", domain.MaterializationParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, firstStats.Regenerated)
	assert.Equal(t, 0, firstStats.Reused)

	scenario.Artifact = firstArtifact

	secondArtifact, secondStats, err := engine.Reload(context.Background(), scenario, stops, "matrix-1", domain.MaterializationParams{})
	require.NoError(t, err)
	assert.Equal(t, 0, secondStats.Regenerated)
	assert.Equal(t, 2, secondStats.Reused)
	assert.Equal(t, 0, secondStats.Deleted)
	assert.Equal(t, 0, secondStats.Failed)

	for id, route := range firstArtifact.Vehicles {
		assert.Equal(t, route, secondArtifact.Vehicles[id])
	}
}

// Scenario S4: baseline reloaded into e1 with no changes reuses both
// vehicles.
func TestEngineScenarioS4ReloadReusesUnchanged(t *testing.T) {
	engine, server := newEngine(t)
	defer server.Close()
	stops := twoVehicleStops(t)

	baseline := &domain.EditScenario{ID: domain.BaselineScenarioID, Plan: baselinePlan()}
	baseArtifact, _, err := engine.Reload(context.Background(), baseline, stops, "matrix-1", domain.MaterializationParams{})
	require.NoError(t, err)

	e1 := &domain.EditScenario{ID: "e1", ParentID: domain.BaselineScenarioID, Plan: baselinePlan(), Artifact: baseArtifact}
	_, stats, err := engine.Reload(context.Background(), e1, stops, "matrix-1", domain.MaterializationParams{})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Regenerated)
	assert.Equal(t, 2, stats.Reused)
	assert.Equal(t, 0, stats.Deleted)
	assert.Equal(t, 0, stats.Failed)
}

// Scenario S5: moving stop b from vehicle-2 to vehicle-1 in e1
// re-materializes vehicle-1, records the now-empty vehicle-2 as a
// deletion, and reuses none.
func TestEngineScenarioS5PartialRematerialization(t *testing.T) {
	engine, server := newEngine(t)
	defer server.Close()
	stops := twoVehicleStops(t)

	baseline := &domain.EditScenario{ID: domain.BaselineScenarioID, Plan: baselinePlan()}
	baseArtifact, _, err := engine.Reload(context.Background(), baseline, stops, "matrix-1", domain.MaterializationParams{})
	require.NoError(t, err)

	e1 := &domain.EditScenario{
		ID:       "e1",
		ParentID: domain.BaselineScenarioID,
		Artifact: baseArtifact,
		Plan: domain.EditPlan{Rows: []domain.EditPlanRow{
			{VehicleID: "vehicle-1", StopOrder: 1, StopID: "a"},
			{VehicleID: "vehicle-1", StopOrder: 2, StopID: "b"},
		}},
	}

	artifact, stats, err := engine.Reload(context.Background(), e1, stops, "matrix-1", domain.MaterializationParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Regenerated)
	assert.Equal(t, 0, stats.Reused)
	assert.Equal(t, 1, stats.Deleted) // vehicle-2 no longer desired

	route := artifact.Vehicles["vehicle-1"]
	require.NotNil(t, route)
	require.Equal(t, domain.VehicleStatusOK, route.Status)

	// Invariant 5: the new artifact's fingerprint matches the one
	// derived from the scenario's current edit plan.
	desired := e1.Plan.VehicleStopIDs(stops.DepotID)
	wantFP := domain.Fingerprint(desired["vehicle-1"], stops, domain.MaterializationParams{})
	gotFP := existingFingerprint(route, artifact.Params)
	assert.True(t, wantFP.Equal(gotFP))

	for i := 1; i < len(route.Waypoints); i++ {
		assert.GreaterOrEqual(t, route.Waypoints[i].CumulativeTime, route.Waypoints[i-1].CumulativeTime)
		assert.GreaterOrEqual(t, route.Waypoints[i].CumulativeDistance, route.Waypoints[i-1].CumulativeDistance)
	}
	_, stillHasVehicle2 := artifact.Vehicles["vehicle-2"]
	assert.False(t, stillHasVehicle2)
}

// Invariant 7: a scenario copied from another with an identical plan
// yields the same per-vehicle fingerprints (here: reuses the parent's
// already-materialized routes untouched).
func TestEngineInvariant7CopiedScenarioMatchesParentFingerprints(t *testing.T) {
	engine, server := newEngine(t)
	defer server.Close()
	stops := twoVehicleStops(t)

	baseline := &domain.EditScenario{ID: domain.BaselineScenarioID, Plan: baselinePlan()}
	baseArtifact, _, err := engine.Reload(context.Background(), baseline, stops, "matrix-1", domain.MaterializationParams{})
	require.NoError(t, err)

	copyScenario := &domain.EditScenario{
		ID:       "e2",
		ParentID: domain.BaselineScenarioID,
		Plan:     baselinePlan(),
		Artifact: baseArtifact,
	}
	copyArtifact, stats, err := engine.Reload(context.Background(), copyScenario, stops, "matrix-1", domain.MaterializationParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Reused)

	for id, baseRoute := range baseArtifact.Vehicles {
		copyRoute := copyArtifact.Vehicles[id]
		require.NotNil(t, copyRoute)
		baseFP := existingFingerprint(baseRoute, baseArtifact.Params)
		copyFP := existingFingerprint(copyRoute, copyArtifact.Params)
		assert.True(t, baseFP.Equal(copyFP))
	}
}

func TestEngineStaleReferenceOnUnknownStop(t *testing.T) {
	engine, server := newEngine(t)
	defer server.Close()
	stops := twoVehicleStops(t)

	scenario := &domain.EditScenario{ID: "e1", Plan: domain.EditPlan{Rows: []domain.EditPlanRow{
		{VehicleID: "vehicle-1", StopOrder: 1, StopID: "ghost"},
	}}}

	_, _, err := engine.Reload(context.Background(), scenario, stops, "matrix-1", domain.MaterializationParams{})
	require.Error(t, err)
	assert.Equal(t, domain.CodeStaleReference, domain.CodeOf(err))
}
