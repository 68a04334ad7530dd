package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlanArtifactInvalidate(t *testing.T) {
	artifact := NewEmptyArtifact("hash-1", MaterializationParams{})
	artifact.Vehicles["vehicle-1"] = &MaterializedRoute{
		VehicleID: "vehicle-1",
		Status:    VehicleStatusOK,
		Waypoints: []Waypoint{
			{StopID: "depot", CumulativeTime: 0, CumulativeDistance: 0},
			{StopID: "a", CumulativeTime: 120, CumulativeDistance: 800, ArrivalTime: time.Unix(1000, 0)},
		},
		RouteGeometry: [][2]float64{{0, 0}, {1, 1}},
		TotalTime:     120,
		TotalDistance: 800,
	}

	artifact.Invalidate()

	route := artifact.Vehicles["vehicle-1"]
	assert.Nil(t, route.RouteGeometry)
	assert.Zero(t, route.TotalTime)
	assert.Zero(t, route.TotalDistance)
	assert.Empty(t, route.Status)
	for _, wp := range route.Waypoints {
		assert.Zero(t, wp.CumulativeTime)
		assert.Zero(t, wp.CumulativeDistance)
	}
	// tabular stop order is preserved
	assert.Equal(t, "depot", route.Waypoints[0].StopID)
	assert.Equal(t, "a", route.Waypoints[1].StopID)
}

func TestPlanArtifactOrderedVehicleIDs(t *testing.T) {
	artifact := NewEmptyArtifact("hash", MaterializationParams{})
	artifact.Vehicles["vehicle-2"] = &MaterializedRoute{}
	artifact.Vehicles["vehicle-1"] = &MaterializedRoute{}
	assert.Equal(t, []string{"vehicle-1", "vehicle-2"}, artifact.OrderedVehicleIDs())
}
