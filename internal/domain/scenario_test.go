package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidScenarioID(t *testing.T) {
	assert.True(t, ValidScenarioID("e1"))
	assert.True(t, ValidScenarioID("edit_scenario-2"))
	assert.False(t, ValidScenarioID(""))
	assert.False(t, ValidScenarioID("has space"))
	assert.False(t, ValidScenarioID("slash/here"))
}

func TestEditPlanVehicleStopIDs(t *testing.T) {
	plan := &EditPlan{Rows: []EditPlanRow{
		{VehicleID: "vehicle-1", StopOrder: 2, StopID: "b"},
		{VehicleID: "vehicle-1", StopOrder: 1, StopID: "a"},
		{VehicleID: "vehicle-2", StopOrder: 1, StopID: "c"},
	}}

	result := plan.VehicleStopIDs("depot")
	assert.Equal(t, []string{"depot", "a", "b"}, result["vehicle-1"])
	assert.Equal(t, []string{"depot", "c"}, result["vehicle-2"])
}

func TestEditScenarioIsBaseline(t *testing.T) {
	baseline := &EditScenario{ID: BaselineScenarioID}
	other := &EditScenario{ID: "e1"}
	assert.True(t, baseline.IsBaseline())
	assert.False(t, other.IsBaseline())
}

func TestEditScenarioEffectiveStops(t *testing.T) {
	base := mustStopSet(t, []Stop{
		{ID: "depot", Lon: 0, Lat: 0},
		{ID: "a", Lon: 1, Lat: 1, Demand: 3, Name: "Stop A"},
		{ID: "b", Lon: 2, Lat: 2, Demand: 4},
	}, "depot")

	t.Run("no overrides returns base unchanged", func(t *testing.T) {
		scenario := &EditScenario{ID: "e1"}
		effective := scenario.EffectiveStops(base)
		assert.Same(t, base, effective)
	})

	t.Run("override changes only lon/lat, never demand or name", func(t *testing.T) {
		scenario := &EditScenario{ID: "e1"}
		scenario.SetStopOverride("a", 9, 9)

		effective := scenario.EffectiveStops(base)
		require.NotSame(t, base, effective)

		movedA := effective.Stops["a"]
		assert.Equal(t, 9.0, movedA.Lon)
		assert.Equal(t, 9.0, movedA.Lat)
		assert.Equal(t, 3, movedA.Demand)
		assert.Equal(t, "Stop A", movedA.Name)

		// base is untouched
		assert.Equal(t, 1.0, base.Stops["a"].Lon)
		assert.Equal(t, 1.0, base.Stops["a"].Lat)

		// unrelated stop is untouched
		assert.Equal(t, base.Stops["b"], effective.Stops["b"])
	})

	t.Run("second override replaces the first for the same stop", func(t *testing.T) {
		scenario := &EditScenario{ID: "e1"}
		scenario.SetStopOverride("a", 9, 9)
		scenario.SetStopOverride("a", 5, 5)
		effective := scenario.EffectiveStops(base)
		assert.Equal(t, 5.0, effective.Stops["a"].Lon)
		assert.Equal(t, 5.0, effective.Stops["a"].Lat)
	})
}
