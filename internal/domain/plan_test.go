package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustStopSet(t *testing.T, stops []Stop, depotID string) *StopSet {
	t.Helper()
	set, err := NewStopSet(stops, depotID)
	require.NoError(t, err)
	return set
}

func TestOrderedPlanValidate(t *testing.T) {
	stops := mustStopSet(t, []Stop{
		{ID: "depot"},
		{ID: "a", Demand: 3},
		{ID: "b", Demand: 4},
	}, "depot")

	t.Run("valid plan", func(t *testing.T) {
		plan := &OrderedPlan{Routes: map[string]*VehicleRoute{
			"vehicle-1": {VehicleID: "vehicle-1", StopIDs: []string{"depot", "a", "b", "depot"}},
		}}
		assert.NoError(t, plan.Validate(stops, 10))
	})

	t.Run("route does not start at depot", func(t *testing.T) {
		plan := &OrderedPlan{Routes: map[string]*VehicleRoute{
			"vehicle-1": {VehicleID: "vehicle-1", StopIDs: []string{"a", "b"}},
		}}
		err := plan.Validate(stops, 10)
		require.Error(t, err)
		assert.Equal(t, CodeBadInput, CodeOf(err))
	})

	t.Run("stop assigned twice", func(t *testing.T) {
		plan := &OrderedPlan{Routes: map[string]*VehicleRoute{
			"vehicle-1": {VehicleID: "vehicle-1", StopIDs: []string{"depot", "a"}},
			"vehicle-2": {VehicleID: "vehicle-2", StopIDs: []string{"depot", "a", "b"}},
		}}
		err := plan.Validate(stops, 10)
		require.Error(t, err)
		assert.Equal(t, CodeBadInput, CodeOf(err))
	})

	t.Run("stop unassigned", func(t *testing.T) {
		plan := &OrderedPlan{Routes: map[string]*VehicleRoute{
			"vehicle-1": {VehicleID: "vehicle-1", StopIDs: []string{"depot", "a"}},
		}}
		err := plan.Validate(stops, 10)
		require.Error(t, err)
		assert.Equal(t, CodeBadInput, CodeOf(err))
	})

	t.Run("capacity exceeded", func(t *testing.T) {
		plan := &OrderedPlan{Routes: map[string]*VehicleRoute{
			"vehicle-1": {VehicleID: "vehicle-1", StopIDs: []string{"depot", "a", "b"}},
		}}
		err := plan.Validate(stops, 5)
		require.Error(t, err)
		assert.Equal(t, CodeInfeasible, CodeOf(err))
	})

	t.Run("route with only depot", func(t *testing.T) {
		plan := &OrderedPlan{Routes: map[string]*VehicleRoute{
			"vehicle-1": {VehicleID: "vehicle-1", StopIDs: []string{"depot", "depot"}},
			"vehicle-2": {VehicleID: "vehicle-2", StopIDs: []string{"depot", "a", "b"}},
		}}
		err := plan.Validate(stops, 10)
		require.Error(t, err)
		assert.Equal(t, CodeBadInput, CodeOf(err))
	})
}

func TestOrderedPlanOrderedVehicleIDs(t *testing.T) {
	plan := &OrderedPlan{Routes: map[string]*VehicleRoute{
		"vehicle-3": {},
		"vehicle-1": {},
		"vehicle-2": {},
	}}
	assert.Equal(t, []string{"vehicle-1", "vehicle-2", "vehicle-3"}, plan.OrderedVehicleIDs())
}
