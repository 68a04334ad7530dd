package domain

import "sort"

// PlanArtifact is a map from vehicle id to materialized route, plus
// the matrix snapshot hash and materialization parameters it was
// built under (§3 "Plan artifact").
type PlanArtifact struct {
	MatrixHash string                        `json:"matrix_hash"`
	Params     MaterializationParams         `json:"params"`
	Vehicles   map[string]*MaterializedRoute `json:"vehicles"`
}

// NewEmptyArtifact returns an artifact with no vehicles yet.
func NewEmptyArtifact(matrixHash string, params MaterializationParams) *PlanArtifact {
	return &PlanArtifact{
		MatrixHash: matrixHash,
		Params:     params,
		Vehicles:   make(map[string]*MaterializedRoute),
	}
}

// Invalidate clears geometry, cumulatives and totals for every
// vehicle while keeping the tabular stop order, per §4.3's "stop-set
// mutation invalidates ... materialization (by clearing the
// route_geometry, cumulative_*, and totals, keeping only the tabular
// order)".
func (a *PlanArtifact) Invalidate() {
	for _, route := range a.Vehicles {
		for i := range route.Waypoints {
			route.Waypoints[i].CumulativeTime = 0
			route.Waypoints[i].CumulativeDistance = 0
			route.Waypoints[i].ArrivalTime = route.Waypoints[i].ArrivalTime.Truncate(0)
		}
		route.RouteGeometry = nil
		route.TotalTime = 0
		route.TotalDistance = 0
		route.Status = ""
	}
}

// OrderedVehicleIDs returns vehicle ids sorted ascending (§5 rendering
// order guarantee).
func (a *PlanArtifact) OrderedVehicleIDs() []string {
	ids := make([]string, 0, len(a.Vehicles))
	for id := range a.Vehicles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
