// Package dto holds the HTTP request/response shapes for the
// plan-lifecycle API, validated with go-playground/validator before
// they cross into the application layer.
package dto

import "time"

// ObjectiveSpec mirrors domain.ObjectiveSpec for wire binding.
type ObjectiveSpec struct {
	Primary     string          `json:"primary" validate:"required,oneof=distance time vehicles_used cost makespan"`
	TieBreaker1 string          `json:"tie_breaker_1,omitempty" validate:"omitempty,oneof=distance time vehicles_used cost makespan"`
	TieBreaker2 string          `json:"tie_breaker_2,omitempty" validate:"omitempty,oneof=distance time vehicles_used cost makespan"`
	Penalties   PenaltyWeights  `json:"penalties"`
}

// PenaltyWeights mirrors domain.PenaltyWeights for wire binding.
type PenaltyWeights struct {
	TimeWindowViolation float64 `json:"time_window_violation"`
	WaitTime            float64 `json:"wait_time"`
	WorkloadBalance     float64 `json:"workload_balance"`
	Overtime            float64 `json:"overtime"`
	CO2Proxy            float64 `json:"co2_proxy"`
	FixedCost           float64 `json:"fixed_cost"`
	Utilization         float64 `json:"utilization"`
}

// OptimizeRequest is the body of POST .../optimize (§6 "Optimize").
type OptimizeRequest struct {
	StopsSnapshotHash string        `json:"stops_snapshot_hash"`
	VehicleCount      int           `json:"vehicle_count" validate:"required,min=1"`
	Capacity          int           `json:"capacity" validate:"required,min=1"`
	RouteMode         string        `json:"route_mode" validate:"required,oneof=closed_tour open_end"`
	TimeBudgetSeconds int           `json:"time_budget_seconds" validate:"required,min=1"`
	Objective         ObjectiveSpec `json:"objective" validate:"required"`
}

// VehicleRouteResponse is one vehicle's ordered stop sequence plus
// the optimizer's provisional estimates.
type VehicleRouteResponse struct {
	VehicleID       string    `json:"vehicle_id"`
	StopIDs         []string  `json:"stop_ids"`
	CumulativeLoad  []int     `json:"cumulative_load"`
	ProvisionalTime []float64 `json:"provisional_time"`
	ProvisionalDist []float64 `json:"provisional_distance"`
	RouteLoad       int       `json:"route_load"`
}

// PlanMetadataResponse reports how a plan was produced.
type PlanMetadataResponse struct {
	ObjectiveRequested string  `json:"objective_requested"`
	ObjectiveUsed      string  `json:"objective_used"`
	FallbackUsed       bool    `json:"fallback_used"`
	FallbackReason     string  `json:"fallback_reason,omitempty"`
	SolveDurationMS    int64   `json:"solve_duration_ms"`
	VehiclesUsed       int     `json:"vehicles_used"`
	PenaltyScore       float64 `json:"penalty_score"`
}

// OptimizeResponse is the body returned by POST .../optimize.
type OptimizeResponse struct {
	Mode     string                           `json:"mode"`
	Routes   map[string]VehicleRouteResponse  `json:"routes"`
	Metadata PlanMetadataResponse             `json:"metadata"`
}

// MaterializationParamsRequest mirrors domain.MaterializationParams.
type MaterializationParamsRequest struct {
	SearchOption    string    `json:"search_option" validate:"required,oneof=recommended free-roads fastest beginner truck"`
	VehicleClass    string    `json:"vehicle_class" validate:"required,oneof=passenger mid-van large-van large-truck special-truck"`
	DepartAt        time.Time `json:"depart_at" validate:"required"`
	ViaDwellSeconds int       `json:"via_dwell_seconds" validate:"min=0"`
}

// WaypointResponse is one materialized stop.
type WaypointResponse struct {
	StopID             string    `json:"stop_id"`
	Name               string    `json:"name"`
	Lon                float64   `json:"lon"`
	Lat                float64   `json:"lat"`
	Demand             int       `json:"demand"`
	CumulativeTime     float64   `json:"cumulative_time"`
	CumulativeDistance float64   `json:"cumulative_distance"`
	ArrivalTime        time.Time `json:"arrival_time"`
}

// MaterializedRouteResponse is one vehicle's materialized route.
type MaterializedRouteResponse struct {
	VehicleID     string             `json:"vehicle_id"`
	Status        string             `json:"status"`
	FailureReason string             `json:"failure_reason,omitempty"`
	Waypoints     []WaypointResponse `json:"waypoints"`
	RouteGeometry [][2]float64       `json:"route_geometry,omitempty"`
	TotalTime     float64            `json:"total_time"`
	TotalDistance float64            `json:"total_distance"`
	RouteLoad     int                `json:"route_load"`
}

// ArtifactResponse is the body returned by the materialize operation
// (§6 "Materialize baseline"); reload returns ReloadStats instead.
type ArtifactResponse struct {
	MatrixHash      string                                `json:"matrix_hash"`
	Vehicles        map[string]MaterializedRouteResponse `json:"vehicles"`
	FailedVehicleIDs []string                             `json:"failed_vehicle_ids,omitempty"`
}

// ScenarioSummaryResponse is one row of a scenario listing.
type ScenarioSummaryResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	ParentID  string    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateScenarioRequest is the body of POST .../scenarios.
type CreateScenarioRequest struct {
	ID       string `json:"id" validate:"required"`
	ParentID string `json:"parent_id,omitempty"`
}

// ReloadStats mirrors editdelta.Stats for wire encoding.
type ReloadStats struct {
	Regenerated      int      `json:"regenerated"`
	Reused           int      `json:"reused"`
	Deleted          int      `json:"deleted"`
	Failed           int      `json:"failed"`
	FailedVehicleIDs []string `json:"failed_vehicle_ids,omitempty"`
}

// MoveStopRequest is the body of PATCH .../stops/:stopId/location
// (§4.5 "Stop-location update hook").
type MoveStopRequest struct {
	Lon float64 `json:"lon" validate:"required"`
	Lat float64 `json:"lat" validate:"required"`
}

// ReorderRequest is the body of PUT .../reorder (§6 "Persist timeline
// reorder"): a per-vehicle ordered stop-id list.
type ReorderRequest struct {
	VehicleStopIDs map[string][]string `json:"vehicle_stop_ids" validate:"required"`
}

// ErrorResponse is the JSON body for every non-2xx response.
type ErrorResponse struct {
	Code             string   `json:"code"`
	Message          string   `json:"message"`
	FailedVehicleIDs []string `json:"failed_vehicle_ids,omitempty"`
}
