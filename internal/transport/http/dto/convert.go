package dto

import (
	"github.com/CielmobilityWorks/route-optimization-tools/internal/application/editdelta"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/domain"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/store"
)

// ToObjectiveSpec converts the wire objective shape to the domain one.
func (o ObjectiveSpec) ToObjectiveSpec() domain.ObjectiveSpec {
	return domain.ObjectiveSpec{
		Primary:     domain.PrimaryObjective(o.Primary),
		TieBreaker1: domain.PrimaryObjective(o.TieBreaker1),
		TieBreaker2: domain.PrimaryObjective(o.TieBreaker2),
		Penalties: domain.PenaltyWeights{
			TimeWindowViolation: o.Penalties.TimeWindowViolation,
			WaitTime:            o.Penalties.WaitTime,
			WorkloadBalance:     o.Penalties.WorkloadBalance,
			Overtime:            o.Penalties.Overtime,
			CO2Proxy:            o.Penalties.CO2Proxy,
			FixedCost:           o.Penalties.FixedCost,
			Utilization:         o.Penalties.Utilization,
		},
	}
}

// ToMaterializationParams converts the wire params shape to the domain one.
func (p MaterializationParamsRequest) ToMaterializationParams() domain.MaterializationParams {
	return domain.MaterializationParams{
		SearchOption:    domain.SearchOption(p.SearchOption),
		VehicleClass:    domain.VehicleClass(p.VehicleClass),
		DepartAt:        p.DepartAt,
		ViaDwellSeconds: p.ViaDwellSeconds,
	}
}

// OptimizeResponseFrom builds the wire response from an ordered plan.
func OptimizeResponseFrom(plan *domain.OrderedPlan) OptimizeResponse {
	routes := make(map[string]VehicleRouteResponse, len(plan.Routes))
	for id, r := range plan.Routes {
		routes[id] = VehicleRouteResponse{
			VehicleID:       r.VehicleID,
			StopIDs:         r.StopIDs,
			CumulativeLoad:  r.CumulativeLoad,
			ProvisionalTime: r.ProvisionalTime,
			ProvisionalDist: r.ProvisionalDist,
			RouteLoad:       r.RouteLoad,
		}
	}
	return OptimizeResponse{
		Mode:   string(plan.Mode),
		Routes: routes,
		Metadata: PlanMetadataResponse{
			ObjectiveRequested: string(plan.Metadata.ObjectiveRequested),
			ObjectiveUsed:      string(plan.Metadata.ObjectiveUsed),
			FallbackUsed:       plan.Metadata.FallbackUsed,
			FallbackReason:     plan.Metadata.FallbackReason,
			SolveDurationMS:    plan.Metadata.SolveDurationMS,
			VehiclesUsed:       plan.Metadata.VehiclesUsed,
			PenaltyScore:       plan.Metadata.PenaltyScore,
		},
	}
}

// ArtifactResponseFrom builds the wire response from a plan artifact.
func ArtifactResponseFrom(a *domain.PlanArtifact) ArtifactResponse {
	vehicles := make(map[string]MaterializedRouteResponse, len(a.Vehicles))
	var failed []string
	for id, v := range a.Vehicles {
		waypoints := make([]WaypointResponse, len(v.Waypoints))
		for i, w := range v.Waypoints {
			waypoints[i] = WaypointResponse{
				StopID:             w.StopID,
				Name:               w.Name,
				Lon:                w.Lon,
				Lat:                w.Lat,
				Demand:             w.Demand,
				CumulativeTime:     w.CumulativeTime,
				CumulativeDistance: w.CumulativeDistance,
				ArrivalTime:        w.ArrivalTime,
			}
		}
		vehicles[id] = MaterializedRouteResponse{
			VehicleID:     v.VehicleID,
			Status:        string(v.Status),
			FailureReason: v.FailureReason,
			Waypoints:     waypoints,
			RouteGeometry: v.RouteGeometry,
			TotalTime:     v.TotalTime,
			TotalDistance: v.TotalDistance,
			RouteLoad:     v.RouteLoad,
		}
		if v.Status != domain.VehicleStatusOK {
			failed = append(failed, id)
		}
	}
	return ArtifactResponse{MatrixHash: a.MatrixHash, Vehicles: vehicles, FailedVehicleIDs: failed}
}

// ScenarioSummaryResponseFrom converts a store summary row to the wire shape.
func ScenarioSummaryResponseFrom(s store.ScenarioSummary) ScenarioSummaryResponse {
	return ScenarioSummaryResponse{ID: s.ID, ProjectID: s.ProjectID, ParentID: s.ParentID, CreatedAt: s.CreatedAt}
}

// ReloadStatsFrom converts edit-delta stats to the wire shape.
func ReloadStatsFrom(s editdelta.Stats) ReloadStats {
	return ReloadStats{
		Regenerated:      s.Regenerated,
		Reused:           s.Reused,
		Deleted:          s.Deleted,
		Failed:           s.Failed,
		FailedVehicleIDs: s.FailedVehicleIDs,
	}
}
