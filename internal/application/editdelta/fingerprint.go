// Package editdelta reconciles an edit scenario's desired tabular plan
// against its cached materialized artifact, re-materializing only the
// vehicles whose fingerprint changed (§4.4).
package editdelta

import "github.com/CielmobilityWorks/route-optimization-tools/internal/domain"

// desiredPlan resolves a scenario's tabular edit rows into each
// vehicle's ordered stop id list, failing with StaleReference if any
// referenced stop id is no longer in the current stop set (§4.4 step 1).
func desiredPlan(plan *domain.EditPlan, stops *domain.StopSet) (map[string][]string, error) {
	byVehicle := plan.VehicleStopIDs(stops.DepotID)
	for vehicleID, ids := range byVehicle {
		for _, id := range ids {
			if _, ok := stops.Stops[id]; !ok {
				return nil, domain.NewPlanError(domain.CodeStaleReference, "scenario references unknown stop "+id+" in vehicle "+vehicleID)
			}
		}
	}
	return byVehicle, nil
}

// existingFingerprint reconstructs the fingerprint a cached
// materialized route was built under, from its own waypoint list, so
// it can be compared against the desired fingerprint without needing
// to store fingerprints separately in the artifact.
func existingFingerprint(route *domain.MaterializedRoute, params domain.MaterializationParams) domain.VehicleFingerprint {
	points := make([]domain.FingerprintPoint, len(route.Waypoints))
	for i, wp := range route.Waypoints {
		points[i] = domain.FingerprintPoint{StopID: wp.StopID, Lon: wp.Lon, Lat: wp.Lat}
	}
	return domain.VehicleFingerprint{Points: points, Params: params}
}
