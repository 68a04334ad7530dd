package editdelta

import (
	"context"
	"sort"

	"github.com/CielmobilityWorks/route-optimization-tools/internal/application/materializer"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/domain"
)

// Stats reports what the engine did on one reconciliation pass (§4.4
// step 6).
type Stats struct {
	Regenerated     int      `json:"regenerated"`
	Reused          int      `json:"reused"`
	Deleted         int      `json:"deleted"`
	Failed          int      `json:"failed"`
	FailedVehicleIDs []string `json:"failed_vehicle_ids,omitempty"`
}

// Engine reconciles a scenario's tabular edit plan against its cached
// artifact, materializing only changed vehicles.
type Engine struct {
	materializer *materializer.Materializer
}

func New(m *materializer.Materializer) *Engine {
	return &Engine{materializer: m}
}

// Reload runs the full reconciliation algorithm of §4.4: it never
// mutates the scenario's existing artifact in place, returning a new
// one that the caller (the plan store) is responsible for writing back
// atomically only once every queued call has settled.
func (e *Engine) Reload(ctx context.Context, scenario *domain.EditScenario, stops *domain.StopSet, matrixHash string, params domain.MaterializationParams) (*domain.PlanArtifact, Stats, error) {
	desired, err := desiredPlan(&scenario.Plan, stops)
	if err != nil {
		return nil, Stats{}, err
	}

	cached := scenario.Artifact
	if cached == nil {
		cached = domain.NewEmptyArtifact(matrixHash, params)
	}

	reusable := make(map[string]*domain.MaterializedRoute)
	queue := make(map[string][]string)

	for vehicleID, stopIDs := range desired {
		existing, ok := cached.Vehicles[vehicleID]
		if ok && existing.Status == domain.VehicleStatusOK {
			desiredFP := domain.Fingerprint(stopIDs, stops, params)
			cachedFP := existingFingerprint(existing, cached.Params)
			if desiredFP.Equal(cachedFP) {
				reusable[vehicleID] = existing
				continue
			}
		}
		queue[vehicleID] = stopIDs
	}

	var deletedIDs []string
	for vehicleID := range cached.Vehicles {
		if _, stillDesired := desired[vehicleID]; !stillDesired {
			deletedIDs = append(deletedIDs, vehicleID)
		}
	}
	sort.Strings(deletedIDs)

	var materialized map[string]*domain.MaterializedRoute
	if len(queue) > 0 {
		materialized = e.materializer.MaterializeQueue(ctx, queue, stops, params)
	}

	artifact := domain.NewEmptyArtifact(matrixHash, params)
	stats := Stats{Deleted: len(deletedIDs)}

	for vehicleID, route := range reusable {
		artifact.Vehicles[vehicleID] = route
		stats.Reused++
	}
	for vehicleID, route := range materialized {
		artifact.Vehicles[vehicleID] = route
		stats.Regenerated++
		if route.Status != domain.VehicleStatusOK {
			stats.Failed++
			stats.FailedVehicleIDs = append(stats.FailedVehicleIDs, vehicleID)
		}
	}
	sort.Strings(stats.FailedVehicleIDs)

	return artifact, stats, nil
}
