// Package planservice orchestrates the optimizer, materializer,
// edit-delta engine, scenario store, and event publisher into the
// operations the HTTP transport calls (§6 "Inbound operations").
package planservice

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/CielmobilityWorks/route-optimization-tools/internal/application/editdelta"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/application/materializer"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/application/optimizer"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/domain"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/events"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/projectstore"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/store"
)

// Service wires the plan-lifecycle pipeline's stages together (§2
// "Matrix store -> Optimizer -> Route materializer -> Plan store ->
// Edit-delta engine").
type Service struct {
	projects     *projectstore.Store
	optimizer    *optimizer.Optimizer
	materializer *materializer.Materializer
	editdelta    *editdelta.Engine
	files        *store.FileStore
	index        *store.PostgresIndex
	cache        *store.ScenarioCache
	publisher    events.Publisher
}

func New(
	projects *projectstore.Store,
	opt *optimizer.Optimizer,
	mat *materializer.Materializer,
	ed *editdelta.Engine,
	files *store.FileStore,
	index *store.PostgresIndex,
	cache *store.ScenarioCache,
	publisher events.Publisher,
) *Service {
	return &Service{
		projects:     projects,
		optimizer:    opt,
		materializer: mat,
		editdelta:    ed,
		files:        files,
		index:        index,
		cache:        cache,
		publisher:    publisher,
	}
}

func (s *Service) snapshot(projectID string) (projectstore.Snapshot, error) {
	snap, ok := s.projects.Get(projectID)
	if !ok {
		return projectstore.Snapshot{}, domain.NewPlanError(domain.CodeNotFound, "project "+projectID+" has no stop set")
	}
	return snap, nil
}

// OptimizeInput is the Optimize operation's request (§6 "Optimize").
type OptimizeInput struct {
	StopsSnapshotHash string
	VehicleCount      int
	Capacity          int
	Objective         domain.ObjectiveSpec
	Mode              domain.RouteMode
	TimeBudget        time.Duration
}

// Optimize solves a fresh ordered plan and stores it as the baseline
// scenario's tabular edit plan, clearing any cached artifact since the
// stop order has changed (§4.3 "optimizing replaces the baseline
// scenario's tabular plan").
func (s *Service) Optimize(ctx context.Context, projectID string, in OptimizeInput) (*domain.OrderedPlan, error) {
	snap, err := s.snapshot(projectID)
	if err != nil {
		return nil, err
	}
	if in.StopsSnapshotHash != "" && in.StopsSnapshotHash != snap.Matrix.Hash {
		return nil, domain.NewPlanError(domain.CodeStaleMatrix, "stops snapshot hash does not match the project's current matrix")
	}

	plan, err := s.optimizer.Solve(ctx, optimizer.Input{
		Stops:        snap.Stops,
		Matrix:       snap.Matrix,
		VehicleCount: in.VehicleCount,
		Capacity:     in.Capacity,
		Mode:         in.Mode,
		Objective:    in.Objective,
		TimeBudget:   in.TimeBudget,
	})
	if err != nil {
		return nil, err
	}

	locked, unlock := s.files.Lock(projectID, domain.BaselineScenarioID)
	defer unlock()

	baseline, err := s.loadOrCreateBaseline(locked, projectID)
	if err != nil {
		return nil, err
	}
	baseline.Plan = editPlanFromOrderedPlan(plan)
	baseline.Artifact = nil
	if err := s.saveScenario(ctx, locked, baseline); err != nil {
		return nil, err
	}

	_ = s.publisher.Publish(ctx, events.EventPlanOptimized, map[string]interface{}{
		"project_id":    projectID,
		"vehicles_used": plan.Metadata.VehiclesUsed,
		"fallback_used": plan.Metadata.FallbackUsed,
	})
	return plan, nil
}

// MaterializeBaseline materializes the baseline scenario's current
// tabular plan against the directions provider (§6 "Materialize
// baseline").
func (s *Service) MaterializeBaseline(ctx context.Context, projectID string, params domain.MaterializationParams) (*domain.PlanArtifact, error) {
	snap, err := s.snapshot(projectID)
	if err != nil {
		return nil, err
	}

	locked, unlock := s.files.Lock(projectID, domain.BaselineScenarioID)
	defer unlock()

	baseline, err := locked.LoadLocked()
	if err != nil {
		if err == store.ErrScenarioNotFound {
			return nil, domain.NewPlanError(domain.CodeBadInput, "project has no optimized baseline plan yet")
		}
		return nil, fmt.Errorf("planservice: load baseline: %w", err)
	}

	jobs := baseline.Plan.VehicleStopIDs(snap.Stops.DepotID)
	artifact := s.materializer.Materialize(ctx, &domain.OrderedPlan{Routes: jobsToRoutes(jobs, snap.Stops)}, snap.Stops, snap.Matrix.Hash, params)

	baseline.Artifact = artifact
	if err := s.saveScenario(ctx, locked, baseline); err != nil {
		return nil, err
	}

	_ = s.publisher.Publish(ctx, events.EventPlanMaterialized, map[string]interface{}{
		"project_id": projectID,
		"scenario":   domain.BaselineScenarioID,
		"vehicles":   len(artifact.Vehicles),
	})
	return artifact, nil
}

// ListScenarios returns every scenario summary for a project, served
// cache-aside through Redis in front of the Postgres index.
func (s *Service) ListScenarios(ctx context.Context, projectID string) ([]store.ScenarioSummary, error) {
	return s.cache.List(ctx, projectID)
}

// CreateScenario forks a new named scenario from parentID (or from the
// baseline if parentID is empty), copying its tabular plan and
// artifact as a starting point (§4.3).
func (s *Service) CreateScenario(ctx context.Context, projectID, scenarioID, parentID string) (*domain.EditScenario, error) {
	if !domain.ValidScenarioID(scenarioID) {
		return nil, domain.NewPlanError(domain.CodeBadInput, domain.ErrScenarioIDInvalid.Error())
	}

	locked, unlock := s.files.Lock(projectID, scenarioID)
	defer unlock()

	if _, err := locked.LoadLocked(); err == nil {
		return nil, domain.NewPlanError(domain.CodeBadInput, "scenario "+scenarioID+" already exists")
	}

	if parentID == "" {
		parentID = domain.BaselineScenarioID
	}
	if parentID == scenarioID {
		return nil, domain.NewPlanError(domain.CodeBadInput, "scenario cannot be its own parent")
	}
	parent, err := s.files.Load(projectID, parentID)
	if err != nil {
		if err == store.ErrScenarioNotFound {
			return nil, domain.NewPlanError(domain.CodeNotFound, "parent scenario "+parentID+" not found")
		}
		return nil, fmt.Errorf("planservice: load parent scenario: %w", err)
	}

	scenario := &domain.EditScenario{
		ID:        scenarioID,
		ProjectID: projectID,
		ParentID:  parentID,
		CreatedAt: nowFunc(),
		Plan:      parent.Plan,
		Artifact:  parent.Artifact,
	}
	if err := s.saveScenario(ctx, locked, scenario); err != nil {
		return nil, err
	}
	_ = s.publisher.Publish(ctx, events.EventScenarioCreated, map[string]interface{}{
		"project_id": projectID, "scenario_id": scenarioID, "parent_id": parentID,
	})
	return scenario, nil
}

// DeleteScenario removes a named scenario; the baseline can never be
// deleted (§4.3).
func (s *Service) DeleteScenario(ctx context.Context, projectID, scenarioID string) error {
	if scenarioID == domain.BaselineScenarioID {
		return domain.WrapPlanError(domain.CodeBadInput, "cannot delete the baseline scenario", domain.ErrBaselineNotDeletable)
	}

	if err := s.files.Delete(projectID, scenarioID); err != nil {
		if err == store.ErrScenarioNotFound {
			return domain.NewPlanError(domain.CodeNotFound, "scenario "+scenarioID+" not found")
		}
		return fmt.Errorf("planservice: delete scenario: %w", err)
	}
	if err := s.index.Delete(ctx, projectID, scenarioID); err != nil {
		return fmt.Errorf("planservice: delete scenario index: %w", err)
	}
	if err := s.cache.Invalidate(ctx, projectID); err != nil {
		return fmt.Errorf("planservice: invalidate scenario cache: %w", err)
	}
	_ = s.publisher.Publish(ctx, events.EventScenarioDeleted, map[string]interface{}{
		"project_id": projectID, "scenario_id": scenarioID,
	})
	return nil
}

// ReloadScenario runs the edit-delta engine's reconciliation pass
// (§4.4, §6 "Reload edit scenario") and atomically replaces the
// scenario's artifact with the result.
func (s *Service) ReloadScenario(ctx context.Context, projectID, scenarioID string, params domain.MaterializationParams) (editdelta.Stats, error) {
	snap, err := s.snapshot(projectID)
	if err != nil {
		return editdelta.Stats{}, err
	}

	locked, unlock := s.files.Lock(projectID, scenarioID)
	defer unlock()

	scenario, err := locked.LoadLocked()
	if err != nil {
		if err == store.ErrScenarioNotFound {
			return editdelta.Stats{}, domain.NewPlanError(domain.CodeNotFound, "scenario "+scenarioID+" not found")
		}
		return editdelta.Stats{}, fmt.Errorf("planservice: load scenario: %w", err)
	}

	effectiveStops := scenario.EffectiveStops(snap.Stops)
	artifact, stats, err := s.editdelta.Reload(ctx, scenario, effectiveStops, snap.Matrix.Hash, params)
	if err != nil {
		return editdelta.Stats{}, err
	}

	scenario.Artifact = artifact
	if err := s.saveScenario(ctx, locked, scenario); err != nil {
		return editdelta.Stats{}, err
	}

	_ = s.publisher.Publish(ctx, events.EventScenarioReloaded, map[string]interface{}{
		"project_id": projectID, "scenario_id": scenarioID,
		"regenerated": stats.Regenerated, "reused": stats.Reused, "deleted": stats.Deleted, "failed": stats.Failed,
	})
	return stats, nil
}

// UpdateStopLocation records a scenario-local coordinate move for a
// stop (§4.5): the move never touches the shared project stop set, it
// only changes this scenario's fingerprint inputs so the next Reload
// re-materializes the affected vehicle.
func (s *Service) UpdateStopLocation(ctx context.Context, projectID, scenarioID, stopID string, lon, lat float64) error {
	locked, unlock := s.files.Lock(projectID, scenarioID)
	defer unlock()

	scenario, err := locked.LoadLocked()
	if err != nil {
		if err == store.ErrScenarioNotFound {
			return domain.NewPlanError(domain.CodeNotFound, "scenario "+scenarioID+" not found")
		}
		return fmt.Errorf("planservice: load scenario: %w", err)
	}

	snap, err := s.snapshot(projectID)
	if err != nil {
		return err
	}
	if _, ok := snap.Stops.Stops[stopID]; !ok {
		return domain.NewPlanError(domain.CodeStaleReference, "stop "+stopID+" not found in project stop set")
	}

	scenario.SetStopOverride(stopID, lon, lat)
	if err := s.saveScenario(ctx, locked, scenario); err != nil {
		return err
	}
	_ = s.publisher.Publish(ctx, events.EventStopLocationMoved, map[string]interface{}{
		"project_id": projectID, "scenario_id": scenarioID, "stop_id": stopID,
	})
	return nil
}

// ReorderInput is the Persist timeline reorder operation's request:
// a per-vehicle ordered stop-id list (§6 "Persist timeline reorder").
type ReorderInput struct {
	VehicleStopIDs map[string][]string
}

// PersistReorder writes only the tabular edit plan for a scenario; it
// never calls the directions provider (§6: "writes only the tabular
// edit plan (does not call the provider)"). Rewriting every vehicle's
// stops to their existing order is a no-op for the materialized
// artifact (§3 invariant 8), which this preserves by never touching
// Artifact here — only Reload regenerates it.
func (s *Service) PersistReorder(ctx context.Context, projectID, scenarioID string, in ReorderInput) error {
	locked, unlock := s.files.Lock(projectID, scenarioID)
	defer unlock()

	scenario, err := locked.LoadLocked()
	if err != nil {
		if err == store.ErrScenarioNotFound {
			return domain.NewPlanError(domain.CodeNotFound, "scenario "+scenarioID+" not found")
		}
		return fmt.Errorf("planservice: load scenario: %w", err)
	}

	var rows []domain.EditPlanRow
	vehicleIDs := make([]string, 0, len(in.VehicleStopIDs))
	for vehicleID := range in.VehicleStopIDs {
		vehicleIDs = append(vehicleIDs, vehicleID)
	}
	sort.Strings(vehicleIDs)
	for _, vehicleID := range vehicleIDs {
		for i, stopID := range in.VehicleStopIDs[vehicleID] {
			rows = append(rows, domain.EditPlanRow{VehicleID: vehicleID, StopOrder: i, StopID: stopID})
		}
	}
	scenario.Plan = domain.EditPlan{Rows: rows}
	return s.saveScenario(ctx, locked, scenario)
}

func (s *Service) loadOrCreateBaseline(locked *store.Locked, projectID string) (*domain.EditScenario, error) {
	scenario, err := locked.LoadLocked()
	if err == nil {
		return scenario, nil
	}
	if err != store.ErrScenarioNotFound {
		return nil, fmt.Errorf("planservice: load baseline: %w", err)
	}
	return &domain.EditScenario{
		ID:        domain.BaselineScenarioID,
		ProjectID: projectID,
		CreatedAt: nowFunc(),
	}, nil
}

func (s *Service) saveScenario(ctx context.Context, locked *store.Locked, scenario *domain.EditScenario) error {
	if err := locked.SaveLocked(scenario); err != nil {
		return fmt.Errorf("planservice: save scenario: %w", err)
	}
	if err := s.index.Upsert(ctx, store.ScenarioSummary{
		ID:        scenario.ID,
		ProjectID: scenario.ProjectID,
		ParentID:  scenario.ParentID,
		CreatedAt: scenario.CreatedAt,
	}); err != nil {
		return fmt.Errorf("planservice: upsert scenario index: %w", err)
	}
	if err := s.cache.Invalidate(ctx, scenario.ProjectID); err != nil {
		return fmt.Errorf("planservice: invalidate scenario cache: %w", err)
	}
	return nil
}

func editPlanFromOrderedPlan(plan *domain.OrderedPlan) domain.EditPlan {
	var rows []domain.EditPlanRow
	for _, vehicleID := range plan.OrderedVehicleIDs() {
		route := plan.Routes[vehicleID]
		order := 0
		for _, stopID := range route.StopIDs {
			if stopID == route.StopIDs[0] {
				continue
			}
			rows = append(rows, domain.EditPlanRow{VehicleID: vehicleID, StopOrder: order, StopID: stopID})
			order++
		}
	}
	return domain.EditPlan{Rows: rows}
}

func jobsToRoutes(jobs map[string][]string, stops *domain.StopSet) map[string]*domain.VehicleRoute {
	routes := make(map[string]*domain.VehicleRoute, len(jobs))
	for vehicleID, stopIDs := range jobs {
		load := 0
		for _, id := range stopIDs {
			if id == stops.DepotID {
				continue
			}
			load += stops.Stops[id].Demand
		}
		routes[vehicleID] = &domain.VehicleRoute{VehicleID: vehicleID, StopIDs: stopIDs, RouteLoad: load}
	}
	return routes
}

// nowFunc is a seam for time.Now so tests can substitute a fixed clock.
var nowFunc = time.Now
