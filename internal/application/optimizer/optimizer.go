package optimizer

import (
	"context"
	"strconv"
	"time"

	"github.com/CielmobilityWorks/route-optimization-tools/internal/domain"
)

// DefaultTimeBudget is used when the caller specifies zero (§4.1
// "time budget (seconds, default 60)").
const DefaultTimeBudget = 60 * time.Second

// Input is everything the optimizer needs to produce an ordered plan.
type Input struct {
	Stops        *domain.StopSet
	Matrix       *domain.MatrixPair
	VehicleCount int
	Capacity     int
	Mode         domain.RouteMode
	Objective    domain.ObjectiveSpec
	TimeBudget   time.Duration
}

// Optimizer produces ordered plans from a matrix pair and objective
// spec. It holds no mutable state between calls; Solve is safe to
// call concurrently from multiple goroutines with distinct inputs.
type Optimizer struct{}

// New returns a ready-to-use Optimizer.
func New() *Optimizer {
	return &Optimizer{}
}

// Solve produces an ordered plan honoring input.TimeBudget as a hard
// deadline (§5 "Cancellation & timeouts"). On solver error during
// objective setup or solve for a cost/makespan-style objective, it
// automatically falls back to a distance-primary objective per §4.1
// and records FallbackUsed in the result metadata rather than
// returning an error.
func (o *Optimizer) Solve(ctx context.Context, in Input) (*domain.OrderedPlan, error) {
	if err := o.validate(in); err != nil {
		return nil, err
	}

	budget := in.TimeBudget
	if budget <= 0 {
		budget = DefaultTimeBudget
	}
	deadline := time.Now().Add(budget)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	start := time.Now()
	plan, fallbackUsed, fallbackReason, err := o.solveWithFallback(in, deadline)
	if err != nil {
		return nil, err
	}

	plan.Metadata.SolveDurationMS = time.Since(start).Milliseconds()
	plan.Metadata.FallbackUsed = fallbackUsed
	plan.Metadata.FallbackReason = fallbackReason
	plan.Metadata.ObjectiveRequested = in.Objective.Primary
	if fallbackUsed {
		plan.Metadata.ObjectiveUsed = domain.ObjectiveDistance
	} else {
		plan.Metadata.ObjectiveUsed = in.Objective.Primary
	}
	plan.Metadata.VehiclesUsed = len(plan.Routes)

	if err := plan.Validate(in.Stops, in.Capacity); err != nil {
		return nil, err
	}
	return plan, nil
}

func (o *Optimizer) validate(in Input) error {
	if in.Stops == nil || in.Matrix == nil {
		return domain.NewPlanError(domain.CodeBadInput, "stops and matrix are required")
	}
	if err := in.Matrix.Validate(); err != nil {
		return err
	}
	if len(in.Matrix.StopOrder) != len(in.Stops.Stops) {
		return domain.NewPlanError(domain.CodeBadInput, "matrix dimension does not match stop count")
	}
	if in.VehicleCount < 1 {
		return domain.NewPlanError(domain.CodeBadInput, "vehicle_count must be >= 1")
	}
	if in.Capacity < 1 {
		return domain.NewPlanError(domain.CodeBadInput, "capacity must be >= 1")
	}
	if in.Mode != domain.RouteModeClosedTour && in.Mode != domain.RouteModeOpenEnd {
		return domain.NewPlanError(domain.CodeBadInput, "unknown route mode")
	}
	if err := in.Objective.Validate(); err != nil {
		return err
	}

	total := in.Stops.TotalDemand()
	if total > in.VehicleCount*in.Capacity {
		return domain.NewPlanError(domain.CodeInfeasible, "total demand exceeds vehicle_count * capacity")
	}
	for id, s := range in.Stops.Stops {
		if id == in.Stops.DepotID {
			continue
		}
		if s.Demand > in.Capacity {
			return domain.NewPlanError(domain.CodeInfeasible, "stop "+id+" demand exceeds capacity")
		}
	}
	return nil
}

// solveWithFallback attempts in.Objective, and when a cost/makespan
// objective fails with anything other than Infeasible or BadInput
// (including a panic recovered by attemptSolveRecovered), retries once
// with a distance-primary objective.
func (o *Optimizer) solveWithFallback(in Input, deadline time.Time) (plan *domain.OrderedPlan, fallbackUsed bool, fallbackReason string, err error) {
	isUnstableObjective := in.Objective.Primary == domain.ObjectiveCost || in.Objective.Primary == domain.ObjectiveMakespan

	if isUnstableObjective {
		plan, err = o.attemptSolveRecovered(in, in.Objective, deadline)
		if err == nil {
			return plan, false, "", nil
		}
		if code := domain.CodeOf(err); code == domain.CodeInfeasible || code == domain.CodeBadInput {
			// Infeasible/BadInput are not solver instability; do not
			// mask them behind a fallback.
			return nil, false, "", err
		}
		fallbackSpec := distanceFallbackSpec()
		plan, err = o.attemptSolveRecovered(in, fallbackSpec, deadline)
		if err != nil {
			return nil, false, "", err
		}
		return plan, true, "objective setup failed for " + string(in.Objective.Primary) + ", fell back to distance", nil
	}

	plan, err = o.attemptSolveRecovered(in, in.Objective, deadline)
	if err != nil {
		return nil, false, "", err
	}
	return plan, false, "", nil
}

// attemptSolveRecovered runs buildPlan and converts a panic into an
// error so solveWithFallback can decide whether to retry.
func (o *Optimizer) attemptSolveRecovered(in Input, spec domain.ObjectiveSpec, deadline time.Time) (plan *domain.OrderedPlan, err error) {
	defer func() {
		if r := recover(); r != nil {
			plan = nil
			err = domain.NewPlanError(domain.CodeNoSolution, "solver panic during objective setup")
		}
	}()
	return buildPlan(in, spec, deadline)
}

func buildPlan(in Input, spec domain.ObjectiveSpec, deadline time.Time) (*domain.OrderedPlan, error) {
	cm := newCostModel(in.Matrix, spec)

	routes, err := cheapestInsertion(in.Matrix, in.Stops, cm, in.VehicleCount, in.Capacity, in.Mode)
	if err != nil {
		return nil, err
	}

	loadByIndex := make(map[int]int, len(in.Stops.Stops))
	for id, s := range in.Stops.Stops {
		loadByIndex[in.Matrix.IndexOf(id)] = s.Demand
	}

	localSearch(cm, routes, loadByIndex, in.Capacity, deadline)

	depotIdx := in.Matrix.IndexOf(in.Stops.DepotID)
	plan := &domain.OrderedPlan{
		Mode:   in.Mode,
		Routes: make(map[string]*domain.VehicleRoute),
	}

	vehicleNum := 0
	for _, r := range routes {
		if len(r.stops) < 2 {
			continue // depot-only: unused vehicle, excluded per §8 invariant 11
		}
		vehicleNum++
		vehicleID := vehicleIDFor(vehicleNum)

		finalStops := r.stops
		if in.Mode == domain.RouteModeClosedTour {
			finalStops = append(append([]int{}, r.stops...), depotIdx)
		}

		cumLoad := make([]int, len(finalStops))
		cumTime := make([]float64, len(finalStops))
		cumDist := make([]float64, len(finalStops))
		stopIDs := make([]string, len(finalStops))
		load := 0
		for i, idx := range finalStops {
			stopIDs[i] = in.Matrix.StopOrder[idx]
			if i > 0 {
				load += loadByIndex[idx]
				cumTime[i] = cumTime[i-1] + in.Matrix.T[finalStops[i-1]][idx]
				cumDist[i] = cumDist[i-1] + in.Matrix.D[finalStops[i-1]][idx]
			}
			cumLoad[i] = load
		}

		plan.Routes[vehicleID] = &domain.VehicleRoute{
			VehicleID:       vehicleID,
			StopIDs:         stopIDs,
			CumulativeLoad:  cumLoad,
			ProvisionalTime: cumTime,
			ProvisionalDist: cumDist,
			RouteLoad:       r.load,
		}
	}

	plan.Metadata.PenaltyScore = aggregatePenalty(in, plan, spec.Penalties)

	return plan, nil
}

// aggregatePenalty evaluates the additional weighted objective terms
// (§4.1 "Additional terms") over the finished plan, for reporting
// alongside the primary objective's result.
func aggregatePenalty(in Input, plan *domain.OrderedPlan, weights domain.PenaltyWeights) float64 {
	loads := make([]int, 0, len(plan.Routes))
	total := 0.0
	for _, r := range plan.Routes {
		dist := 0.0
		tm := 0.0
		if n := len(r.ProvisionalDist); n > 0 {
			dist = r.ProvisionalDist[n-1]
			tm = r.ProvisionalTime[n-1]
		}
		total += routePenalty(weights, dist, tm, r.RouteLoad, in.Capacity)
		loads = append(loads, r.RouteLoad)
	}
	total += workloadBalancePenalty(weights.WorkloadBalance, loads)
	return total
}

func vehicleIDFor(n int) string {
	return "vehicle-" + strconv.Itoa(n)
}
