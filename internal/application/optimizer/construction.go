package optimizer

import (
	"math"

	"github.com/CielmobilityWorks/route-optimization-tools/internal/domain"
)

// route is the construction/local-search working representation: a
// single vehicle's depot-to-depot (or depot-to-last-stop, in open-end
// mode) stop index sequence, always including index 0 (the depot) as
// its first element.
type route struct {
	stops []int // matrix indices; stops[0] is always the depot
	load  int
}

func newRoute(depotIdx int) *route {
	return &route{stops: []int{depotIdx}}
}

// lastIdx returns the index to treat as the route's current end for
// insertion-cost purposes: the depot in closed-tour mode (since the
// route will return there), or the last stop in open-end mode.
func (r *route) lastIdx(mode domain.RouteMode, depotIdx int) int {
	if mode == domain.RouteModeClosedTour {
		return depotIdx
	}
	if len(r.stops) == 1 {
		return depotIdx
	}
	return r.stops[len(r.stops)-1]
}

// cheapestInsertion builds an initial feasible plan by repeatedly
// inserting the unassigned stop, into the position and vehicle, that
// adds the least combined arc cost, skipping vehicles that would
// exceed capacity. Grounded on the same insertion-cost formula as a
// single-driver cheapest-insertion router: cost = d(prev, s) + d(s,
// next) - d(prev, next).
func cheapestInsertion(m *domain.MatrixPair, stops *domain.StopSet, cm *costModel, vehicleCount, capacity int, mode domain.RouteMode) ([]*route, error) {
	depotIdx := m.IndexOf(stops.DepotID)
	routes := make([]*route, vehicleCount)
	for i := range routes {
		routes[i] = newRoute(depotIdx)
	}

	unassigned := make([]int, 0, len(stops.Stops)-1)
	demand := make(map[int]int, len(stops.Stops))
	for id, s := range stops.Stops {
		idx := m.IndexOf(id)
		demand[idx] = s.Demand
		if id != stops.DepotID {
			unassigned = append(unassigned, idx)
		}
	}

	for len(unassigned) > 0 {
		bestCost := math.Inf(1)
		bestVehicle := -1
		bestPos := -1
		bestStopPos := -1

		for si, stopIdx := range unassigned {
			d := demand[stopIdx]
			for vi, r := range routes {
				if r.load+d > capacity {
					continue
				}
				for pos := 1; pos <= len(r.stops); pos++ {
					cost := insertionCost(cm, r, pos, stopIdx, mode, depotIdx)
					if cost < bestCost {
						bestCost = cost
						bestVehicle = vi
						bestPos = pos
						bestStopPos = si
					}
				}
			}
		}

		if bestVehicle == -1 {
			// Both feasibility preconditions (total demand, per-stop
			// demand) were already checked before construction started;
			// a placement failure here means construction could not find
			// an assignment, not that none exists.
			return nil, domain.NewPlanError(domain.CodeNoSolution, "construction could not place every stop within the fleet's capacity")
		}

		stopIdx := unassigned[bestStopPos]
		r := routes[bestVehicle]
		r.stops = insertAt(r.stops, stopIdx, bestPos)
		r.load += demand[stopIdx]
		unassigned = append(unassigned[:bestStopPos], unassigned[bestStopPos+1:]...)
	}

	return routes, nil
}

// insertionCost is the additional combined-objective cost of inserting
// stopIdx at position pos (1-indexed, after r.stops[pos-1]) into r.
func insertionCost(cm *costModel, r *route, pos, stopIdx int, mode domain.RouteMode, depotIdx int) float64 {
	prev := r.stops[pos-1]

	if pos == len(r.stops) {
		// Inserting at the current end.
		next := r.lastIdx(mode, depotIdx)
		if mode == domain.RouteModeClosedTour {
			return cm.Arc(prev, stopIdx) + cm.Arc(stopIdx, next) - cm.Arc(prev, next)
		}
		// Open-end: no synthetic return arc to subtract, the route
		// simply grows to end at stopIdx.
		return cm.Arc(prev, stopIdx)
	}

	next := r.stops[pos]
	return cm.Arc(prev, stopIdx) + cm.Arc(stopIdx, next) - cm.Arc(prev, next)
}

func insertAt(stops []int, stopIdx, pos int) []int {
	result := make([]int, len(stops)+1)
	copy(result[:pos], stops[:pos])
	result[pos] = stopIdx
	copy(result[pos+1:], stops[pos:])
	return result
}
