package domain

// RouteMode selects whether a vehicle route returns to the depot.
type RouteMode string

const (
	RouteModeClosedTour RouteMode = "closed_tour"
	RouteModeOpenEnd    RouteMode = "open_end"
)

// PrimaryObjective is a minimization target usable as either the
// primary objective or a tie-breaker.
type PrimaryObjective string

const (
	ObjectiveDistance      PrimaryObjective = "distance"
	ObjectiveTime          PrimaryObjective = "time"
	ObjectiveVehiclesUsed  PrimaryObjective = "vehicles_used"
	ObjectiveCost          PrimaryObjective = "cost"
	ObjectiveMakespan      PrimaryObjective = "makespan"
)

// ValidPrimaryObjective reports whether o is a recognized objective.
func ValidPrimaryObjective(o PrimaryObjective) bool {
	switch o {
	case ObjectiveDistance, ObjectiveTime, ObjectiveVehiclesUsed, ObjectiveCost, ObjectiveMakespan:
		return true
	}
	return false
}

// PenaltyWeights configures the additional objective terms (§4.1).
// A zero weight disables the corresponding term.
type PenaltyWeights struct {
	TimeWindowViolation float64 `json:"time_window_violation"`
	WaitTime            float64 `json:"wait_time"`
	WorkloadBalance     float64 `json:"workload_balance"`
	Overtime            float64 `json:"overtime"`
	CO2Proxy            float64 `json:"co2_proxy"`
	FixedCost           float64 `json:"fixed_cost"`
	Utilization         float64 `json:"utilization"`
}

// ObjectiveSpec is the optimizer's objective configuration: a primary
// objective, up to two ordered tie-breakers (PrimaryObjective or ""
// for "none"), and weighted penalty terms.
type ObjectiveSpec struct {
	Primary      PrimaryObjective `json:"primary"`
	TieBreaker1  PrimaryObjective `json:"tie_breaker_1,omitempty"`
	TieBreaker2  PrimaryObjective `json:"tie_breaker_2,omitempty"`
	Penalties    PenaltyWeights   `json:"penalties"`
}

// TieBreakers returns the non-empty tie-breakers in order.
func (o ObjectiveSpec) TieBreakers() []PrimaryObjective {
	var out []PrimaryObjective
	if o.TieBreaker1 != "" {
		out = append(out, o.TieBreaker1)
	}
	if o.TieBreaker2 != "" {
		out = append(out, o.TieBreaker2)
	}
	return out
}

// Validate checks the objective vocabulary (§4.1 "BadInput for ...
// invalid objective combinations").
func (o ObjectiveSpec) Validate() error {
	if !ValidPrimaryObjective(o.Primary) {
		return NewPlanError(CodeBadInput, "unknown primary objective: "+string(o.Primary))
	}
	for _, tb := range o.TieBreakers() {
		if !ValidPrimaryObjective(tb) {
			return NewPlanError(CodeBadInput, "unknown tie-breaker objective: "+string(tb))
		}
		if tb == o.Primary {
			return NewPlanError(CodeBadInput, "tie-breaker must differ from primary objective")
		}
	}
	return nil
}
