package domain

import (
	"errors"
	"regexp"
	"time"
)

// BaselineScenarioID is the implicit scenario every project has; it
// cannot be deleted (§4.3).
const BaselineScenarioID = "baseline"

var scenarioIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var (
	ErrScenarioIDInvalid       = errors.New("domain: scenario id must match ^[A-Za-z0-9_-]+$")
	ErrBaselineNotDeletable    = errors.New("domain: the baseline scenario cannot be deleted")
)

// ValidScenarioID reports whether id matches the charset contract
// from §4.3 ("alphanumerics, dash, underscore").
func ValidScenarioID(id string) bool {
	return id != "" && scenarioIDPattern.MatchString(id)
}

// EditPlanRow is one row of a scenario's tabular edit plan: the
// user-intended vehicle assignment and position for a stop.
type EditPlanRow struct {
	VehicleID string `json:"vehicle_id"`
	StopOrder int    `json:"stop_order"`
	StopID    string `json:"stop_id"`
}

// EditPlan is the full tabular edit plan for a scenario.
type EditPlan struct {
	Rows []EditPlanRow `json:"rows"`
}

// VehicleStopIDs groups the edit plan's rows by vehicle, each group
// sorted by stop_order, and prefixed with the depot id to form the
// desired ordered waypoint list for that vehicle.
func (p *EditPlan) VehicleStopIDs(depotID string) map[string][]string {
	byVehicle := make(map[string][]EditPlanRow)
	for _, row := range p.Rows {
		byVehicle[row.VehicleID] = append(byVehicle[row.VehicleID], row)
	}
	result := make(map[string][]string, len(byVehicle))
	for vehicleID, rows := range byVehicle {
		for i := 1; i < len(rows); i++ {
			for j := i; j > 0 && rows[j-1].StopOrder > rows[j].StopOrder; j-- {
				rows[j-1], rows[j] = rows[j], rows[j-1]
			}
		}
		ids := make([]string, 0, len(rows)+1)
		ids = append(ids, depotID)
		for _, r := range rows {
			ids = append(ids, r.StopID)
		}
		result[vehicleID] = ids
	}
	return result
}

// StopOverride holds a scenario-local coordinate override for a single
// stop, set by the stop-location update hook (§4.5): the move applies
// to this scenario only, never to the shared project stop set.
type StopOverride struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// EditScenario is a named variant of the baseline plan: its tabular
// edit plan and its cached materialized artifact (§3 "Edit scenario").
type EditScenario struct {
	ID             string                  `json:"id"`
	ProjectID      string                  `json:"project_id"`
	ParentID       string                  `json:"parent_id,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	Plan           EditPlan                `json:"plan"`
	Artifact       *PlanArtifact           `json:"artifact,omitempty"`
	StopOverrides  map[string]StopOverride `json:"stop_overrides,omitempty"`
}

// IsBaseline reports whether this scenario is the implicit baseline.
func (s *EditScenario) IsBaseline() bool {
	return s.ID == BaselineScenarioID
}

// EffectiveStops returns a copy of base with this scenario's
// coordinate overrides applied; it never mutates base, and never
// touches demand or name, only lon/lat (§4.5).
func (s *EditScenario) EffectiveStops(base *StopSet) *StopSet {
	if len(s.StopOverrides) == 0 {
		return base
	}

	stops := make(map[string]Stop, len(base.Stops))
	for id, stop := range base.Stops {
		if ov, ok := s.StopOverrides[id]; ok {
			stop.Lon = ov.Lon
			stop.Lat = ov.Lat
		}
		stops[id] = stop
	}
	return &StopSet{DepotID: base.DepotID, Stops: stops}
}

// SetStopOverride records a scenario-local coordinate move for stopID.
func (s *EditScenario) SetStopOverride(stopID string, lon, lat float64) {
	if s.StopOverrides == nil {
		s.StopOverrides = make(map[string]StopOverride)
	}
	s.StopOverrides[stopID] = StopOverride{Lon: lon, Lat: lat}
}
