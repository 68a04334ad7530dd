package domain

import "errors"

// Stop is a single geographic location a plan must visit. Exactly one
// stop per project is the depot, identified by DepotID on the owning
// StopSet rather than by a field here, so the zero value never
// accidentally reads as "is depot".
type Stop struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Lon    float64 `json:"lon"`
	Lat    float64 `json:"lat"`
	Demand int     `json:"demand"`
}

// StopSet is the current snapshot of stops for a project, read once at
// the start of optimization or materialization and never re-read
// mid-operation (see concurrency model: single-writer shared read).
type StopSet struct {
	DepotID string          `json:"depot_id"`
	Stops   map[string]Stop `json:"stops"`
}

var (
	ErrStopIDEmpty        = errors.New("domain: stop id must not be empty")
	ErrStopDuplicateID    = errors.New("domain: duplicate stop id")
	ErrNoDepot            = errors.New("domain: stop set has no depot")
	ErrDepotDemandNonzero = errors.New("domain: depot demand must be zero")
	ErrNegativeDemand     = errors.New("domain: stop demand must be non-negative")
)

// NewStopSet validates and builds a StopSet from an ordered stop list
// plus the id marking the depot.
func NewStopSet(stops []Stop, depotID string) (*StopSet, error) {
	if depotID == "" {
		return nil, ErrNoDepot
	}
	byID := make(map[string]Stop, len(stops))
	for _, s := range stops {
		if s.ID == "" {
			return nil, ErrStopIDEmpty
		}
		if _, exists := byID[s.ID]; exists {
			return nil, ErrStopDuplicateID
		}
		if s.Demand < 0 {
			return nil, ErrNegativeDemand
		}
		byID[s.ID] = s
	}
	depot, ok := byID[depotID]
	if !ok {
		return nil, ErrNoDepot
	}
	if depot.Demand != 0 {
		return nil, ErrDepotDemandNonzero
	}
	return &StopSet{DepotID: depotID, Stops: byID}, nil
}

// Depot returns the depot stop.
func (s *StopSet) Depot() Stop {
	return s.Stops[s.DepotID]
}

// NonDepotIDs returns the ids of every stop except the depot, in no
// particular order; callers that need determinism sort the result.
func (s *StopSet) NonDepotIDs() []string {
	ids := make([]string, 0, len(s.Stops)-1)
	for id := range s.Stops {
		if id != s.DepotID {
			ids = append(ids, id)
		}
	}
	return ids
}

// TotalDemand sums demand across every non-depot stop.
func (s *StopSet) TotalDemand() int {
	total := 0
	for id, stop := range s.Stops {
		if id != s.DepotID {
			total += stop.Demand
		}
	}
	return total
}
