package domain

import "time"

// VehicleStatus is the per-vehicle materialization outcome (§4.2
// "Failure reporting").
type VehicleStatus string

const (
	VehicleStatusOK            VehicleStatus = "ok"
	VehicleStatusProviderError VehicleStatus = "provider_error"
	VehicleStatusNoMatch       VehicleStatus = "no_match"
)

// Waypoint is a materialized stop: the road-network-grounded
// cumulative time/distance from the depot, plus the derived wall-clock
// arrival time. CumulativeTime and CumulativeDistance are monotone
// non-decreasing along a route's waypoint list; this is an invariant
// the materializer must uphold, never loosened for convenience.
type Waypoint struct {
	StopID             string    `json:"stop_id"`
	Name               string    `json:"name"`
	Lon                float64   `json:"lon"`
	Lat                float64   `json:"lat"`
	Demand             int       `json:"demand"`
	CumulativeTime     float64   `json:"cumulative_time"`
	CumulativeDistance float64   `json:"cumulative_distance"`
	ArrivalTime        time.Time `json:"arrival_time"`
}

// MaterializationParams are the directions-provider parameters that
// (together with the waypoint coordinates) make up a vehicle's
// fingerprint (§4.4).
type MaterializationParams struct {
	SearchOption    SearchOption  `json:"search_option"`
	VehicleClass    VehicleClass  `json:"vehicle_class"`
	DepartAt        time.Time     `json:"depart_at"`
	ViaDwellSeconds int           `json:"via_dwell_seconds"`
}

// SearchOption mirrors the provider's searchOption wire codes (§6).
type SearchOption string

const (
	SearchRecommended SearchOption = "recommended"
	SearchFreeRoads   SearchOption = "free-roads"
	SearchFastest     SearchOption = "fastest"
	SearchBeginner    SearchOption = "beginner"
	SearchTruck       SearchOption = "truck"
)

// VehicleClass mirrors the provider's carType wire codes (§6).
type VehicleClass string

const (
	VehicleClassPassenger    VehicleClass = "passenger"
	VehicleClassMidVan       VehicleClass = "mid-van"
	VehicleClassLargeVan     VehicleClass = "large-van"
	VehicleClassLargeTruck   VehicleClass = "large-truck"
	VehicleClassSpecialTruck VehicleClass = "special-truck"
)

// MaterializedRoute is a vehicle's materialized route: waypoints,
// geometry, and provider totals. Geometry and totals are nil/zero
// when Status is not VehicleStatusOK.
type MaterializedRoute struct {
	VehicleID     string        `json:"vehicle_id"`
	Status        VehicleStatus `json:"status"`
	FailureReason string        `json:"failure_reason,omitempty"`
	Waypoints     []Waypoint    `json:"waypoints"`
	RouteGeometry [][2]float64  `json:"route_geometry,omitempty"` // GeoJSON-style [lon, lat] LineString
	TotalTime     float64       `json:"total_time"`               // provider-reported "geometry total", seconds
	TotalDistance float64       `json:"total_distance"`           // provider-reported "geometry total", meters
	RouteLoad     int           `json:"route_load"`
}

// StartPoint, ViaPoints and EndPoint are views onto Waypoints, per the
// data model's "start_point / via_points / end_point views onto the
// same list".
func (r *MaterializedRoute) StartPoint() *Waypoint {
	if len(r.Waypoints) == 0 {
		return nil
	}
	return &r.Waypoints[0]
}

func (r *MaterializedRoute) EndPoint() *Waypoint {
	if len(r.Waypoints) == 0 {
		return nil
	}
	return &r.Waypoints[len(r.Waypoints)-1]
}

func (r *MaterializedRoute) ViaPoints() []Waypoint {
	if len(r.Waypoints) < 3 {
		return nil
	}
	return r.Waypoints[1 : len(r.Waypoints)-1]
}

// Fingerprint computes the cache key defined in §4.4: the ordered
// tuple of (stop_id, lon, lat) for every waypoint plus the scenario's
// materialization parameters.
func Fingerprint(stopIDs []string, stops *StopSet, params MaterializationParams) VehicleFingerprint {
	points := make([]FingerprintPoint, len(stopIDs))
	for i, id := range stopIDs {
		s := stops.Stops[id]
		points[i] = FingerprintPoint{StopID: s.ID, Lon: s.Lon, Lat: s.Lat}
	}
	return VehicleFingerprint{Points: points, Params: params}
}

// FingerprintPoint is one (stop_id, lon, lat) tuple element of a
// VehicleFingerprint.
type FingerprintPoint struct {
	StopID string
	Lon    float64
	Lat    float64
}

// VehicleFingerprint is the full cache key: coordinates in visiting
// order plus materialization parameters. Two fingerprints are equal
// only if every component matches exactly.
type VehicleFingerprint struct {
	Points []FingerprintPoint
	Params MaterializationParams
}

// Equal reports whether two fingerprints match component-for-component.
func (f VehicleFingerprint) Equal(other VehicleFingerprint) bool {
	if len(f.Points) != len(other.Points) {
		return false
	}
	if f.Params != other.Params {
		return false
	}
	for i := range f.Points {
		if f.Points[i] != other.Points[i] {
			return false
		}
	}
	return true
}
