package materializer

import (
	"context"
	"time"

	"github.com/CielmobilityWorks/route-optimization-tools/internal/domain"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/provider"
)

// DefaultCallTimeout bounds a single provider call (§4.2 "per-call
// timeout, default 15s").
const DefaultCallTimeout = 15 * time.Second

// DefaultVehicleTimeout bounds everything spent materializing one
// vehicle, including retries (§4.2 "per-vehicle timeout, default 60s").
const DefaultVehicleTimeout = 60 * time.Second

// Materializer turns an ordered plan into a plan artifact by calling
// the directions provider once per vehicle and deriving cumulative
// waypoint timing from the returned geometry.
type Materializer struct {
	client         *provider.Client
	maxInFlight    int
	callTimeout    time.Duration
	vehicleTimeout time.Duration
}

// Option configures a Materializer.
type Option func(*Materializer)

func WithMaxInFlight(n int) Option {
	return func(m *Materializer) { m.maxInFlight = n }
}

func WithCallTimeout(d time.Duration) Option {
	return func(m *Materializer) { m.callTimeout = d }
}

func WithVehicleTimeout(d time.Duration) Option {
	return func(m *Materializer) { m.vehicleTimeout = d }
}

func New(client *provider.Client, opts ...Option) *Materializer {
	m := &Materializer{
		client:         client,
		maxInFlight:    DefaultMaxInFlight,
		callTimeout:    DefaultCallTimeout,
		vehicleTimeout: DefaultVehicleTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Materialize fetches geometry and cumulative timing for every
// vehicle in plan, returning a PlanArtifact keyed by vehicle id.
// Per-vehicle provider failures are recorded on that vehicle's
// MaterializedRoute.Status rather than aborting the whole run (§4.2
// "persistent failure is reported per-vehicle, not fatal to the run").
// A vehicle whose route has no non-depot stop is never sent to the
// provider and does not appear in the artifact.
func (m *Materializer) Materialize(ctx context.Context, plan *domain.OrderedPlan, stops *domain.StopSet, matrixHash string, params domain.MaterializationParams) *domain.PlanArtifact {
	artifact := domain.NewEmptyArtifact(matrixHash, params)
	var vehicleIDs []string
	for _, id := range plan.OrderedVehicleIDs() {
		for _, stopID := range plan.Routes[id].StopIDs {
			if stopID != stops.DepotID {
				vehicleIDs = append(vehicleIDs, id)
				break
			}
		}
	}

	results := dispatch(ctx, vehicleIDs, m.maxInFlight, func(ctx context.Context, vehicleID string) *domain.MaterializedRoute {
		vehicleCtx, cancel := context.WithTimeout(ctx, m.vehicleTimeout)
		defer cancel()
		return m.materializeOne(vehicleCtx, plan.Routes[vehicleID], stops, params)
	})

	for i, id := range vehicleIDs {
		artifact.Vehicles[id] = results[i]
	}
	return artifact
}

// MaterializeQueue runs the directions provider once per entry in
// jobs (vehicle id -> desired ordered stop id list), bounded by the
// same in-flight concurrency limit as Materialize. Used by the
// edit-delta engine to re-materialize only the vehicles whose
// fingerprint changed (§4.4 step 5).
func (m *Materializer) MaterializeQueue(ctx context.Context, jobs map[string][]string, stops *domain.StopSet, params domain.MaterializationParams) map[string]*domain.MaterializedRoute {
	vehicleIDs := make([]string, 0, len(jobs))
	for id := range jobs {
		vehicleIDs = append(vehicleIDs, id)
	}

	results := dispatch(ctx, vehicleIDs, m.maxInFlight, func(ctx context.Context, vehicleID string) *domain.MaterializedRoute {
		vehicleCtx, cancel := context.WithTimeout(ctx, m.vehicleTimeout)
		defer cancel()
		stopIDs := jobs[vehicleID]
		load := 0
		for _, id := range stopIDs {
			if id == stops.DepotID {
				continue
			}
			load += stops.Stops[id].Demand
		}
		route := &domain.VehicleRoute{VehicleID: vehicleID, StopIDs: stopIDs, RouteLoad: load}
		return m.materializeOne(vehicleCtx, route, stops, params)
	})

	out := make(map[string]*domain.MaterializedRoute, len(vehicleIDs))
	for i, id := range vehicleIDs {
		out[id] = results[i]
	}
	return out
}

// materializeOne materializes a single vehicle's route.
func (m *Materializer) materializeOne(ctx context.Context, route *domain.VehicleRoute, stops *domain.StopSet, params domain.MaterializationParams) *domain.MaterializedRoute {
	result := &domain.MaterializedRoute{
		VehicleID: route.VehicleID,
		RouteLoad: route.RouteLoad,
	}

	if len(route.StopIDs) < 2 {
		result.Status = domain.VehicleStatusNoMatch
		result.FailureReason = "route has fewer than two stops"
		return result
	}

	req := buildRequest(route, stops, params)

	callCtx, cancel := context.WithTimeout(ctx, m.callTimeout)
	defer cancel()

	resp, err := m.client.Directions(callCtx, req)
	if err != nil {
		result.Status = domain.VehicleStatusProviderError
		result.FailureReason = err.Error()
		return result
	}

	vertices := buildVertices(resp)
	if len(vertices) == 0 {
		result.Status = domain.VehicleStatusNoMatch
		result.FailureReason = "provider returned no usable geometry"
		return result
	}

	waypoints := buildWaypoints(route, stops, vertices, params.DepartAt)
	result.Status = domain.VehicleStatusOK
	result.Waypoints = waypoints
	result.RouteGeometry = geometryFromVertices(vertices)
	result.TotalTime = resp.Properties.TotalTime
	result.TotalDistance = resp.Properties.TotalDistance
	return result
}

// buildRequest assembles the provider request from the vehicle's stop
// order: depot as start, interior stops as via, and the last stop
// (depot for closed-tour mode, final customer stop for open-end) as
// end (§4.2, §6).
func buildRequest(route *domain.VehicleRoute, stops *domain.StopSet, params domain.MaterializationParams) provider.DirectionsRequest {
	ids := route.StopIDs
	start := stops.Stops[ids[0]]
	end := stops.Stops[ids[len(ids)-1]]

	via := make([]provider.Point, 0, len(ids)-2)
	for _, id := range ids[1 : len(ids)-1] {
		s := stops.Stops[id]
		via = append(via, provider.Point{Lon: s.Lon, Lat: s.Lat})
	}

	return provider.DirectionsRequest{
		Start:        provider.Point{Lon: start.Lon, Lat: start.Lat},
		End:          provider.Point{Lon: end.Lon, Lat: end.Lat},
		Via:          via,
		SearchOption: provider.SearchOptionCode(params.SearchOption),
		CarType:      provider.CarTypeCode(params.VehicleClass),
		TotalValue:   params.ViaDwellSeconds,
		ReqCoordType: "WGS84",
		ResCoordType: "WGS84",
		StartTime:    params.DepartAt.Format("200601021504"),
	}
}

// buildWaypoints locates every stop in the vehicle's visiting order
// against the walked vertex list, advancing a monotone scan pointer so
// the resulting cumulative sequence can never move backward (§4.2
// steps 3-4).
func buildWaypoints(route *domain.VehicleRoute, stops *domain.StopSet, vertices []vertex, departAt time.Time) []domain.Waypoint {
	waypoints := make([]domain.Waypoint, len(route.StopIDs))
	scanPtr := 0

	for i, id := range route.StopIDs {
		s := stops.Stops[id]
		match := locateWaypoint(vertices, s.Lon, s.Lat, scanPtr)
		waypoints[i] = domain.Waypoint{
			StopID:             s.ID,
			Name:               s.Name,
			Lon:                s.Lon,
			Lat:                s.Lat,
			Demand:             s.Demand,
			CumulativeTime:     match.vertex.cumTime,
			CumulativeDistance: match.vertex.cumDist,
			ArrivalTime:        departAt.Add(time.Duration(match.vertex.cumTime) * time.Second),
		}
		scanPtr = match.index
	}
	return waypoints
}

func geometryFromVertices(vertices []vertex) [][2]float64 {
	geom := make([][2]float64, len(vertices))
	for i, v := range vertices {
		geom[i] = [2]float64{v.lon, v.lat}
	}
	return geom
}
