// Package materializer turns an ordered plan's per-vehicle stop
// sequence into provider-grounded geometry and cumulative timing
// (§4.2), the critical algorithm of the plan-lifecycle engine.
package materializer

import (
	"math"

	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/provider"
)

// coordEpsilon bounds the exact-match window used when locating a
// waypoint's coordinates on the route geometry (§4.2 step 3: "a
// small-epsilon position match").
const coordEpsilon = 1e-6

// vertex is one point on the walked route geometry, with its
// cumulative time/distance from the start.
type vertex struct {
	lon, lat float64
	cumTime  float64
	cumDist  float64
}

// buildVertices walks the provider's features in order, accumulating
// time and distance, and recording the cumulative values at every
// coordinate of the geometry. LineString features interpolate
// linearly across their own interior vertices (monotone within the
// segment); Point features with an explicit cumulative override take
// that value instead of the running total (§4.2 step 1).
func buildVertices(resp *provider.DirectionsResponse) []vertex {
	var vertices []vertex
	curTime, curDist := 0.0, 0.0

	for _, f := range resp.Features {
		switch f.Geometry.Type {
		case "Point":
			coord, err := f.Geometry.PointCoords()
			if err != nil {
				continue
			}
			ct, cd := curTime, curDist
			if f.Properties.CumulativeTime != nil {
				ct = *f.Properties.CumulativeTime
			}
			if f.Properties.CumulativeDistance != nil {
				cd = *f.Properties.CumulativeDistance
			}
			vertices = append(vertices, vertex{lon: coord[0], lat: coord[1], cumTime: ct, cumDist: cd})

		case "LineString":
			coords, err := f.Geometry.LineStringCoords()
			if err != nil || len(coords) == 0 {
				continue
			}
			segTime := f.Properties.Time
			segDist := f.Properties.Distance
			n := len(coords)
			for i, c := range coords {
				var ct, cd float64
				if n == 1 {
					ct, cd = curTime, curDist
				} else {
					frac := float64(i) / float64(n-1)
					ct = curTime + segTime*frac
					cd = curDist + segDist*frac
				}
				vertices = append(vertices, vertex{lon: c[0], lat: c[1], cumTime: ct, cumDist: cd})
			}
			curTime += segTime
			curDist += segDist
		}
	}

	return dedupeConsecutive(vertices)
}

// dedupeConsecutive removes consecutive coincident vertices (§4.2
// step 2), keeping the first (earliest cumulative values) of any run.
func dedupeConsecutive(vertices []vertex) []vertex {
	if len(vertices) == 0 {
		return vertices
	}
	out := make([]vertex, 0, len(vertices))
	out = append(out, vertices[0])
	for _, v := range vertices[1:] {
		last := out[len(out)-1]
		if math.Abs(v.lon-last.lon) <= coordEpsilon && math.Abs(v.lat-last.lat) <= coordEpsilon {
			continue
		}
		out = append(out, v)
	}
	return out
}

// matchResult is the outcome of locating one waypoint's coordinates
// on the walked vertex list.
type matchResult struct {
	vertex  vertex
	index   int
	matched bool // true if an exact (within-epsilon) match was found
}

// locateWaypoint finds the first vertex at or after scanPtr whose
// coordinates match (lon, lat) within epsilon; if none match exactly,
// it falls back to the nearest vertex by planar distance, still
// constrained to be at or after scanPtr (§4.2 steps 3-4). The scan
// pointer never moves backward, which is what keeps the resulting
// cumulative sequence monotone non-decreasing.
func locateWaypoint(vertices []vertex, lon, lat float64, scanPtr int) matchResult {
	for i := scanPtr; i < len(vertices); i++ {
		if math.Abs(vertices[i].lon-lon) <= coordEpsilon && math.Abs(vertices[i].lat-lat) <= coordEpsilon {
			return matchResult{vertex: vertices[i], index: i, matched: true}
		}
	}

	bestIdx := -1
	bestDist := math.Inf(1)
	for i := scanPtr; i < len(vertices); i++ {
		d := planarDistanceSquared(vertices[i].lon, vertices[i].lat, lon, lat)
		if d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	if bestIdx == -1 {
		return matchResult{index: scanPtr, matched: false}
	}
	return matchResult{vertex: vertices[bestIdx], index: bestIdx, matched: false}
}

func planarDistanceSquared(lon1, lat1, lon2, lat2 float64) float64 {
	dLon := lon1 - lon2
	dLat := lat1 - lat2
	return dLon*dLon + dLat*dLat
}
