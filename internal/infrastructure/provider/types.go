package provider

import "encoding/json"

// Point is a single lon/lat coordinate in the provider's own request
// coordinate order.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// DirectionsRequest is the outbound wire body (§6): start, end, an
// ordered via list, and the recognized configuration parameters.
// Field names are bit-exact to the provider's documented schema.
type DirectionsRequest struct {
	Start        Point  `json:"start"`
	End          Point  `json:"end"`
	Via          []Point `json:"via"`
	SearchOption int    `json:"searchOption"`
	CarType      int    `json:"carType"`
	TotalValue   int    `json:"totalValue"` // dwell seconds applied per via
	ReqCoordType string `json:"reqCoordType"`
	ResCoordType string `json:"resCoordType"`
	StartTime    string `json:"startTime"` // YYYYMMDDHHMM
}

// DirectionsResponse is the provider's feature-collection response.
type DirectionsResponse struct {
	Type       string             `json:"type"`
	Features   []Feature          `json:"features"`
	Properties ResponseProperties `json:"properties"`
}

// ResponseProperties carries the route-level totals.
type ResponseProperties struct {
	TotalTime     float64 `json:"totalTime"`
	TotalDistance float64 `json:"totalDistance"`
}

// Feature is one geometry segment or point of the route.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   Geometry          `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// FeatureProperties carries a segment's own time/distance and, for
// point features, an optional cumulative override (§4.2 step 1:
// "provider point-features that carry their own cumulative values
// override").
type FeatureProperties struct {
	Time               float64  `json:"time,omitempty"`
	Distance           float64  `json:"distance,omitempty"`
	CumulativeTime     *float64 `json:"cumulativeTime,omitempty"`
	CumulativeDistance *float64 `json:"cumulativeDistance,omitempty"`
}

// Geometry is a GeoJSON-style geometry whose Coordinates shape
// depends on Type ("LineString" or "Point").
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// LineStringCoords decodes Coordinates as an ordered [lon, lat] list.
func (g Geometry) LineStringCoords() ([][2]float64, error) {
	var coords [][2]float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
		return nil, err
	}
	return coords, nil
}

// PointCoords decodes Coordinates as a single [lon, lat] pair.
func (g Geometry) PointCoords() ([2]float64, error) {
	var coord [2]float64
	if err := json.Unmarshal(g.Coordinates, &coord); err != nil {
		return coord, err
	}
	return coord, nil
}
