// Package geo resolves location-ish inputs (free text, postal codes, plus
// codes, map-sharing links) to coordinates and computes great-circle
// distances. Resolution never fails: unresolvable input degrades to a
// documented default city center so distance math downstream stays defined.
package geo

import "math"

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DefaultCenter is the fallback coordinate used whenever resolution fails:
// Bengaluru city center. Historically this constant was duplicated across
// call sites; it is owned here and injected where needed.
var DefaultCenter = Coordinate{Lat: 12.9716, Lng: 77.5946}

// Valid reports whether both components are finite numbers. Parsing can
// produce NaN or Inf; those must be treated as absent rather than fed into
// distance math.
func (c Coordinate) Valid() bool {
	return isFinite(c.Lat) && isFinite(c.Lng)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
