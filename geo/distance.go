package geo

import "math"

// Unit selects the distance unit returned by Distance.
type Unit string

const (
	Kilometers    Unit = "K"
	Miles         Unit = "M"
	NauticalMiles Unit = "N"
)

// Distance computes the great-circle distance between two points using the
// spherical law of cosines, rounded to one decimal place.
//
// Identical points short-circuit to 0 to avoid floating-point noise in acos.
// The cosine argument is clamped to [-1, 1] before acos: floating-point
// overshoot on nearly antipodal or nearly identical points would otherwise
// produce NaN, and that clamp is required behavior, not optional robustness.
func Distance(a, b Coordinate, unit Unit) float64 {
	if a.Lat == b.Lat && a.Lng == b.Lng {
		return 0
	}

	radLat1 := a.Lat * math.Pi / 180
	radLat2 := b.Lat * math.Pi / 180
	radTheta := (a.Lng - b.Lng) * math.Pi / 180

	dist := math.Sin(radLat1)*math.Sin(radLat2) +
		math.Cos(radLat1)*math.Cos(radLat2)*math.Cos(radTheta)

	if dist > 1 {
		dist = 1
	} else if dist < -1 {
		dist = -1
	}

	dist = math.Acos(dist)
	dist = dist * 180 / math.Pi
	dist = dist * 60 * 1.1515

	switch unit {
	case Kilometers:
		dist *= 1.609344
	case NauticalMiles:
		dist *= 0.8684
	case Miles:
	}

	return math.Round(dist*10) / 10
}

// DistanceKm is the common case: kilometers, one decimal place.
func DistanceKm(a, b Coordinate) float64 {
	return Distance(a, b, Kilometers)
}
