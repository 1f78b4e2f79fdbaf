package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosom/localrank/geo"
)

func Test_Distance_IdenticalPoints(t *testing.T) {
	p := geo.Coordinate{Lat: 12.9716, Lng: 77.5946}

	require.Equal(t, 0.0, geo.DistanceKm(p, p))
}

func Test_Distance_Symmetry(t *testing.T) {
	pairs := [][2]geo.Coordinate{
		{{Lat: 12.9716, Lng: 77.5946}, {Lat: 19.0760, Lng: 72.8777}},
		{{Lat: -33.8688, Lng: 151.2093}, {Lat: 51.5074, Lng: -0.1278}},
		{{Lat: 0, Lng: 0}, {Lat: 0.0001, Lng: 0.0001}},
	}

	for _, pair := range pairs {
		require.Equal(t, geo.DistanceKm(pair[0], pair[1]), geo.DistanceKm(pair[1], pair[0]))
	}
}

func Test_Distance_KnownPair(t *testing.T) {
	bengaluru := geo.Coordinate{Lat: 12.9716, Lng: 77.5946}
	mumbai := geo.Coordinate{Lat: 19.0760, Lng: 72.8777}

	d := geo.DistanceKm(bengaluru, mumbai)

	require.InDelta(t, 843, d, 5)
}

func Test_Distance_Units(t *testing.T) {
	a := geo.Coordinate{Lat: 12.9716, Lng: 77.5946}
	b := geo.Coordinate{Lat: 13.0827, Lng: 80.2707}

	km := geo.Distance(a, b, geo.Kilometers)
	mi := geo.Distance(a, b, geo.Miles)
	nm := geo.Distance(a, b, geo.NauticalMiles)

	require.Greater(t, km, mi)
	require.Greater(t, mi, nm)
	require.InDelta(t, km, mi*1.609344, 0.2)
}

func Test_Distance_NeverNaN(t *testing.T) {
	tests := []struct {
		name string
		a, b geo.Coordinate
	}{
		{
			name: "antipodal points",
			a:    geo.Coordinate{Lat: 45, Lng: 90},
			b:    geo.Coordinate{Lat: -45, Lng: -90},
		},
		{
			name: "numerically adjacent points",
			a:    geo.Coordinate{Lat: 12.9716, Lng: 77.5946},
			b:    geo.Coordinate{Lat: 12.9716, Lng: 77.59460000000001},
		},
		{
			name: "same latitude",
			a:    geo.Coordinate{Lat: 10, Lng: 20},
			b:    geo.Coordinate{Lat: 10, Lng: 20.000000001},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := geo.DistanceKm(tt.a, tt.b)

			require.False(t, math.IsNaN(d))
			require.GreaterOrEqual(t, d, 0.0)
		})
	}
}

func Test_Distance_OneDecimal(t *testing.T) {
	a := geo.Coordinate{Lat: 12.9716, Lng: 77.5946}
	b := geo.Coordinate{Lat: 13.0, Lng: 77.6}

	d := geo.DistanceKm(a, b)

	require.Equal(t, math.Round(d*10)/10, d)
}
