package geo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosom/localrank/geo"
)

type fakeLocator struct {
	coord geo.Coordinate
	err   error
}

func (f *fakeLocator) CurrentLocation(_ context.Context) (geo.Coordinate, error) {
	return f.coord, f.err
}

type memoryCache struct {
	entries map[string]geo.Coordinate
	sets    int
}

func (m *memoryCache) Get(_ context.Context, key string) (geo.Coordinate, bool) {
	c, ok := m.entries[key]

	return c, ok
}

func (m *memoryCache) Set(_ context.Context, key string, c geo.Coordinate) {
	if m.entries == nil {
		m.entries = make(map[string]geo.Coordinate)
	}

	m.entries[key] = c
	m.sets++
}

func Test_Resolve_Totality(t *testing.T) {
	resolver := geo.NewResolver()

	inputs := []string{
		"",
		"   ",
		"garbage text nobody can geocode",
		"!!!@@@###",
		"https://example.com/not-maps",
		"999999999999999999999999999",
	}

	for _, input := range inputs {
		c := resolver.Resolve(context.Background(), input)

		require.True(t, c.Valid(), "input %q must resolve to finite coordinates", input)
	}
}

func Test_Resolve_EmptyFallsBackToDefaultCenter(t *testing.T) {
	resolver := geo.NewResolver()

	require.Equal(t, geo.DefaultCenter, resolver.Resolve(context.Background(), ""))
}

func Test_Resolve_PostalCode(t *testing.T) {
	resolver := geo.NewResolver()

	// seed = 560001 mod 1000 = 1
	want := geo.Coordinate{Lat: 20.5937 + 0.1, Lng: 78.9629 + 0.1}

	first := resolver.Resolve(context.Background(), "560001")
	second := resolver.Resolve(context.Background(), "560001")

	require.InDelta(t, want.Lat, first.Lat, 1e-9)
	require.InDelta(t, want.Lng, first.Lng, 1e-9)
	require.Equal(t, first, second)
}

func Test_Resolve_PostalCodeMustStartNonZero(t *testing.T) {
	resolver := geo.NewResolver()

	// Leading zero is not a valid Indian postal code; falls to default.
	require.Equal(t, geo.DefaultCenter, resolver.Resolve(context.Background(), "060001"))
}

func Test_Resolve_Gazetteer(t *testing.T) {
	resolver := geo.NewResolver()

	tests := []struct {
		input string
		want  geo.Coordinate
	}{
		{"Mumbai", geo.Coordinate{Lat: 19.0760, Lng: 72.8777}},
		{"somewhere in mumbai maharashtra", geo.Coordinate{Lat: 19.0760, Lng: 72.8777}},
		{"CHENNAI", geo.Coordinate{Lat: 13.0827, Lng: 80.2707}},
		{"Bengaluru", geo.Coordinate{Lat: 12.9716, Lng: 77.5946}},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, resolver.Resolve(context.Background(), tt.input), "input %q", tt.input)
	}
}

func Test_Resolve_CurrentLocation(t *testing.T) {
	t.Run("locator success", func(t *testing.T) {
		loc := &fakeLocator{coord: geo.Coordinate{Lat: 1.5, Lng: 2.5}}
		resolver := geo.NewResolver(geo.WithLocator(loc))

		c := resolver.Resolve(context.Background(), geo.CurrentLocationSentinel)

		require.Equal(t, geo.Coordinate{Lat: 1.5, Lng: 2.5}, c)
	})

	t.Run("locator failure falls through to default", func(t *testing.T) {
		loc := &fakeLocator{err: errors.New("permission denied")}
		resolver := geo.NewResolver(geo.WithLocator(loc))

		c := resolver.Resolve(context.Background(), geo.CurrentLocationSentinel)

		require.Equal(t, geo.DefaultCenter, c)
	})

	t.Run("no locator configured", func(t *testing.T) {
		resolver := geo.NewResolver()

		c := resolver.Resolve(context.Background(), geo.CurrentLocationSentinel)

		require.True(t, c.Valid())
	})
}

func Test_Resolve_PlusCode(t *testing.T) {
	resolver := geo.NewResolver()

	// Full plus code near Bengaluru city center.
	c := resolver.Resolve(context.Background(), "7J4VXHCV+GR")

	require.True(t, c.Valid())
	require.NotEqual(t, geo.DefaultCenter, c)
	require.InDelta(t, 12.97, c.Lat, 0.5)
	require.InDelta(t, 77.59, c.Lng, 0.5)
}

func Test_Resolve_CacheRoundTrip(t *testing.T) {
	cache := &memoryCache{}
	resolver := geo.NewResolver(geo.WithCache(cache))

	first := resolver.Resolve(context.Background(), "Mumbai")
	require.Equal(t, 1, cache.sets)

	second := resolver.Resolve(context.Background(), "Mumbai")
	require.Equal(t, 1, cache.sets, "second lookup must hit the cache")
	require.Equal(t, first, second)
}

func Test_Resolve_CustomDefaultCenter(t *testing.T) {
	center := geo.Coordinate{Lat: 48.8566, Lng: 2.3522}
	resolver := geo.NewResolver(geo.WithDefaultCenter(center))

	require.Equal(t, center, resolver.Resolve(context.Background(), "unresolvable"))
}
