package geo

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	olc "github.com/google/open-location-code/go"
)

// CurrentLocationSentinel is the input value that requests resolution via the
// device/caller geolocation capability instead of text lookup.
const CurrentLocationSentinel = "Current Location"

// locatorTimeout bounds the wait on the external geolocation capability.
const locatorTimeout = 10 * time.Second

// Locator is an external capability that produces the caller's current
// position. It is the only asynchronous boundary in the package; it may fail
// or time out, in which case resolution falls through to the default center.
type Locator interface {
	CurrentLocation(ctx context.Context) (Coordinate, error)
}

// Cache stores resolved coordinates keyed by the raw input string. Both
// methods are best effort: a cache miss or error never fails resolution.
type Cache interface {
	Get(ctx context.Context, key string) (Coordinate, bool)
	Set(ctx context.Context, key string, c Coordinate)
}

type gazetteerEntry struct {
	name  string
	coord Coordinate
}

// gazetteer maps known city names to coordinates. Matching is
// case-insensitive substring, tried in insertion order, first match wins.
var gazetteer = []gazetteerEntry{
	{"bangalore", Coordinate{12.9716, 77.5946}},
	{"bengaluru", Coordinate{12.9716, 77.5946}},
	{"mumbai", Coordinate{19.0760, 72.8777}},
	{"delhi", Coordinate{28.7041, 77.1025}},
	{"chennai", Coordinate{13.0827, 80.2707}},
	{"kolkata", Coordinate{22.5726, 88.3639}},
	{"hyderabad", Coordinate{17.3850, 78.4867}},
	{"pune", Coordinate{18.5204, 73.8567}},
	{"ahmedabad", Coordinate{23.0225, 72.5714}},
	{"jaipur", Coordinate{26.9124, 75.7873}},
	{"lucknow", Coordinate{26.8467, 80.9462}},
	{"kochi", Coordinate{9.9312, 76.2673}},
	{"goa", Coordinate{15.2993, 74.1240}},
	{"chandigarh", Coordinate{30.7333, 76.7794}},
	{"indore", Coordinate{22.7196, 75.8577}},
	{"mysuru", Coordinate{12.2958, 76.6394}},
}

// postalCodeRe matches 6-digit Indian postal codes.
var postalCodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// Resolver turns free-text locations into coordinates.
type Resolver struct {
	locator Locator
	cache   Cache
	center  Coordinate
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLocator wires the geolocation capability used for the
// "Current Location" sentinel.
func WithLocator(l Locator) ResolverOption {
	return func(r *Resolver) { r.locator = l }
}

// WithCache wires a coordinate cache in front of resolution.
func WithCache(c Cache) ResolverOption {
	return func(r *Resolver) { r.cache = c }
}

// WithDefaultCenter overrides the fallback coordinate.
func WithDefaultCenter(c Coordinate) ResolverOption {
	return func(r *Resolver) { r.center = c }
}

func NewResolver(opts ...ResolverOption) *Resolver {
	ans := &Resolver{
		center: DefaultCenter,
	}

	for _, opt := range opts {
		opt(ans)
	}

	return ans
}

// DefaultCenter returns the fallback coordinate this resolver degrades to.
func (r *Resolver) DefaultCenter() Coordinate {
	return r.center
}

// Resolve maps any location-ish string to a coordinate. It is total: every
// input, including empty strings and garbage, resolves to a finite pair.
//
// The chain, in order:
//  1. "Current Location" sentinel via the Locator (bounded wait, falls
//     through on error or timeout)
//  2. map-sharing links
//  3. 6-digit Indian postal codes via the deterministic seed formula
//  4. plus codes (open location codes)
//  5. gazetteer substring match
//  6. default center
func (r *Resolver) Resolve(ctx context.Context, input string) Coordinate {
	input = strings.TrimSpace(input)

	if input == CurrentLocationSentinel && r.locator != nil {
		lctx, cancel := context.WithTimeout(ctx, locatorTimeout)
		defer cancel()

		if c, err := r.locator.CurrentLocation(lctx); err == nil && c.Valid() {
			return c
		}
	}

	if input == "" {
		return r.center
	}

	if r.cache != nil {
		if c, ok := r.cache.Get(ctx, input); ok && c.Valid() {
			return c
		}
	}

	c := r.resolveText(input)

	if r.cache != nil {
		r.cache.Set(ctx, input, c)
	}

	return c
}

func (r *Resolver) resolveText(input string) Coordinate {
	if c := ExtractFromMapLink(input); c != nil {
		return *c
	}

	if postalCodeRe.MatchString(input) {
		return postalCodeCoordinate(input)
	}

	if code, ok := plusCode(input); ok {
		return code
	}

	lower := strings.ToLower(input)
	for _, entry := range gazetteer {
		if strings.Contains(lower, entry.name) {
			return entry.coord
		}
	}

	return r.center
}

// postalCodeCoordinate derives a deterministic pseudo-coordinate from a
// postal code. This is a documented heuristic preserved for reproducibility,
// not real geocoding: seed = code mod 1000, offsets applied to the
// geographic center of India.
func postalCodeCoordinate(code string) Coordinate {
	n, err := strconv.Atoi(code)
	if err != nil {
		return DefaultCenter
	}

	seed := n % 1000

	return Coordinate{
		Lat: 20.5937 + float64(seed%10)/10,
		Lng: 78.9629 + float64(seed%15)/10,
	}
}

// plusCode decodes a full open location code (e.g. "7J4VXP2R+9H") to the
// center of its cell.
func plusCode(input string) (Coordinate, bool) {
	token := strings.Fields(input)
	if len(token) == 0 {
		return Coordinate{}, false
	}

	candidate := strings.ToUpper(token[0])
	if !strings.Contains(candidate, "+") {
		return Coordinate{}, false
	}

	area, err := olc.Decode(candidate)
	if err != nil {
		return Coordinate{}, false
	}

	lat, lng := area.Center()

	return Coordinate{Lat: lat, Lng: lng}, true
}
