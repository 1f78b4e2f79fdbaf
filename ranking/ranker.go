// Package ranking orchestrates the search pipeline: distance attachment,
// hard filtering, relevance filtering and sorting. It is a single-pass
// functional pipeline over in-memory slices with no shared state, safe to
// invoke concurrently.
package ranking

import (
	"context"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/gosom/localrank/entities"
	"github.com/gosom/localrank/geo"
	"github.com/gosom/localrank/relevance"
)

// Ranker ranks and filters places. The zero value is not usable; construct
// with New.
type Ranker struct {
	resolver *geo.Resolver
	scorer   relevance.Scorer
	now      func() time.Time
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithResolver overrides the coordinate resolver.
func WithResolver(r *geo.Resolver) Option {
	return func(rk *Ranker) { rk.resolver = r }
}

// WithScorer overrides the relevance scoring strategy.
func WithScorer(s relevance.Scorer) Option {
	return func(rk *Ranker) { rk.scorer = s }
}

// WithClock overrides the time source used for open-now evaluation.
func WithClock(now func() time.Time) Option {
	return func(rk *Ranker) { rk.now = now }
}

func New(opts ...Option) *Ranker {
	ans := &Ranker{
		resolver: geo.NewResolver(),
		scorer:   relevance.NewAdditive(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(ans)
	}

	return ans
}

// Rank runs the full pipeline and returns a new, ordered slice of place
// copies. The input slice and its elements are never mutated.
//
// A nil ref silently disables distance attachment and all distance-dependent
// filtering and sorting. Resolution failures never surface as errors: a place
// that cannot be distance-qualified keeps a nil DistanceKm, is skipped by the
// distance filter and sorts last under the distance sort.
func (r *Ranker) Rank(
	ctx context.Context,
	places []entities.Place,
	ref *geo.Coordinate,
	filters entities.FilterConfig,
	sortMode entities.SortMode,
	query string,
) []entities.Place {
	if len(places) == 0 {
		return []entities.Place{}
	}

	now := r.now()

	out := make([]entities.Place, 0, len(places))

	for i := range places {
		p := places[i].Clone()

		if ref != nil && ref.Valid() {
			if c := r.placeCoordinate(&p); c != nil {
				d := geo.DistanceKm(*ref, *c)
				p.DistanceKm = &d
			}
		}

		if !passesFilters(&p, filters, now) {
			continue
		}

		if query != "" {
			res := r.scorer.Score(query, &p)
			if res.Excluded {
				continue
			}

			p.RelevanceScore = res.Score
			p.MatchedTags = res.MatchedTags
		}

		out = append(out, p)
	}

	// With a query present the relevance score acts as tie-break under any
	// explicit sort mode: sort by score first, then stable-sort by the
	// requested key so equal keys keep relevance order.
	if query != "" && sortMode != entities.SortByRelevance {
		slices.SortStableFunc(out, byRelevanceDesc)
	}

	slices.SortStableFunc(out, comparator(sortMode, query != ""))

	return out
}

// placeCoordinate resolves the coordinate used for distance attachment:
// explicit latitude/longitude when present and finite, then map link
// extraction, then the deterministic per-id placeholder kept for records
// that predate coordinate capture.
func (r *Ranker) placeCoordinate(p *entities.Place) *geo.Coordinate {
	if p.Latitude != nil && p.Longitude != nil {
		c := geo.Coordinate{Lat: *p.Latitude, Lng: *p.Longitude}
		if c.Valid() {
			return &c
		}
	}

	if p.MapLink != "" {
		if c := geo.ExtractFromMapLink(p.MapLink); c != nil {
			return c
		}
	}

	return r.legacyCoordinate(p.ID)
}

// legacyCoordinate spreads coordinate-less records deterministically around
// the default center using their numeric id. The exact formula is preserved
// for parity with historical data; records with non-numeric ids stay without
// a coordinate.
func (r *Ranker) legacyCoordinate(id string) *geo.Coordinate {
	f, err := strconv.ParseFloat(id, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	center := r.resolver.DefaultCenter()

	c := geo.Coordinate{
		Lat: center.Lat + math.Mod(f, 0.1),
		Lng: center.Lng + math.Mod(f, 0.1),
	}

	return &c
}

func passesFilters(p *entities.Place, filters entities.FilterConfig, now time.Time) bool {
	if filters.MaxDistanceKm > 0 && p.DistanceKm != nil && *p.DistanceKm > filters.MaxDistanceKm {
		return false
	}

	if filters.MinRating > 0 && filterRating(p.Rating) < filters.MinRating {
		return false
	}

	if filters.MaxPriceLevel > 0 {
		if level, ok := priceLevel(p); ok && level > filters.MaxPriceLevel {
			return false
		}
	}

	if filters.OpenNowOnly && !p.IsOpenAt(now) {
		return false
	}

	for _, flag := range filters.RequiredFlags {
		if !p.Flags[flag] {
			return false
		}
	}

	return true
}

// filterRating treats out-of-range ratings as 0 for filtering without
// clamping the stored value.
func filterRating(rating float64) float64 {
	if rating < 0 || rating > 5 {
		return 0
	}

	return rating
}

// price range buckets used when a listing carries a currency range instead
// of an explicit price level.
var priceLevelBuckets = []float64{200, 500, 1000}

// priceLevel returns the effective price level and whether any price signal
// is present. Listings without an explicit level fall back to bucketing the
// top of their price range.
func priceLevel(p *entities.Place) (int, bool) {
	if p.PriceLevel != nil {
		return *p.PriceLevel, true
	}

	var ceiling float64

	switch {
	case p.PriceRangeMax != nil:
		ceiling = *p.PriceRangeMax
	case p.PriceRangeMin != nil:
		ceiling = *p.PriceRangeMin
	default:
		return 0, false
	}

	for i, limit := range priceLevelBuckets {
		if ceiling <= limit {
			return i + 1, true
		}
	}

	return len(priceLevelBuckets) + 1, true
}

func byRelevanceDesc(a, b entities.Place) int {
	switch {
	case a.RelevanceScore > b.RelevanceScore:
		return -1
	case a.RelevanceScore < b.RelevanceScore:
		return 1
	default:
		return 0
	}
}

func comparator(mode entities.SortMode, hasQuery bool) func(a, b entities.Place) int {
	switch mode {
	case entities.SortByDistance:
		return func(a, b entities.Place) int {
			switch {
			case a.DistanceKm == nil && b.DistanceKm == nil:
				return 0
			case a.DistanceKm == nil:
				return 1
			case b.DistanceKm == nil:
				return -1
			case *a.DistanceKm < *b.DistanceKm:
				return -1
			case *a.DistanceKm > *b.DistanceKm:
				return 1
			default:
				return 0
			}
		}
	case entities.SortByReviewCount:
		return func(a, b entities.Place) int {
			return b.ReviewCount - a.ReviewCount
		}
	case entities.SortByNewest:
		return func(a, b entities.Place) int {
			switch {
			case a.CreatedAt.After(b.CreatedAt):
				return -1
			case a.CreatedAt.Before(b.CreatedAt):
				return 1
			default:
				return 0
			}
		}
	case entities.SortByRelevance:
		if hasQuery {
			return byRelevanceDesc
		}

		// Documented default: relevance without a query degrades to rating.
		return byRatingDesc
	case entities.SortByRating:
		return byRatingDesc
	default:
		return byRatingDesc
	}
}

func byRatingDesc(a, b entities.Place) int {
	switch {
	case a.Rating > b.Rating:
		return -1
	case a.Rating < b.Rating:
		return 1
	default:
		return 0
	}
}
