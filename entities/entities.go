package entities

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPlaceNotFound = errors.New("place not found")
	ErrInvalidSort   = errors.New("invalid sort mode")
)

// SortMode selects the final ordering of a ranked result set.
type SortMode string

const (
	SortByRating      SortMode = "rating"
	SortByDistance    SortMode = "distance"
	SortByReviewCount SortMode = "review_count"
	SortByNewest      SortMode = "newest"
	SortByRelevance   SortMode = "relevance"
)

// ParseSortMode validates a sort mode coming from flags or API payloads.
// An empty string defaults to rating.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "":
		return SortByRating, nil
	case SortByRating, SortByDistance, SortByReviewCount, SortByNewest, SortByRelevance:
		return SortMode(s), nil
	default:
		return "", ErrInvalidSort
	}
}

// Place is the canonical record the ranking pipeline operates on. Records
// originate from several backing tables with different shapes; adapters in
// this package normalize them so the pipeline only ever sees this one type.
//
// All fields except ID are optional. Numeric fields whose absence matters
// (coordinates, price, distance) are pointers so "not set" is distinguishable
// from zero.
type Place struct {
	ID          string   `json:"id"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Address     string   `json:"address,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	Rating      float64 `json:"rating,omitempty"`
	ReviewCount int     `json:"review_count,omitempty"`

	PriceLevel    *int     `json:"price_level,omitempty"`
	PriceRangeMin *float64 `json:"price_range_min,omitempty"`
	PriceRangeMax *float64 `json:"price_range_max,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	MapLink   string   `json:"map_link,omitempty"`

	OpenNow               *bool    `json:"open_now,omitempty"`
	AvailabilityDays      []string `json:"availability_days,omitempty"`
	AvailabilityStartTime string   `json:"availability_start_time,omitempty"`
	AvailabilityEndTime   string   `json:"availability_end_time,omitempty"`

	Flags map[string]bool `json:"flags,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`

	// Derived fields, populated by the ranking pipeline. Absent until the
	// corresponding step has run.
	DistanceKm     *float64 `json:"distance_km,omitempty"`
	RelevanceScore float64  `json:"relevance_score,omitempty"`
	MatchedTags    []string `json:"matched_tags,omitempty"`
}

// Clone returns a deep copy. The ranker attaches derived fields to copies so
// callers keep ownership of their input.
func (p Place) Clone() Place {
	out := p

	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}

	if p.AvailabilityDays != nil {
		out.AvailabilityDays = append([]string(nil), p.AvailabilityDays...)
	}

	if p.MatchedTags != nil {
		out.MatchedTags = append([]string(nil), p.MatchedTags...)
	}

	if p.Flags != nil {
		out.Flags = make(map[string]bool, len(p.Flags))
		for k, v := range p.Flags {
			out.Flags[k] = v
		}
	}

	out.PriceLevel = clonePtr(p.PriceLevel)
	out.PriceRangeMin = clonePtr(p.PriceRangeMin)
	out.PriceRangeMax = clonePtr(p.PriceRangeMax)
	out.Latitude = clonePtr(p.Latitude)
	out.Longitude = clonePtr(p.Longitude)
	out.OpenNow = clonePtr(p.OpenNow)
	out.DistanceKm = clonePtr(p.DistanceKm)

	return out
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}

	c := *v

	return &c
}

// FilterConfig holds the hard filters applied before sorting. Zero values
// disable the corresponding filter. Callers construct a fresh one per search.
type FilterConfig struct {
	MaxDistanceKm float64  `json:"max_distance_km,omitempty"`
	MinRating     float64  `json:"min_rating,omitempty"`
	MaxPriceLevel int      `json:"max_price_level,omitempty"`
	OpenNowOnly   bool     `json:"open_now_only,omitempty"`
	RequiredFlags []string `json:"required_flags,omitempty"`
}

// Store is the persistence surface the runners and the web layer depend on.
type Store interface {
	SelectPlaces(ctx context.Context) ([]Place, error)
	UpsertPlaces(ctx context.Context, places []Place) error
	CountPlaces(ctx context.Context) (int, error)
}
