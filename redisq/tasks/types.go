// Package tasks defines the background task types and their handlers.
package tasks

import (
	"github.com/gosom/localrank/entities"
)

// Task type identifiers.
const (
	TypeRankSearch = "rank:search"
)

// RankPayload describes a background rank-search job. The reference point is
// either an explicit coordinate pair or a free-text location resolved by the
// geo resolver; explicit coordinates win when both are set.
type RankPayload struct {
	JobID    string                `json:"job_id"`
	Query    string                `json:"query,omitempty"`
	Location string                `json:"location,omitempty"`
	Lat      *float64              `json:"lat,omitempty"`
	Lng      *float64              `json:"lng,omitempty"`
	Sort     string                `json:"sort,omitempty"`
	Strategy string                `json:"strategy,omitempty"`
	Filters  entities.FilterConfig `json:"filters"`
}
