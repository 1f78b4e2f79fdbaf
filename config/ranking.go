package config

import (
	"context"

	"github.com/gosom/localrank/relevance"
)

// Config keys for the ranking tunables. The defaults match the constants in
// the relevance package; values here exist for recalibration, they are not
// load-bearing invariants.
const (
	KeyNeighborhoodBoost = "ranking.neighborhood_boost"
	KeyCoverageThreshold = "ranking.coverage_threshold"
)

// RelevanceBoosts returns the additive boosts with any configured overrides
// applied.
func (s *Service) RelevanceBoosts(ctx context.Context) (relevance.Boosts, error) {
	boosts := relevance.DefaultBoosts()

	hood, err := s.GetFloat(ctx, KeyNeighborhoodBoost, boosts.Neighborhood)
	if err != nil {
		return boosts, err
	}

	boosts.Neighborhood = hood

	return boosts, nil
}

// CoverageThreshold returns the word-coverage exclusion floor with any
// configured override applied.
func (s *Service) CoverageThreshold(ctx context.Context) (float64, error) {
	return s.GetFloat(ctx, KeyCoverageThreshold, relevance.DefaultCoverageThreshold)
}
