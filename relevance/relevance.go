// Package relevance scores how well a place matches a free-text query.
//
// Two strategies exist because different surfaces need different exclusion
// behavior: the additive scorer ranks directory search results, while the
// coverage scorer gates marketplace text search on how much of the query
// actually matched. They share normalization but are deliberately not merged,
// since strategy selection changes which records get excluded.
package relevance

import (
	"strings"

	"github.com/gosom/localrank/entities"
)

// Strategy names a scoring strategy for selection by callers.
type Strategy string

const (
	StrategyAdditive Strategy = "additive"
	StrategyCoverage Strategy = "coverage"
)

// Result is the outcome of scoring one place against one query.
type Result struct {
	Score       float64
	MatchedTags []string
	// Excluded marks the place as a non-match that must be dropped from
	// query-filtered result sets.
	Excluded bool
}

// Scorer scores a place against a query. Implementations must return a
// non-negative score and must treat an empty query as "everything matches".
type Scorer interface {
	Score(query string, p *entities.Place) Result
}

// defaultSynonyms folds known spelling variants to a canonical form before
// scoring. Extended per call site via WithSynonyms.
var defaultSynonyms = map[string][]string{
	"salon": {"saloon"},
}

// normalize lowercases the text and rewrites synonym occurrences to their
// canonical key.
func normalize(text string, synonyms map[string][]string) string {
	text = strings.ToLower(text)

	for canonical, variants := range synonyms {
		for _, v := range variants {
			text = strings.ReplaceAll(text, strings.ToLower(v), canonical)
		}
	}

	return text
}

func mergeSynonyms(extra map[string][]string) map[string][]string {
	merged := make(map[string][]string, len(defaultSynonyms)+len(extra))

	for k, v := range defaultSynonyms {
		merged[k] = append([]string(nil), v...)
	}

	for k, v := range extra {
		merged[strings.ToLower(k)] = append(merged[strings.ToLower(k)], v...)
	}

	return merged
}

// queryWords splits a normalized query into words, keeping empty strings out.
func queryWords(query string) []string {
	return strings.Fields(query)
}
