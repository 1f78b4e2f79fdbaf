package relevance

import (
	"strings"

	"github.com/gosom/localrank/entities"
)

// DefaultCoverageThreshold is the relevance floor for multi-word queries:
// places matching this fraction of the query words or fewer are non-matches.
// Empirically chosen; tunable, not load-bearing.
const DefaultCoverageThreshold = 0.35

// Coverage scores a place by the fraction of query words found anywhere in
// its searchable text. Used by marketplace text search, where the exclusion
// floor matters more than fine-grained ordering.
type Coverage struct {
	threshold float64
	synonyms  map[string][]string
}

var _ Scorer = (*Coverage)(nil)

// CoverageOption configures the coverage scorer.
type CoverageOption func(*Coverage)

// WithThreshold overrides the word-coverage exclusion floor.
func WithThreshold(t float64) CoverageOption {
	return func(c *Coverage) { c.threshold = t }
}

// WithCoverageSynonyms adds a domain synonym table.
func WithCoverageSynonyms(syn map[string][]string) CoverageOption {
	return func(c *Coverage) { c.synonyms = mergeSynonyms(syn) }
}

func NewCoverage(opts ...CoverageOption) *Coverage {
	ans := &Coverage{
		threshold: DefaultCoverageThreshold,
		synonyms:  mergeSynonyms(nil),
	}

	for _, opt := range opts {
		opt(ans)
	}

	return ans
}

func (c *Coverage) Score(query string, p *entities.Place) Result {
	query = normalize(strings.TrimSpace(query), c.synonyms)
	if query == "" {
		return Result{}
	}

	words := queryWords(query)
	if len(words) == 0 {
		return Result{}
	}

	haystack := normalize(
		strings.Join([]string{p.Name, p.Description, p.Category, p.Address, strings.Join(p.Tags, " ")}, " "),
		c.synonyms,
	)

	var matched int

	var matchedTags []string

	for _, word := range words {
		if strings.Contains(haystack, word) {
			matched++
		}
	}

	for _, tag := range p.Tags {
		lowTag := normalize(tag, c.synonyms)
		if strings.Contains(query, lowTag) || strings.Contains(lowTag, query) {
			matchedTags = append(matchedTags, tag)
		}
	}

	ratio := float64(matched) / float64(len(words))

	return Result{
		Score:       ratio,
		MatchedTags: matchedTags,
		Excluded:    ratio <= c.threshold,
	}
}
