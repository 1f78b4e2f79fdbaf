package relevance

import (
	"strings"

	"github.com/gosom/localrank/entities"
)

// Boosts are the additive signal weights. The neighborhood boost is
// deliberately large: a location term in the query matching the address
// expresses "near me" intent and should dominate text matches. These values
// are tunable, not load-bearing.
type Boosts struct {
	NamePhrase        float64
	DescriptionPhrase float64
	CategoryPhrase    float64
	TagMatch          float64
	Neighborhood      float64
	WordInName        float64
	WordInDescription float64
	WordInTag         float64
}

// DefaultBoosts returns the standard weights.
func DefaultBoosts() Boosts {
	return Boosts{
		NamePhrase:        5,
		DescriptionPhrase: 3,
		CategoryPhrase:    4,
		TagMatch:          2,
		Neighborhood:      10,
		WordInName:        2,
		WordInDescription: 1,
		WordInTag:         1,
	}
}

// defaultNeighborhoods is the fixed list of location terms recognized inside
// queries for the address boost.
var defaultNeighborhoods = []string{
	"koramangala",
	"indiranagar",
	"jayanagar",
	"whitefield",
	"malleshwaram",
	"hsr layout",
	"btm layout",
	"electronic city",
	"marathahalli",
	"rajajinagar",
	"basavanagudi",
	"hebbal",
	"yelahanka",
	"banashankari",
}

// minWordLength is the cutoff below which individual query words are ignored
// by the per-word signals.
const minWordLength = 3

// Additive accumulates independent match signals: full-phrase hits on name,
// description and category, tag overlap, a neighborhood-in-address boost and
// per-word hits. A zero total marks the place as excluded.
type Additive struct {
	boosts        Boosts
	synonyms      map[string][]string
	neighborhoods []string
}

var _ Scorer = (*Additive)(nil)

// AdditiveOption configures the additive scorer.
type AdditiveOption func(*Additive)

// WithBoosts overrides the signal weights.
func WithBoosts(b Boosts) AdditiveOption {
	return func(a *Additive) { a.boosts = b }
}

// WithSynonyms adds a domain synonym table (canonical keyword to variants).
func WithSynonyms(syn map[string][]string) AdditiveOption {
	return func(a *Additive) { a.synonyms = mergeSynonyms(syn) }
}

// WithNeighborhoods overrides the recognized location terms.
func WithNeighborhoods(terms []string) AdditiveOption {
	return func(a *Additive) {
		a.neighborhoods = make([]string, len(terms))
		for i, t := range terms {
			a.neighborhoods[i] = strings.ToLower(t)
		}
	}
}

func NewAdditive(opts ...AdditiveOption) *Additive {
	ans := &Additive{
		boosts:        DefaultBoosts(),
		synonyms:      mergeSynonyms(nil),
		neighborhoods: defaultNeighborhoods,
	}

	for _, opt := range opts {
		opt(ans)
	}

	return ans
}

func (a *Additive) Score(query string, p *entities.Place) Result {
	query = normalize(strings.TrimSpace(query), a.synonyms)
	if query == "" {
		// No query: everything is equally relevant, nothing is excluded.
		return Result{}
	}

	name := normalize(p.Name, a.synonyms)
	description := normalize(p.Description, a.synonyms)
	category := normalize(p.Category, a.synonyms)
	address := strings.ToLower(p.Address)

	var (
		score       float64
		matchedTags []string
	)

	if strings.Contains(name, query) {
		score += a.boosts.NamePhrase
	}

	if strings.Contains(description, query) {
		score += a.boosts.DescriptionPhrase
	}

	if strings.Contains(category, query) {
		score += a.boosts.CategoryPhrase
	}

	for _, tag := range p.Tags {
		lowTag := normalize(tag, a.synonyms)
		if strings.Contains(lowTag, query) || strings.Contains(query, lowTag) {
			score += a.boosts.TagMatch

			matchedTags = append(matchedTags, tag)
		}
	}

	for _, hood := range a.neighborhoods {
		if strings.Contains(query, hood) && strings.Contains(address, hood) {
			score += a.boosts.Neighborhood

			break
		}
	}

	for _, word := range queryWords(query) {
		if len(word) <= minWordLength {
			continue
		}

		if strings.Contains(name, word) {
			score += a.boosts.WordInName
		}

		if strings.Contains(description, word) {
			score += a.boosts.WordInDescription
		}

		for _, tag := range p.Tags {
			if strings.Contains(normalize(tag, a.synonyms), word) {
				score += a.boosts.WordInTag

				break
			}
		}
	}

	return Result{
		Score:       score,
		MatchedTags: matchedTags,
		Excluded:    score == 0,
	}
}
