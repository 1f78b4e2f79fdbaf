package relevance_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosom/localrank/entities"
	"github.com/gosom/localrank/relevance"
)

func Test_Additive_Score(t *testing.T) {
	scorer := relevance.NewAdditive()

	tests := []struct {
		name      string
		query     string
		place     entities.Place
		wantScore float64
		excluded  bool
	}{
		{
			name:  "phrase in name plus word in name",
			query: "salon",
			place: entities.Place{
				Name: "Salon A",
			},
			wantScore: 7, // +5 phrase in name, +2 word in name
		},
		{
			name:  "phrase in description",
			query: "haircut",
			place: entities.Place{
				Name:        "Style Studio",
				Description: "Best haircut in town",
			},
			wantScore: 4, // +3 phrase in description, +1 word in description
		},
		{
			name:  "phrase in category",
			query: "bakery",
			place: entities.Place{
				Name:     "Sweet Tooth",
				Category: "Bakery",
			},
			wantScore: 4, // +4 phrase in category; category carries no word signal
		},
		{
			name:  "tag containment both directions",
			query: "unisex",
			place: entities.Place{
				Name: "Cuts",
				Tags: []string{"unisex", "walkins"},
			},
			wantScore: 3, // +2 tag match, +1 word in tag
		},
		{
			name:  "no match is excluded",
			query: "plumber",
			place: entities.Place{
				Name:        "Cafe B",
				Description: "Coffee and cakes",
			},
			wantScore: 0,
			excluded:  true,
		},
		{
			name:  "short words ignored by word signals",
			query: "spa",
			place: entities.Place{
				Name: "The Spa House",
			},
			wantScore: 5, // phrase hit only; "spa" is too short for word signals
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := scorer.Score(tt.query, &tt.place)

			require.Equal(t, tt.wantScore, res.Score)
			require.Equal(t, tt.excluded, res.Excluded)
			require.GreaterOrEqual(t, res.Score, 0.0)
		})
	}
}

func Test_Additive_EmptyQuery(t *testing.T) {
	scorer := relevance.NewAdditive()

	res := scorer.Score("", &entities.Place{Name: "Anything"})

	require.Zero(t, res.Score)
	require.False(t, res.Excluded, "empty query must not drop records")
}

func Test_Additive_SalonSaloonSynonym(t *testing.T) {
	scorer := relevance.NewAdditive()

	place := entities.Place{Name: "Royal Saloon"}

	withVariant := scorer.Score("salon", &place)
	require.False(t, withVariant.Excluded)
	require.Positive(t, withVariant.Score)

	queryVariant := scorer.Score("saloon", &entities.Place{Name: "Royal Salon"})
	require.False(t, queryVariant.Excluded)
	require.Positive(t, queryVariant.Score)
}

func Test_Additive_CallerSynonyms(t *testing.T) {
	scorer := relevance.NewAdditive(relevance.WithSynonyms(map[string][]string{
		"gym": {"fitness center", "fitness centre"},
	}))

	res := scorer.Score("gym", &entities.Place{Name: "Iron Fitness Centre"})

	require.False(t, res.Excluded)
	require.Positive(t, res.Score)
}

func Test_Additive_NeighborhoodBoost(t *testing.T) {
	scorer := relevance.NewAdditive()

	query := "cafe in koramangala"

	inHood := scorer.Score(query, &entities.Place{
		Name:    "Third Wave Cafe",
		Address: "80 Feet Road, Koramangala, Bengaluru",
	})

	elsewhere := scorer.Score(query, &entities.Place{
		Name:    "Third Wave Cafe",
		Address: "MG Road, Bengaluru",
	})

	require.Equal(t, 10.0, inHood.Score-elsewhere.Score)
}

func Test_Additive_MatchedTags(t *testing.T) {
	scorer := relevance.NewAdditive()

	res := scorer.Score("unisex salon", &entities.Place{
		Name: "Salon A",
		Tags: []string{"unisex", "walkins"},
	})

	require.Contains(t, res.MatchedTags, "unisex")
	require.NotContains(t, res.MatchedTags, "walkins")
}

func Test_Additive_CustomBoosts(t *testing.T) {
	boosts := relevance.DefaultBoosts()
	boosts.NamePhrase = 50

	scorer := relevance.NewAdditive(relevance.WithBoosts(boosts))

	res := scorer.Score("salon", &entities.Place{Name: "Salon A"})

	require.Equal(t, 52.0, res.Score) // +50 phrase, +2 word
}
