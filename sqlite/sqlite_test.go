package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gosom/localrank/entities"
	"github.com/gosom/localrank/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "places.db"))
	require.NoError(t, err)

	require.NoError(t, store.AutoMigrate(context.Background()))

	return store
}

func Test_Store_UpsertAndSelect(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	lvl := 2
	lat := 12.93
	lng := 77.62

	places := []entities.Place{
		{
			ID:          "1",
			Name:        "Salon A",
			Category:    "Salon",
			Tags:        []string{"unisex"},
			Rating:      4.9,
			ReviewCount: 132,
			PriceLevel:  &lvl,
			Latitude:    &lat,
			Longitude:   &lng,
			Flags:       map[string]bool{"hiddenGem": true},
			CreatedAt:   time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        "2",
			Name:      "Cafe B",
			CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	require.NoError(t, store.UpsertPlaces(ctx, places))

	got, err := store.SelectPlaces(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	require.Equal(t, "Salon A", got[0].Name)
	require.Equal(t, []string{"unisex"}, got[0].Tags)
	require.NotNil(t, got[0].PriceLevel)
	require.Equal(t, 2, *got[0].PriceLevel)
	require.NotNil(t, got[0].Latitude)
	require.Equal(t, 12.93, *got[0].Latitude)
	require.True(t, got[0].Flags["hiddenGem"])

	require.Nil(t, got[1].PriceLevel)
	require.Nil(t, got[1].Latitude)

	count, err := store.CountPlaces(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func Test_Store_UpsertOverwrites(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertPlaces(ctx, []entities.Place{{ID: "1", Name: "Before", Rating: 3}}))
	require.NoError(t, store.UpsertPlaces(ctx, []entities.Place{{ID: "1", Name: "After", Rating: 4.5}}))

	got, err := store.SelectPlaces(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "After", got[0].Name)
	require.Equal(t, 4.5, got[0].Rating)
}

func Test_Store_EmptyUpsertIsNoop(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.UpsertPlaces(context.Background(), nil))

	count, err := store.CountPlaces(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)
}
