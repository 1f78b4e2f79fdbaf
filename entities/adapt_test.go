package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gosom/localrank/entities"
)

func Test_PlaceFromBusinessRow(t *testing.T) {
	row := map[string]any{
		"id":                      "b-1",
		"name":                    "Salon A",
		"description":             "Unisex salon",
		"category":                "Salon",
		"address":                 "Koramangala, Bengaluru",
		"tags":                    []any{"unisex", "walkins"},
		"rating":                  4.9,
		"review_count":            132.0,
		"latitude":                12.93,
		"longitude":               77.62,
		"price_level":             2.0,
		"open_now":                true,
		"availability_days":       "Monday, Tuesday",
		"availability_start_time": "09:00",
		"availability_end_time":   "21:00",
		"is_hidden_gem":           true,
		"is_must_visit":           false,
		"created_at":              "2025-06-01T10:00:00Z",
	}

	p := entities.PlaceFromBusinessRow(row)

	require.Equal(t, "b-1", p.ID)
	require.Equal(t, "Salon A", p.Name)
	require.Equal(t, []string{"unisex", "walkins"}, p.Tags)
	require.Equal(t, 4.9, p.Rating)
	require.Equal(t, 132, p.ReviewCount)
	require.NotNil(t, p.Latitude)
	require.Equal(t, 12.93, *p.Latitude)
	require.NotNil(t, p.PriceLevel)
	require.Equal(t, 2, *p.PriceLevel)
	require.NotNil(t, p.OpenNow)
	require.True(t, *p.OpenNow)
	require.Equal(t, []string{"Monday", "Tuesday"}, p.AvailabilityDays)
	require.True(t, p.Flags["hiddenGem"])
	require.False(t, p.Flags["mustVisit"])
	require.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), p.CreatedAt)
}

func Test_PlaceFromBusinessRow_MissingFieldsStayAbsent(t *testing.T) {
	p := entities.PlaceFromBusinessRow(map[string]any{"id": "b-2"})

	require.Equal(t, "b-2", p.ID)
	require.Nil(t, p.Latitude)
	require.Nil(t, p.Longitude)
	require.Nil(t, p.PriceLevel)
	require.Nil(t, p.OpenNow)
	require.Nil(t, p.Flags)
	require.Nil(t, p.DistanceKm)
}

func Test_PlaceFromListingRow(t *testing.T) {
	row := map[string]any{
		"id":          "l-1",
		"title":       "Vintage leather sofa",
		"description": "Three seater",
		"category":    "Furniture",
		"location":    "Indiranagar",
		"price_min":   3000.0,
		"price_max":   4500.0,
		"map_link":    "https://maps.app.goo.gl/xyz",
	}

	p := entities.PlaceFromListingRow(row)

	require.Equal(t, "Vintage leather sofa", p.Name)
	require.Equal(t, "Indiranagar", p.Address)
	require.NotNil(t, p.PriceRangeMin)
	require.Equal(t, 3000.0, *p.PriceRangeMin)
	require.NotNil(t, p.PriceRangeMax)
	require.Equal(t, 4500.0, *p.PriceRangeMax)
	require.Nil(t, p.PriceLevel)
	require.Equal(t, "https://maps.app.goo.gl/xyz", p.MapLink)
}

func Test_PlaceFromEventRow(t *testing.T) {
	row := map[string]any{
		"id":         "e-1",
		"title":      "Indie gig",
		"venue":      "Fandom, Koramangala",
		"event_date": "2026-09-05",
		"start_time": "19:00",
		"end_time":   "23:00",
	}

	p := entities.PlaceFromEventRow(row)

	require.Equal(t, "Indie gig", p.Name)
	require.Equal(t, "Fandom, Koramangala", p.Address)
	require.Equal(t, []string{"Saturday"}, p.AvailabilityDays)
	require.Equal(t, "19:00", p.AvailabilityStartTime)
	require.Equal(t, "23:00", p.AvailabilityEndTime)
}
