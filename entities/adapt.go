package entities

import (
	"strings"
	"time"
)

// Adapters from the loosely-typed rows the backing tables produce to the
// canonical Place. Each source table gets its own adapter so field renames
// stay local to the table that caused them.

// PlaceFromBusinessRow maps a business directory row.
func PlaceFromBusinessRow(row map[string]any) Place {
	p := Place{
		ID:          rowString(row, "id"),
		Name:        rowString(row, "name"),
		Description: rowString(row, "description"),
		Category:    rowString(row, "category"),
		Address:     rowString(row, "address"),
		Tags:        rowStrings(row, "tags"),
		Rating:      rowFloat(row, "rating"),
		ReviewCount: int(rowFloat(row, "review_count")),
		MapLink:     rowString(row, "map_link"),
		CreatedAt:   rowTime(row, "created_at"),
	}

	p.Latitude = rowFloatPtr(row, "latitude")
	p.Longitude = rowFloatPtr(row, "longitude")
	p.PriceLevel = rowIntPtr(row, "price_level")
	p.OpenNow = rowBoolPtr(row, "open_now")
	p.AvailabilityDays = rowStrings(row, "availability_days")
	p.AvailabilityStartTime = rowString(row, "availability_start_time")
	p.AvailabilityEndTime = rowString(row, "availability_end_time")
	p.Flags = rowFlags(row, "is_hidden_gem", "is_must_visit", "is_featured")

	return p
}

// PlaceFromListingRow maps a marketplace listing row. Listings carry a price
// range rather than a price level and have no opening hours.
func PlaceFromListingRow(row map[string]any) Place {
	p := Place{
		ID:          rowString(row, "id"),
		Name:        rowString(row, "title"),
		Description: rowString(row, "description"),
		Category:    rowString(row, "category"),
		Address:     rowString(row, "location"),
		Tags:        rowStrings(row, "tags"),
		Rating:      rowFloat(row, "rating"),
		ReviewCount: int(rowFloat(row, "review_count")),
		MapLink:     rowString(row, "map_link"),
		CreatedAt:   rowTime(row, "created_at"),
	}

	p.Latitude = rowFloatPtr(row, "latitude")
	p.Longitude = rowFloatPtr(row, "longitude")
	p.PriceRangeMin = rowFloatPtr(row, "price_min")
	p.PriceRangeMax = rowFloatPtr(row, "price_max")
	p.Flags = rowFlags(row, "is_hidden_gem", "is_must_visit", "is_featured")

	return p
}

// PlaceFromEventRow maps an event row. The venue doubles as the address and
// the event date as the availability day.
func PlaceFromEventRow(row map[string]any) Place {
	p := Place{
		ID:          rowString(row, "id"),
		Name:        rowString(row, "title"),
		Description: rowString(row, "description"),
		Category:    rowString(row, "category"),
		Address:     rowString(row, "venue"),
		Tags:        rowStrings(row, "tags"),
		MapLink:     rowString(row, "map_link"),
		CreatedAt:   rowTime(row, "created_at"),
	}

	p.Latitude = rowFloatPtr(row, "latitude")
	p.Longitude = rowFloatPtr(row, "longitude")
	p.AvailabilityStartTime = rowString(row, "start_time")
	p.AvailabilityEndTime = rowString(row, "end_time")

	if day := rowTime(row, "event_date"); !day.IsZero() {
		p.AvailabilityDays = []string{day.Weekday().String()}
	}

	return p
}

func rowString(row map[string]any, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}

	return ""
}

func rowFloat(row map[string]any, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func rowFloatPtr(row map[string]any, key string) *float64 {
	if _, ok := row[key]; !ok {
		return nil
	}

	v := rowFloat(row, key)

	return &v
}

func rowIntPtr(row map[string]any, key string) *int {
	if _, ok := row[key]; !ok {
		return nil
	}

	v := int(rowFloat(row, key))

	return &v
}

func rowBoolPtr(row map[string]any, key string) *bool {
	v, ok := row[key].(bool)
	if !ok {
		return nil
	}

	return &v
}

func rowStrings(row map[string]any, key string) []string {
	switch v := row[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}

		return out
	case string:
		if v == "" {
			return nil
		}

		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		return parts
	default:
		return nil
	}
}

func rowTime(row map[string]any, key string) time.Time {
	switch v := row[key].(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}

	return time.Time{}
}

// rowFlags collects boolean columns into the Flags map, renaming the snake
// case "is_" prefixed columns to their camel case flag names, e.g.
// is_hidden_gem -> hiddenGem.
func rowFlags(row map[string]any, keys ...string) map[string]bool {
	var flags map[string]bool

	for _, key := range keys {
		v, ok := row[key].(bool)
		if !ok {
			continue
		}

		if flags == nil {
			flags = make(map[string]bool)
		}

		flags[flagName(key)] = v
	}

	return flags
}

func flagName(column string) string {
	parts := strings.Split(strings.TrimPrefix(column, "is_"), "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}

	return strings.Join(parts, "")
}
