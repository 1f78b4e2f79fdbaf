package entities

import (
	"encoding/json"
	"strconv"
	"strings"
)

func (p *Place) CsvHeaders() []string {
	return []string{
		"id",
		"name",
		"category",
		"address",
		"tags",
		"rating",
		"review_count",
		"price_level",
		"latitude",
		"longitude",
		"distance_km",
		"relevance_score",
		"matched_tags",
		"created_at",
	}
}

func (p *Place) CsvRow() []string {
	return []string{
		p.ID,
		p.Name,
		p.Category,
		p.Address,
		stringSliceToString(p.Tags),
		strconv.FormatFloat(p.Rating, 'f', -1, 64),
		strconv.Itoa(p.ReviewCount),
		stringify(p.PriceLevel),
		stringify(p.Latitude),
		stringify(p.Longitude),
		stringify(p.DistanceKm),
		strconv.FormatFloat(p.RelevanceScore, 'f', -1, 64),
		stringSliceToString(p.MatchedTags),
		p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case *float64:
		if val == nil {
			return ""
		}

		return strconv.FormatFloat(*val, 'f', -1, 64)
	case *int:
		if val == nil {
			return ""
		}

		return strconv.Itoa(*val)
	case string:
		return val
	case nil:
		return ""
	default:
		d, _ := json.Marshal(v)

		return string(d)
	}
}

func stringSliceToString(s []string) string {
	return strings.Join(s, ", ")
}
