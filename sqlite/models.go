package sqlite

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"encoding/json"

	"github.com/gosom/localrank/entities"
)

type place struct {
	ID          string     `gorm:"column:id;primaryKey"`
	Name        string     `gorm:"column:name"`
	Description string     `gorm:"column:description"`
	Category    string     `gorm:"column:category"`
	Address     string     `gorm:"column:address"`
	Tags        stringList `gorm:"column:tags;type:blob"`
	Rating      float64    `gorm:"column:rating"`
	ReviewCount int        `gorm:"column:review_count"`

	PriceLevel    *int     `gorm:"column:price_level"`
	PriceRangeMin *float64 `gorm:"column:price_range_min"`
	PriceRangeMax *float64 `gorm:"column:price_range_max"`

	Latitude  *float64 `gorm:"column:latitude"`
	Longitude *float64 `gorm:"column:longitude"`
	MapLink   string   `gorm:"column:map_link"`

	OpenNow          *bool      `gorm:"column:open_now"`
	AvailabilityDays stringList `gorm:"column:availability_days;type:blob"`
	AvailabilityFrom string     `gorm:"column:availability_start_time"`
	AvailabilityTo   string     `gorm:"column:availability_end_time"`

	Flags flagMap `gorm:"column:flags;type:blob"`

	CreatedAt time.Time `gorm:"column:created_at"`
}

func (place) TableName() string {
	return "places"
}

func (p *place) toEntitiesPlace() entities.Place {
	return entities.Place{
		ID:                    p.ID,
		Name:                  p.Name,
		Description:           p.Description,
		Category:              p.Category,
		Address:               p.Address,
		Tags:                  p.Tags,
		Rating:                p.Rating,
		ReviewCount:           p.ReviewCount,
		PriceLevel:            p.PriceLevel,
		PriceRangeMin:         p.PriceRangeMin,
		PriceRangeMax:         p.PriceRangeMax,
		Latitude:              p.Latitude,
		Longitude:             p.Longitude,
		MapLink:               p.MapLink,
		OpenNow:               p.OpenNow,
		AvailabilityDays:      p.AvailabilityDays,
		AvailabilityStartTime: p.AvailabilityFrom,
		AvailabilityEndTime:   p.AvailabilityTo,
		Flags:                 p.Flags,
		CreatedAt:             p.CreatedAt,
	}
}

func placeFromEntitiesPlace(p *entities.Place) place {
	return place{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Category:         p.Category,
		Address:          p.Address,
		Tags:             stringList(p.Tags),
		Rating:           p.Rating,
		ReviewCount:      p.ReviewCount,
		PriceLevel:       p.PriceLevel,
		PriceRangeMin:    p.PriceRangeMin,
		PriceRangeMax:    p.PriceRangeMax,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		MapLink:          p.MapLink,
		OpenNow:          p.OpenNow,
		AvailabilityDays: stringList(p.AvailabilityDays),
		AvailabilityFrom: p.AvailabilityStartTime,
		AvailabilityTo:   p.AvailabilityEndTime,
		Flags:            flagMap(p.Flags),
		CreatedAt:        p.CreatedAt,
	}
}

type stringList []string

func (s *stringList) Scan(value any) error {
	if value == nil {
		*s = nil

		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New(fmt.Sprint("failed to unmarshal JSON value:", value))
	}

	return json.Unmarshal(bytes, s)
}

func (s stringList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}

	return json.Marshal(s)
}

type flagMap map[string]bool

func (f *flagMap) Scan(value any) error {
	if value == nil {
		*f = nil

		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New(fmt.Sprint("failed to unmarshal JSON value:", value))
	}

	return json.Unmarshal(bytes, f)
}

func (f flagMap) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}

	return json.Marshal(f)
}
