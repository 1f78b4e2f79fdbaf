// Package postgres implements the place store against PostgreSQL for the
// database run mode.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"go.uber.org/zap"

	"github.com/gosom/localrank/entities"
)

var _ entities.Store = (*Repository)(nil)

type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRepository creates a PostgreSQL implementation of entities.Store.
func NewRepository(db *sql.DB, logger *zap.Logger) (*Repository, error) {
	if err := db.Ping(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Repository{db: db, logger: logger}, nil
}

// CreateSchema creates the places table if it does not exist yet.
func (repo *Repository) CreateSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS places (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		tags JSONB,
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		review_count INTEGER NOT NULL DEFAULT 0,
		price_level INTEGER,
		price_range_min DOUBLE PRECISION,
		price_range_max DOUBLE PRECISION,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		map_link TEXT NOT NULL DEFAULT '',
		open_now BOOLEAN,
		availability_days JSONB,
		availability_start_time TEXT NOT NULL DEFAULT '',
		availability_end_time TEXT NOT NULL DEFAULT '',
		flags JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

	_, err := repo.db.ExecContext(ctx, q)

	return err
}

func (repo *Repository) SelectPlaces(ctx context.Context) ([]entities.Place, error) {
	const q = `SELECT id, name, description, category, address, tags, rating, review_count,
		price_level, price_range_min, price_range_max, latitude, longitude, map_link,
		open_now, availability_days, availability_start_time, availability_end_time,
		flags, created_at
		FROM places ORDER BY created_at DESC`

	rows, err := repo.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to select places: %w", err)
	}

	defer rows.Close()

	var ans []entities.Place

	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}

		ans = append(ans, p)
	}

	return ans, rows.Err()
}

func (repo *Repository) UpsertPlaces(ctx context.Context, places []entities.Place) error {
	const q = `INSERT INTO places (id, name, description, category, address, tags, rating,
		review_count, price_level, price_range_min, price_range_max, latitude, longitude,
		map_link, open_now, availability_days, availability_start_time,
		availability_end_time, flags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, description = EXCLUDED.description,
		category = EXCLUDED.category, address = EXCLUDED.address,
		tags = EXCLUDED.tags, rating = EXCLUDED.rating,
		review_count = EXCLUDED.review_count, price_level = EXCLUDED.price_level,
		price_range_min = EXCLUDED.price_range_min, price_range_max = EXCLUDED.price_range_max,
		latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
		map_link = EXCLUDED.map_link, open_now = EXCLUDED.open_now,
		availability_days = EXCLUDED.availability_days,
		availability_start_time = EXCLUDED.availability_start_time,
		availability_end_time = EXCLUDED.availability_end_time,
		flags = EXCLUDED.flags`

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback()
	}()

	for i := range places {
		p := &places[i]

		tags, err := jsonColumn(p.Tags)
		if err != nil {
			return err
		}

		days, err := jsonColumn(p.AvailabilityDays)
		if err != nil {
			return err
		}

		flags, err := jsonColumn(p.Flags)
		if err != nil {
			return err
		}

		createdAt := p.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		_, err = tx.ExecContext(ctx, q,
			p.ID, p.Name, p.Description, p.Category, p.Address, tags, p.Rating,
			p.ReviewCount, p.PriceLevel, p.PriceRangeMin, p.PriceRangeMax,
			p.Latitude, p.Longitude, p.MapLink, p.OpenNow, days,
			p.AvailabilityStartTime, p.AvailabilityEndTime, flags, createdAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert place %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	repo.logger.Debug("upserted places", zap.Int("count", len(places)))

	return nil
}

func (repo *Repository) CountPlaces(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM places`

	var count int
	if err := repo.db.QueryRowContext(ctx, q).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func jsonColumn(v any) (any, error) {
	switch val := v.(type) {
	case []string:
		if val == nil {
			return nil, nil
		}
	case map[string]bool:
		if val == nil {
			return nil, nil
		}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json column: %w", err)
	}

	return data, nil
}

func scanPlace(rows *sql.Rows) (entities.Place, error) {
	var (
		p           entities.Place
		tags, days  []byte
		flags       []byte
		priceLevel  sql.NullInt64
		priceMin    sql.NullFloat64
		priceMax    sql.NullFloat64
		latitude    sql.NullFloat64
		longitude   sql.NullFloat64
		openNow     sql.NullBool
		createdTime time.Time
	)

	err := rows.Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.Address, &tags, &p.Rating,
		&p.ReviewCount, &priceLevel, &priceMin, &priceMax, &latitude, &longitude,
		&p.MapLink, &openNow, &days, &p.AvailabilityStartTime, &p.AvailabilityEndTime,
		&flags, &createdTime,
	)
	if err != nil {
		return p, fmt.Errorf("failed to scan place: %w", err)
	}

	if tags != nil {
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return p, err
		}
	}

	if days != nil {
		if err := json.Unmarshal(days, &p.AvailabilityDays); err != nil {
			return p, err
		}
	}

	if flags != nil {
		if err := json.Unmarshal(flags, &p.Flags); err != nil {
			return p, err
		}
	}

	if priceLevel.Valid {
		v := int(priceLevel.Int64)
		p.PriceLevel = &v
	}

	if priceMin.Valid {
		p.PriceRangeMin = &priceMin.Float64
	}

	if priceMax.Valid {
		p.PriceRangeMax = &priceMax.Float64
	}

	if latitude.Valid {
		p.Latitude = &latitude.Float64
	}

	if longitude.Valid {
		p.Longitude = &longitude.Float64
	}

	if openNow.Valid {
		p.OpenNow = &openNow.Bool
	}

	p.CreatedAt = createdTime

	return p, nil
}
