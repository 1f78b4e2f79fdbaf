// Package sqlite implements the place store on an embedded sqlite database.
// Used by the web and worker run modes, which need persistence without a
// database server.
package sqlite

import (
	"context"

	driver "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gosom/localrank/entities"
)

var _ entities.Store = (*Store)(nil)

type Store struct {
	db *gorm.DB
}

func New(path string) (*Store, error) {
	db, err := gorm.Open(driver.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	ans := Store{
		db: db,
	}

	return &ans, nil
}

func (s *Store) AutoMigrate(_ context.Context) error {
	return s.db.AutoMigrate(&place{})
}

func (s *Store) SelectPlaces(ctx context.Context) ([]entities.Place, error) {
	var dbos []place

	db := s.db.WithContext(ctx)
	db = db.Order("created_at DESC")

	if err := db.Find(&dbos).Error; err != nil {
		return nil, err
	}

	ans := make([]entities.Place, len(dbos))
	for i, dbo := range dbos {
		ans[i] = dbo.toEntitiesPlace()
	}

	return ans, nil
}

func (s *Store) UpsertPlaces(ctx context.Context, places []entities.Place) error {
	if len(places) == 0 {
		return nil
	}

	dbos := make([]place, len(places))
	for i := range places {
		dbos[i] = placeFromEntitiesPlace(&places[i])
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&dbos).Error
}

func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}

	return db.Close()
}

func (s *Store) CountPlaces(ctx context.Context) (int, error) {
	var count int64

	if err := s.db.WithContext(ctx).Model(&place{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return int(count), nil
}
