// Package postgres stores seasons in the Postgres "seasons" table through GORM.
// The table itself is created by the migrations in package database.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dmv-footballheadz/season-api/internal/models"
	"github.com/dmv-footballheadz/season-api/internal/repository"
)

// Store is a SeasonRepository backed by GORM.
type Store struct {
	db *gorm.DB
}

var _ repository.SeasonRepository = (*Store)(nil)

// NewStore wraps an open GORM handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get loads the season whose primary key is id.
func (s *Store) Get(ctx context.Context, id string) (models.Season, bool, error) {
	var season models.Season
	// WithContext ties the query to the request, so a cancelled request cancels the query.
	// First adds "ORDER BY id LIMIT 1" and reports a missing row as gorm.ErrRecordNotFound.
	err := s.db.WithContext(ctx).First(&season, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Season{}, false, nil
	}
	if err != nil {
		return models.Season{}, false, fmt.Errorf("get season %q: %w", id, err)
	}
	return season, true, nil
}

// Put upserts the season. On conflict every column is overwritten, so Put always stores
// exactly the given record, including empty fields.
func (s *Store) Put(ctx context.Context, season models.Season) error {
	// INSERT ... ON CONFLICT (id) DO UPDATE SET <every column> turns Create into an upsert.
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&season).Error
	if err != nil {
		return fmt.Errorf("put season %q: %w", season.ID, err)
	}
	return nil
}

// Delete removes the row whose primary key is id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Season{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete season %q: %w", id, err)
	}
	return nil
}

// Scan selects every season matching filter; the year filter becomes a WHERE clause.
func (s *Store) Scan(ctx context.Context, filter repository.Filter) ([]models.Season, error) {
	// GORM queries are built up step by step; each call returns a new *gorm.DB.
	query := s.db.WithContext(ctx)
	if filter.Year != "" {
		query = query.Where("year = ?", filter.Year)
	}

	var seasons []models.Season
	if err := query.Find(&seasons).Error; err != nil {
		return nil, fmt.Errorf("scan seasons: %w", err)
	}
	return seasons, nil
}
