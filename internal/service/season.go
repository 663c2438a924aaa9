// Package service holds the season business rules: create only when absent, replace or merge
// only when present, delete only when present, and the two listings.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dmv-footballheadz/season-api/internal/logging"
	"github.com/dmv-footballheadz/season-api/internal/models"
	"github.com/dmv-footballheadz/season-api/internal/repository"
)

var (
	// ErrNotFound is returned when an operation targets an ID that is not stored.
	ErrNotFound = errors.New("season not found")
	// ErrConflict is returned when Create targets an ID that is already stored.
	ErrConflict = errors.New("season already exists")
)

// WriteCheck inspects the exact record about to be stored and returns an error to reject it.
// For Replace and Update that is the record after the replacement or merge, not the request body.
type WriteCheck func(models.Season) error

// SeasonService orchestrates reads and read-modify-writes against a SeasonRepository.
// It holds no locks: concurrent writers to the same ID race and the last write wins.
type SeasonService struct {
	repo  repository.SeasonRepository
	check WriteCheck // nil accepts every record
	log   zerolog.Logger
}

// Option customizes a SeasonService at construction time.
type Option func(*SeasonService)

// WithWriteCheck makes Create, Replace and Update run check before every Put.
// A rejected record is not written and check's error is returned unwrapped.
func WithWriteCheck(check WriteCheck) Option {
	return func(s *SeasonService) {
		s.check = check
	}
}

// NewSeasonService wires the service with its repository.
// The repository is passed in (not a package-level global) so tests can hand in a fake.
func NewSeasonService(repo repository.SeasonRepository, logger zerolog.Logger, opts ...Option) *SeasonService {
	s := &SeasonService{
		repo: repo,
		log:  logging.Component(logger, "season-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns the season stored under id, or ErrNotFound.
func (s *SeasonService) Read(ctx context.Context, id string) (models.Season, error) {
	s.log.Trace().Str("id", id).Msg("read")
	season, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Season{}, fmt.Errorf("read season: %w", err)
	}
	if !ok {
		return models.Season{}, ErrNotFound
	}
	return season, nil
}

// Create stores season unless its ID is already taken, in which case it returns ErrConflict
// and writes nothing. The existence check and the write are separate store calls.
func (s *SeasonService) Create(ctx context.Context, season models.Season) (models.Season, error) {
	s.log.Trace().Str("id", season.ID).Msg("create")
	// The blank identifier "_" discards the stored season; only its existence matters here.
	_, exists, err := s.repo.Get(ctx, season.ID)
	if err != nil {
		// %w wraps the store error so callers can still match it with errors.Is / errors.As.
		return models.Season{}, fmt.Errorf("create season: %w", err)
	}
	if exists {
		s.log.Warn().Str("id", season.ID).Msg("season already exists")
		return models.Season{}, ErrConflict
	}
	if err := s.runCheck(season); err != nil {
		return models.Season{}, err
	}
	if err := s.repo.Put(ctx, season); err != nil {
		return models.Season{}, fmt.Errorf("create season: %w", err)
	}
	return season, nil
}

// Replace overwrites every field of the stored season with newData, including overwriting
// present fields with empty ones. It returns ErrNotFound when newData.ID is not stored.
func (s *SeasonService) Replace(ctx context.Context, newData models.Season) (models.Season, error) {
	s.log.Trace().Str("id", newData.ID).Msg("replace")
	// The closure captures newData; modify calls it with the record it just read.
	return s.modify(ctx, newData.ID, func(stored models.Season) models.Season {
		return stored.Replace(newData)
	})
}

// Update merges newData into the stored season: only non-empty strings and non-nil numbers
// overwrite, everything else is preserved. It returns ErrNotFound when newData.ID is not stored.
func (s *SeasonService) Update(ctx context.Context, newData models.Season) (models.Season, error) {
	s.log.Trace().Str("id", newData.ID).Msg("update")
	return s.modify(ctx, newData.ID, func(stored models.Season) models.Season {
		return stored.Merge(newData)
	})
}

// Delete removes the season stored under id, or returns ErrNotFound without writing.
func (s *SeasonService) Delete(ctx context.Context, id string) error {
	s.log.Trace().Str("id", id).Msg("delete")
	_, exists, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("delete season: %w", err)
	}
	if !exists {
		s.log.Warn().Str("id", id).Msg("season not found")
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete season: %w", err)
	}
	return nil
}

// List returns every stored season in the store's scan order.
func (s *SeasonService) List(ctx context.Context) ([]models.Season, error) {
	s.log.Trace().Msg("list")
	// The zero Filter (no year set) matches every season.
	seasons, err := s.repo.Scan(ctx, repository.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	return seasons, nil
}

// ListByYear returns the seasons whose year equals year. The filter is evaluated by the store.
func (s *SeasonService) ListByYear(ctx context.Context, year string) ([]models.Season, error) {
	s.log.Trace().Str("year", year).Msg("list by year")
	seasons, err := s.repo.Scan(ctx, repository.Filter{Year: year})
	if err != nil {
		return nil, fmt.Errorf("list seasons for %s: %w", year, err)
	}
	return seasons, nil
}

// modify is the single read-modify-write path shared by Replace and Update.
// TODO: make the Put conditional on the record read here once the repository grows a
// compare-and-swap write, closing the lost-update window between Get and Put.
func (s *SeasonService) modify(ctx context.Context, id string, change func(models.Season) models.Season) (models.Season, error) {
	stored, exists, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Season{}, fmt.Errorf("modify season: %w", err)
	}
	if !exists {
		s.log.Warn().Str("id", id).Msg("season not found")
		return models.Season{}, ErrNotFound
	}

	// The check sees the merged/replaced record, so a partial PATCH body is judged
	// together with the fields it leaves untouched.
	updated := change(stored)
	if err := s.runCheck(updated); err != nil {
		return models.Season{}, err
	}
	if err := s.repo.Put(ctx, updated); err != nil {
		return models.Season{}, fmt.Errorf("modify season: %w", err)
	}
	return updated, nil
}

func (s *SeasonService) runCheck(season models.Season) error {
	if s.check == nil {
		return nil
	}
	if err := s.check(season); err != nil {
		s.log.Warn().Err(err).Str("id", season.ID).Msg("season rejected")
		return err
	}
	return nil
}
