// Package memory is an in-process SeasonRepository, used for tests and STORE_BACKEND=memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dmv-footballheadz/season-api/internal/models"
	"github.com/dmv-footballheadz/season-api/internal/repository"
)

// Store keeps seasons in a map guarded by a RWMutex. Values are copied on the way in and out.
type Store struct {
	// RWMutex allows many concurrent readers (Get, Scan) but only one writer (Put, Delete).
	// Go maps are not safe for concurrent writes; unguarded access would crash the process.
	mu      sync.RWMutex
	seasons map[string]models.Season
}

var _ repository.SeasonRepository = (*Store)(nil)

// NewStore returns a store holding the given seasons.
func NewStore(seed ...models.Season) *Store {
	s := &Store{seasons: make(map[string]models.Season, len(seed))}
	for _, season := range seed {
		s.seasons[season.ID] = season.Clone()
	}
	return s
}

// Get retrieves a season by ID.
func (s *Store) Get(ctx context.Context, id string) (models.Season, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.Season{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock() // released when Get returns, on every path

	// The "comma ok" form reports whether the key was present instead of returning a zero value.
	season, ok := s.seasons[id]
	if !ok {
		return models.Season{}, false, nil
	}
	return season.Clone(), true, nil
}

// Put stores the season under its ID.
func (s *Store) Put(ctx context.Context, season models.Season) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seasons[season.ID] = season.Clone()
	return nil
}

// Delete removes the season stored under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.seasons, id)
	return nil
}

// Scan returns the seasons matching filter, ordered by ID so results are stable.
func (s *Store) Scan(ctx context.Context, filter repository.Filter) ([]models.Season, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Season, 0, len(s.seasons))
	for _, season := range s.seasons {
		if filter.Matches(season) {
			result = append(result, season.Clone())
		}
	}
	// Map iteration order is randomized in Go; sort so callers see a stable order.
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
