// Package repository defines the narrow key-based storage contract the season service is built on.
// Implementations live in the subpackages: memory (in-process), dynamo (AWS DynamoDB) and
// postgres (GORM). A repository is a dumb accessor: it never decides whether a write is allowed.
package repository

import (
	"context"

	"github.com/dmv-footballheadz/season-api/internal/models"
)

// SeasonRepository reads and writes seasons keyed by ID.
// Implementations must be safe for concurrent use: Fiber serves every request on its own goroutine.
//
// Go interfaces are satisfied implicitly: any type with these four methods is a
// SeasonRepository, without declaring it. Each store package adds a compile-time
// assertion (var _ repository.SeasonRepository = (*Store)(nil)) so a missing method is
// caught by the compiler rather than at runtime.
type SeasonRepository interface {
	// Get returns the season stored under id. The boolean is false when no season exists.
	Get(ctx context.Context, id string) (models.Season, bool, error)
	// Put inserts the season or overwrites the one stored under the same ID.
	Put(ctx context.Context, season models.Season) error
	// Delete removes the season stored under id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
	// Scan returns every season matching filter, in the store's natural order.
	// The filter is evaluated by the store, not by the caller.
	Scan(ctx context.Context, filter Filter) ([]models.Season, error)
}

// Filter narrows a Scan. The zero Filter matches every season.
type Filter struct {
	Year string
}

// IsZero reports whether the filter matches every season.
func (f Filter) IsZero() bool {
	return f.Year == ""
}

// Matches reports whether season satisfies the filter.
func (f Filter) Matches(season models.Season) bool {
	return f.Year == "" || season.Year == f.Year
}
