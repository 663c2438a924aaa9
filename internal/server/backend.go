package server

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dmv-footballheadz/season-api/internal/config"
	"github.com/dmv-footballheadz/season-api/internal/database"
	"github.com/dmv-footballheadz/season-api/internal/repository"
	"github.com/dmv-footballheadz/season-api/internal/repository/dynamo"
	"github.com/dmv-footballheadz/season-api/internal/repository/memory"
	"github.com/dmv-footballheadz/season-api/internal/repository/postgres"
)

// Backend is an opened store together with its provisioning and cleanup steps.
type Backend struct {
	Repo repository.SeasonRepository

	provision func(ctx context.Context) error
	close     func() error
}

// OpenBackend connects to the store selected by cfg.StoreBackend.
func OpenBackend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Backend, error) {
	log := logger.With().Str("component", "backend").Str("store", cfg.StoreBackend).Logger()

	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn().Msg("using the in-memory store; data is lost on exit")
		return &Backend{Repo: memory.NewStore()}, nil

	case config.BackendDynamoDB:
		client, err := dynamo.NewClient(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, err
		}
		store := dynamo.NewStore(client, cfg.DynamoDB.Table, logger)
		return &Backend{
			Repo: store,
			provision: func(ctx context.Context) error {
				_, err := store.EnsureTable(ctx, dynamo.TableOptions{OnDemand: cfg.DynamoDB.OnDemand})
				return err
			},
		}, nil

	case config.BackendPostgres:
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Repo: postgres.NewStore(db),
			provision: func(context.Context) error {
				return database.RunMigrations(cfg.MigrationsPath, cfg.DatabaseURL, log)
			},
			close: func() error { return database.Close(db) },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// Provision creates the season table (DynamoDB) or applies the schema migrations (Postgres).
// It is a no-op for the in-memory store.
func (b *Backend) Provision(ctx context.Context) error {
	if b.provision == nil {
		return nil
	}
	if err := b.provision(ctx); err != nil {
		return fmt.Errorf("provision store: %w", err)
	}
	return nil
}

// Close releases the store's connections.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}
