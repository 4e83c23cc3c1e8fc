// Package repositories selects and connects the configured store backend.
package repositories

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/bank_app/internal/core/ports/repositories"
	"github.com/SscSPs/bank_app/internal/platform/config"
	"github.com/SscSPs/bank_app/internal/repositories/database/firestoredb"
	"github.com/SscSPs/bank_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/bank_app/internal/repositories/memory"
	"github.com/SscSPs/bank_app/pkg/database"
)

// Open connects the backend named by cfg.StoreBackend. The returned func releases it.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		if cfg.RunMigrations {
			if err := pgsql.RunMigrations(cfg.DatabaseURL, logger); err != nil {
				return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.StoreTimeout)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		logger.Info("Using PostgreSQL store")
		return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil

	case config.StoreFirestore:
		client, err := database.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize firestore client: %w", err)
		}
		logger.Info("Using Firestore store", slog.String("project_id", cfg.FirestoreProjectID))
		return firestoredb.NewRepositoryProvider(client), func() { database.CloseFirestoreClient(client) }, nil

	case config.StoreMemory, "":
		logger.Warn("Using in-memory store, data is lost on exit")
		return memory.NewStore().Provider(), func() {}, nil
	}
	return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
