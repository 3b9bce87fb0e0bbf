package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/LunaBet_Go/internal/config"
	"github.com/osse101/LunaBet_Go/internal/database"
	"github.com/osse101/LunaBet_Go/internal/database/postgres"
	"github.com/osse101/LunaBet_Go/internal/database/sqlite"
	"github.com/osse101/LunaBet_Go/internal/domain"
	"github.com/osse101/LunaBet_Go/internal/repository"
)

// OpenLedger connects the configured storage backend and brings its schema up to date.
// The returned ledger owns its connections; Close it on shutdown.
func OpenLedger(ctx context.Context, cfg *config.Config) (repository.Ledger, error) {
	switch cfg.StorageDriver {
	case domain.StorageDriverPostgres:
		pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, DBMaxConnIdleTime, DBMaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDatabase, err)
		}
		if err := database.MigratePool(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrateDatabase, err)
		}
		slog.Info(LogMsgLedgerOpened, "driver", cfg.StorageDriver, "host", cfg.DBHost, "database", cfg.DBName)
		return postgres.NewLedgerRepository(pool, cfg.DefaultStartingPoints), nil

	case domain.StorageDriverSQLite:
		if cfg.SQLitePath != sqlite.MemoryPath {
			if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), DirPermission); err != nil {
				return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenSQLite, err)
			}
		}
		store, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.DefaultStartingPoints)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenSQLite, err)
		}
		slog.Info(LogMsgLedgerOpened, "driver", cfg.StorageDriver, "path", cfg.SQLitePath)
		return store, nil
	}

	return nil, fmt.Errorf(ErrMsgUnknownStorageDriver, cfg.StorageDriver)
}
