package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/LunaBet_Go/internal/database"
)

// startTestDatabase runs a throwaway PostgreSQL container, migrates it and returns a pool.
// It returns a nil pool when Docker is unavailable so callers can skip.
func startTestDatabase(ctx context.Context) (pool *pgxpool.Pool, terminate func(), err error) {
	terminate = func() {}

	// Handle potential panics from testcontainers
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in startTestDatabase: %v\n", r)
			pool, err = nil, nil
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return nil, terminate, nil
	}
	terminate = func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, terminate, fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err = database.NewPool(connStr, 20, time.Minute, 5*time.Minute)
	if err != nil {
		return nil, terminate, err
	}
	if err := database.MigratePool(ctx, pool); err != nil {
		pool.Close()
		return nil, terminate, err
	}
	return pool, terminate, nil
}
