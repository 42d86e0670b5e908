// Package postgres implements domain/repository.TaskStore on top of
// pgx/v5's connection pool, grounded on the teacher's pgxpool wiring.
package postgres

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NewConnection opens a pgxpool.Pool against databaseURL with pool
// settings suited to a single-process personal-task-management core
// rather than the teacher's queue-under-load defaults.
func NewConnection(ctx context.Context, databaseURL string, logger *zap.Logger) (*pgxpool.Pool, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.HealthCheckPeriod = time.Minute
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 10 * time.Minute

	pool, err := pgxpool.NewWithConfig(connectCtx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("postgres connection pool initialized")
	return pool, nil
}

// Close releases the pool, logging the event the way the rest of the
// core logs lifecycle transitions.
func Close(pool *pgxpool.Pool, logger *zap.Logger) {
	pool.Close()
	logger.Info("postgres connection pool closed")
}

// RunMigrations executes the Postgres schema file from migrationsDir.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, migrationsDir string, logger *zap.Logger) error {
	execCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	migrationSQL, err := os.ReadFile(migrationsDir + "/001_init_schema_postgres.up.sql")
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	if _, err := pool.Exec(execCtx, string(migrationSQL)); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}

	logger.Info("postgres migrations completed")
	return nil
}
