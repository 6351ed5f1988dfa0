package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectDB establishes a connection pool to PostgreSQL, retrying while the
// database is still coming up.
func ConnectDB(ctx context.Context, cfg *Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}

	maxRetries := cfg.DBConnectRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var pool *pgxpool.Pool
	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				slog.Info("connected to PostgreSQL", "host", poolCfg.ConnConfig.Host, "database", poolCfg.ConnConfig.Database)
				return pool, nil
			}
			pool.Close()
		}
		slog.Warn("failed to connect to database",
			"attempt", i+1, "max_attempts", maxRetries, "retry_in", cfg.DBRetryInterval, "error", err)

		if i == maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.DBRetryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}
