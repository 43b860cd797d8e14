// Package database owns the pgx connection pool and schema bootstrap.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolSettings carries the connection-pool knobs from configuration. Zero
// durations fall back to the pgx defaults.
type PoolSettings struct {
	URL               string
	MaxConns          int32
	MinConns          int32
	ConnMaxLifetime   time.Duration
	ConnMaxIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, settings PoolSettings) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(settings.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MaxConns = settings.MaxConns
	poolCfg.MinConns = settings.MinConns
	if settings.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = settings.ConnMaxLifetime
	}
	if settings.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = settings.ConnMaxIdleTime
	}
	if settings.HealthCheckPeriod > 0 {
		poolCfg.HealthCheckPeriod = settings.HealthCheckPeriod
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("postgres pool ready",
		"max_conns", poolCfg.MaxConns,
		"min_conns", poolCfg.MinConns,
		"conn_max_lifetime", poolCfg.MaxConnLifetime,
		"conn_max_idle_time", poolCfg.MaxConnIdleTime,
	)
	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

func (db *DB) Health(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}
