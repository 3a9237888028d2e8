package database

import (
	"context"
	"fmt"
	"time"

	"issuetracker/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// DB is the PostgreSQL-backed IssueStore.
type DB struct {
	Pool *pgxpool.Pool
}

// PoolConfig tunes the pgx connection pool.
type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}
}

func PoolConfigFrom(cfg config.Config) PoolConfig {
	pc := DefaultPoolConfig()
	if cfg.DBMaxConns > 0 {
		pc.MaxConns = int32(cfg.DBMaxConns)
	}
	if cfg.DBMinConns >= 0 {
		pc.MinConns = int32(cfg.DBMinConns)
	}
	if pc.MinConns > pc.MaxConns {
		pc.MinConns = pc.MaxConns
	}
	if cfg.DBMaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.DBMaxConnLifetime
	}
	if cfg.DBMaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	}
	return pc
}

func Connect(ctx context.Context, databaseURL string, pc PoolConfig) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = pc.MaxConns
	poolConfig.MinConns = pc.MinConns
	poolConfig.MaxConnLifetime = pc.MaxConnLifetime
	poolConfig.MaxConnIdleTime = pc.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Int32("max_conns", pc.MaxConns).Msg("Database connection established")
	return &DB{Pool: pool}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

func (db *DB) Close() {
	db.Pool.Close()
	log.Info().Msg("Database connection closed")
}
