package config

import (
	"context"
	"fmt"
	"time"

	"github.com/TechHelpSeniors/techhelp-proxy/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig parses the database URL and applies pool limits.
func PoolConfig(cfg *DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.HealthCheckPeriod = time.Minute

	return poolConfig, nil
}

// ConnectPostgres opens a pool for the postgres reviews backend and verifies
// it with a ping.
func ConnectPostgres(ctx context.Context, cfg *DatabaseConfig) (*pgxpool.Pool, error) {
	log := logger.GetLogger()

	poolConfig, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	log.Infow("Connecting to database",
		"connection_string", logger.MaskConnectionString(cfg.URL),
		"max_conns", poolConfig.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
