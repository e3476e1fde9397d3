// Package db opens the PostgreSQL pool through pgx and owns the schema.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	envconfig "tnsystems-site/pkg/config"
)

// ConnectionConfig tunes the database/sql pool that wraps pgx.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	// ApplicationName shows up in pg_stat_activity.
	ApplicationName string
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		ApplicationName: "tnsystems-site",
	}
}

// ConnectionConfigFromEnv overlays the DB_* variables on the defaults.
// Values below one are ignored.
func ConnectionConfigFromEnv() ConnectionConfig {
	cfg := DefaultConnectionConfig()
	for key, dst := range map[string]*int{
		"DB_MAX_OPEN_CONNS": &cfg.MaxOpenConns,
		"DB_MAX_IDLE_CONNS": &cfg.MaxIdleConns,
	} {
		if v := envconfig.GetEnvInt(key, *dst); v > 0 {
			*dst = v
		}
	}
	for key, dst := range map[string]*time.Duration{
		"DB_CONN_MAX_LIFETIME":  &cfg.ConnMaxLifetime,
		"DB_CONN_MAX_IDLE_TIME": &cfg.ConnMaxIdleTime,
	} {
		if v := envconfig.GetEnvDuration(key, *dst); v > 0 {
			*dst = v
		}
	}
	cfg.ApplicationName = envconfig.GetEnvString("DB_APPLICATION_NAME", cfg.ApplicationName)
	return cfg
}

// Open parses dsn with pgx, wraps it in a *sql.DB and pings within five
// seconds. The pool is closed again when the ping fails.
func Open(ctx context.Context, dsn string, cfg ConnectionConfig) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL not set")
	}
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	if cfg.ApplicationName != "" {
		connCfg.RuntimeParams["application_name"] = cfg.ApplicationName
	}

	pool := stdlib.OpenDB(*connCfg)
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	pool.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping %s: %w", connCfg.Host, err)
	}

	slog.Info("database connected",
		slog.String("host", connCfg.Host),
		slog.String("database", connCfg.Database),
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns))
	return pool, nil
}
