package db

import (
	"context"
	"log/slog"
	"time"

	"salon-scheduler/internal/pkg/config"
	"salon-scheduler/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the minimal query surface shared by *pgxpool.Pool and pgx.Tx,
// so repositories run unchanged inside and outside transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, func(), error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.BuildDSN())
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to parse database config")
	}

	poolCfg.MaxConns = 100
	poolCfg.MinConns = 10
	poolCfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to create connection pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, errs.Wrap(err, "failed to ping database")
	}

	cleanup := func() {
		slog.Info("closing database pool")
		pool.Close()
	}

	return pool, cleanup, nil
}
