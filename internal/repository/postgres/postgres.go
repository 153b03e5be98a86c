// Package postgres implements repository.StateGateway on PostgreSQL through a
// pgx connection pool. The schema matches the sqlite gateway: one row per
// snapshot name, with the state stored as JSONB.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakif/socialhub/internal/apperror"
	"github.com/sakif/socialhub/internal/model"
	"github.com/sakif/socialhub/internal/repository"
)

// compile-time check that *DB implements repository.StateGateway
var _ repository.StateGateway = (*DB)(nil)

// maxConns is small on purpose: the service saves from a single goroutine.
const maxConns = 4

type DB struct {
	pool *pgxpool.Pool
	name string
}

// New connects to dsn and runs migrations.
func New(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	db := &DB{pool: pool, name: repository.DefaultSnapshotName}
	if err := db.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: running migrations: %w", err)
	}
	return db, nil
}

// Close releases every pooled connection. It returns an error only to match
// the sqlite gateway's Close.
func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

func (db *DB) migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			name     TEXT PRIMARY KEY,
			data     JSONB NOT NULL,
			saved_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("creating snapshots table: %w", err)
	}
	return nil
}

// Save upserts the snapshot row.
func (db *DB) Save(ctx context.Context, state *model.State) error {
	data, err := repository.EncodeState(state)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO snapshots (name, data, saved_at) VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, saved_at = EXCLUDED.saved_at`,
		db.name, string(data),
	)
	if err != nil {
		return fmt.Errorf("postgres: saving snapshot %s: %w", db.name, err)
	}
	return nil
}

// Load returns an apperror.ErrNotFound error when nothing has been saved.
func (db *DB) Load(ctx context.Context) (*model.State, error) {
	var data string
	err := db.pool.QueryRow(ctx,
		`SELECT data::text FROM snapshots WHERE name = $1`, db.name,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("snapshot", db.name)
		}
		return nil, fmt.Errorf("postgres: loading snapshot %s: %w", db.name, err)
	}

	state, err := repository.DecodeState([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return state, nil
}
