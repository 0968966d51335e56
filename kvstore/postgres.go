package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a database backend keeping every collection as a single jsonb
// document. The schema is created on open.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the database at dsn and ensures the collections
// table exists.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("could not connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not ping postgres: %w", err)
	}
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS collections (
			key   text PRIMARY KEY,
			value jsonb NOT NULL
		)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not create collections table: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var raw json.RawMessage
	err := p.pool.QueryRow(ctx, `SELECT value FROM collections WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("could not read document %q: %w", key, err)
	}
	return raw, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value json.RawMessage) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO collections (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		return fmt.Errorf("could not write document %q: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (p *Postgres) Close() { p.pool.Close() }
