// Package postgres persists characters and their resistance bases in
// PostgreSQL using pgx v5. Overrides are never stored.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/resistance/internal/config"
)

// ConnectTimeout bounds the reachability check made when a Pool is opened.
const ConnectTimeout = 5 * time.Second

// Pool owns the pgx pool shared by the character repository.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool opens a pool sized by cfg and verifies the server answers within
// ConnectTimeout.
//
// Precondition: cfg must pass config.Validate.
// Postcondition: Returns a reachable Pool, or a non-nil error with no pool left open.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	pgCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing dsn for %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	pgCfg.MaxConns = cfg.MaxConns
	pgCfg.MinConns = cfg.MinConns
	pgCfg.MaxConnLifetime = cfg.MaxConnLifetime

	raw, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: opening pool: %w", err)
	}
	p := &Pool{pool: raw}
	if err := p.Health(ctx, ConnectTimeout); err != nil {
		raw.Close()
		return nil, err
	}
	return p, nil
}

// Health pings the server, failing if no answer arrives within timeout.
//
// Precondition: p must not be closed.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check: %w", err)
	}
	return nil
}

// Close releases every connection. The Pool is unusable afterwards.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB exposes the pgx pool to repositories.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
