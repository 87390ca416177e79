package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/gsihag/immigration-ai-saas/internal/health/domain"
)

const probeTimeout = 5 * time.Second

// PostgresProber implements the domain DatabaseProber interface against
// the platform's primary Postgres store
type PostgresProber struct {
	db *sql.DB
}

// NewPostgresProber opens a connection pool for the given DSN. The
// connection is established lazily on the first probe.
func NewPostgresProber(dsn string) (*PostgresProber, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxIdleTime(time.Minute)
	return &PostgresProber{db: db}, nil
}

// Probe runs a minimal read query against the users table
func (p *PostgresProber) Probe(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	var count int64
	err := p.db.QueryRowContext(probeCtx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return fmt.Errorf("database probe failed: %w", err)
	}
	return nil
}

// Close releases the connection pool
func (p *PostgresProber) Close() error {
	return p.db.Close()
}

var _ domain.DatabaseProber = (*PostgresProber)(nil)
