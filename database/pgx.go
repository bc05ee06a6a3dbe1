package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jonwraymond/healthkit/health"
)

// PgxExecer is the subset of *pgxpool.Pool used by PgxIndicator.
type PgxExecer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PgxIndicator probes a pgx connection pool.
type PgxIndicator struct {
	name string
	pool PgxExecer
}

// NewPgxIndicator creates an indicator for a pgx pool.
func NewPgxIndicator(name string, pool PgxExecer) *PgxIndicator {
	return &PgxIndicator{name: name, pool: pool}
}

// Name returns the name of this indicator.
func (p *PgxIndicator) Name() string {
	return p.name
}

// Check runs the Postgres validation query on a pooled connection.
func (p *PgxIndicator) Check(ctx context.Context) health.Detail {
	if _, err := p.pool.Exec(ctx, PostgresValidationQuery); err != nil {
		return down(err)
	}
	return health.Up()
}

var _ health.Indicator = (*PgxIndicator)(nil)
