package database

import (
	"context"
	"database/sql"

	"github.com/jonwraymond/healthkit/health"
)

// SQLIndicator probes a database/sql pool.
type SQLIndicator struct {
	name  string
	db    *sql.DB
	query string
}

// NewSQLIndicator creates an indicator that runs query on a pooled
// connection. An empty query pings the connection instead.
func NewSQLIndicator(name string, db *sql.DB, query string) *SQLIndicator {
	return &SQLIndicator{name: name, db: db, query: query}
}

// NewSQL creates an indicator using the validation query for driver.
func NewSQL(name string, db *sql.DB, driver string) *SQLIndicator {
	return NewSQLIndicator(name, db, ValidationQuery(driver))
}

// Name returns the name of this indicator.
func (s *SQLIndicator) Name() string {
	return s.name
}

// Query returns the validation query, or "" when the indicator pings.
func (s *SQLIndicator) Query() string {
	return s.query
}

// Check acquires a connection and validates it.
func (s *SQLIndicator) Check(ctx context.Context) health.Detail {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return down(err)
	}
	defer conn.Close()

	if s.query == "" {
		if err := conn.PingContext(ctx); err != nil {
			return down(err)
		}
		return health.Up()
	}

	if _, err := conn.ExecContext(ctx, s.query); err != nil {
		return down(err)
	}
	return health.Up()
}

func down(err error) health.Detail {
	return health.Down().WithDetail("error", err.Error())
}

var _ health.Indicator = (*SQLIndicator)(nil)
