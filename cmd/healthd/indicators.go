package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/jonwraymond/healthkit/cmd/healthd/config"
	"github.com/jonwraymond/healthkit/database"
	"github.com/jonwraymond/healthkit/health"
	"github.com/jonwraymond/healthkit/observe"
	"github.com/jonwraymond/healthkit/resilience"
)

// sqlDrivers maps SQL indicator kinds to registered database/sql drivers.
var sqlDrivers = map[string]string{
	config.KindPostgres: "postgres",
	config.KindMySQL:    "mysql",
	config.KindSQLite:   "sqlite",
}

// registry holds the indicators built from configuration and the resources
// they keep open.
type registry struct {
	indicators []health.Indicator
	closers    []func() error
}

// Close releases every opened resource.
func (r *registry) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// buildRegistry opens every configured indicator. Each indicator is bounded
// by its timeout and optional bulkhead, then instrumented by mw.
func buildRegistry(ctx context.Context, cfgs []config.IndicatorConfig, mw *observe.Middleware) (*registry, error) {
	reg := &registry{}
	for _, ic := range cfgs {
		ind, closer, err := openIndicator(ctx, ic)
		if err != nil {
			_ = reg.Close()
			return nil, fmt.Errorf("indicator %q: %w", ic.Name, err)
		}
		if closer != nil {
			reg.closers = append(reg.closers, closer)
		}
		reg.indicators = append(reg.indicators, mw.Wrap(bound(ind, ic)))
	}
	return reg, nil
}

func bound(ind health.Indicator, ic config.IndicatorConfig) health.Indicator {
	opts := []resilience.Option{resilience.UseTimeout(ic.Timeout)}
	if ic.MaxConcurrent > 0 {
		opts = append(opts, resilience.UseBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: ic.MaxConcurrent,
		})))
	}
	return resilience.Decorate(ind, opts...)
}

// openIndicator creates the indicator for one configuration entry. Connection
// pools are opened lazily by their drivers, so an unreachable dependency is
// reported by its checks rather than failing startup.
func openIndicator(ctx context.Context, ic config.IndicatorConfig) (health.Indicator, func() error, error) {
	switch ic.Kind {
	case config.KindPostgres, config.KindMySQL, config.KindSQLite:
		driver := sqlDrivers[ic.Kind]
		db, err := sql.Open(driver, ic.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", driver, err)
		}
		return database.NewSQL(ic.Name, db, driver), db.Close, nil

	case config.KindPgx:
		pool, err := pgxpool.New(ctx, ic.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open pgx pool: %w", err)
		}
		return database.NewPgxIndicator(ic.Name, pool), func() error {
			pool.Close()
			return nil
		}, nil

	case config.KindRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     ic.Addr,
			Password: ic.Password,
			DB:       ic.DB,
		})
		return database.NewRedisIndicator(ic.Name, client), client.Close, nil

	case config.KindMemory:
		mem := health.NewMemoryIndicator(health.MemoryIndicatorConfig{
			WarningThreshold:  ic.WarningThreshold,
			CriticalThreshold: ic.CriticalThreshold,
		})
		return renamed{name: ic.Name, Indicator: mem}, nil, nil

	case config.KindStatic:
		status, err := health.ParseStatus(ic.Status)
		if err != nil {
			return nil, nil, err
		}
		detail := health.NewDetail(status)
		for k, v := range ic.Details {
			detail = detail.WithDetail(k, v)
		}
		return health.StaticIndicator(ic.Name, detail), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown kind %q", ic.Kind)
	}
}

// renamed registers an indicator under a configured name.
type renamed struct {
	health.Indicator
	name string
}

func (r renamed) Name() string {
	return r.name
}
