package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"

	"github.com/arathikrishnaam/dueDash/cmd/internal/apperr"
)

// DB is an open backend. Exactly one of Pool or Gorm is set, matching Driver.
type DB struct {
	Driver Driver
	Pool   *pgxpool.Pool
	Gorm   *gorm.DB

	schema  string
	timeout time.Duration
}

// Open connects to the backend named by cfg.URL.
func Open(ctx context.Context, cfg Config, log *slog.Logger) (*DB, error) {
	driver, dsn, err := ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	schema := cfg.Schema
	if schema == "" {
		schema = "public"
	}
	if driver == DriverPostgres && !ValidIdentifier(schema) {
		return nil, fmt.Errorf("storage: invalid schema identifier %q", schema)
	}

	db := &DB{Driver: driver, schema: schema, timeout: cfg.ConnectTimeout}

	switch driver {
	case DriverPostgres:
		pool, err := OpenPostgres(ctx, cfg, dsn)
		if err != nil {
			return nil, apperr.Store("storage.Open", err)
		}
		db.Pool = pool
	case DriverSQLite:
		g, err := OpenSQLite(dsn, log)
		if err != nil {
			return nil, err
		}
		db.Gorm = g
	}
	return db, nil
}

// Schema is the PostgreSQL schema holding the tables.
func (d *DB) Schema() string { return d.schema }

// Ping checks connectivity. Failures are tagged apperr.ErrUnavailable.
func (d *DB) Ping(ctx context.Context) error {
	const op = "storage.Ping"

	switch {
	case d == nil:
		return apperr.OpError{Op: op, Kind: apperr.ErrUnavailable, Msg: "no database"}
	case d.Pool != nil:
		if err := PingPool(ctx, d.Pool, d.timeout); err != nil {
			return unavailable(op, err)
		}
		return nil
	case d.Gorm != nil:
		sqlDB, err := d.Gorm.DB()
		if err != nil {
			return unavailable(op, err)
		}
		timeout := d.timeout
		if timeout <= 0 {
			timeout = 3 * time.Second
		}
		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := sqlDB.PingContext(pctx); err != nil {
			return unavailable(op, err)
		}
		return nil
	default:
		return apperr.OpError{Op: op, Kind: apperr.ErrUnavailable, Msg: "no database"}
	}
}

// Close releases the pool or the underlying *sql.DB.
func (d *DB) Close() error {
	if d == nil {
		return nil
	}
	if d.Pool != nil {
		d.Pool.Close()
		return nil
	}
	if d.Gorm != nil {
		sqlDB, err := d.Gorm.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// Any failed health probe means the store is unusable to the caller.
func unavailable(op string, err error) error {
	if apperr.IsUnavailable(err) {
		return err
	}
	return apperr.OpError{Op: op, Kind: apperr.ErrUnavailable, Err: err}
}
