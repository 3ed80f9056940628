package app

import (
	"context"
	"fmt"

	"github.com/arathikrishnaam/dueDash/cmd/identity"
	"github.com/arathikrishnaam/dueDash/cmd/internal/storage"
	"github.com/arathikrishnaam/dueDash/cmd/internal/task"
)

// backend is the open database and the stores built on it.
type backend struct {
	db    *storage.DB
	users identity.Store
	tasks task.Store
}

// openBackend connects to cfg.DatabaseURL and builds the pgx stores for
// PostgreSQL or the GORM stores for SQLite. With DBAutoMigrate the schema is
// created if missing.
func openBackend(ctx context.Context, cfg Config, log Logger) (*backend, error) {
	db, err := storage.Open(ctx, cfg.storageConfig(), log)
	if err != nil {
		return nil, err
	}

	b, err := buildStores(ctx, db, cfg.DBAutoMigrate)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info("db.open", "driver", string(db.Driver), "auto_migrate", cfg.DBAutoMigrate)
	return b, nil
}

func buildStores(ctx context.Context, db *storage.DB, migrate bool) (*backend, error) {
	switch db.Driver {
	case storage.DriverPostgres:
		if migrate {
			if err := storage.EnsurePostgresSchema(ctx, db.Pool, db.Schema()); err != nil {
				return nil, err
			}
		}
		users, err := identity.NewPostgresStore(db.Pool, identity.WithSchema(db.Schema()))
		if err != nil {
			return nil, err
		}
		tasks, err := task.NewPostgresStore(db.Pool, task.WithSchema(db.Schema()))
		if err != nil {
			return nil, err
		}
		return &backend{db: db, users: users, tasks: tasks}, nil

	case storage.DriverSQLite:
		users, err := identity.NewGormStore(db.Gorm)
		if err != nil {
			return nil, err
		}
		tasks, err := task.NewGormStore(db.Gorm)
		if err != nil {
			return nil, err
		}
		if migrate {
			// Migrates users as well; tasks reference them.
			if err := tasks.Migrate(ctx); err != nil {
				return nil, err
			}
		}
		return &backend{db: db, users: users, tasks: tasks}, nil

	default:
		return nil, fmt.Errorf("app: unsupported driver %q", db.Driver)
	}
}

func (b *backend) Close() error {
	if b == nil {
		return nil
	}
	return b.db.Close()
}
