package db

import (
	"context"
	"database/sql"
	"fmt"

	"social_games_backend/db/migrations"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/migrate"
)

// InitSchema applies every pending migration. The returned group lists the
// migrations applied by this call; it is empty when the schema was current.
func InitSchema(ctx context.Context, sqldb *sql.DB) (*migrate.MigrationGroup, error) {
	// bun.DB only wraps sqldb here; closing it would close the caller's pool.
	bdb := bun.NewDB(sqldb, pgdialect.New())

	migrator := migrate.NewMigrator(bdb, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("error initializing migrations: %w", err)
	}

	if err := migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("error locking migrations: %w", err)
	}
	defer migrator.Unlock(ctx)

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}
	return group, nil
}

// RollbackSchema undoes the most recently applied migration group.
func RollbackSchema(ctx context.Context, sqldb *sql.DB) (*migrate.MigrationGroup, error) {
	bdb := bun.NewDB(sqldb, pgdialect.New())

	migrator := migrate.NewMigrator(bdb, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("error initializing migrations: %w", err)
	}

	if err := migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("error locking migrations: %w", err)
	}
	defer migrator.Unlock(ctx)

	group, err := migrator.Rollback(ctx)
	if err != nil {
		return nil, fmt.Errorf("error rolling back migrations: %w", err)
	}
	return group, nil
}
