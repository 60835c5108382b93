package db

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
)

type DB struct {
	*sql.DB
}

// Open connects to Postgres and applies the embedded migration.
func Open(ctx context.Context, dsn string) (*DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := RunMigration(ctx, sqlDB); err != nil {
		return nil, err
	}

	return &DB{DB: sqlDB}, nil
}
