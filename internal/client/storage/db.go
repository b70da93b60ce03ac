// Package storage opens the local SQLite database that backs the client's
// durable state and brings its schema up to date.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/repowatch/internal/client/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Open opens the SQLite database at dsn and migrates it. The pool is capped
// at one connection: SQLite serialises writers anyway, and ":memory:"
// databases only exist per connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
