package sink

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/quotetools/quotescrape/internal/scraper"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// WriteSQLite appends all records to the quotes table at path, creating
// the database file and its schema when needed. Unlike the CSV sink it
// accumulates across runs; there is no deduplication. Rows go in within
// a single transaction so a failed flush leaves the database unchanged.
func WriteSQLite(ctx context.Context, path string, records []scraper.Record) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer db.Close()

	if err := runMigrations(db); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO quotes (quote, author, tags, source_url, scraped_at)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.Quote,
			rec.Author,
			strings.Join(rec.Tags, scraper.TagSeparator),
			rec.SourceURL,
			rec.ScrapedAt)
		if err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// runMigrations applies all pending schema migrations. Running against
// an already-migrated database is a no-op.
func runMigrations(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
