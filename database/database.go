// Package database keeps the definition cache and the persisted log in
// a single SQLite file, together with its zipped backups.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	sqlite "modernc.org/sqlite"
)

// Every connection of both pools runs these on open.
var pragmas = []string{
	"journal_mode = WAL",
	"synchronous = NORMAL",
	"temp_store = MEMORY",
	"busy_timeout = 5000",
	"foreign_keys = ON",
	"trusted_schema = OFF",
}

var registerHook sync.Once

// Database reads through a pool of concurrent connections and writes
// through a single one. Backups go to a directory next to the file.
type Database struct {
	logger  *slog.Logger
	read    *sql.DB
	write   *sql.DB
	path    string
	backups string
}

// New opens the database at path and brings its schema up to date. An
// existing database is backed up before a migration touches it.
func New(ctx context.Context, path string) (*Database, error) {
	registerHook.Do(func() {
		initSQL := "PRAGMA " + strings.Join(pragmas, "; PRAGMA ") + ";"
		// The hook is process wide and outlives ctx.
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, _ string) error {
			_, err := conn.ExecContext(context.Background(), initSQL, nil)
			return err
		})
	})

	read, err := openPool(path, 10)
	if err != nil {
		return nil, fmt.Errorf("opening %s for reading: %w", path, err)
	}
	write, err := openPool(path, 1)
	if err != nil {
		read.Close()
		return nil, fmt.Errorf("opening %s for writing: %w", path, err)
	}

	d := &Database{
		logger:  slog.Default().With(slog.String("module", "database")),
		read:    read,
		write:   write,
		path:    path,
		backups: filepath.Join(filepath.Dir(path), "backups"),
	}

	if err := d.migrate(ctx, migrationsDir); err != nil {
		d.Close()
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}

	return d, nil
}

func openPool(path string, conns int) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(conns)
	db.SetConnMaxIdleTime(time.Minute)
	return db, nil
}

func (d *Database) SetLogger(logger *slog.Logger) {
	d.logger = logger
}

func (d *Database) Close() {
	d.read.Close()
	d.write.Close()
}

// Version is the schema version, the number of the last migration.
func (d *Database) Version(ctx context.Context) (int, error) {
	var v int
	if err := d.read.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// withTx runs fn in a write transaction, committing when fn succeeds.
func (d *Database) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			d.logger.Warn("rollback failed", slog.Any("error", rerr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// cutoff formats the moment retentionDays ago the way timestamps are
// stored: RFC 3339 in UTC, which sorts chronologically.
func cutoff(retentionDays int) string {
	return time.Now().AddDate(0, 0, -retentionDays).UTC().Format(time.RFC3339)
}
