package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"blog-post-service/migrations"
)

// openSource returns the embedded migrations for the dialect, or the
// directory at migrationsPath when it is set. A migrationsPath laid out like
// migrations/, with one subdirectory per dialect, resolves to the dialect's
// subdirectory.
func openSource(dialect Dialect, migrationsPath string) (source.Driver, error) {
	if migrationsPath != "" {
		dir := os.DirFS(migrationsPath)
		if info, err := fs.Stat(dir, string(dialect)); err == nil && info.IsDir() {
			return iofs.New(dir, string(dialect))
		}
		return iofs.New(dir, ".")
	}
	return iofs.New(migrations.FS, string(dialect))
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// migrateSQLite runs on the caller's pool. The sqlite driver closes the
// pool it wraps, so the migrate instance itself is never closed here.
func migrateSQLite(db *sql.DB, migrationsPath string) error {
	src, err := openSource(DialectSQLite, migrationsPath)
	if err != nil {
		return fmt.Errorf("open migrations source: %w", err)
	}
	defer src.Close()

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(DialectSQLite), driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := up(m); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func migratePostgres(databaseURL, migrationsPath string) (err error) {
	src, err := openSource(DialectPostgres, migrationsPath)
	if err != nil {
		return fmt.Errorf("open migrations source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, pgx5URL(databaseURL))
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err == nil {
			err = errors.Join(srcErr, dbErr)
		}
	}()

	if err := up(m); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func pgx5URL(databaseURL string) string {
	if _, rest, ok := strings.Cut(databaseURL, "://"); ok {
		return "pgx5://" + rest
	}
	return databaseURL
}
