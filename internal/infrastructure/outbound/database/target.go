// Package database turns a database URL into a migrated store.
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"blog-post-service/internal/custom_errors"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const memoryPath = ":memory:"

// Target is a parsed database URL.
type Target struct {
	Dialect Dialect
	URL     string
	// Path is the SQLite file path, or ":memory:". Empty for PostgreSQL.
	Path string
}

func (t Target) InMemory() bool {
	return t.Dialect == DialectSQLite && t.Path == memoryPath
}

// Parse accepts sqlite://<path>, sqlite::memory:, sqlite://:memory:,
// postgres://... and postgresql://...
func Parse(rawURL string) (Target, error) {
	switch {
	case rawURL == "sqlite::memory:":
		return Target{Dialect: DialectSQLite, URL: rawURL, Path: memoryPath}, nil

	case strings.HasPrefix(rawURL, "sqlite://"):
		path := strings.TrimPrefix(rawURL, "sqlite://")
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		if path == "" {
			return Target{}, fmt.Errorf("%w: %q has no file path", custom_errors.ErrUnsupportedDatabase, rawURL)
		}
		return Target{Dialect: DialectSQLite, URL: rawURL, Path: path}, nil

	case strings.HasPrefix(rawURL, "postgres://"), strings.HasPrefix(rawURL, "postgresql://"):
		return Target{Dialect: DialectPostgres, URL: rawURL}, nil
	}

	return Target{}, fmt.Errorf("%w: %q", custom_errors.ErrUnsupportedDatabase, rawURL)
}

// EnsureExists creates the SQLite file and its parent directory when absent.
// It does nothing for in-memory and PostgreSQL targets.
func EnsureExists(t Target) error {
	if t.Dialect != DialectSQLite || t.InMemory() {
		return nil
	}

	if dir := filepath.Dir(t.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(t.Path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("create database file %s: %w", t.Path, err)
	}
	return f.Close()
}
