package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"

	ports "blog-post-service/internal/domain/ports/output"
	"blog-post-service/internal/infrastructure/config"
	post_repository_postgres "blog-post-service/internal/infrastructure/outbound/repository/post/postgres"
	post_repository_sqlite "blog-post-service/internal/infrastructure/outbound/repository/post/sqlite"
)

const sqliteBusyTimeout = 5 * time.Second

// Store is a migrated database and the post repository bound to it.
type Store struct {
	Target Target
	Posts  ports.PostRepository
	close  func() error
}

func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open parses cfg.URL, creates the SQLite file if needed, connects, applies
// pending migrations and returns the repository for the chosen dialect.
func Open(ctx context.Context, cfg config.Database, log ports.Logger, metrics ports.MetricsProvider) (*Store, error) {
	target, err := Parse(cfg.URL)
	if err != nil {
		return nil, err
	}

	if err := EnsureExists(target); err != nil {
		return nil, err
	}

	switch target.Dialect {
	case DialectSQLite:
		db, err := openSQLite(ctx, target)
		if err != nil {
			return nil, err
		}
		if err := migrateSQLite(db, cfg.MigrationsPath); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("SQLite database ready", slog.String("path", target.Path))
		return &Store{
			Target: target,
			Posts:  post_repository_sqlite.NewPostRepository(db, log, metrics),
			close:  db.Close,
		}, nil

	case DialectPostgres:
		if err := migratePostgres(target.URL, cfg.MigrationsPath); err != nil {
			return nil, err
		}
		pool, err := openPostgres(ctx, target, cfg.MaxConns)
		if err != nil {
			return nil, err
		}
		log.Info("PostgreSQL database ready", slog.Int("max_conns", cfg.MaxConns))
		return &Store{
			Target: target,
			Posts:  post_repository_postgres.NewPostRepository(pool, log, metrics),
			close: func() error {
				pool.Close()
				return nil
			},
		}, nil
	}

	return nil, fmt.Errorf("unhandled dialect %q", target.Dialect)
}

func openSQLite(ctx context.Context, t Target) (*sql.DB, error) {
	dsn := t.Path
	if !t.InMemory() {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
			t.Path, sqliteBusyTimeout.Milliseconds())
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", t.Path, err)
	}

	if t.InMemory() {
		// every new connection would see a fresh empty database
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", t.Path, err)
	}
	return db, nil
}

func openPostgres(ctx context.Context, t Target, maxConns int) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(t.URL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}
