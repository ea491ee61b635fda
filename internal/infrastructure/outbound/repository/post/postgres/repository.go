package post_repository_postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"blog-post-service/internal/custom_errors"
	model "blog-post-service/internal/domain/models"
	ports "blog-post-service/internal/domain/ports/output"
	"blog-post-service/internal/infrastructure/outbound/repository/postgres/db"
)

const postColumns = "id, title, body, published"

type PostRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

var _ ports.PostRepository = (*PostRepository)(nil)

func NewPostRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *PostRepository {
	return &PostRepository{db: db, log: log, metrics: metrics}
}

func (p *PostRepository) observe(queryType string, start time.Time, success bool) {
	p.metrics.IncrementDatabaseQueries(queryType, success)
	p.metrics.RecordDatabaseQueryDuration(queryType, time.Since(start))
}

func (p *PostRepository) ListDrafts(ctx context.Context) ([]*model.Post, error) {
	return p.list(ctx, "post_list_drafts", false)
}

func (p *PostRepository) ListPublished(ctx context.Context) ([]*model.Post, error) {
	return p.list(ctx, "post_list_published", true)
}

func (p *PostRepository) list(ctx context.Context, queryType string, published bool) ([]*model.Post, error) {
	start := time.Now()
	p.log.Debug("Listing posts", slog.Bool("published", published))

	args := pgx.NamedArgs{
		"published": published,
		"limit":     ports.ListLimit,
	}
	query := `SELECT ` + postColumns + `
				FROM posts WHERE published = @published ORDER BY id LIMIT @limit`

	rows, err := p.db.Query(ctx, query, args)
	if err != nil {
		p.observe(queryType, start, false)
		p.log.Error("Error listing posts", slog.Bool("published", published), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", custom_errors.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	posts := make([]*model.Post, 0)
	for rows.Next() {
		var post model.Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Body, &post.Published); err != nil {
			p.observe(queryType, start, false)
			p.log.Error("Error scanning post during list", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: %w", custom_errors.ErrDatabaseScan, err)
		}
		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		p.observe(queryType, start, false)
		p.log.Error("Error iterating rows during list", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", custom_errors.ErrDatabaseQuery, err)
	}

	p.observe(queryType, start, true)
	p.log.Debug("Listed posts", slog.Bool("published", published), slog.Int("count", len(posts)))
	return posts, nil
}

func (p *PostRepository) CreateDraft(ctx context.Context, title, body string) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Creating new draft", slog.String("title", title))

	args := pgx.NamedArgs{
		"title": title,
		"body":  body,
	}
	query := `
		INSERT INTO posts (title, body, published)
		VALUES (@title, @body, FALSE)
		RETURNING ` + postColumns

	var created model.Post
	err := p.db.QueryRow(ctx, query, args).Scan(
		&created.ID,
		&created.Title,
		&created.Body,
		&created.Published,
	)
	if err != nil {
		p.observe("post_create_draft", start, false)
		p.log.Error("Error creating draft", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", custom_errors.ErrDatabaseQuery, err)
	}

	p.observe("post_create_draft", start, true)
	p.log.Debug("Successfully created draft", slog.Int64("id", created.ID))
	return &created, nil
}

func (p *PostRepository) DeleteDraft(ctx context.Context, id int64) (*model.Post, error) {
	args := pgx.NamedArgs{"id": id}
	query := `
		DELETE FROM posts
		WHERE id = @id AND published = FALSE
		RETURNING ` + postColumns

	return p.returningOne(ctx, "post_delete_draft", id, query, args)
}

func (p *PostRepository) Publish(ctx context.Context, id int64) (*model.Post, error) {
	args := pgx.NamedArgs{"id": id}
	query := `
		UPDATE posts SET published = TRUE
		WHERE id = @id
		RETURNING ` + postColumns

	return p.returningOne(ctx, "post_publish", id, query, args)
}

func (p *PostRepository) returningOne(ctx context.Context, queryType string, id int64, query string, args pgx.NamedArgs) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Executing statement", slog.String("query_type", queryType), slog.Int64("id", id))

	var post model.Post
	err := p.db.QueryRow(ctx, query, args).Scan(
		&post.ID,
		&post.Title,
		&post.Body,
		&post.Published,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			p.observe(queryType, start, true)
			p.log.Debug("No post matched", slog.String("query_type", queryType), slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.observe(queryType, start, false)
		p.log.Error("Error executing statement", slog.String("query_type", queryType), slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", custom_errors.ErrDatabaseQuery, err)
	}

	p.observe(queryType, start, true)
	return &post, nil
}
