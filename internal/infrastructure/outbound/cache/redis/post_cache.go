package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"blog-post-service/internal/custom_errors"
	model "blog-post-service/internal/domain/models"
	ports "blog-post-service/internal/domain/ports/output"
	"blog-post-service/internal/domain/ports/output/cache"
)

const publishedPostsKey = "posts:published"

type PostCache struct {
	client *Client
	log    ports.Logger
	ttl    time.Duration
}

var _ cache.PostCache = (*PostCache)(nil)

func NewPostCache(client *Client, ttl time.Duration, log ports.Logger) *PostCache {
	return &PostCache{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

func (p *PostCache) GetPublished(ctx context.Context) ([]*model.Post, error) {
	var posts []*model.Post
	err := p.client.Get(ctx, publishedPostsKey, &posts)
	if err != nil {
		if errors.Is(err, custom_errors.ErrCacheMiss) {
			p.log.Debug("Published posts cache miss")
			return nil, custom_errors.ErrCacheMiss
		}
		p.log.Error("Failed to get published posts from cache", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get published posts from cache: %w", err)
	}

	if posts == nil {
		posts = make([]*model.Post, 0)
	}

	p.log.Debug("Published posts cache hit", slog.Int("count", len(posts)))
	return posts, nil
}

func (p *PostCache) SetPublished(ctx context.Context, posts []*model.Post) error {
	if posts == nil {
		return fmt.Errorf("posts cannot be nil")
	}

	if err := p.client.Set(ctx, publishedPostsKey, posts, p.ttl); err != nil {
		p.log.Error("Failed to set published posts cache", slog.String("error", err.Error()))
		return fmt.Errorf("failed to set published posts cache: %w", err)
	}

	p.log.Debug("Published posts cached successfully",
		slog.Int("count", len(posts)),
		slog.Duration("ttl", p.ttl))
	return nil
}

func (p *PostCache) InvalidatePublished(ctx context.Context) error {
	if err := p.client.Delete(ctx, publishedPostsKey); err != nil {
		p.log.Error("Failed to invalidate published posts cache", slog.String("error", err.Error()))
		return fmt.Errorf("failed to invalidate published posts cache: %w", err)
	}

	p.log.Debug("Published posts cache invalidated")
	return nil
}
