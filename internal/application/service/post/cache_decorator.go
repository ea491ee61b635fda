package post_service

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"blog-post-service/internal/custom_errors"
	model "blog-post-service/internal/domain/models"
	post_service "blog-post-service/internal/domain/ports/input/post"
	output "blog-post-service/internal/domain/ports/output"
	"blog-post-service/internal/domain/ports/output/cache"
)

// PostServiceCacheDecorator serves the published list from cache. Cache
// failures are logged and never fail the call.
//
// A list read while a publish in this process is in flight is not cached.
// Writers in other processes can still race a fill, so a stale list lives
// at most one TTL.
type PostServiceCacheDecorator struct {
	service   post_service.Service
	postCache cache.PostCache
	log       output.Logger
	metrics   output.MetricsProvider

	// publishes counts publishes started, so a fill can tell the list it
	// read may predate one.
	publishes atomic.Uint64
}

func NewPostServiceCacheDecorator(
	service post_service.Service,
	postCache cache.PostCache,
	log output.Logger,
	metrics output.MetricsProvider,
) post_service.Service {
	return &PostServiceCacheDecorator{
		service:   service,
		postCache: postCache,
		log:       log,
		metrics:   metrics,
	}
}

func (d *PostServiceCacheDecorator) Drafts(ctx context.Context) ([]*model.Post, error) {
	return d.service.Drafts(ctx)
}

func (d *PostServiceCacheDecorator) Posts(ctx context.Context) ([]*model.Post, error) {
	d.log.Debug("Listing published posts with cache decorator")

	cacheStart := time.Now()
	cached, err := d.postCache.GetPublished(ctx)
	d.metrics.RecordCacheOperationDuration("published_get", time.Since(cacheStart))
	if err == nil {
		d.log.Debug("Published posts found in cache", slog.Int("count", len(cached)))
		d.metrics.IncrementCacheHits()
		return cached, nil
	}

	if !errors.Is(err, custom_errors.ErrCacheMiss) {
		d.log.Warn("Failed to get published posts from cache", slog.String("error", err.Error()))
	} else {
		d.metrics.IncrementCacheMisses()
	}

	generation := d.publishes.Load()
	posts, err := d.service.Posts(ctx)
	if err != nil {
		return nil, err
	}

	if d.publishes.Load() != generation {
		d.log.Debug("Skipping published posts cache fill after concurrent publish")
		return posts, nil
	}

	setCacheStart := time.Now()
	if err := d.postCache.SetPublished(ctx, posts); err != nil {
		d.log.Warn("Failed to cache published posts", slog.String("error", err.Error()))
	}
	d.metrics.RecordCacheOperationDuration("published_set", time.Since(setCacheStart))

	return posts, nil
}

func (d *PostServiceCacheDecorator) CreateDraft(ctx context.Context, draft *model.CreateDraftDTO) (*model.Post, error) {
	return d.service.CreateDraft(ctx, draft)
}

func (d *PostServiceCacheDecorator) DeleteDraft(ctx context.Context, id int64) (model.DraftOutcome, error) {
	return d.service.DeleteDraft(ctx, id)
}

func (d *PostServiceCacheDecorator) Publish(ctx context.Context, id int64) (model.DraftOutcome, error) {
	d.publishes.Add(1)
	outcome, err := d.service.Publish(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, published := outcome.(*model.Post); published {
		invalidateStart := time.Now()
		if err := d.postCache.InvalidatePublished(ctx); err != nil {
			d.log.Warn("Failed to invalidate published posts cache after publish",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
		}
		d.metrics.RecordCacheOperationDuration("published_invalidate", time.Since(invalidateStart))
	}

	return outcome, nil
}
