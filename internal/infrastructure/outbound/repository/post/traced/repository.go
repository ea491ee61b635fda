// Package traced wraps a post repository in OpenTelemetry spans.
package traced

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"blog-post-service/internal/custom_errors"
	model "blog-post-service/internal/domain/models"
	ports "blog-post-service/internal/domain/ports/output"
)

const tracerName = "blog-post-service/repository"

const (
	SpanDrafts      = "Drafts query"
	SpanPosts       = "Posts query"
	SpanCreateDraft = "Create draft mutation"
	SpanDeleteDraft = "Delete draft mutation"
	SpanPublish     = "Publish mutation"
)

type PostRepository struct {
	next   ports.PostRepository
	tracer trace.Tracer
}

var _ ports.PostRepository = (*PostRepository)(nil)

func NewPostRepository(next ports.PostRepository, provider trace.TracerProvider) *PostRepository {
	return &PostRepository{
		next:   next,
		tracer: provider.Tracer(tracerName),
	}
}

func (r *PostRepository) ListDrafts(ctx context.Context) ([]*model.Post, error) {
	ctx, span := r.tracer.Start(ctx, SpanDrafts)
	defer span.End()

	posts, err := r.next.ListDrafts(ctx)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("posts.count", len(posts)))
	return posts, nil
}

func (r *PostRepository) ListPublished(ctx context.Context) ([]*model.Post, error) {
	ctx, span := r.tracer.Start(ctx, SpanPosts)
	defer span.End()

	posts, err := r.next.ListPublished(ctx)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("posts.count", len(posts)))
	return posts, nil
}

func (r *PostRepository) CreateDraft(ctx context.Context, title, body string) (*model.Post, error) {
	ctx, span := r.tracer.Start(ctx, SpanCreateDraft)
	defer span.End()

	post, err := r.next.CreateDraft(ctx, title, body)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("post.id", post.ID))
	return post, nil
}

func (r *PostRepository) DeleteDraft(ctx context.Context, id int64) (*model.Post, error) {
	ctx, span := r.tracer.Start(ctx, SpanDeleteDraft, trace.WithAttributes(attribute.Int64("post.id", id)))
	defer span.End()

	post, err := r.next.DeleteDraft(ctx, id)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	return post, nil
}

func (r *PostRepository) Publish(ctx context.Context, id int64) (*model.Post, error) {
	ctx, span := r.tracer.Start(ctx, SpanPublish, trace.WithAttributes(attribute.Int64("post.id", id)))
	defer span.End()

	post, err := r.next.Publish(ctx, id)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	return post, nil
}

// fail marks the span as errored. A missing row is an expected outcome, not a failure.
func fail(span trace.Span, err error) {
	if errors.Is(err, custom_errors.ErrPostNotFound) {
		span.SetAttributes(attribute.Bool("post.found", false))
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
