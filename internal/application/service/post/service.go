package post_service

import (
	"context"
	"errors"
	"log/slog"

	"blog-post-service/internal/custom_errors"
	model "blog-post-service/internal/domain/models"
	post_service "blog-post-service/internal/domain/ports/input/post"
	ports "blog-post-service/internal/domain/ports/output"
)

const (
	operationDrafts      = "drafts"
	operationPosts       = "posts"
	operationCreateDraft = "create_draft"
	operationDeleteDraft = "delete_draft"
	operationPublish     = "publish"
)

type PostService struct {
	postRepo ports.PostRepository
	log      ports.Logger
	metrics  ports.MetricsProvider
}

var _ post_service.Service = (*PostService)(nil)

func NewPostService(postRepo ports.PostRepository, log ports.Logger, metrics ports.MetricsProvider) *PostService {
	return &PostService{
		postRepo: postRepo,
		log:      log,
		metrics:  metrics,
	}
}

func (s *PostService) Drafts(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.postRepo.ListDrafts(ctx)
	s.metrics.IncrementPostOperations(operationDrafts, err == nil)
	if err != nil {
		s.log.Error("Failed to list drafts", slog.String("error", err.Error()))
		return nil, err
	}
	return posts, nil
}

func (s *PostService) Posts(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.postRepo.ListPublished(ctx)
	s.metrics.IncrementPostOperations(operationPosts, err == nil)
	if err != nil {
		s.log.Error("Failed to list published posts", slog.String("error", err.Error()))
		return nil, err
	}
	return posts, nil
}

func (s *PostService) CreateDraft(ctx context.Context, draft *model.CreateDraftDTO) (*model.Post, error) {
	post, err := s.postRepo.CreateDraft(ctx, draft.Title, draft.Body)
	s.metrics.IncrementPostOperations(operationCreateDraft, err == nil)
	if err != nil {
		s.log.Error("Failed to create draft", slog.String("title", draft.Title), slog.String("error", err.Error()))
		return nil, err
	}

	s.log.Info("Draft created", slog.Int64("id", post.ID))
	return post, nil
}

func (s *PostService) DeleteDraft(ctx context.Context, id int64) (model.DraftOutcome, error) {
	post, err := s.postRepo.DeleteDraft(ctx, id)
	return s.outcome(operationDeleteDraft, id, post, err)
}

func (s *PostService) Publish(ctx context.Context, id int64) (model.DraftOutcome, error) {
	post, err := s.postRepo.Publish(ctx, id)
	return s.outcome(operationPublish, id, post, err)
}

// outcome turns a missing row into the InputError variant.
func (s *PostService) outcome(operation string, id int64, post *model.Post, err error) (model.DraftOutcome, error) {
	if err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.metrics.IncrementPostOperations(operation, true)
			s.log.Debug("No draft matched", slog.String("operation", operation), slog.Int64("id", id))
			return model.DraftNotFound(id), nil
		}
		s.metrics.IncrementPostOperations(operation, false)
		s.log.Error("Post operation failed", slog.String("operation", operation), slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, err
	}

	s.metrics.IncrementPostOperations(operation, true)
	s.log.Info("Post operation succeeded", slog.String("operation", operation), slog.Int64("id", id))
	return post, nil
}
