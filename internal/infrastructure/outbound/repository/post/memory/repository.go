package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"blog-post-service/internal/custom_errors"
	model "blog-post-service/internal/domain/models"
	ports "blog-post-service/internal/domain/ports/output"
)

type PostRepository struct {
	log    ports.Logger
	mu     sync.RWMutex
	posts  map[int64]*model.Post
	nextID int64
}

var _ ports.PostRepository = (*PostRepository)(nil)

func NewPostRepository(log ports.Logger) *PostRepository {
	return &PostRepository{
		log:    log,
		posts:  make(map[int64]*model.Post),
		nextID: 1,
	}
}

func (p *PostRepository) ListDrafts(ctx context.Context) ([]*model.Post, error) {
	return p.list(false), nil
}

func (p *PostRepository) ListPublished(ctx context.Context) ([]*model.Post, error) {
	return p.list(true), nil
}

func (p *PostRepository) list(published bool) []*model.Post {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]*model.Post, 0)
	for _, post := range p.posts {
		if post.Published == published {
			postCopy := *post
			result = append(result, &postCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	if len(result) > ports.ListLimit {
		result = result[:ports.ListLimit]
	}

	p.log.Debug("Listed posts (memory impl)", slog.Bool("published", published), slog.Int("count", len(result)))
	return result
}

func (p *PostRepository) CreateDraft(ctx context.Context, title, body string) (*model.Post, error) {
	p.log.Debug("Creating new draft (memory impl)", slog.String("title", title))

	p.mu.Lock()
	defer p.mu.Unlock()

	newPost := &model.Post{
		ID:    p.nextID,
		Title: title,
		Body:  body,
	}
	p.nextID++

	p.posts[newPost.ID] = newPost

	p.log.Debug("Successfully created draft (memory impl)", slog.Int64("id", newPost.ID))
	result := *newPost
	return &result, nil
}

func (p *PostRepository) DeleteDraft(ctx context.Context, id int64) (*model.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	post, exists := p.posts[id]
	if !exists || post.Published {
		p.log.Debug("Draft not found for delete", slog.Int64("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	delete(p.posts, id)

	p.log.Debug("Successfully deleted draft (memory impl)", slog.Int64("id", id))
	result := *post
	return &result, nil
}

func (p *PostRepository) Publish(ctx context.Context, id int64) (*model.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	post, exists := p.posts[id]
	if !exists {
		p.log.Debug("Post not found for publish", slog.Int64("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	post.Published = true

	p.log.Debug("Successfully published post (memory impl)", slog.Int64("id", id))
	result := *post
	return &result, nil
}
