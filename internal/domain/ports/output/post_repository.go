package ports

import (
	"context"

	model "blog-post-service/internal/domain/models"
)

// PostRepository executes exactly one statement per call.
// DeleteDraft and Publish return custom_errors.ErrPostNotFound when no row matched.
//
//go:generate mockery --name PostRepository --dir . --output ../../../../mocks/post --outpkg mocks --structname Repository --filename Repository.go
type PostRepository interface {
	ListDrafts(ctx context.Context) ([]*model.Post, error)
	ListPublished(ctx context.Context) ([]*model.Post, error)
	CreateDraft(ctx context.Context, title, body string) (*model.Post, error)
	DeleteDraft(ctx context.Context, id int64) (*model.Post, error)
	Publish(ctx context.Context, id int64) (*model.Post, error)
}

// ListLimit caps every listing statement.
const ListLimit = 100
