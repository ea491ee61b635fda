package cache

import (
	"context"

	model "blog-post-service/internal/domain/models"
)

//go:generate mockery --name PostCache --dir . --output ../../../../../mocks/cache --outpkg mocks --filename PostCache.go
type PostCache interface {
	GetPublished(ctx context.Context) ([]*model.Post, error)
	SetPublished(ctx context.Context, posts []*model.Post) error
	InvalidatePublished(ctx context.Context) error
}
