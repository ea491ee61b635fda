package post_service

import (
	"context"

	model "blog-post-service/internal/domain/models"
)

//go:generate mockery --name Service --dir . --output ../../../../../mocks/service --outpkg mocks --filename Service.go
type Service interface {
	Drafts(ctx context.Context) ([]*model.Post, error)
	Posts(ctx context.Context) ([]*model.Post, error)
	CreateDraft(ctx context.Context, draft *model.CreateDraftDTO) (*model.Post, error)
	DeleteDraft(ctx context.Context, id int64) (model.DraftOutcome, error)
	Publish(ctx context.Context, id int64) (model.DraftOutcome, error)
}
