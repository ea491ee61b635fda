package post_service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blog-post-service/internal/custom_errors"
	model "blog-post-service/internal/domain/models"
	"blog-post-service/internal/infrastructure/logger"
	cache_mock "blog-post-service/mocks/cache"
	post_service_mock "blog-post-service/mocks/service"
)

func TestPostServiceCacheDecorator_Posts(t *testing.T) {
	published := []*model.Post{{ID: 1, Title: "Draft title", Body: "Draft body text", Published: true}}

	tests := []struct {
		name       string
		mocks      func(service *post_service_mock.Service, postCache *cache_mock.PostCache)
		want       []*model.Post
		wantErr    error
		wantHits   float64
		wantMisses float64
	}{
		{
			name: "Cache hit",
			mocks: func(service *post_service_mock.Service, postCache *cache_mock.PostCache) {
				postCache.On("GetPublished", mock.Anything).Return(published, nil)
			},
			want:     published,
			wantHits: 1,
		},
		{
			name: "Cache miss fills cache",
			mocks: func(service *post_service_mock.Service, postCache *cache_mock.PostCache) {
				postCache.On("GetPublished", mock.Anything).Return(nil, custom_errors.ErrCacheMiss)
				service.On("Posts", mock.Anything).Return(published, nil)
				postCache.On("SetPublished", mock.Anything, published).Return(nil)
			},
			want:       published,
			wantMisses: 1,
		},
		{
			name: "Cache failure falls through",
			mocks: func(service *post_service_mock.Service, postCache *cache_mock.PostCache) {
				postCache.On("GetPublished", mock.Anything).Return(nil, errors.New("connection refused"))
				service.On("Posts", mock.Anything).Return(published, nil)
				postCache.On("SetPublished", mock.Anything, published).Return(errors.New("connection refused"))
			},
			want: published,
		},
		{
			name: "Service error is not cached",
			mocks: func(service *post_service_mock.Service, postCache *cache_mock.PostCache) {
				postCache.On("GetPublished", mock.Anything).Return(nil, custom_errors.ErrCacheMiss)
				service.On("Posts", mock.Anything).Return(nil, custom_errors.ErrDatabaseQuery)
			},
			wantErr:    custom_errors.ErrDatabaseQuery,
			wantMisses: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := post_service_mock.NewService(t)
			postCache := cache_mock.NewPostCache(t)
			tt.mocks(service, postCache)
			metrics, registry := newMetrics()

			decorator := NewPostServiceCacheDecorator(service, postCache, logger.New("test"), metrics)
			got, err := decorator.Posts(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			families, err := registry.Gather()
			require.NoError(t, err)
			values := map[string]float64{}
			for _, family := range families {
				if len(family.GetMetric()) == 1 && family.GetMetric()[0].GetCounter() != nil {
					values[family.GetName()] = family.GetMetric()[0].GetCounter().GetValue()
				}
			}
			assert.Equal(t, tt.wantHits, values["cache_hits_total"])
			assert.Equal(t, tt.wantMisses, values["cache_misses_total"])
		})
	}
}

func TestPostServiceCacheDecorator_Publish(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		mocks   func(service *post_service_mock.Service, postCache *cache_mock.PostCache)
		want    model.DraftOutcome
		wantErr error
	}{
		{
			name: "Invalidates after publish",
			id:   1,
			mocks: func(service *post_service_mock.Service, postCache *cache_mock.PostCache) {
				service.On("Publish", mock.Anything, int64(1)).Return(&model.Post{ID: 1, Published: true}, nil)
				postCache.On("InvalidatePublished", mock.Anything).Return(nil)
			},
			want: &model.Post{ID: 1, Published: true},
		},
		{
			name: "Invalidate failure is ignored",
			id:   1,
			mocks: func(service *post_service_mock.Service, postCache *cache_mock.PostCache) {
				service.On("Publish", mock.Anything, int64(1)).Return(&model.Post{ID: 1, Published: true}, nil)
				postCache.On("InvalidatePublished", mock.Anything).Return(errors.New("connection refused"))
			},
			want: &model.Post{ID: 1, Published: true},
		},
		{
			name: "Input error keeps cache",
			id:   9,
			mocks: func(service *post_service_mock.Service, postCache *cache_mock.PostCache) {
				service.On("Publish", mock.Anything, int64(9)).Return(model.DraftNotFound(9), nil)
			},
			want: model.DraftNotFound(9),
		},
		{
			name: "Error keeps cache",
			id:   2,
			mocks: func(service *post_service_mock.Service, postCache *cache_mock.PostCache) {
				service.On("Publish", mock.Anything, int64(2)).Return(nil, custom_errors.ErrDatabaseQuery)
			},
			wantErr: custom_errors.ErrDatabaseQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := post_service_mock.NewService(t)
			postCache := cache_mock.NewPostCache(t)
			tt.mocks(service, postCache)
			metrics, _ := newMetrics()

			decorator := NewPostServiceCacheDecorator(service, postCache, logger.New("test"), metrics)
			got, err := decorator.Publish(context.Background(), tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPostServiceCacheDecorator_PassThrough(t *testing.T) {
	service := post_service_mock.NewService(t)
	postCache := cache_mock.NewPostCache(t)
	metrics, registry := newMetrics()
	draft := &model.CreateDraftDTO{Title: "Draft title", Body: "Draft body text"}

	service.On("Drafts", mock.Anything).Return([]*model.Post{}, nil)
	service.On("CreateDraft", mock.Anything, draft).Return(&model.Post{ID: 1}, nil)
	service.On("DeleteDraft", mock.Anything, int64(1)).Return(&model.Post{ID: 1}, nil)

	decorator := NewPostServiceCacheDecorator(service, postCache, logger.New("test"), metrics)

	_, err := decorator.Drafts(context.Background())
	require.NoError(t, err)
	_, err = decorator.CreateDraft(context.Background(), draft)
	require.NoError(t, err)
	_, err = decorator.DeleteDraft(context.Background(), 1)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(registry, "cache_operation_duration_seconds")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPostServiceCacheDecorator_PostsSkipsFillAfterConcurrentPublish(t *testing.T) {
	service := post_service_mock.NewService(t)
	postCache := cache_mock.NewPostCache(t)
	metrics, _ := newMetrics()
	decorator := NewPostServiceCacheDecorator(service, postCache, logger.New("test"), metrics)

	stale := []*model.Post{}
	postCache.On("GetPublished", mock.Anything).Return(nil, custom_errors.ErrCacheMiss).Once()
	service.On("Publish", mock.Anything, int64(1)).Return(&model.Post{ID: 1, Published: true}, nil).Once()
	postCache.On("InvalidatePublished", mock.Anything).Return(nil).Once()
	service.On("Posts", mock.Anything).Run(func(args mock.Arguments) {
		// a publish commits and invalidates while the list is being read
		_, err := decorator.Publish(context.Background(), 1)
		require.NoError(t, err)
	}).Return(stale, nil).Once()

	got, err := decorator.Posts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stale, got)
	postCache.AssertNotCalled(t, "SetPublished", mock.Anything, mock.Anything)
}
