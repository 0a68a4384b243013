package service

import (
	"context"

	"hostelhub/internal/cache"
	"hostelhub/internal/entity"
	"hostelhub/internal/repository"
)

type ContentService struct {
	contents repository.ContentRepository
	cache    *cache.Cache
}

func NewContentService(contents repository.ContentRepository, c *cache.Cache) *ContentService {
	return &ContentService{contents: contents, cache: c}
}

func (s *ContentService) Get(ctx context.Context, slug string) (*entity.PublicContent, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Key("public_content", slug),
		cache.TTLFor(cache.CategoryPublicContent),
		func(ctx context.Context) (*entity.PublicContent, error) {
			return s.contents.FindBySlug(ctx, slug)
		})
}

func (s *ContentService) ListPublished(ctx context.Context) ([]entity.PublicContent, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Key("public_content", "index"),
		cache.TTLFor(cache.CategoryPublicContent),
		func(ctx context.Context) ([]entity.PublicContent, error) {
			return s.contents.ListPublished(ctx)
		})
}

func (s *ContentService) Upsert(ctx context.Context, content *entity.PublicContent) error {
	if err := s.contents.Upsert(ctx, content); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.GroupPublicContent)
	return nil
}
