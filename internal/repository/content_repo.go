package repository

import (
	"context"
	"errors"

	"hostelhub/internal/entity"

	"gorm.io/gorm"
)

type ContentRepository interface {
	FindBySlug(ctx context.Context, slug string) (*entity.PublicContent, error)
	Upsert(ctx context.Context, content *entity.PublicContent) error
	ListPublished(ctx context.Context) ([]entity.PublicContent, error)
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) FindBySlug(ctx context.Context, slug string) (*entity.PublicContent, error) {
	var content entity.PublicContent
	err := r.db.WithContext(ctx).
		Where("slug = ? AND published = true", slug).
		First(&content).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &content, err
}

func (r *contentRepository) Upsert(ctx context.Context, content *entity.PublicContent) error {
	var existing entity.PublicContent
	err := r.db.WithContext(ctx).
		Where("slug = ?", content.Slug).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(content).Error
	}
	if err != nil {
		return err
	}

	content.ID = existing.ID
	content.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(content).Error
}

func (r *contentRepository) ListPublished(ctx context.Context) ([]entity.PublicContent, error) {
	var contents []entity.PublicContent
	err := r.db.WithContext(ctx).
		Where("published = true").
		Order("slug ASC").
		Find(&contents).Error
	if err != nil {
		return nil, err
	}
	return contents, nil
}
