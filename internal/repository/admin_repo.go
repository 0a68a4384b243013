package repository

import (
	"context"
	"errors"

	"hostelhub/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *entity.Admin) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error)
	FindByEmail(ctx context.Context, email string) (*entity.Admin, error)
	Update(ctx context.Context, admin *entity.Admin) error
	List(ctx context.Context) ([]entity.Admin, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *entity.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error) {
	var admin entity.Admin
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&admin).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &admin, err
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	var admin entity.Admin
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&admin).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &admin, err
}

func (r *adminRepository) Update(ctx context.Context, admin *entity.Admin) error {
	return r.db.WithContext(ctx).Save(admin).Error
}

func (r *adminRepository) List(ctx context.Context) ([]entity.Admin, error) {
	var admins []entity.Admin
	err := r.db.WithContext(ctx).
		Where("is_active = true").
		Order("created_at ASC").
		Find(&admins).Error
	if err != nil {
		return nil, err
	}
	return admins, nil
}
