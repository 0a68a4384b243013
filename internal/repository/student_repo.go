package repository

import (
	"context"
	"errors"

	"hostelhub/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentRepository interface {
	Create(ctx context.Context, student *entity.Student) error
	// FindByID returns inactive students too; the request gate needs to
	// tell "not found" apart from "deactivated".
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Student, error)
	FindByEmail(ctx context.Context, email string) (*entity.Student, error)
	Update(ctx context.Context, student *entity.Student) error
	List(ctx context.Context, limit, offset int) ([]entity.Student, error)
	Count(ctx context.Context) (int64, error)
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *entity.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Student, error) {
	var student entity.Student
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&student).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &student, err
}

func (r *studentRepository) FindByEmail(ctx context.Context, email string) (*entity.Student, error) {
	var student entity.Student
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&student).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &student, err
}

func (r *studentRepository) Update(ctx context.Context, student *entity.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) List(ctx context.Context, limit, offset int) ([]entity.Student, error) {
	var students []entity.Student
	query := r.db.WithContext(ctx).Where("is_active = true").Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Student{}).
		Where("is_active = true").
		Count(&count).Error
	return count, err
}
