package repository

import (
	"context"
	"errors"

	"hostelhub/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error)
	Update(ctx context.Context, room *entity.Room) error
	List(ctx context.Context) ([]entity.Room, error)
	ListAvailable(ctx context.Context) ([]entity.Room, error)
	Count(ctx context.Context) (int64, error)
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *entity.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	var room entity.Room
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&room).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &room, err
}

func (r *roomRepository) Update(ctx context.Context, room *entity.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *roomRepository) List(ctx context.Context) ([]entity.Room, error) {
	var rooms []entity.Room
	err := r.db.WithContext(ctx).
		Where("is_active = true").
		Order("number ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) ListAvailable(ctx context.Context) ([]entity.Room, error) {
	var rooms []entity.Room
	err := r.db.WithContext(ctx).
		Where("is_active = true").
		Where(`capacity > (
			SELECT COUNT(*) FROM bookings
			WHERE bookings.room_id = rooms.id
			AND bookings.status IN ('pending', 'confirmed')
		)`).
		Order("number ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Room{}).
		Where("is_active = true").
		Count(&count).Error
	return count, err
}
