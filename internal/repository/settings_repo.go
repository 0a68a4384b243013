package repository

import (
	"context"
	"errors"

	"hostelhub/internal/entity"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	// Get returns the singleton settings row, creating defaults on first read.
	Get(ctx context.Context) (*entity.Settings, error)
	Update(ctx context.Context, settings *entity.Settings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*entity.Settings, error) {
	var settings entity.Settings
	err := r.db.WithContext(ctx).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = entity.Settings{BookingOpen: true}
		if err := r.db.WithContext(ctx).Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, settings *entity.Settings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
