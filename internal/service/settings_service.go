package service

import (
	"context"

	"hostelhub/internal/cache"
	"hostelhub/internal/entity"
	"hostelhub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SettingsKey is the cache key for the singleton settings row; the
// lockdown middleware reads through it on every gated request.
var SettingsKey = cache.Key("settings", "global")

type SettingsService struct {
	settings     repository.SettingsRepository
	securityLogs repository.SecurityLogRepository
	cache        *cache.Cache
}

func NewSettingsService(
	settings repository.SettingsRepository,
	securityLogs repository.SecurityLogRepository,
	c *cache.Cache,
) *SettingsService {
	return &SettingsService{settings: settings, securityLogs: securityLogs, cache: c}
}

func (s *SettingsService) Get(ctx context.Context) (*entity.Settings, error) {
	return cache.GetOrSet(ctx, s.cache, SettingsKey,
		cache.TTLFor(cache.CategorySettings),
		func(ctx context.Context) (*entity.Settings, error) {
			return s.settings.Get(ctx)
		})
}

type SettingsUpdate struct {
	EmergencyLockdown *bool
	BookingOpen       *bool
	ContactEmail      *string
	ContactPhone      *string
	Extra             datatypes.JSON
}

func (s *SettingsService) Update(ctx context.Context, actorID uuid.UUID, update SettingsUpdate) (*entity.Settings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	lockdownChanged := false
	if update.EmergencyLockdown != nil && *update.EmergencyLockdown != settings.EmergencyLockdown {
		settings.EmergencyLockdown = *update.EmergencyLockdown
		lockdownChanged = true
	}
	if update.BookingOpen != nil {
		settings.BookingOpen = *update.BookingOpen
	}
	if update.ContactEmail != nil {
		settings.ContactEmail = *update.ContactEmail
	}
	if update.ContactPhone != nil {
		settings.ContactPhone = *update.ContactPhone
	}
	if update.Extra != nil {
		settings.Extra = update.Extra
	}

	if err := s.settings.Update(ctx, settings); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.GroupSettings)

	if lockdownChanged {
		_ = s.securityLogs.Log(ctx, &entity.SecurityLog{
			UserID: &actorID,
			Action: entity.LockdownToggle,
		})
	}
	return settings, nil
}
