package service

import (
	"context"

	"hostelhub/internal/cache"
	"hostelhub/internal/entity"
	"hostelhub/internal/repository"

	"github.com/google/uuid"
)

type RoomService struct {
	rooms repository.RoomRepository
	cache *cache.Cache
}

func NewRoomService(rooms repository.RoomRepository, c *cache.Cache) *RoomService {
	return &RoomService{rooms: rooms, cache: c}
}

func (s *RoomService) List(ctx context.Context) ([]entity.Room, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Key("rooms", "all"),
		cache.TTLFor(cache.CategoryRoomAvailability),
		func(ctx context.Context) ([]entity.Room, error) {
			return s.rooms.List(ctx)
		})
}

func (s *RoomService) ListAvailable(ctx context.Context) ([]entity.Room, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Key("rooms", "available"),
		cache.TTLFor(cache.CategoryRoomAvailability),
		func(ctx context.Context) ([]entity.Room, error) {
			return s.rooms.ListAvailable(ctx)
		})
}

func (s *RoomService) Get(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Key("room", id.String()),
		cache.TTLFor(cache.CategoryRoomAvailability),
		func(ctx context.Context) (*entity.Room, error) {
			return s.rooms.FindByID(ctx, id)
		})
}

func (s *RoomService) Create(ctx context.Context, room *entity.Room) error {
	if err := s.rooms.Create(ctx, room); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.GroupRooms)
	return nil
}

func (s *RoomService) Update(ctx context.Context, room *entity.Room) error {
	if err := s.rooms.Update(ctx, room); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.GroupRooms)
	return nil
}
