package service

import (
	"context"

	"hostelhub/internal/cache"
	"hostelhub/internal/entity"
	"hostelhub/internal/repository"
)

type DashboardStats struct {
	Students          int64 `json:"students"`
	Rooms             int64 `json:"rooms"`
	PendingBookings   int64 `json:"pending_bookings"`
	ConfirmedBookings int64 `json:"confirmed_bookings"`
}

type StatsService struct {
	students repository.StudentRepository
	rooms    repository.RoomRepository
	bookings repository.BookingRepository
	cache    *cache.Cache
}

func NewStatsService(
	students repository.StudentRepository,
	rooms repository.RoomRepository,
	bookings repository.BookingRepository,
	c *cache.Cache,
) *StatsService {
	return &StatsService{students: students, rooms: rooms, bookings: bookings, cache: c}
}

func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Key("dashboard", "stats"),
		cache.TTLFor(cache.CategoryDashboardStats),
		func(ctx context.Context) (*DashboardStats, error) {
			students, err := s.students.Count(ctx)
			if err != nil {
				return nil, err
			}
			rooms, err := s.rooms.Count(ctx)
			if err != nil {
				return nil, err
			}
			pending, err := s.bookings.CountByStatus(ctx, entity.BookingPending)
			if err != nil {
				return nil, err
			}
			confirmed, err := s.bookings.CountByStatus(ctx, entity.BookingConfirmed)
			if err != nil {
				return nil, err
			}
			return &DashboardStats{
				Students:          students,
				Rooms:             rooms,
				PendingBookings:   pending,
				ConfirmedBookings: confirmed,
			}, nil
		})
}
