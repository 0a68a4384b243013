package service

import (
	"context"
	"time"

	"hostelhub/internal/cache"
	"hostelhub/internal/entity"
	"hostelhub/internal/repository"

	"github.com/google/uuid"
)

type BookingService struct {
	bookings repository.BookingRepository
	rooms    repository.RoomRepository
	settings repository.SettingsRepository
	cache    *cache.Cache
}

func NewBookingService(
	bookings repository.BookingRepository,
	rooms repository.RoomRepository,
	settings repository.SettingsRepository,
	c *cache.Cache,
) *BookingService {
	return &BookingService{bookings: bookings, rooms: rooms, settings: settings, cache: c}
}

func (s *BookingService) List(ctx context.Context, limit, offset int) ([]entity.Booking, error) {
	// Only the first page is worth caching; admin pagination is rare.
	if offset > 0 {
		return s.bookings.List(ctx, limit, offset)
	}
	return cache.GetOrSet(ctx, s.cache, cache.Key("bookings", "all"),
		cache.TTLFor(cache.CategoryBookingHistory),
		func(ctx context.Context) ([]entity.Booking, error) {
			return s.bookings.List(ctx, limit, 0)
		})
}

func (s *BookingService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]entity.Booking, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Key("student_bookings", studentID.String()),
		cache.TTLFor(cache.CategoryBookingHistory),
		func(ctx context.Context) ([]entity.Booking, error) {
			return s.bookings.ListByStudent(ctx, studentID)
		})
}

func (s *BookingService) Create(ctx context.Context, studentID, roomID uuid.UUID, checkIn time.Time) (*entity.Booking, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.BookingOpen {
		return nil, ErrBookingClosed
	}

	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil || !room.IsActive {
		return nil, ErrNotFound
	}

	booking := &entity.Booking{
		StudentID: studentID,
		RoomID:    roomID,
		Status:    entity.BookingPending,
		CheckIn:   checkIn,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.GroupBookings)
	return booking, nil
}

func (s *BookingService) Cancel(ctx context.Context, studentID, bookingID uuid.UUID) error {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil || booking.StudentID != studentID {
		return ErrNotFound
	}

	booking.Status = entity.BookingCancelled
	if err := s.bookings.Update(ctx, booking); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.GroupBookings)
	return nil
}

func (s *BookingService) SetStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrNotFound
	}

	booking.Status = status
	if err := s.bookings.Update(ctx, booking); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.GroupBookings)
	return nil
}
