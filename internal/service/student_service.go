package service

import (
	"context"

	"hostelhub/internal/cache"
	"hostelhub/internal/entity"
	"hostelhub/internal/repository"

	"github.com/google/uuid"
)

type StudentService struct {
	students repository.StudentRepository
	sessions SessionRevoker
	cache    *cache.Cache
}

// SessionRevoker is what deactivation needs from the auth side: kill every
// live session of the affected account.
type SessionRevoker interface {
	RevokeAllForUser(ctx context.Context, userID string) error
}

func NewStudentService(students repository.StudentRepository, sessions SessionRevoker, c *cache.Cache) *StudentService {
	return &StudentService{students: students, sessions: sessions, cache: c}
}

func (s *StudentService) List(ctx context.Context, limit, offset int) ([]entity.Student, error) {
	if offset > 0 {
		return s.students.List(ctx, limit, offset)
	}
	return cache.GetOrSet(ctx, s.cache, cache.Key("students", "all"),
		cache.TTLFor(cache.CategoryUserProfiles),
		func(ctx context.Context) ([]entity.Student, error) {
			return s.students.List(ctx, limit, 0)
		})
}

func (s *StudentService) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone, guardian string) (*entity.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrNotFound
	}

	if fullName != "" {
		student.FullName = fullName
	}
	if phone != "" {
		student.Phone = phone
	}
	if guardian != "" {
		student.Guardian = guardian
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.GroupUsers)
	return student, nil
}

// Deactivate disables the account, drops every cached principal in the
// users group, and revokes all live sessions so the next request fails at
// the gate.
func (s *StudentService) Deactivate(ctx context.Context, id uuid.UUID) error {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if student == nil {
		return ErrNotFound
	}

	student.IsActive = false
	if err := s.students.Update(ctx, student); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.GroupUsers)
	return s.sessions.RevokeAllForUser(ctx, id.String())
}
