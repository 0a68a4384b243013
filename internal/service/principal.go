package service

import (
	"context"

	"hostelhub/internal/cache"
	"hostelhub/internal/repository"
	"hostelhub/internal/session"

	"github.com/google/uuid"
)

// Principal is the cached snapshot of the authenticated account, namespaced
// by role and user ID under the users invalidation group.
type Principal struct {
	ID       string       `json:"id"`
	Email    string       `json:"email"`
	FullName string       `json:"full_name"`
	Role     session.Role `json:"role"`
	Active   bool         `json:"active"`
}

type PrincipalService struct {
	students repository.StudentRepository
	admins   repository.AdminRepository
	cache    *cache.Cache
}

func NewPrincipalService(
	students repository.StudentRepository,
	admins repository.AdminRepository,
	c *cache.Cache,
) *PrincipalService {
	return &PrincipalService{students: students, admins: admins, cache: c}
}

// Load resolves the principal for a session. The cache entry is a TTL-bound
// mirror, never the source of truth for existence: a hit is re-validated
// against the database so a deleted account is caught immediately, and the
// entry is refreshed with the row just read. Returns nil when the account
// is gone.
func (s *PrincipalService) Load(ctx context.Context, role session.Role, userID string) (*Principal, error) {
	key := cache.Key("user", string(role), userID)

	var cached Principal
	hit := s.cache.Get(ctx, key, &cached)

	principal, err := s.fetch(ctx, role, userID)
	if err != nil {
		return nil, err
	}
	if principal == nil {
		if hit {
			s.cache.Delete(ctx, key)
		}
		return nil, nil
	}

	s.cache.Set(ctx, key, principal, cache.TTLFor(cache.CategoryUserProfiles))
	return principal, nil
}

func (s *PrincipalService) fetch(ctx context.Context, role session.Role, userID string) (*Principal, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil
	}

	switch role {
	case session.RoleStudent:
		student, err := s.students.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if student == nil {
			return nil, nil
		}
		return &Principal{
			ID:       student.ID.String(),
			Email:    student.Email,
			FullName: student.FullName,
			Role:     session.RoleStudent,
			Active:   student.IsActive,
		}, nil
	case session.RoleAdmin, session.RoleSuperAdmin:
		admin, err := s.admins.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if admin == nil {
			return nil, nil
		}
		return &Principal{
			ID:       admin.ID.String(),
			Email:    admin.Email,
			FullName: admin.FullName,
			Role:     session.Role(admin.Role),
			Active:   admin.IsActive,
		}, nil
	default:
		return nil, nil
	}
}
