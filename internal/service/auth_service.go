package service

import (
	"context"
	"encoding/json"
	"strings"

	"hostelhub/internal/cache"
	"hostelhub/internal/entity"
	"hostelhub/internal/repository"
	"hostelhub/internal/session"
	"hostelhub/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// Burned on every failed lookup so login latency does not reveal whether
// the email exists.
const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type BcryptPasswordHasher struct{}

func (BcryptPasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func (BcryptPasswordHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type LoginInput struct {
	Email    string
	Password string
	Meta     session.ClientMeta
}

type LoginResult struct {
	Session   *session.Session
	Principal *Principal
}

type AuthService struct {
	students     repository.StudentRepository
	admins       repository.AdminRepository
	securityLogs repository.SecurityLogRepository
	sessions     *session.Store
	cache        *cache.Cache
	passwordHash PasswordHasher
}

func NewAuthService(
	students repository.StudentRepository,
	admins repository.AdminRepository,
	securityLogs repository.SecurityLogRepository,
	sessions *session.Store,
	c *cache.Cache,
	passwordHash PasswordHasher,
) *AuthService {
	return &AuthService{
		students:     students,
		admins:       admins,
		securityLogs: securityLogs,
		sessions:     sessions,
		cache:        c,
		passwordHash: passwordHash,
	}
}

func (s *AuthService) LoginStudent(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	student, err := s.students.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if student == nil || student.PasswordHash == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		s.logFailure(ctx, nil, string(session.RoleStudent), input.Meta.IPAddress, email)
		return nil, ErrInvalidCredentials
	}
	if !s.passwordHash.Verify(*student.PasswordHash, input.Password) {
		s.logFailure(ctx, &student.ID, string(session.RoleStudent), input.Meta.IPAddress, email)
		return nil, ErrInvalidCredentials
	}
	if !student.IsActive {
		return nil, ErrAccountInactive
	}

	return s.issue(ctx, student.ID, session.RoleStudent, &Principal{
		ID:       student.ID.String(),
		Email:    student.Email,
		FullName: student.FullName,
		Role:     session.RoleStudent,
		Active:   true,
	}, input.Meta)
}

func (s *AuthService) LoginAdmin(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if admin == nil || admin.PasswordHash == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		s.logFailure(ctx, nil, string(session.RoleAdmin), input.Meta.IPAddress, email)
		return nil, ErrInvalidCredentials
	}
	if !s.passwordHash.Verify(*admin.PasswordHash, input.Password) {
		s.logFailure(ctx, &admin.ID, string(admin.Role), input.Meta.IPAddress, email)
		return nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, ErrAccountInactive
	}

	return s.issue(ctx, admin.ID, session.Role(admin.Role), &Principal{
		ID:       admin.ID.String(),
		Email:    admin.Email,
		FullName: admin.FullName,
		Role:     session.Role(admin.Role),
		Active:   true,
	}, input.Meta)
}

func (s *AuthService) issue(ctx context.Context, userID uuid.UUID, role session.Role, principal *Principal, meta session.ClientMeta) (*LoginResult, error) {
	sess, err := s.sessions.Create(ctx, userID.String(), role, meta)
	if err != nil {
		return nil, err
	}

	_ = s.securityLogs.Log(ctx, &entity.SecurityLog{
		UserID:    &userID,
		Role:      string(role),
		IPAddress: stringPtr(meta.IPAddress),
		Action:    entity.LoginSuccess,
	})

	return &LoginResult{Session: sess, Principal: principal}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID, userID string) error {
	if err := s.sessions.Delete(ctx, sessionID, userID); err != nil {
		return err
	}
	if id, err := uuid.Parse(userID); err == nil {
		_ = s.securityLogs.Log(ctx, &entity.SecurityLog{
			UserID: &id,
			Action: entity.Logout,
		})
	}
	return nil
}

// Sessions lists the caller's live sessions, newest activity first.
func (s *AuthService) Sessions(ctx context.Context, userID string) ([]*session.Session, error) {
	return s.sessions.ListForUser(ctx, userID)
}

// RevokeSession deletes one of the caller's own sessions. Revoking a
// session that belongs to someone else is reported as not found.
func (s *AuthService) RevokeSession(ctx context.Context, userID, sessionID string) error {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil || sess.UserID != userID {
		return ErrSessionNotFound
	}
	if err := s.sessions.Delete(ctx, sessionID, userID); err != nil {
		return err
	}
	if id, err := uuid.Parse(userID); err == nil {
		_ = s.securityLogs.Log(ctx, &entity.SecurityLog{
			UserID: &id,
			Action: entity.SessionRevoked,
		})
	}
	return nil
}

// RevokeAllForUser is the admin-facing forced logout: every session dies and
// any cached principal for the account goes with it.
func (s *AuthService) RevokeAllForUser(ctx context.Context, userID string) error {
	if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.GroupUsers)
	return nil
}

func (s *AuthService) logFailure(ctx context.Context, userID *uuid.UUID, role, ip, email string) {
	metadata, _ := json.Marshal(map[string]string{"email": email})
	_ = s.securityLogs.Log(ctx, &entity.SecurityLog{
		UserID:    userID,
		Role:      role,
		IPAddress: stringPtr(ip),
		Action:    entity.LoginFailed,
		Metadata:  datatypes.JSON(metadata),
	})
}

func stringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
