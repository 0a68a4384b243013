package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hostelhub/internal/cache"
	"hostelhub/internal/entity"
	"hostelhub/internal/kvstore"
	"hostelhub/internal/service"
	"hostelhub/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStudentRepo struct {
	students map[uuid.UUID]*entity.Student
}

func (r *fakeStudentRepo) Create(ctx context.Context, student *entity.Student) error { return nil }
func (r *fakeStudentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Student, error) {
	return r.students[id], nil
}
func (r *fakeStudentRepo) FindByEmail(ctx context.Context, email string) (*entity.Student, error) {
	return nil, nil
}
func (r *fakeStudentRepo) Update(ctx context.Context, student *entity.Student) error { return nil }
func (r *fakeStudentRepo) List(ctx context.Context, limit, offset int) ([]entity.Student, error) {
	return nil, nil
}
func (r *fakeStudentRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

type fakeAdminRepo struct {
	admins map[uuid.UUID]*entity.Admin
}

func (r *fakeAdminRepo) Create(ctx context.Context, admin *entity.Admin) error { return nil }
func (r *fakeAdminRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error) {
	return r.admins[id], nil
}
func (r *fakeAdminRepo) FindByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	return nil, nil
}
func (r *fakeAdminRepo) Update(ctx context.Context, admin *entity.Admin) error { return nil }
func (r *fakeAdminRepo) List(ctx context.Context) ([]entity.Admin, error)      { return nil, nil }

type fakeSettingsRepo struct {
	settings entity.Settings
	err      error
}

func (r *fakeSettingsRepo) Get(ctx context.Context) (*entity.Settings, error) {
	if r.err != nil {
		return nil, r.err
	}
	copied := r.settings
	return &copied, nil
}
func (r *fakeSettingsRepo) Update(ctx context.Context, settings *entity.Settings) error {
	r.settings = *settings
	return nil
}

type fakeSecurityRepo struct{}

func (fakeSecurityRepo) Log(ctx context.Context, log *entity.SecurityLog) error { return nil }

type gateEnv struct {
	app      *echo.Echo
	mr       *miniredis.Miniredis
	sessions *session.Store
	students *fakeStudentRepo
	admins   *fakeAdminRepo
	settings *fakeSettingsRepo
	gate     AuthMiddleware
	lockdown LockdownMiddleware
}

func newGateEnv(t *testing.T) *gateEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	kv := kvstore.New("redis://" + mr.Addr())
	require.NoError(t, kv.Connect(context.Background()))
	t.Cleanup(func() { _ = kv.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	sessions := session.NewStore(kv, session.Config{
		CookieBase:  "sess",
		IdleTTL:     30 * time.Minute,
		AbsoluteTTL: 12 * time.Hour,
	})
	appCache := cache.New(kv, log)

	students := &fakeStudentRepo{students: map[uuid.UUID]*entity.Student{}}
	admins := &fakeAdminRepo{admins: map[uuid.UUID]*entity.Admin{}}
	settings := &fakeSettingsRepo{settings: entity.Settings{BookingOpen: true}}

	env := &gateEnv{
		app:      echo.New(),
		mr:       mr,
		sessions: sessions,
		students: students,
		admins:   admins,
		settings: settings,
		gate: AuthMiddleware{
			Sessions:   sessions,
			Principals: service.NewPrincipalService(students, admins, appCache),
			Log:        log,
		},
		lockdown: LockdownMiddleware{
			Settings: service.NewSettingsService(settings, fakeSecurityRepo{}, appCache),
			Log:      log,
		},
	}

	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	env.app.GET("/api/me", ok, env.gate.RequireAuth, env.lockdown.Check, env.gate.CSRFProtect)
	env.app.POST("/api/bookings", ok, env.gate.RequireAuth, env.lockdown.Check, env.gate.CSRFProtect)
	env.app.GET("/api/dashboard/stats", ok, env.gate.RequireAuth, RequireAdminOrSuperAdmin())
	return env
}

func (env *gateEnv) addStudent(t *testing.T, active bool) uuid.UUID {
	t.Helper()
	id := uuid.New()
	env.students.students[id] = &entity.Student{
		ID:       id,
		Email:    "student@example.com",
		FullName: "Test Student",
		IsActive: active,
	}
	return id
}

func (env *gateEnv) addAdmin(t *testing.T) uuid.UUID {
	t.Helper()
	id := uuid.New()
	env.admins.admins[id] = &entity.Admin{
		ID:       id,
		Email:    "admin@example.com",
		FullName: "Test Admin",
		Role:     entity.AdminRoleAdmin,
		IsActive: true,
	}
	return id
}

func (env *gateEnv) login(t *testing.T, userID string, role session.Role, tabID string) *session.Session {
	t.Helper()
	sess, err := env.sessions.Create(context.Background(), userID, role, session.ClientMeta{TabID: tabID})
	require.NoError(t, err)
	return sess
}

type request struct {
	method    string
	path      string
	tabID     string
	sessionID string
	csrfToken string
}

func (env *gateEnv) do(r request) *httptest.ResponseRecorder {
	req := httptest.NewRequest(r.method, r.path, nil)
	if r.tabID != "" {
		req.Header.Set(TabHeader, r.tabID)
	}
	if r.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: env.sessions.CookieName(r.tabID), Value: r.sessionID})
	}
	if r.csrfToken != "" {
		req.Header.Set(CSRFHeader, r.csrfToken)
	}
	rec := httptest.NewRecorder()
	env.app.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthNoCookie(t *testing.T) {
	env := newGateEnv(t)

	rec := env.do(request{method: http.MethodGet, path: "/api/me"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "no session")
}

func TestRequireAuthUnknownSession(t *testing.T) {
	env := newGateEnv(t)

	rec := env.do(request{method: http.MethodGet, path: "/api/me", sessionID: "bogus"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "session expired")
}

func TestRequireAuthHappyPath(t *testing.T) {
	env := newGateEnv(t)
	studentID := env.addStudent(t, true)
	sess := env.login(t, studentID.String(), session.RoleStudent, "taba")

	rec := env.do(request{method: http.MethodGet, path: "/api/me", tabID: "taba", sessionID: sess.ID})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthTabMismatch(t *testing.T) {
	env := newGateEnv(t)
	studentID := env.addStudent(t, true)
	sess := env.login(t, studentID.String(), session.RoleStudent, "taba")

	// Session bound to tab A presented under tab B's cookie slot.
	rec := env.do(request{method: http.MethodGet, path: "/api/me", tabID: "tabb", sessionID: sess.ID})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid tab context")
}

func TestRequireAuthSlidesSessionTTL(t *testing.T) {
	env := newGateEnv(t)
	studentID := env.addStudent(t, true)
	sess := env.login(t, studentID.String(), session.RoleStudent, "")

	rec := env.do(request{method: http.MethodGet, path: "/api/me", sessionID: sess.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	// The gate touched the session down to the idle window.
	assert.LessOrEqual(t, env.mr.TTL("session:"+sess.ID), 30*time.Minute)
}

func TestRequireAuthDeletedAccount(t *testing.T) {
	env := newGateEnv(t)
	studentID := env.addStudent(t, true)
	sess := env.login(t, studentID.String(), session.RoleStudent, "")

	// First request primes the principal cache.
	rec := env.do(request{method: http.MethodGet, path: "/api/me", sessionID: sess.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	cacheKey := "user:student:" + studentID.String()
	require.True(t, env.mr.Exists(cacheKey))

	// Deleting the account must take effect despite the warm cache.
	delete(env.students.students, studentID)

	rec = env.do(request{method: http.MethodGet, path: "/api/me", sessionID: sess.ID})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "account not found")
	assert.False(t, env.mr.Exists(cacheKey))
}

func TestRequireAuthInactiveAccount(t *testing.T) {
	env := newGateEnv(t)
	studentID := env.addStudent(t, false)
	sess := env.login(t, studentID.String(), session.RoleStudent, "")

	rec := env.do(request{method: http.MethodGet, path: "/api/me", sessionID: sess.ID})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "account inactive")
}

func TestRequireRoleForbidsStudent(t *testing.T) {
	env := newGateEnv(t)
	studentID := env.addStudent(t, true)
	sess := env.login(t, studentID.String(), session.RoleStudent, "")

	rec := env.do(request{method: http.MethodGet, path: "/api/dashboard/stats", sessionID: sess.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
	env := newGateEnv(t)
	adminID := env.addAdmin(t)
	sess := env.login(t, adminID.String(), session.RoleAdmin, "")

	rec := env.do(request{method: http.MethodGet, path: "/api/dashboard/stats", sessionID: sess.ID})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFMissingToken(t *testing.T) {
	env := newGateEnv(t)
	studentID := env.addStudent(t, true)
	sess := env.login(t, studentID.String(), session.RoleStudent, "")

	rec := env.do(request{method: http.MethodPost, path: "/api/bookings", sessionID: sess.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid csrf token")
}

func TestCSRFWrongToken(t *testing.T) {
	env := newGateEnv(t)
	studentID := env.addStudent(t, true)
	sess := env.login(t, studentID.String(), session.RoleStudent, "")

	rec := env.do(request{method: http.MethodPost, path: "/api/bookings", sessionID: sess.ID, csrfToken: "forged"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFValidToken(t *testing.T) {
	env := newGateEnv(t)
	studentID := env.addStudent(t, true)
	sess := env.login(t, studentID.String(), session.RoleStudent, "")

	rec := env.do(request{method: http.MethodPost, path: "/api/bookings", sessionID: sess.ID, csrfToken: sess.CSRFToken})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFSkipsSafeMethods(t *testing.T) {
	env := newGateEnv(t)
	studentID := env.addStudent(t, true)
	sess := env.login(t, studentID.String(), session.RoleStudent, "")

	rec := env.do(request{method: http.MethodGet, path: "/api/me", sessionID: sess.ID})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLockdownBlocksStudent(t *testing.T) {
	env := newGateEnv(t)
	env.settings.settings.EmergencyLockdown = true
	studentID := env.addStudent(t, true)
	sess := env.login(t, studentID.String(), session.RoleStudent, "")

	rec := env.do(request{method: http.MethodGet, path: "/api/me", sessionID: sess.ID})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"emergencyLockdown":true`)
}

func TestLockdownAllowsAdmin(t *testing.T) {
	env := newGateEnv(t)
	env.settings.settings.EmergencyLockdown = true
	adminID := env.addAdmin(t)
	sess := env.login(t, adminID.String(), session.RoleAdmin, "")

	rec := env.do(request{method: http.MethodGet, path: "/api/me", sessionID: sess.ID})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLockdownFailsOpen(t *testing.T) {
	env := newGateEnv(t)
	env.settings.err = errors.New("database down")
	studentID := env.addStudent(t, true)
	sess := env.login(t, studentID.String(), session.RoleStudent, "")

	rec := env.do(request{method: http.MethodGet, path: "/api/me", sessionID: sess.ID})
	assert.Equal(t, http.StatusOK, rec.Code)
}
