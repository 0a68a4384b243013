package middleware

import (
	"net/http"

	"hostelhub/internal/service"
	"hostelhub/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// LockdownMiddleware rejects non-privileged traffic while the emergency
// flag is set. An error while reading the flag fails open: availability
// beats strict enforcement when the settings store is down.
type LockdownMiddleware struct {
	Settings *service.SettingsService
	Log      *logrus.Logger
}

func (m LockdownMiddleware) Check(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		settings, err := m.Settings.Get(c.Request().Context())
		if err != nil {
			m.Log.WithError(err).Warn("lockdown check failed, allowing request")
			return next(c)
		}
		if !settings.EmergencyLockdown {
			return next(c)
		}

		if role, ok := RoleFromContext(c); ok {
			if role == session.RoleAdmin || role == session.RoleSuperAdmin {
				return next(c)
			}
		}
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"emergencyLockdown": true,
			"message":           "system is in emergency lockdown",
		})
	}
}
