package middleware

import (
	"net/http"

	"hostelhub/internal/service"
	"hostelhub/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// AuthMiddleware resolves the tab-scoped session cookie, slides the session
// TTL, and attaches the authenticated principal to the request. Every
// failure — including infrastructure errors — maps to a 401; the gate never
// leaks a 500 for an authentication concern.
type AuthMiddleware struct {
	Sessions   *session.Store
	Principals *service.PrincipalService
	Log        *logrus.Logger
}

func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		tabID := TabID(c)

		sessionID := m.sessionIDFromCookie(c, tabID)
		if sessionID == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "no session")
		}

		sess, err := m.Sessions.Get(ctx, sessionID)
		if err != nil {
			m.Log.WithError(err).Warn("session lookup failed")
			return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
		}
		if sess == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
		}

		// A session bound to one tab must not authenticate another.
		if sess.TabID != "" && tabID != "" && sess.TabID != tabID {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid tab context")
		}

		sess, err = m.Sessions.Touch(ctx, sessionID)
		if err != nil {
			m.Log.WithError(err).Warn("session refresh failed")
			return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
		}
		if sess == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
		}

		principal, err := m.Principals.Load(ctx, sess.Role, sess.UserID)
		if err != nil {
			m.Log.WithError(err).Warn("principal load failed")
			return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
		}
		if principal == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "account not found")
		}
		if !principal.Active {
			return echo.NewHTTPError(http.StatusUnauthorized, "account inactive")
		}

		SetAuthContext(c, principal, sessionID)
		return next(c)
	}
}

func (m AuthMiddleware) sessionIDFromCookie(c echo.Context, tabID string) string {
	cookie, err := c.Cookie(m.Sessions.CookieName(tabID))
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}
