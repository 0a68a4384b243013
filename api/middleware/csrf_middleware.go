package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const CSRFHeader = "X-CSRF-Token"

// CSRFProtect enforces the double-submit token on state-changing methods.
// It resolves the tab-scoped session on its own rather than assuming
// RequireAuth ran first, so it guards routes in any middleware order.
func (m AuthMiddleware) CSRFProtect(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		switch c.Request().Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return next(c)
		}

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
		if sess.TabID != "" && tabID != "" && sess.TabID != tabID {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid tab context")
		}

		token := c.Request().Header.Get(CSRFHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(sess.CSRFToken)) != 1 {
			m.logCSRFFailure(c)
			return echo.NewHTTPError(http.StatusForbidden, "invalid csrf token")
		}
		return next(c)
	}
}

func (m AuthMiddleware) logCSRFFailure(c echo.Context) {
	m.Log.WithFields(logrus.Fields{
		"ip":     c.RealIP(),
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	}).Warn("csrf token mismatch")
}
