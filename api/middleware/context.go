package middleware

import (
	"hostelhub/internal/service"
	"hostelhub/internal/session"

	"github.com/labstack/echo/v4"
)

const (
	contextPrincipalKey = "auth_principal"
	contextUserIDKey    = "auth_user_id"
	contextRoleKey      = "auth_role"
	contextSessionKey   = "auth_session_id"

	// TabHeader carries the client-generated tab identifier when the
	// request is not routed through a tab-scoped path.
	TabHeader = "X-Tab-ID"
)

func SetAuthContext(c echo.Context, principal *service.Principal, sessionID string) {
	c.Set(contextPrincipalKey, principal)
	c.Set(contextUserIDKey, principal.ID)
	c.Set(contextRoleKey, principal.Role)
	c.Set(contextSessionKey, sessionID)
}

func PrincipalFromContext(c echo.Context) (*service.Principal, bool) {
	principal, ok := c.Get(contextPrincipalKey).(*service.Principal)
	return principal, ok
}

func UserIDFromContext(c echo.Context) (string, bool) {
	userID, ok := c.Get(contextUserIDKey).(string)
	return userID, ok
}

func RoleFromContext(c echo.Context) (session.Role, bool) {
	role, ok := c.Get(contextRoleKey).(session.Role)
	return role, ok
}

func SessionIDFromContext(c echo.Context) (string, bool) {
	sessionID, ok := c.Get(contextSessionKey).(string)
	return sessionID, ok
}

// TabID resolves the request's tab identifier: the tab-scoped path segment
// when present, else the header. Sanitized either way.
func TabID(c echo.Context) string {
	if tab := c.Param("tab"); tab != "" {
		return session.SanitizeTabID(tab)
	}
	return session.SanitizeTabID(c.Request().Header.Get(TabHeader))
}
