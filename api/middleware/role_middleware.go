package middleware

import (
	"net/http"

	"hostelhub/internal/session"

	"github.com/labstack/echo/v4"
)

// Role checks run after RequireAuth and answer "are you allowed", not "who
// are you": failures are 403, never 401.
func RequireRole(roles ...session.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			currentRole, ok := RoleFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			for _, role := range roles {
				if currentRole == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}
}

func RequireStudent() echo.MiddlewareFunc {
	return RequireRole(session.RoleStudent)
}

func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(session.RoleAdmin)
}

func RequireSuperAdmin() echo.MiddlewareFunc {
	return RequireRole(session.RoleSuperAdmin)
}

func RequireAdminOrSuperAdmin() echo.MiddlewareFunc {
	return RequireRole(session.RoleAdmin, session.RoleSuperAdmin)
}
