package routes

import (
	"time"

	"hostelhub/api/handler"
	"hostelhub/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo     *echo.Echo
	Auth     *handler.AuthHandler
	Rooms    *handler.RoomHandler
	Bookings *handler.BookingHandler
	Admin    *handler.AdminHandler
	Content  *handler.ContentHandler
	Profile  *handler.ProfileHandler
	Gate     middleware.AuthMiddleware
	Lockdown middleware.LockdownMiddleware

	LoginRate *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	auth *handler.AuthHandler,
	rooms *handler.RoomHandler,
	bookings *handler.BookingHandler,
	admin *handler.AdminHandler,
	content *handler.ContentHandler,
	profile *handler.ProfileHandler,
	gate middleware.AuthMiddleware,
	lockdown middleware.LockdownMiddleware,
) *Router {
	return &Router{
		Echo:      e,
		Auth:      auth,
		Rooms:     rooms,
		Bookings:  bookings,
		Admin:     admin,
		Content:   content,
		Profile:   profile,
		Gate:      gate,
		Lockdown:  lockdown,
		LoginRate: middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

// RegisterRoutes mounts the API twice: bare, and under the tab-scoped
// prefix every browser tab uses so its cookie slot stays independent.
func (r *Router) RegisterRoutes() {
	r.register(r.Echo.Group("/api"))
	r.register(r.Echo.Group("/api/t/:tab"))
}

func (r *Router) register(g *echo.Group) {
	g.GET("/public/content", r.Content.List)
	g.GET("/public/content/:slug", r.Content.Get)
	g.POST("/auth/student/login", r.Auth.StudentLogin, r.LoginRate.Middleware())
	g.POST("/auth/admin/login", r.Auth.AdminLogin, r.LoginRate.Middleware())

	// Lockdown needs the role from RequireAuth; CSRF resolves the session
	// on its own but runs last so 401s win over 403s.
	authed := g.Group("", r.Gate.RequireAuth, r.Lockdown.Check, r.Gate.CSRFProtect)

	authed.POST("/auth/logout", r.Auth.Logout)
	authed.GET("/me", r.Auth.Me)
	authed.PUT("/me/profile", r.Profile.Update, middleware.RequireStudent())
	authed.GET("/sessions", r.Auth.ListSessions)
	authed.DELETE("/sessions/:id", r.Auth.RevokeSession)

	authed.GET("/rooms", r.Rooms.List)
	authed.GET("/rooms/available", r.Rooms.ListAvailable)
	authed.GET("/rooms/:id", r.Rooms.Get)
	authed.POST("/rooms", r.Rooms.Create, middleware.RequireAdminOrSuperAdmin())
	authed.PUT("/rooms/:id", r.Rooms.Update, middleware.RequireAdminOrSuperAdmin())

	authed.GET("/bookings", r.Bookings.List, middleware.RequireAdminOrSuperAdmin())
	authed.GET("/bookings/me", r.Bookings.ListMine, middleware.RequireStudent())
	authed.POST("/bookings", r.Bookings.Create, middleware.RequireStudent())
	authed.DELETE("/bookings/:id", r.Bookings.Cancel, middleware.RequireStudent())
	authed.PUT("/bookings/:id/status", r.Bookings.SetStatus, middleware.RequireAdminOrSuperAdmin())

	authed.GET("/settings", r.Admin.GetSettings, middleware.RequireAdminOrSuperAdmin())
	authed.PUT("/settings", r.Admin.UpdateSettings, middleware.RequireSuperAdmin())
	authed.GET("/students", r.Admin.ListStudents, middleware.RequireAdminOrSuperAdmin())
	authed.POST("/students/:id/deactivate", r.Admin.DeactivateStudent, middleware.RequireAdminOrSuperAdmin())
	authed.POST("/students/:id/revoke-sessions", r.Admin.RevokeUserSessions, middleware.RequireAdminOrSuperAdmin())
	authed.GET("/dashboard/stats", r.Admin.DashboardStats, middleware.RequireAdminOrSuperAdmin())

	authed.POST("/public/content", r.Content.Upsert, middleware.RequireAdminOrSuperAdmin())
}
