package handler

import (
	"net/http"
	"strconv"

	"hostelhub/api/middleware"
	"hostelhub/internal/dto"
	"hostelhub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AdminHandler covers the administrative surface: settings (including the
// emergency lockdown flag), student management, dashboard stats, and forced
// session revocation.
type AdminHandler struct {
	Settings *service.SettingsService
	Students *service.StudentService
	Stats    *service.StatsService
	Auth     *service.AuthService
	Validate *validator.Validate
}

func NewAdminHandler(
	settings *service.SettingsService,
	students *service.StudentService,
	stats *service.StatsService,
	auth *service.AuthService,
	validate *validator.Validate,
) *AdminHandler {
	return &AdminHandler{
		Settings: settings,
		Students: students,
		Stats:    stats,
		Auth:     auth,
		Validate: validate,
	}
}

func (h *AdminHandler) GetSettings(c echo.Context) error {
	settings, err := h.Settings.Get(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *AdminHandler) UpdateSettings(c echo.Context) error {
	var req dto.UpdateSettingsRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	userID, _ := middleware.UserIDFromContext(c)
	actorID, err := uuid.Parse(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}

	settings, err := h.Settings.Update(c.Request().Context(), actorID, service.SettingsUpdate{
		EmergencyLockdown: req.EmergencyLockdown,
		BookingOpen:       req.BookingOpen,
		ContactEmail:      req.ContactEmail,
		ContactPhone:      req.ContactPhone,
		Extra:             req.Extra,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, settings)
}

func (h *AdminHandler) ListStudents(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	students, err := h.Students.List(c.Request().Context(), limit, offset)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, students)
}

func (h *AdminHandler) DeactivateStudent(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Students.Deactivate(c.Request().Context(), id); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) RevokeUserSessions(c echo.Context) error {
	if _, err := uuid.Parse(c.Param("id")); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Auth.RevokeAllForUser(c.Request().Context(), c.Param("id")); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) DashboardStats(c echo.Context) error {
	stats, err := h.Stats.Dashboard(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
