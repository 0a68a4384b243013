package handler

import (
	"net/http"

	"hostelhub/api/middleware"
	"hostelhub/internal/dto"
	"hostelhub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ProfileHandler struct {
	Students *service.StudentService
	Validate *validator.Validate
}

func NewProfileHandler(students *service.StudentService, validate *validator.Validate) *ProfileHandler {
	return &ProfileHandler{Students: students, Validate: validate}
}

func (h *ProfileHandler) Update(c echo.Context) error {
	var req dto.UpdateProfileRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	userID, _ := middleware.UserIDFromContext(c)
	studentID, err := uuid.Parse(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}

	student, err := h.Students.UpdateProfile(c.Request().Context(), studentID, req.FullName, req.Phone, req.Guardian)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, student)
}
