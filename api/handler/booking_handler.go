package handler

import (
	"net/http"
	"strconv"

	"hostelhub/api/middleware"
	"hostelhub/internal/dto"
	"hostelhub/internal/entity"
	"hostelhub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	Service  *service.BookingService
	Validate *validator.Validate
}

func NewBookingHandler(svc *service.BookingService, validate *validator.Validate) *BookingHandler {
	return &BookingHandler{Service: svc, Validate: validate}
}

func (h *BookingHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	bookings, err := h.Service.List(c.Request().Context(), limit, offset)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, _ := middleware.UserIDFromContext(c)
	studentID, err := uuid.Parse(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}

	bookings, err := h.Service.ListForStudent(c.Request().Context(), studentID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) Create(c echo.Context) error {
	var req dto.CreateBookingRequest
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
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	booking, err := h.Service.Create(c.Request().Context(), studentID, roomID, req.CheckIn)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) Cancel(c echo.Context) error {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	userID, _ := middleware.UserIDFromContext(c)
	studentID, err := uuid.Parse(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}

	if err := h.Service.Cancel(c.Request().Context(), studentID, bookingID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BookingHandler) SetStatus(c echo.Context) error {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	var req dto.UpdateBookingStatusRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	if err := h.Service.SetStatus(c.Request().Context(), bookingID, entity.BookingStatus(req.Status)); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
