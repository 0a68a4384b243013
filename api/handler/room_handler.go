package handler

import (
	"net/http"

	"hostelhub/internal/dto"
	"hostelhub/internal/entity"
	"hostelhub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type RoomHandler struct {
	Service  *service.RoomService
	Validate *validator.Validate
}

func NewRoomHandler(svc *service.RoomService, validate *validator.Validate) *RoomHandler {
	return &RoomHandler{Service: svc, Validate: validate}
}

func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.Service.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) ListAvailable(c echo.Context) error {
	rooms, err := h.Service.ListAvailable(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	room, err := h.Service.Get(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	if room == nil {
		return writeServiceError(c, service.ErrNotFound)
	}
	return c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) Create(c echo.Context) error {
	var req dto.CreateRoomRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	room := &entity.Room{
		Number:      req.Number,
		Floor:       req.Floor,
		Type:        req.Type,
		Capacity:    req.Capacity,
		MonthlyRent: req.MonthlyRent,
		Amenities:   req.Amenities,
		IsActive:    true,
	}
	if err := h.Service.Create(c.Request().Context(), room); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

func (h *RoomHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	var req dto.UpdateRoomRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	room, err := h.Service.Get(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	if room == nil {
		return writeServiceError(c, service.ErrNotFound)
	}

	if req.Type != nil {
		room.Type = *req.Type
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.MonthlyRent != nil {
		room.MonthlyRent = *req.MonthlyRent
	}
	if req.Amenities != nil {
		room.Amenities = req.Amenities
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}

	if err := h.Service.Update(c.Request().Context(), room); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}
