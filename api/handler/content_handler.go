package handler

import (
	"net/http"

	"hostelhub/internal/dto"
	"hostelhub/internal/entity"
	"hostelhub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ContentHandler struct {
	Service  *service.ContentService
	Validate *validator.Validate
}

func NewContentHandler(svc *service.ContentService, validate *validator.Validate) *ContentHandler {
	return &ContentHandler{Service: svc, Validate: validate}
}

func (h *ContentHandler) List(c echo.Context) error {
	contents, err := h.Service.ListPublished(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, contents)
}

func (h *ContentHandler) Get(c echo.Context) error {
	content, err := h.Service.Get(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeServiceError(c, err)
	}
	if content == nil {
		return writeServiceError(c, service.ErrNotFound)
	}
	return c.JSON(http.StatusOK, content)
}

func (h *ContentHandler) Upsert(c echo.Context) error {
	var req dto.UpsertContentRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}
	content := &entity.PublicContent{
		Slug:      req.Slug,
		Title:     req.Title,
		Body:      req.Body,
		Published: published,
	}
	if err := h.Service.Upsert(c.Request().Context(), content); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, content)
}
