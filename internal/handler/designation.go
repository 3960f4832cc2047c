package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/korzhan/resource-tracker/internal/model"
)

type designationReq struct {
	Title string `json:"title"`
	Level int    `json:"level"`
}

// CreateDesignation handles POST /v1/designations.
func (h *ResourceHandler) CreateDesignation(c echo.Context) error {
	var req designationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if req.Level < 1 {
		req.Level = 1
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	d := model.Designation{Title: title, Level: req.Level}
	if err := h.Designations.Create(ctx, &d); err != nil {
		return writeRepoError(c, err, "designation")
	}
	return c.JSON(http.StatusCreated, d)
}

// GetDesignation handles GET /v1/designations/:id.
func (h *ResourceHandler) GetDesignation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, err := h.Designations.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "designation")
	}
	return c.JSON(http.StatusOK, d)
}

// ListDesignations handles GET /v1/designations.
func (h *ResourceHandler) ListDesignations(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Designations.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateDesignation handles PUT /v1/designations/:id.
func (h *ResourceHandler) UpdateDesignation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req designationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if req.Level < 1 {
		req.Level = 1
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	d := model.Designation{ID: id, Title: title, Level: req.Level}
	if err := h.Designations.Update(ctx, &d); err != nil {
		return writeRepoError(c, err, "designation")
	}
	updated, err := h.Designations.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "designation")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteDesignation handles DELETE /v1/designations/:id.
func (h *ResourceHandler) DeleteDesignation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Designations.Delete(ctx, id); err != nil {
		return writeRepoError(c, err, "designation")
	}
	return c.NoContent(http.StatusNoContent)
}
