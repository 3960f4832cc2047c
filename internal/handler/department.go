package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/korzhan/resource-tracker/internal/model"
)

type departmentReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateDepartment handles POST /v1/departments.
func (h *ResourceHandler) CreateDepartment(c echo.Context) error {
	var req departmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	d := model.Department{Name: name, Description: strings.TrimSpace(req.Description)}
	if err := h.Departments.Create(ctx, &d); err != nil {
		return writeRepoError(c, err, "department")
	}
	return c.JSON(http.StatusCreated, d)
}

// GetDepartment handles GET /v1/departments/:id.
func (h *ResourceHandler) GetDepartment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, err := h.Departments.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "department")
	}
	return c.JSON(http.StatusOK, d)
}

// ListDepartments handles GET /v1/departments.
func (h *ResourceHandler) ListDepartments(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Departments.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateDepartment handles PUT /v1/departments/:id.
func (h *ResourceHandler) UpdateDepartment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req departmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	d := model.Department{ID: id, Name: name, Description: strings.TrimSpace(req.Description)}
	if err := h.Departments.Update(ctx, &d); err != nil {
		return writeRepoError(c, err, "department")
	}
	updated, err := h.Departments.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "department")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteDepartment handles DELETE /v1/departments/:id.
func (h *ResourceHandler) DeleteDepartment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Departments.Delete(ctx, id); err != nil {
		return writeRepoError(c, err, "department")
	}
	return c.NoContent(http.StatusNoContent)
}
