package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/korzhan/resource-tracker/internal/model"
)

type skillReq struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// CreateSkill handles POST /v1/skills.
func (h *ResourceHandler) CreateSkill(c echo.Context) error {
	var req skillReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	s := model.Skill{Name: name, Category: strings.TrimSpace(req.Category)}
	if err := h.Skills.Create(ctx, &s); err != nil {
		return writeRepoError(c, err, "skill")
	}
	return c.JSON(http.StatusCreated, s)
}

// GetSkill handles GET /v1/skills/:id.
func (h *ResourceHandler) GetSkill(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Skills.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "skill")
	}
	return c.JSON(http.StatusOK, s)
}

// ListSkills handles GET /v1/skills.
func (h *ResourceHandler) ListSkills(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Skills.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateSkill handles PUT /v1/skills/:id.
func (h *ResourceHandler) UpdateSkill(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req skillReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	s := model.Skill{ID: id, Name: name, Category: strings.TrimSpace(req.Category)}
	if err := h.Skills.Update(ctx, &s); err != nil {
		return writeRepoError(c, err, "skill")
	}
	updated, err := h.Skills.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "skill")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteSkill handles DELETE /v1/skills/:id.
func (h *ResourceHandler) DeleteSkill(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Skills.Delete(ctx, id); err != nil {
		return writeRepoError(c, err, "skill")
	}
	return c.NoContent(http.StatusNoContent)
}
