package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/korzhan/resource-tracker/internal/model"
)

type projectReq struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	ClientID  *uint64 `json:"client_id"`
	Status    string  `json:"status"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Budget    float64 `json:"budget"`
}

func (req *projectReq) toModel() (model.Project, string) {
	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return model.Project{}, "code and name are required"
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == "" {
		status = model.ProjectProspect
	}
	if !model.KnownProjectStatus(status) {
		return model.Project{}, "unknown project status"
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return model.Project{}, "start_date must be YYYY-MM-DD"
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return model.Project{}, "end_date must be YYYY-MM-DD"
	}
	if req.Budget < 0 {
		return model.Project{}, "budget must not be negative"
	}
	return model.Project{
		Code:      code,
		Name:      name,
		ClientID:  req.ClientID,
		Status:    status,
		StartDate: start,
		EndDate:   end,
		Budget:    req.Budget,
	}, ""
}

// CreateProject handles POST /v1/projects.
func (h *ResourceHandler) CreateProject(c echo.Context) error {
	var req projectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	p, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Projects.Create(ctx, &p); err != nil {
		return writeRepoError(c, err, "project")
	}
	return c.JSON(http.StatusCreated, p)
}

// GetProject handles GET /v1/projects/:id.
func (h *ResourceHandler) GetProject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "project")
	}
	return c.JSON(http.StatusOK, p)
}

// ListProjects handles GET /v1/projects with optional ?status= and
// ?client_id= filters.
func (h *ResourceHandler) ListProjects(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && !model.KnownProjectStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown project status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Projects.List(ctx, status, queryID(c, "client_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateProject handles PUT /v1/projects/:id.
func (h *ResourceHandler) UpdateProject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req projectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	p, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	p.ID = id

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Projects.Update(ctx, &p); err != nil {
		return writeRepoError(c, err, "project")
	}
	updated, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "project")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteProject handles DELETE /v1/projects/:id.
func (h *ResourceHandler) DeleteProject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Projects.Delete(ctx, id); err != nil {
		return writeRepoError(c, err, "project")
	}
	return c.NoContent(http.StatusNoContent)
}
