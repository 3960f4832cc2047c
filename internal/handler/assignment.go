package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/korzhan/resource-tracker/internal/model"
	"github.com/korzhan/resource-tracker/internal/queue"
)

type assignmentReq struct {
	EmployeeID  uint64 `json:"employee_id"`
	ProjectID   uint64 `json:"project_id"`
	Allocation  int    `json:"allocation"`
	ProjectRole string `json:"project_role"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

func (req *assignmentReq) toModel() (model.Assignment, string) {
	if req.EmployeeID == 0 || req.ProjectID == 0 {
		return model.Assignment{}, "employee_id and project_id are required"
	}
	if req.Allocation < 1 || req.Allocation > 100 {
		return model.Assignment{}, "allocation must be between 1 and 100"
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return model.Assignment{}, "start_date must be YYYY-MM-DD"
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return model.Assignment{}, "end_date must be YYYY-MM-DD"
	}
	if start != nil && end != nil && end.Before(*start) {
		return model.Assignment{}, "end_date must not precede start_date"
	}
	return model.Assignment{
		EmployeeID:  req.EmployeeID,
		ProjectID:   req.ProjectID,
		Allocation:  req.Allocation,
		ProjectRole: strings.TrimSpace(req.ProjectRole),
		StartDate:   start,
		EndDate:     end,
	}, ""
}

// CreateAssignment handles POST /v1/assignments. A successful create emits
// an assignment.created audit event.
func (h *ResourceHandler) CreateAssignment(c echo.Context) error {
	var req assignmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	a, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Assignments.Create(ctx, &a); err != nil {
		return writeRepoError(c, err, "assignment")
	}

	actorID, _ := currentAccountID(c)
	h.publish(queue.AuditEvent{
		Kind:      queue.EventAssignmentCreated,
		AccountID: actorID,
		EntityID:  a.ID,
		Detail:    fmt.Sprintf("employee %d on project %d at %d%%", a.EmployeeID, a.ProjectID, a.Allocation),
	})
	return c.JSON(http.StatusCreated, a)
}

// GetAssignment handles GET /v1/assignments/:id.
func (h *ResourceHandler) GetAssignment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	a, err := h.Assignments.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "assignment")
	}
	return c.JSON(http.StatusOK, a)
}

// ListAssignments handles GET /v1/assignments with optional ?employee_id=
// and ?project_id= filters.
func (h *ResourceHandler) ListAssignments(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Assignments.List(ctx, queryID(c, "employee_id"), queryID(c, "project_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateAssignment handles PUT /v1/assignments/:id.
func (h *ResourceHandler) UpdateAssignment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req assignmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	a, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	a.ID = id

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Assignments.Update(ctx, &a); err != nil {
		return writeRepoError(c, err, "assignment")
	}
	updated, err := h.Assignments.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "assignment")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteAssignment handles DELETE /v1/assignments/:id.
func (h *ResourceHandler) DeleteAssignment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Assignments.Delete(ctx, id); err != nil {
		return writeRepoError(c, err, "assignment")
	}
	return c.NoContent(http.StatusNoContent)
}
