package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/korzhan/resource-tracker/internal/model"
)

type employeeReq struct {
	Code          string  `json:"code"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	PhoneNumber   string  `json:"phone_number"`
	DepartmentID  *uint64 `json:"department_id"`
	DesignationID *uint64 `json:"designation_id"`
	HireDate      string  `json:"hire_date"`
	Billable      *bool   `json:"billable"`
	Status        string  `json:"status"`
}

func (r employeeReq) toModel() (model.Employee, string) {
	code := strings.TrimSpace(r.Code)
	if code == "" || strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return model.Employee{}, "code/first_name/last_name required"
	}
	if strings.TrimSpace(r.Email) == "" {
		return model.Employee{}, "email required"
	}
	status := strings.ToUpper(strings.TrimSpace(r.Status))
	if status == "" {
		status = model.EmployeeActive
	}
	if !model.KnownEmployeeStatus(status) {
		return model.Employee{}, "unknown status"
	}
	hire, err := parseDate(r.HireDate)
	if err != nil {
		return model.Employee{}, "hire_date must be YYYY-MM-DD"
	}
	billable := true
	if r.Billable != nil {
		billable = *r.Billable
	}
	return model.Employee{
		Code:          code,
		FirstName:     strings.TrimSpace(r.FirstName),
		LastName:      strings.TrimSpace(r.LastName),
		Email:         strings.TrimSpace(r.Email),
		PhoneNumber:   strings.TrimSpace(r.PhoneNumber),
		DepartmentID:  r.DepartmentID,
		DesignationID: r.DesignationID,
		HireDate:      hire,
		Billable:      billable,
		Status:        status,
	}, ""
}

// CreateEmployee handles POST /v1/employees.
func (h *ResourceHandler) CreateEmployee(c echo.Context) error {
	var req employeeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	e, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Employees.Create(ctx, &e); err != nil {
		return writeRepoError(c, err, "employee")
	}
	return c.JSON(http.StatusCreated, e)
}

// GetEmployee handles GET /v1/employees/:id.
func (h *ResourceHandler) GetEmployee(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	e, err := h.Employees.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "employee")
	}
	return c.JSON(http.StatusOK, e)
}

// ListEmployees handles GET /v1/employees with optional ?status= and
// ?department_id= filters.
func (h *ResourceHandler) ListEmployees(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && !model.KnownEmployeeStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Employees.List(ctx, status, queryID(c, "department_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateEmployee handles PUT /v1/employees/:id.
func (h *ResourceHandler) UpdateEmployee(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req employeeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	e, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	e.ID = id

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Employees.Update(ctx, &e); err != nil {
		return writeRepoError(c, err, "employee")
	}
	updated, err := h.Employees.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "employee")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteEmployee handles DELETE /v1/employees/:id.
func (h *ResourceHandler) DeleteEmployee(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Employees.Delete(ctx, id); err != nil {
		return writeRepoError(c, err, "employee")
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- employee skills -----

type employeeSkillReq struct {
	SkillID     uint64 `json:"skill_id"`
	Proficiency int    `json:"proficiency"`
}

// SetEmployeeSkill handles PUT /v1/employees/:id/skills (upsert).
func (h *ResourceHandler) SetEmployeeSkill(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req employeeSkillReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.SkillID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "skill_id required"})
	}
	if req.Proficiency < 1 || req.Proficiency > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "proficiency must be 1..5"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	es := model.EmployeeSkill{EmployeeID: id, SkillID: req.SkillID, Proficiency: req.Proficiency}
	if err := h.Skills.SetEmployeeSkill(ctx, es); err != nil {
		return writeRepoError(c, err, "employee skill")
	}
	return c.JSON(http.StatusOK, es)
}

// ListEmployeeSkills handles GET /v1/employees/:id/skills.
func (h *ResourceHandler) ListEmployeeSkills(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Skills.EmployeeSkills(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// RemoveEmployeeSkill handles DELETE /v1/employees/:id/skills/:skillId.
func (h *ResourceHandler) RemoveEmployeeSkill(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	skillID := queryPathID(c, "skillId")
	if skillID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid skill id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Skills.RemoveEmployeeSkill(ctx, id, skillID); err != nil {
		return writeRepoError(c, err, "employee skill")
	}
	return c.NoContent(http.StatusNoContent)
}
