package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/korzhan/resource-tracker/internal/model"
)

type candidateReq struct {
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	DesignationID  *uint64 `json:"designation_id"`
	Stage          string  `json:"stage"`
	ExpectedSalary float64 `json:"expected_salary"`
}

func (req *candidateReq) toModel() (model.Candidate, string) {
	name := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" {
		return model.Candidate{}, "full_name and email are required"
	}
	stage := strings.ToUpper(strings.TrimSpace(req.Stage))
	if stage == "" {
		stage = model.StageApplied
	}
	if !model.KnownStage(stage) {
		return model.Candidate{}, "unknown pipeline stage"
	}
	if req.ExpectedSalary < 0 {
		return model.Candidate{}, "expected_salary must not be negative"
	}
	return model.Candidate{
		FullName:       name,
		Email:          email,
		DesignationID:  req.DesignationID,
		Stage:          stage,
		ExpectedSalary: req.ExpectedSalary,
	}, ""
}

// CreateCandidate handles POST /v1/candidates.
func (h *ResourceHandler) CreateCandidate(c echo.Context) error {
	var req candidateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	cand, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Candidates.Create(ctx, &cand); err != nil {
		return writeRepoError(c, err, "candidate")
	}
	return c.JSON(http.StatusCreated, cand)
}

// GetCandidate handles GET /v1/candidates/:id.
func (h *ResourceHandler) GetCandidate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	cand, err := h.Candidates.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "candidate")
	}
	return c.JSON(http.StatusOK, cand)
}

// ListCandidates handles GET /v1/candidates with an optional ?stage= filter.
func (h *ResourceHandler) ListCandidates(c echo.Context) error {
	stage := strings.ToUpper(strings.TrimSpace(c.QueryParam("stage")))
	if stage != "" && !model.KnownStage(stage) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown pipeline stage"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Candidates.List(ctx, stage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateCandidate handles PUT /v1/candidates/:id. Stage moves freely; the
// pipeline imposes no ordering between stages.
func (h *ResourceHandler) UpdateCandidate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req candidateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	cand, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	cand.ID = id

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Candidates.Update(ctx, &cand); err != nil {
		return writeRepoError(c, err, "candidate")
	}
	updated, err := h.Candidates.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "candidate")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteCandidate handles DELETE /v1/candidates/:id.
func (h *ResourceHandler) DeleteCandidate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Candidates.Delete(ctx, id); err != nil {
		return writeRepoError(c, err, "candidate")
	}
	return c.NoContent(http.StatusNoContent)
}
