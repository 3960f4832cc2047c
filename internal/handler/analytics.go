package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Headcount handles GET /v1/analytics/headcount: active employees grouped
// by department.
func (h *ResourceHandler) Headcount(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	rows, err := h.Analytics.Headcount(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}

// BillingSummary handles GET /v1/analytics/billing-summary. The optional
// ?limit= bounds the number of recent periods (default 12).
func (h *ResourceHandler) BillingSummary(c echo.Context) error {
	limit := 12
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 120 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be between 1 and 120"})
		}
		limit = n
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	rows, err := h.Analytics.BillingSummary(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}

// ProjectStaffing handles GET /v1/analytics/project-staffing: allocation
// totals for every active project.
func (h *ResourceHandler) ProjectStaffing(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	rows, err := h.Analytics.ProjectStaffing(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}

// Pipeline handles GET /v1/analytics/pipeline: candidate counts per
// recruitment stage.
func (h *ResourceHandler) Pipeline(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	rows, err := h.Analytics.Pipeline(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}
