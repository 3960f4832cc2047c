package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/korzhan/resource-tracker/internal/model"
	"github.com/korzhan/resource-tracker/internal/queue"
)

type billingReq struct {
	ProjectID uint64  `json:"project_id"`
	Period    string  `json:"period"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
}

func validPeriod(p string) bool {
	_, err := time.Parse("2006-01", p)
	return err == nil
}

func (req *billingReq) toModel() (model.BillingRecord, string) {
	if req.ProjectID == 0 {
		return model.BillingRecord{}, "project_id is required"
	}
	period := strings.TrimSpace(req.Period)
	if !validPeriod(period) {
		return model.BillingRecord{}, "period must be YYYY-MM"
	}
	if req.Amount < 0 {
		return model.BillingRecord{}, "amount must not be negative"
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return model.BillingRecord{}, "currency must be a 3-letter code"
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == "" {
		status = model.BillingDraft
	}
	if !model.KnownBillingStatus(status) {
		return model.BillingRecord{}, "unknown billing status"
	}
	return model.BillingRecord{
		ProjectID: req.ProjectID,
		Period:    period,
		Amount:    req.Amount,
		Currency:  currency,
		Status:    status,
	}, ""
}

// CreateBillingRecord handles POST /v1/billing. One record per project per
// period; a duplicate comes back 409.
func (h *ResourceHandler) CreateBillingRecord(c echo.Context) error {
	var req billingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	b, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Billing.Create(ctx, &b); err != nil {
		return writeRepoError(c, err, "billing record")
	}

	actorID, _ := currentAccountID(c)
	h.publish(queue.AuditEvent{
		Kind:      queue.EventBillingRecorded,
		AccountID: actorID,
		EntityID:  b.ID,
		Detail:    fmt.Sprintf("project %d period %s: %.2f %s", b.ProjectID, b.Period, b.Amount, b.Currency),
	})
	return c.JSON(http.StatusCreated, b)
}

// GetBillingRecord handles GET /v1/billing/:id.
func (h *ResourceHandler) GetBillingRecord(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	b, err := h.Billing.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "billing record")
	}
	return c.JSON(http.StatusOK, b)
}

// ListBillingRecords handles GET /v1/billing with optional ?project_id= and
// ?period= filters.
func (h *ResourceHandler) ListBillingRecords(c echo.Context) error {
	period := strings.TrimSpace(c.QueryParam("period"))
	if period != "" && !validPeriod(period) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "period must be YYYY-MM"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Billing.List(ctx, queryID(c, "project_id"), period)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateBillingRecord handles PUT /v1/billing/:id. Project and period are
// fixed at creation; only amount, currency and status change.
func (h *ResourceHandler) UpdateBillingRecord(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req billingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Amount < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must not be negative"})
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "currency must be a 3-letter code"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.KnownBillingStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown billing status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	b := model.BillingRecord{ID: id, Amount: req.Amount, Currency: currency, Status: status}
	if err := h.Billing.Update(ctx, &b); err != nil {
		return writeRepoError(c, err, "billing record")
	}
	updated, err := h.Billing.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "billing record")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteBillingRecord handles DELETE /v1/billing/:id.
func (h *ResourceHandler) DeleteBillingRecord(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Billing.Delete(ctx, id); err != nil {
		return writeRepoError(c, err, "billing record")
	}
	return c.NoContent(http.StatusNoContent)
}
