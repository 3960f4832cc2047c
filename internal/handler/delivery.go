package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/korzhan/resource-tracker/internal/model"
	"github.com/korzhan/resource-tracker/internal/queue"
)

type deliveryReq struct {
	ProjectID uint64 `json:"project_id"`
	Title     string `json:"title"`
	DueDate   string `json:"due_date"`
	Status    string `json:"status"`
}

func (req *deliveryReq) toModel() (model.Delivery, string) {
	if req.ProjectID == 0 {
		return model.Delivery{}, "project_id is required"
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.Delivery{}, "title is required"
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		return model.Delivery{}, "due_date must be YYYY-MM-DD"
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == "" {
		status = model.DeliveryPlanned
	}
	if !model.KnownDeliveryStatus(status) {
		return model.Delivery{}, "unknown delivery status"
	}
	return model.Delivery{
		ProjectID: req.ProjectID,
		Title:     title,
		DueDate:   due,
		Status:    status,
	}, ""
}

// CreateDelivery handles POST /v1/deliveries.
func (h *ResourceHandler) CreateDelivery(c echo.Context) error {
	var req deliveryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	d, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Deliveries.Create(ctx, &d); err != nil {
		return writeRepoError(c, err, "delivery")
	}
	return c.JSON(http.StatusCreated, d)
}

// GetDelivery handles GET /v1/deliveries/:id.
func (h *ResourceHandler) GetDelivery(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, err := h.Deliveries.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "delivery")
	}
	return c.JSON(http.StatusOK, d)
}

// ListDeliveries handles GET /v1/deliveries with optional ?project_id= and
// ?status= filters.
func (h *ResourceHandler) ListDeliveries(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && !model.KnownDeliveryStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown delivery status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Deliveries.List(ctx, queryID(c, "project_id"), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateDelivery handles PUT /v1/deliveries/:id. Moving a delivery to
// DELIVERED or ACCEPTED stamps delivered_at; a status change emits a
// delivery.updated audit event.
func (h *ResourceHandler) UpdateDelivery(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req deliveryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	d, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	d.ID = id

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Deliveries.Update(ctx, &d); err != nil {
		return writeRepoError(c, err, "delivery")
	}
	updated, err := h.Deliveries.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "delivery")
	}

	actorID, _ := currentAccountID(c)
	h.publish(queue.AuditEvent{
		Kind:      queue.EventDeliveryUpdated,
		AccountID: actorID,
		EntityID:  updated.ID,
		Detail:    fmt.Sprintf("delivery %q now %s", updated.Title, updated.Status),
	})
	return c.JSON(http.StatusOK, updated)
}

// DeleteDelivery handles DELETE /v1/deliveries/:id.
func (h *ResourceHandler) DeleteDelivery(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Deliveries.Delete(ctx, id); err != nil {
		return writeRepoError(c, err, "delivery")
	}
	return c.NoContent(http.StatusNoContent)
}
