package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/korzhan/resource-tracker/internal/model"
)

type clientReq struct {
	Name         string `json:"name"`
	Industry     string `json:"industry"`
	ContactEmail string `json:"contact_email"`
}

func (req *clientReq) toModel() (model.Client, string) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Client{}, "name is required"
	}
	return model.Client{
		Name:         name,
		Industry:     strings.TrimSpace(req.Industry),
		ContactEmail: strings.ToLower(strings.TrimSpace(req.ContactEmail)),
	}, ""
}

// CreateClient handles POST /v1/clients.
func (h *ResourceHandler) CreateClient(c echo.Context) error {
	var req clientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	cl, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Clients.Create(ctx, &cl); err != nil {
		return writeRepoError(c, err, "client")
	}
	return c.JSON(http.StatusCreated, cl)
}

// GetClient handles GET /v1/clients/:id.
func (h *ResourceHandler) GetClient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	cl, err := h.Clients.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "client")
	}
	return c.JSON(http.StatusOK, cl)
}

// ListClients handles GET /v1/clients.
func (h *ResourceHandler) ListClients(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Clients.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateClient handles PUT /v1/clients/:id.
func (h *ResourceHandler) UpdateClient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req clientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	cl, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	cl.ID = id

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Clients.Update(ctx, &cl); err != nil {
		return writeRepoError(c, err, "client")
	}
	updated, err := h.Clients.GetByID(ctx, id)
	if err != nil {
		return writeRepoError(c, err, "client")
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteClient handles DELETE /v1/clients/:id. Clients with projects are
// protected by a restricted foreign key and come back as a conflict.
func (h *ResourceHandler) DeleteClient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Clients.Delete(ctx, id); err != nil {
		return writeRepoError(c, err, "client")
	}
	return c.NoContent(http.StatusNoContent)
}
