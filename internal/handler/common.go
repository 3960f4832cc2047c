package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	mw "github.com/korzhan/resource-tracker/internal/middleware"
	"github.com/korzhan/resource-tracker/internal/repository"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// reqCtx derives a request-scoped context with the standard DB timeout.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// currentAccountID extracts the authenticated subject stored by JWTAuth.
func currentAccountID(c echo.Context) (uint64, error) {
	if v, ok := c.Get(mw.CtxUserID).(uint64); ok && v != 0 {
		return v, nil
	}
	return 0, errors.New("no authenticated user in context")
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// queryID parses an optional numeric query parameter, 0 when absent.
func queryID(c echo.Context, name string) uint64 {
	v, _ := strconv.ParseUint(c.QueryParam(name), 10, 64)
	return v
}

// queryPathID parses a named numeric path parameter, 0 when invalid.
func queryPathID(c echo.Context, name string) uint64 {
	v, _ := strconv.ParseUint(c.Param(name), 10, 64)
	return v
}

// parseDate accepts a YYYY-MM-DD value, returning nil for the empty string.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// writeRepoError maps repository sentinel errors onto the uniform CRUD
// responses. Anything unrecognized becomes a 500.
func writeRepoError(c echo.Context, err error, entity string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": entity + " not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": entity + " conflict"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
}
