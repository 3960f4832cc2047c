package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns a middleware enforcing that the authenticated user's
// role snapshot intersects the given role set. The roles come from the
// token's "roles" claims stored in context by JWTAuth, so a stale token is
// judged by its issuance-time snapshot, not by current membership. Requests
// without any matching role are rejected with 403 before the handler runs.
func RequireRole(required ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(required))
	for _, r := range required {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, ok := c.Get(CtxRoles).([]string)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			for _, r := range roles {
				if allowed[r] {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
}
