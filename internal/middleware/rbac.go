package middleware

import (
	"net/http"

	"renttracker/internal/models"

	"github.com/labstack/echo/v4"
)

type RBACMiddleware struct{}

func NewRBACMiddleware() *RBACMiddleware {
	return &RBACMiddleware{}
}

// RequirePermission must run after RequireLogin. A signed-in user without
// the codename gets 403.
func (m *RBACMiddleware) RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := PrincipalFromContext(c)
			if principal == nil {
				return c.Redirect(http.StatusFound, LoginRedirect(c.Request().URL.RequestURI()))
			}
			if !principal.HasPermission(permission) {
				return echo.NewHTTPError(http.StatusForbidden, "You do not have permission to perform this action.")
			}
			return next(c)
		}
	}
}

// Require is RequirePermission for an action on an entity.
func (m *RBACMiddleware) Require(action models.PermissionAction, entity string) echo.MiddlewareFunc {
	return m.RequirePermission(models.PermissionCodename(action, entity))
}
