package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/Prantik009/accusitions/internal/core/domain"
)

// RBAC admits only the listed roles. It must run after Auth; a request
// without a role is rejected with domain.ErrForbidden like any other.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(RoleKey).(string)
			if _, ok := allowed[role]; !ok {
				return fmt.Errorf("role %q: %w", role, domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
