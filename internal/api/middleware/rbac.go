package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatstack/chat-api/internal/core/domain"
)

// RBAC enforces role-based access control on the authenticated Principal.
// A request that carries a valid token with an insufficient role is
// forbidden, distinct from the 401 returned for missing or invalid tokens.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := c.Get(PrincipalKey).(*domain.Principal)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if _, ok := allowed[principal.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
