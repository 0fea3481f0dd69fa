package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatstack/chat-api/internal/api/middleware"
	"github.com/chatstack/chat-api/internal/core/domain"
)

// ctxPrincipal extracts the Principal injected by the Auth middleware. Its
// presence proves the middleware ran; a handler reached without one is a
// routing mistake and fails closed with 401.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	principal, ok := c.Get(middleware.PrincipalKey).(*domain.Principal)
	if !ok || principal.Username == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return principal, nil
}
