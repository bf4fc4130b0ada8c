package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Prantik009/accusitions/internal/api/middleware"
	"github.com/Prantik009/accusitions/internal/core/domain"
	"github.com/Prantik009/accusitions/internal/pkg/token"
)

// ctxClaims extracts the verified claims injected by the Auth middleware.
// Their absence means the route was mounted without the middleware.
func ctxClaims(c echo.Context) (*token.Claims, error) {
	claims, _ := c.Get(middleware.ClaimsKey).(*token.Claims)
	if claims == nil || claims.AccountID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}
