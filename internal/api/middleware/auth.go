package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Prantik009/accusitions/internal/pkg/token"
)

// Context keys set by Auth.
const (
	ClaimsKey    = "claims"
	AccountIDKey = "account_id"
	EmailKey     = "email"
	RoleKey      = "role"
)

// TokenVerifier checks a session token and returns its claims.
type TokenVerifier interface {
	Verify(tokenStr string) (*token.Claims, error)
}

// Auth verifies the session token from the named cookie, falling back to an
// "Authorization: Bearer" header, and injects its claims into the context.
// No claim is trusted before the signature has been checked.
func Auth(verifier TokenVerifier, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ""
			if ck, err := c.Cookie(cookieName); err == nil {
				raw = ck.Value
			}
			if raw == "" {
				authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
				if authHeader == "" {
					return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
				}
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
				}
				raw = parts[1]
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ClaimsKey, claims)
			c.Set(AccountIDKey, claims.AccountID)
			c.Set(EmailKey, claims.Email)
			c.Set(RoleKey, claims.Role)

			return next(c)
		}
	}
}
