package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tfos262/ott-backend/internal/models"
	"github.com/tfos262/ott-backend/pkg/auth"
)

const principalKey = "principal"

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// RequireAuth verifies the bearer token and stores the caller's Principal
// in the context.
func RequireAuth(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return echo.NewHTTPError(http.StatusForbidden, "No token provided")
			}

			claims, err := parser.Parse(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "Failed to authenticate token")
			}

			c.Set(principalKey, claims.Principal())
			return next(c)
		}
	}
}

// OptionalAuth attaches the principal when a valid bearer token is sent and
// lets anonymous requests through unchanged.
func OptionalAuth(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return next(c)
			}
			claims, err := parser.Parse(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "Failed to authenticate token")
			}
			c.Set(principalKey, claims.Principal())
			return next(c)
		}
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok || !p.IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "Admins only")
			}
			return next(c)
		}
	}
}

func PrincipalFrom(c echo.Context) (models.Principal, bool) {
	p, ok := c.Get(principalKey).(models.Principal)
	return p, ok
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
