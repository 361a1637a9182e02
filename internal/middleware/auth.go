package middleware

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/mvoronov/storefront/internal/repo"
	"github.com/mvoronov/storefront/internal/tokens"
)

// RequireAuth validates the bearer access token (signature, lifetime, issuer,
// audience) and stores the claims under the "user" context key.
func RequireAuth(secret []byte, issuer, audience string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, auth string) (any, error) {
			return tokens.Parse(auth, secret, issuer, audience)
		},
	})
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get("user").(*tokens.AccessClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}
		if !claims.HasRole(repo.RoleAdmin) {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		return next(c)
	}
}

// CurrentClaims returns the access-token claims set by RequireAuth.
func CurrentClaims(c echo.Context) (*tokens.AccessClaims, error) {
	claims, ok := c.Get("user").(*tokens.AccessClaims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}
	return claims, nil
}
