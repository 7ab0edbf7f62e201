package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Middleware extracts a bearer token, verifies it, and stores the caller in
// the request context. Requests without a token pass through unauthenticated;
// route groups that need one use RequireRole.
func Middleware(a *Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				caller, err := a.Verify(strings.TrimPrefix(header, "Bearer "))
				if err == nil {
					ctx := WithCaller(c.Request().Context(), caller)
					c.SetRequest(c.Request().WithContext(ctx))
				}
			}
			return next(c)
		}
	}
}

// RequireRole returns middleware that rejects requests whose caller lacks
// every listed role.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := CallerFromContext(c.Request().Context())
			if caller == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization required")
			}
			for _, required := range roles {
				if caller.Role == required {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}
