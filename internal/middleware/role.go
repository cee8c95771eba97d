package middleware

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireAdmin returns a middleware that restricts a route to admin users.
// It composes after Protect, which has already resolved the identity; a
// missing identity or a non-admin role is rejected with 403 Forbidden.
func RequireAdmin() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            u, ok := CurrentUser(c)
            if !ok || !u.IsAdmin() {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied - admin only"})
            }
            return next(c)
        }
    }
}
