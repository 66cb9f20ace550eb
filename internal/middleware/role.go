package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireAdmin returns a middleware that rejects any request whose token
// does not carry the admin role.  It assumes JWTAuth has already stored
// the role in the context under the key "role".  Non-admins receive the
// API's canonical 403 body.
func RequireAdmin() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Retrieve the role from context.  It should have been stored
            // by the JWTAuth middleware as a string.  If it is missing or
            // of the wrong type, treat it as not admin.
            v := c.Get("role")
            role, ok := v.(string)
            if !ok || role != "admin" {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden - Admin access required"})
            }
            // Otherwise call the next handler in the chain
            return next(c)
        }
    }
}
