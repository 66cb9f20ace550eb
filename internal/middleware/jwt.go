package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "inkwell/internal/utils" // token verification
)

// JWTAuth returns an Echo middleware that validates an access token and
// injects the token's subject and role claims into the request context.
// The provided secret must match the one used when issuing tokens.  This
// middleware wraps every mutating route so that handlers can access the
// authenticated identity via `c.Get("user_id")` and `c.Get("role")`.
//
// Historically clients of this API sent the raw token in the Authorization
// header without any scheme prefix, so both the bare form and the
// conventional "Bearer <token>" form are accepted here.
func JWTAuth(secret string) echo.MiddlewareFunc {
    // The outer function returns a middleware function.  Echo executes this
    // once when registering the middleware.
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        // The returned handler is invoked for each incoming HTTP request.
        return func(c echo.Context) error {
            raw := strings.TrimSpace(c.Request().Header.Get("Authorization"))
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized - Token missing"})
            }
            // Strip an optional "Bearer " prefix to obtain the raw token string.
            raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))

            // Verify signature, algorithm and expiry in one place.  Any
            // failure is reported uniformly as an invalid token.
            id, err := utils.VerifyAccessToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized - Invalid token"})
            }

            // Store the subject (user ID) and role claims in the context.
            // Handlers and downstream middleware access these via c.Get().
            c.Set("user_id", id.UserID)
            c.Set("role", id.Role)
            // Call the next handler in the chain and return its result.
            return next(c)
        }
    }
}
