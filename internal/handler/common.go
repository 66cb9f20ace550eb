package handler // handler defines http handlers

import (
    "context"      // context carries deadlines into repository calls
    "errors"       // errors provides sentinel values used in getUserID
    "strconv"      // strconv converts strings to numeric types
    "time"         // time bounds DB calls with a request timeout

    "github.com/labstack/echo/v4" // echo defines request context types

    "inkwell/internal/model"      // model holds the entity structs
    "inkwell/internal/repository" // repository holds data access layer
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context from the incoming request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id") // fetch user_id from context
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// parseID converts a path parameter to a numeric record id.
func parseID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}

// actingUser resolves the authenticated caller to their current database
// record. Tokens outlive accounts, so the record may be gone; callers
// translate repository.ErrNotFound into the endpoint's 404 response. The
// role used for authorization decisions is the one stored in the database,
// not the one frozen into the token at issue time.
func actingUser(ctx context.Context, c echo.Context, users *repository.UserRepo) (model.User, error) {
    uid, err := getUserID(c)
    if err != nil {
        return model.User{}, err
    }
    return users.GetByID(ctx, uid)
}

// canMutate implements the ownership rule shared by every owned entity:
// the action is permitted iff the actor is an admin or owns the record.
func canMutate(actor model.User, ownerID uint64) bool {
    return actor.Role == model.RoleAdmin || actor.ID == ownerID
}

// mustOwn is the error form of canMutate; a denied actor gets
// repository.ErrForbidden, which the handlers map to the canonical 403.
func mustOwn(actor model.User, ownerID uint64) error {
    if canMutate(actor, ownerID) {
        return nil
    }
    return repository.ErrForbidden
}
