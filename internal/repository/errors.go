// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by someone
// else, while ErrDuplicate signals that a unique constraint (username,
// email, category name, or the one-review/one-like-per-article rule)
// would be violated.
package repository

import "errors"

// ErrNotFound is returned when no record exists for the requested id.
// Handlers translate this into an HTTP 404 response with an
// entity-specific message.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own and they are not an admin. Handlers should
// translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrDuplicate is returned when an insert would violate a uniqueness
// rule: a taken username or email, a duplicate category name, or a
// second review/like for the same (user, article) pair. Handlers
// translate this into an HTTP 400 response per the API contract.
var ErrDuplicate = errors.New("duplicate")
