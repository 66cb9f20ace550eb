package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"inkwell/internal/model"
	"inkwell/internal/repository"
)

// ReviewHandler implements the review endpoints. A user may leave at most
// one review per article; update and delete follow the shared ownership
// rule (owner or admin).
type ReviewHandler struct {
	Reviews  *repository.ReviewRepo
	Articles *repository.ArticleRepo
	Users    *repository.UserRepo
}

func NewReviewHandler(r *repository.ReviewRepo, a *repository.ArticleRepo, u *repository.UserRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Articles: a, Users: u}
}

type createReviewReq struct {
	ArticleID uint64 `json:"articleId" form:"articleId"`
	Content   string `json:"content" form:"content"`
}
type updateReviewReq struct {
	Content string `json:"content" form:"content"`
}

type reviewView struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	ArticleID uint64    `json:"article_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toReviewView(r model.Review) reviewView {
	return reviewView{ID: r.ID, UserID: r.UserID, ArticleID: r.ArticleID,
		Content: r.Content, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

// Create handles POST /reviews.
func (h *ReviewHandler) Create(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	actor, err := actingUser(ctx, c, h.Users)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized - Invalid token"})
	}

	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Content is required"})
	}

	if _, err := h.Articles.GetByID(ctx, req.ArticleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Article not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}

	exists, err := h.Reviews.ExistsForUserAndArticle(ctx, actor.ID, req.ArticleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	if exists {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "User has already reviewed this article"})
	}

	rv, err := h.Reviews.Create(ctx, actor.ID, req.ArticleID, req.Content)
	if err != nil {
		// Concurrent duplicate slips past the pre-check; the unique index
		// still catches it.
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "User has already reviewed this article"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to create review"})
	}
	return c.JSON(http.StatusCreated, toReviewView(rv))
}

// Get handles GET /reviews/:id.
func (h *ReviewHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rv, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	return c.JSON(http.StatusOK, toReviewView(rv))
}

// GetAll handles GET /reviews.
func (h *ReviewHandler) GetAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	reviews, err := h.Reviews.GetAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	out := make([]reviewView, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, toReviewView(rv))
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(out), "reviews": out})
}

// Update handles PUT /reviews/:id.
func (h *ReviewHandler) Update(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	actor, err := actingUser(ctx, c, h.Users)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized - Invalid token"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}

	var req updateReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Content is required"})
	}

	rv, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	if err := mustOwn(actor, rv.UserID); errors.Is(err, repository.ErrForbidden) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Permission denied"})
	}

	if err := h.Reviews.UpdateContent(ctx, id, req.Content); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Update failed"})
	}
	updated, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	return c.JSON(http.StatusOK, toReviewView(updated))
}

// Delete handles DELETE /reviews/:id.
func (h *ReviewHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	actor, err := actingUser(ctx, c, h.Users)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized - Invalid token"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}

	rv, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	if err := mustOwn(actor, rv.UserID); errors.Is(err, repository.ErrForbidden) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Permission denied"})
	}

	if err := h.Reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Review deleted"})
}
