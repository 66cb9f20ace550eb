package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"inkwell/internal/model"
	"inkwell/internal/repository"
)

// LikeHandler implements the like endpoints. Each user gets one vote per
// article, either an upvote or a downvote.
type LikeHandler struct {
	Likes    *repository.LikeRepo
	Articles *repository.ArticleRepo
	Users    *repository.UserRepo
}

func NewLikeHandler(l *repository.LikeRepo, a *repository.ArticleRepo, u *repository.UserRepo) *LikeHandler {
	return &LikeHandler{Likes: l, Articles: a, Users: u}
}

type createLikeReq struct {
	ArticleID uint64 `json:"articleId" form:"articleId"`
	Type      string `json:"type" form:"type"`
}

type likeView struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	ArticleID uint64    `json:"article_id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toLikeView(l model.Like) likeView {
	return likeView{ID: l.ID, UserID: l.UserID, ArticleID: l.ArticleID,
		Type: l.Type, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt}
}

// Create handles POST /likes.
func (h *LikeHandler) Create(c echo.Context) error {
	var req createLikeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	if !model.ValidLikeType(req.Type) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid like type"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	actor, err := actingUser(ctx, c, h.Users)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User or Article not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized - Invalid token"})
	}
	if _, err := h.Articles.GetByID(ctx, req.ArticleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User or Article not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}

	exists, err := h.Likes.ExistsForUserAndArticle(ctx, actor.ID, req.ArticleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	if exists {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "You have already liked or disliked this article"})
	}

	l, err := h.Likes.Create(ctx, actor.ID, req.ArticleID, req.Type)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "You have already liked or disliked this article"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to create like"})
	}
	return c.JSON(http.StatusCreated, toLikeView(l))
}

// GetAll handles GET /likes.
func (h *LikeHandler) GetAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	likes, err := h.Likes.GetAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	out := make([]likeView, 0, len(likes))
	for _, l := range likes {
		out = append(out, toLikeView(l))
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /likes/:id. Owner or admin may remove a like; the
// admin override matches every other owned entity.
func (h *LikeHandler) Delete(c echo.Context) error {
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

	l, err := h.Likes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Like not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	if err := mustOwn(actor, l.UserID); errors.Is(err, repository.ErrForbidden) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Permission denied"})
	}

	if err := h.Likes.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Like not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Like deleted"})
}
