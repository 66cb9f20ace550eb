// Package handler defines HTTP handlers for the content API. This file
// implements the article endpoints: public reads with aggregated reviews
// and likes, authenticated create/update guarded by the ownership rule,
// and the cascading delete that removes a deleted article's dependents
// before the article itself.
package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"inkwell/internal/model"
	"inkwell/internal/queue"
	"inkwell/internal/repository"
	queue_publisher "inkwell/internal/service"
	"inkwell/internal/storage"
)

// ArticleHandler bundles the repositories and image store used by the
// article endpoints.
type ArticleHandler struct {
	Articles   *repository.ArticleRepo
	Categories *repository.CategoryRepo
	Users      *repository.UserRepo
	Images     *storage.ImageStore
}

func NewArticleHandler(a *repository.ArticleRepo, cat *repository.CategoryRepo, u *repository.UserRepo, img *storage.ImageStore) *ArticleHandler {
	if a == nil || cat == nil || u == nil || img == nil {
		panic("nil dependency passed to NewArticleHandler")
	}
	return &ArticleHandler{Articles: a, Categories: cat, Users: u, Images: img}
}

// articleView is the read representation of an article. Reviews and likes
// are attached by the aggregation queries on single-article and list reads.
type articleView struct {
	ID        uint64                      `json:"id"`
	Author    uint64                      `json:"author"`
	Category  *uint64                     `json:"category"`
	Title     string                      `json:"title"`
	Content   string                      `json:"content"`
	Image     string                      `json:"image"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
	Reviews   []repository.ReviewWithUser `json:"reviews"`
	Likes     []repository.LikeWithUser   `json:"likes"`
}

func toArticleView(a model.Article, reviews []repository.ReviewWithUser, likes []repository.LikeWithUser) articleView {
	if reviews == nil {
		reviews = []repository.ReviewWithUser{}
	}
	if likes == nil {
		likes = []repository.LikeWithUser{}
	}
	return articleView{
		ID:        a.ID,
		Author:    a.AuthorID,
		Category:  a.CategoryID,
		Title:     a.Title,
		Content:   a.Content,
		Image:     a.Image,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		Reviews:   reviews,
		Likes:     likes,
	}
}

// Get handles GET /article/:id.
func (h *ArticleHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Article not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	reviews, likes, err := h.Articles.FetchReviewsAndLikes(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	return c.JSON(http.StatusOK, toArticleView(a, reviews, likes))
}

// GetAll handles GET /article. Every article comes back with its reviews
// and likes attached, matching the single-article representation.
func (h *ArticleHandler) GetAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	articles, err := h.Articles.GetAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	out := make([]articleView, 0, len(articles))
	for _, a := range articles {
		reviews, likes, err := h.Articles.FetchReviewsAndLikes(ctx, a.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
		}
		out = append(out, toArticleView(a, reviews, likes))
	}
	return c.JSON(http.StatusOK, out)
}

// Search handles GET /article/search. Filters: ?user= exact author id,
// ?category= exact category id, ?title= and ?content= case-insensitive
// substrings. All supplied filters are ANDed; ?page and ?limit control
// skip/limit paging.
func (h *ArticleHandler) Search(c echo.Context) error {
	q := repository.ArticleSearchQuery{
		Title:   strings.TrimSpace(c.QueryParam("title")),
		Content: strings.TrimSpace(c.QueryParam("content")),
	}
	if v := c.QueryParam("user"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid user filter"})
		}
		q.AuthorID = n
	}
	if v := c.QueryParam("category"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid category filter"})
		}
		q.CategoryID = n
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.PageSize, _ = strconv.Atoi(c.QueryParam("limit"))
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	articles, total, err := h.Articles.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	out := make([]articleView, 0, len(articles))
	for _, a := range articles {
		reviews, likes, err := h.Articles.FetchReviewsAndLikes(ctx, a.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
		}
		out = append(out, toArticleView(a, reviews, likes))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total":    total,
		"page":     q.Page,
		"limit":    q.PageSize,
		"articles": out,
	})
}

// resolveCategory turns raw category input (id or name) into a category id.
// A blank input means no category. An input that resolves to nothing is a
// client error, reported by the callers as 400 Invalid category.
func (h *ArticleHandler) resolveCategory(c echo.Context, raw string) (*uint64, bool, error) {
	ref, ok := repository.ParseCategoryRef(raw)
	if !ok {
		return nil, true, nil
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	cat, err := h.Categories.Resolve(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &cat.ID, true, nil
}

// articleReq carries the writable article fields. Clients send either a
// JSON body or a (multipart) form; the image itself only ever arrives as
// a form file and is read separately via c.FormFile.
type articleReq struct {
	Title    string `json:"title" form:"title"`
	Content  string `json:"content" form:"content"`
	Category string `json:"category" form:"category"`
}

// Create handles POST /article. The author is fixed to the caller and is
// immutable afterwards.
func (h *ArticleHandler) Create(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	actor, err := actingUser(ctx, c, h.Users)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized - Invalid token"})
	}

	var req articleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Title and content are required"})
	}

	categoryID, ok, err := h.resolveCategory(c, req.Category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid category"})
	}

	image := ""
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		path, err := h.Images.Save(fh)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to store image"})
		}
		image = path
	}

	a, err := h.Articles.Create(ctx, actor.ID, categoryID, title, content, image)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to create article"})
	}

	// Best effort: a broker outage must not fail the request.
	ev := queue.ArticlePublishedEvent{
		ArticleID:   a.ID,
		AuthorID:    a.AuthorID,
		Title:       a.Title,
		PublishedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
	if categoryID != nil {
		ev.CategoryID = *categoryID
		if cat, err := h.Categories.GetByID(ctx, *categoryID); err == nil {
			ev.CategoryName = cat.Name
		}
	}
	if err := queue_publisher.PublishArticlePublished(ctx, ev); err != nil {
		log.Printf("article: publish event failed: %v", err)
	}

	return c.JSON(http.StatusCreated, toArticleView(a, nil, nil))
}

// Update handles PUT /article/:id. At least one updatable field must be
// supplied. A replaced cover image is deleted from the store once the new
// path is persisted.
func (h *ArticleHandler) Update(c echo.Context) error {
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
	a, err := h.Articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Article not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	if err := mustOwn(actor, a.AuthorID); errors.Is(err, repository.ErrForbidden) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Permission denied"})
	}

	var req articleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	var upd repository.ArticleUpdate
	if v := strings.TrimSpace(req.Title); v != "" {
		upd.Title = &v
	}
	if v := strings.TrimSpace(req.Content); v != "" {
		upd.Content = &v
	}
	if strings.TrimSpace(req.Category) != "" {
		categoryID, ok, err := h.resolveCategory(c, req.Category)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
		}
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid category"})
		}
		upd.SetCategory = true
		upd.CategoryID = categoryID
	}

	oldImage := ""
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		path, err := h.Images.Save(fh)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to store image"})
		}
		upd.Image = &path
		oldImage = a.Image
	}

	if upd.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "No fields to update"})
	}

	if err := h.Articles.Update(ctx, id, upd); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Update failed"})
	}
	if oldImage != "" {
		if err := h.Images.Remove(oldImage); err != nil {
			log.Printf("article: remove replaced image %q failed: %v", oldImage, err)
		}
	}

	updated, err := h.Articles.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	reviews, likes, err := h.Articles.FetchReviewsAndLikes(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	return c.JSON(http.StatusOK, toArticleView(updated, reviews, likes))
}

// Delete handles DELETE /article/:id. Reviews and likes referencing the
// article are removed in the same transaction, dependents first; the
// stored image file is unlinked after the transaction commits.
func (h *ArticleHandler) Delete(c echo.Context) error {
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
	a, err := h.Articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Article not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	if err := mustOwn(actor, a.AuthorID); errors.Is(err, repository.ErrForbidden) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Permission denied"})
	}

	res, err := h.Articles.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Article not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Delete failed"})
	}
	if err := h.Images.Remove(res.Image); err != nil {
		log.Printf("article: remove image %q failed: %v", res.Image, err)
	}

	if err := queue_publisher.PublishArticleDeleted(ctx, queue.ArticleDeletedEvent{
		ArticleID:      id,
		DeletedBy:      actor.ID,
		ReviewsDeleted: res.ReviewsDeleted,
		LikesDeleted:   res.LikesDeleted,
		DeletedAt:      time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("article: publish delete event failed: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Article deleted"})
}
