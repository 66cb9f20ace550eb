package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"inkwell/internal/config"
	"inkwell/internal/model"
	"inkwell/internal/repository"
	"inkwell/internal/storage"
	"inkwell/internal/utils"
)

// UserHandler implements account management: profile updates, deletion,
// and the admin-only listing endpoints. Deleting a user does not cascade
// to their articles, reviews or likes; those records simply outlive the
// account.
type UserHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Articles *repository.ArticleRepo
	Images   *storage.ImageStore
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, a *repository.ArticleRepo, img *storage.ImageStore) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Articles: a, Images: img}
}

// Update handles PUT /user/update and PUT /user/update/:id. Without an id
// parameter the caller updates their own account. Only admins may update
// someone else, and only admins may change a role.
func (h *UserHandler) Update(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	actor, err := actingUser(ctx, c, h.Users)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized - Invalid token"})
	}

	targetID := actor.ID
	if c.Param("id") != "" {
		targetID, err = parseID(c, "id")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
		}
	}

	target, err := h.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User to update not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}

	if actor.Role != model.RoleAdmin && actor.ID != target.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden - You are not allowed to update this user"})
	}

	var upd repository.UserUpdate
	if v := strings.TrimSpace(c.FormValue("username")); v != "" {
		upd.Username = &v
	}
	if v := strings.ToLower(strings.TrimSpace(c.FormValue("email"))); v != "" {
		upd.Email = &v
	}
	if v := c.FormValue("password"); v != "" {
		hash, err := utils.HashPassword(v, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Update failed"})
		}
		upd.PasswordHash = &hash
	}
	if v := c.FormValue("bio"); v != "" {
		upd.Bio = &v
	}
	if v := c.FormValue("role"); v != "" && actor.Role == model.RoleAdmin && model.ValidRole(v) {
		upd.Role = &v
	}

	oldImage := ""
	if fh, err := c.FormFile("profilePicture"); err == nil && fh != nil {
		path, err := h.Images.Save(fh)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to store image"})
		}
		upd.ProfileImage = &path
		oldImage = target.ProfileImage
	}

	if err := h.Users.Update(ctx, target.ID, upd); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Username or email already in use"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User to update not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Update failed"})
		}
	}
	if oldImage != "" {
		if err := h.Images.Remove(oldImage); err != nil {
			log.Printf("user: remove replaced profile image %q failed: %v", oldImage, err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "User updated successfully"})
}

// Delete handles DELETE /user/delete/:id. Admins may delete anyone;
// everyone else only themselves. The stored profile image is removed
// before the record.
func (h *UserHandler) Delete(c echo.Context) error {
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

	target, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}

	if err := mustOwn(actor, target.ID); errors.Is(err, repository.ErrForbidden) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Permission denied"})
	}

	if err := h.Images.Remove(target.ProfileImage); err != nil {
		log.Printf("user: remove profile image %q failed: %v", target.ProfileImage, err)
	}
	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}

// GetAll handles GET /user/all. Admin only (enforced by middleware).
func (h *UserHandler) GetAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.GetAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, toUserPart(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(out), "users": out})
}

// Get handles GET /user/:userId. Admin only (enforced by middleware).
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

// Profile handles GET /user/profile/:userId: the user's public fields
// plus everything they have published.
func (h *UserHandler) Profile(c echo.Context) error {
	id, err := parseID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}

	articles, err := h.Articles.GetByAuthor(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	views := make([]articleView, 0, len(articles))
	for _, a := range articles {
		views = append(views, toArticleView(a, nil, nil))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"username":      u.Username,
		"email":         u.Email,
		"bio":           u.Bio,
		"profile_image": u.ProfileImage,
		"articles":      views,
	})
}
