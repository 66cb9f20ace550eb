package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"inkwell/internal/model"
	"inkwell/internal/repository"
)

// CategoryHandler implements the category endpoints. Reads are public,
// creation is open to any authenticated user, and mutation is reserved
// for admins since categories have no owner.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
	Users      *repository.UserRepo
}

func NewCategoryHandler(cat *repository.CategoryRepo, u *repository.UserRepo) *CategoryHandler {
	return &CategoryHandler{Categories: cat, Users: u}
}

type categoryReq struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

type categoryView struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toCategoryView(c model.Category) categoryView {
	return categoryView{ID: c.ID, Name: c.Name, Description: c.Description}
}

// GetAll handles GET /category.
func (h *CategoryHandler) GetAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cats, err := h.Categories.GetAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	out := make([]categoryView, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toCategoryView(cat))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /category/:id.
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	return c.JSON(http.StatusOK, toCategoryView(cat))
}

// Create handles POST /category. Any authenticated user may create one.
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Category name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Categories.Create(ctx, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Category already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to create category"})
	}
	return c.JSON(http.StatusCreated, categoryView{ID: id, Name: req.Name, Description: req.Description})
}

// requireAdmin loads the caller's current record and checks for the admin
// role. A stale token whose account is gone fails the check the same way
// a non-admin does.
func (h *CategoryHandler) requireAdmin(c echo.Context) (bool, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()
	actor, err := actingUser(ctx, c, h.Users)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return actor.Role == model.RoleAdmin, nil
}

// Update handles PUT /category/:id. Admin only.
func (h *CategoryHandler) Update(c echo.Context) error {
	ok, err := h.requireAdmin(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden - Admin access required"})
	}

	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Category name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Categories.Update(ctx, id, req.Name, req.Description); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Category not found"})
		case errors.Is(err, repository.ErrDuplicate):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Category already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Update failed"})
		}
	}
	return c.JSON(http.StatusOK, categoryView{ID: id, Name: req.Name, Description: req.Description})
}

// Delete handles DELETE /category/:id. Admin only. Articles referencing
// the category are uncategorized rather than deleted.
func (h *CategoryHandler) Delete(c echo.Context) error {
	ok, err := h.requireAdmin(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Query failed"})
	}
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden - Admin access required"})
	}

	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted"})
}
