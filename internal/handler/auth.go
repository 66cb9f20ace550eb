package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"inkwell/internal/config"
	"inkwell/internal/model"
	"inkwell/internal/repository"
	"inkwell/internal/utils"
)

// AuthHandler bundles dependencies for the register and login endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}
type loginReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type userPart struct {
	ID           uint64 `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profile_image"`
}

func toUserPart(u model.User) userPart {
	return userPart{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
	}
}

// Register creates a user and returns a token immediately. The very first
// account registered on a fresh install becomes the admin; every later
// registration gets the plain user role regardless of input.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Username, email and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, role, err := h.Users.Create(ctx, req.Username, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "User already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to create user"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to issue token"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    userPart{ID: uid, Username: req.Username, Email: req.Email, Role: role},
		"token":   access.Token,
	})
}

// Login verifies credentials and returns a fresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Username and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Login failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to issue token"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user":    toUserPart(u),
		"token":   access.Token,
	})
}
