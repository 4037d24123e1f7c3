package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/chatapp-auth/internal/middleware"
	"github.com/iliyamo/chatapp-auth/internal/response"
	"github.com/iliyamo/chatapp-auth/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

const invalidBody = "Invalid request body"

// Register creates a user with role user and returns its summary.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return response.Failure(c, http.StatusBadRequest, invalidBody)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Svc.Register(ctx, service.RegisterInput{Username: req.Username, Email: req.Email, Password: req.Password})
	if err != nil {
		return response.FromError(c, err, service.ErrCreateUser.Message)
	}
	return response.Success(c, http.StatusCreated, "User created successfully", echo.Map{"user": u})
}

// Login verifies credentials and returns an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return response.Failure(c, http.StatusBadRequest, invalidBody)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Svc.Login(ctx, service.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return response.FromError(c, err, service.ErrLoginFailed.Message)
	}
	return response.Success(c, http.StatusOK, "", res)
}

// Profile returns the authenticated user.  Served on /auth/profile and
// /auth/test-auth.
func (h *AuthHandler) Profile(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return response.FromError(c, service.ErrNotLoggedIn, "")
	}
	return response.Success(c, http.StatusOK, "You are authenticated!", echo.Map{"user": u})
}

// GetUser returns any user by id.  Admin only.
func (h *AuthHandler) GetUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Svc.GetUser(ctx, c.Param("id"))
	if err != nil {
		return response.FromError(c, err, "An error occurred while fetching the user")
	}
	return response.Success(c, http.StatusOK, "", echo.Map{"user": u})
}
