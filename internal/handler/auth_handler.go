package handler

import (
	"net/http"

	"github.com/Tallon1/rooster-ai-sub000/internal/service"
	"github.com/Tallon1/rooster-ai-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandler exposes registration, login, and account endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	access *service.AccessChecker
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, access *service.AccessChecker) *AuthHandler {
	return &AuthHandler{auth: auth, access: access}
}

// Register signs up a new company with its owner account.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)

	var req service.RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, token, err := h.auth.Register(req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Registration successful",
		"user":    user,
		"token":   token,
	})
}

// Login verifies credentials and returns a token.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		// Credential failures all surface as 401 rather than leaking which
		// part was wrong.
		log.Warn("Login failed", zap.String("email", req.Email), zap.Error(err))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}

// GetProfile returns the caller's own account.
func (h *AuthHandler) GetProfile(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return unauthenticated(c)
	}

	user, err := h.auth.GetProfile(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile changes the caller's display name.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.auth.UpdateProfile(userID, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword rotates the caller's password.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := h.auth.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}

// CreateUser invites a user into the caller's tenant with the named role.
func (h *AuthHandler) CreateUser(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionTenantManage); err != nil {
		return respondError(c, err)
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.auth.CreateUser(tenantID, req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}
