package handlers

import (
	"errors"
	"net/http"

	"github.com/ruolez/inventory-update/internal/middleware"
	"github.com/ruolez/inventory-update/internal/services"
	"github.com/ruolez/inventory-update/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the auth service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Login authenticates a username against the admin database and issues a
// session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Username is required.", err.Error()))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username)
	if err != nil {
		utils.LogError(err, "Login: Error from authService.Login")
		switch {
		case errors.Is(err, services.ErrUsernameRequired):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Username is required.", err.Error()))
		case errors.Is(err, services.ErrAdminDBNotConfigured):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeNotConfigured, "Admin database not configured. Please configure in settings.", err.Error()))
		case errors.Is(err, services.ErrUserNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not found.", err.Error()))
		case errors.Is(err, services.ErrUserNotActivated):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User account is not activated.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Authentication failed.", err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     result.Token,
		"username":  result.Username,
		"full_name": result.FullName,
	})
}

// Logout ends the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.SessionToken(c)
	if token != "" {
		if err := h.authService.Logout(token); err != nil {
			utils.LogError(err, "Logout: Error from authService.Logout")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to end session.", err.Error()))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the identity attached to the current session.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"username":  c.GetString(middleware.ContextUsername),
		"full_name": c.GetString(middleware.ContextFullName),
	})
}
