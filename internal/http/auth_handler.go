package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clerk-admin/internal/service"
)

// AuthHandler mantiene dependencias para el endpoint de login.
type AuthHandler struct {
	logger   *zap.Logger
	authServ *service.AuthService
}

// NewAuthHandler crea una instancia de AuthHandler.
func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		authServ: authServ,
	}
}

// Login maneja POST /auth/login. Solo confirma la credencial: no emite
// tokens, cookies ni sesiones.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email and password are required"})
		return
	}

	summary, err := h.authServ.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "user not found"})
		case errors.Is(err, service.ErrAccountBlocked):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "account blocked"})
		case errors.Is(err, service.ErrPasswordAuthUnavailable):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "password authentication not enabled for this account"})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid credentials"})
		case errors.Is(err, service.ErrVerifyTimeout), errors.Is(err, service.ErrScanBudgetExceeded):
			c.JSON(http.StatusRequestTimeout, gin.H{"success": false, "error": "authentication timed out"})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "too many login attempts"})
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "upstream error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": summary})
}
