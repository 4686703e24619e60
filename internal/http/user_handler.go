package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clerk-admin/internal/clerk"
	"clerk-admin/internal/service"
)

// UserHandler mantiene dependencias para endpoints de administracion.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, userServ *service.UserService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		userServ: userServ,
	}
}

// CreateUser maneja POST /user.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required"`
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := h.userServ.CreateUser(c.Request.Context(), service.CreateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.writeProviderError(c, "create user", err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// DeleteUser maneja DELETE /user/:id.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userServ.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		h.writeProviderError(c, "delete user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListUsers maneja GET /user/list.
func (h *UserHandler) ListUsers(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	users, err := h.userServ.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		h.writeProviderError(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser maneja GET /user/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userServ.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeProviderError(c, "get user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser maneja PATCH /user/:id.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req struct {
		Email       string `json:"email"`
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.UpdateProfile(c.Request.Context(), c.Param("id"), service.UpdateProfileInput{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.writeProviderError(c, "update user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMetadata maneja PATCH /user/metadata/:id.
func (h *UserHandler) UpdateMetadata(c *gin.Context) {
	var metadata map[string]any
	if err := c.ShouldBindJSON(&metadata); err != nil || len(metadata) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "metadata object is required"})
		return
	}

	user, err := h.userServ.UpdateMetadata(c.Request.Context(), c.Param("id"), metadata)
	if err != nil {
		h.writeProviderError(c, "update metadata", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// SetPassword maneja PATCH /user/password/:id.
func (h *UserHandler) SetPassword(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	user, err := h.userServ.SetPassword(c.Request.Context(), c.Param("id"), req.Password)
	if err != nil {
		h.writeProviderError(c, "set password", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SearchUsers maneja GET /user/search. La busqueda es best-effort: si el scan
// falla a mitad de camino se sirve el parcial acumulado.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	fragment := c.Query("email")
	if fragment == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email query param"})
		return
	}

	users, err := h.userServ.SearchByEmail(c.Request.Context(), fragment)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email query param"})
			return
		}
		h.logger.Warn("user search completed partially", zap.Error(err), zap.Int("matches", len(users)))
	}
	c.JSON(http.StatusOK, users)
}

// GetUserByEmail maneja GET /user/email/:email (match exacto).
func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	user, err := h.userServ.FindByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		default:
			h.logger.Error("lookup by email failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upstream error"})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// BlockUser maneja POST /user/block/:id.
func (h *UserHandler) BlockUser(c *gin.Context) {
	user, err := h.userServ.BlockUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeProviderError(c, "block user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UnblockUser maneja POST /user/unblock/:id.
func (h *UserHandler) UnblockUser(c *gin.Context) {
	user, err := h.userServ.UnblockUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeProviderError(c, "unblock user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// VerifyEmail maneja POST /user/verify-email/:id.
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	user, err := h.userServ.MarkEmailVerified(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeProviderError(c, "verify email", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// ResetPassword maneja POST /user/reset-password/:id.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	if err := h.userServ.SendPasswordReset(c.Request.Context(), c.Param("id")); err != nil {
		h.writeProviderError(c, "reset password", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// writeProviderError traduce errores de servicio/proveedor al status mas
// cercano, sin filtrar detalles internos.
func (h *UserHandler) writeProviderError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail), errors.Is(err, service.ErrMissingPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case clerk.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case clerk.IsClientError(err):
		var apiErr *clerk.APIError
		errors.As(err, &apiErr)
		c.JSON(http.StatusBadRequest, gin.H{"error": apiErr.Message})
	default:
		h.logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upstream error"})
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
