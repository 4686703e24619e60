package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas del facade.
func NewRouter(logger *zap.Logger, userH *UserHandler, authH *AuthHandler) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: request id, logging, recovery y JSON content-type.
	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	user := r.Group("/user")
	user.POST("", userH.CreateUser)
	user.GET("/list", userH.ListUsers)
	user.GET("/search", userH.SearchUsers)
	user.GET("/email/:email", userH.GetUserByEmail)
	user.GET("/:id", userH.GetUser)
	user.DELETE("/:id", userH.DeleteUser)
	user.PATCH("/:id", userH.UpdateUser)
	user.PATCH("/metadata/:id", userH.UpdateMetadata)
	user.PATCH("/password/:id", userH.SetPassword)
	user.POST("/block/:id", userH.BlockUser)
	user.POST("/unblock/:id", userH.UnblockUser)
	user.POST("/verify-email/:id", userH.VerifyEmail)
	user.POST("/reset-password/:id", userH.ResetPassword)

	auth := r.Group("/auth")
	auth.POST("/login", authH.Login)

	return r
}

// requestIDMiddleware asigna un id por request y lo expone en el header.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// zapLoggerMiddleware observa cada par request/respuesta con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
