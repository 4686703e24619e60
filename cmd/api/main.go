package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"clerk-admin/internal/clerk"
	"clerk-admin/internal/config"
	apihttp "clerk-admin/internal/http"
	"clerk-admin/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	clerkClient := clerk.NewHTTPClient(cfg.ClerkBaseURL, cfg.ClerkSecretKey, logger)
	scanner := service.NewDirectoryScanner(logger, clerkClient, cfg.ClerkPageSize, cfg.ScanMaxOffset)

	var loginLimiter service.LoginRateLimiter
	if cfg.LoginRateMax > 0 {
		loginLimiter = service.NewLoginRateLimiter(cfg.LoginRateWindow, cfg.LoginRateMax)
	}
	if cfg.RedisAddr != "" && cfg.LoginRateMax > 0 {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, cfg.LoginRateWindow, cfg.LoginRateMax)
		}
		cancel()
	}

	userSvc := service.NewUserService(logger, clerkClient, scanner)
	authSvc := service.NewAuthService(logger, scanner, clerkClient, loginLimiter, cfg.LoginSearchTimeout, cfg.VerifyPasswordTimeout)

	userHandler := apihttp.NewUserHandler(logger, userSvc)
	authHandler := apihttp.NewAuthHandler(logger, authSvc)
	router := apihttp.NewRouter(logger, userHandler, authHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
