package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ozcotech/denklem/backend/config"
	"github.com/ozcotech/denklem/backend/handler"
	"github.com/ozcotech/denklem/backend/middleware"
	"github.com/ozcotech/denklem/backend/pkg/logger"
	"github.com/ozcotech/denklem/backend/service"
)

func main() {
	configPath := os.Getenv("DENKLEM_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	slog.Info("configuration loaded successfully",
		"week_offsets", len(cfg.WeekOffsets),
		"locale", cfg.Locale.Default,
		"time_zone", cfg.Location().String(),
	)

	if err := handler.RegisterValidations(); err != nil {
		slog.Error("failed to register request validations", "error", err)
		os.Exit(1)
	}

	sessions := service.NewSessionStore(&cfg.Store, cfg.WeekOffsets)
	metrics := service.NewMetrics(sessions)
	locales := service.NewLocaleProvider(cfg.Locale.Default)

	authHandler := handler.NewAuthHandler(cfg)
	deadlineHandler := handler.NewDeadlineHandler(cfg.WeekOffsets, cfg.Location(), metrics)
	sessionHandler := handler.NewSessionHandler(sessions, cfg.Location(), metrics)
	amountHandler := handler.NewAmountHandler(locales, metrics)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(corsMiddleware())
	router.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerMinute, time.Minute, cfg.RateLimit.Burst))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	api.Use(noCacheMiddleware())
	{
		api.POST("/auth/login", authHandler.Login)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)

		protected.GET("/categories", deadlineHandler.Categories)
		protected.POST("/deadlines", deadlineHandler.Calculate)
		protected.POST("/deadlines/batch", deadlineHandler.CalculateBatch)

		protected.POST("/sessions", sessionHandler.Create)
		protected.PUT("/sessions/:id/category", sessionHandler.UpdateCategory)
		protected.PUT("/sessions/:id/start-date", sessionHandler.UpdateStartDate)
		protected.GET("/sessions/:id/result", sessionHandler.Result)
		protected.DELETE("/sessions/:id", sessionHandler.Delete)

		protected.POST("/amounts/normalize", amountHandler.Normalize)
		protected.GET("/locales/:tag", amountHandler.Locale)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware lets the mobile web views call the API
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// noCacheMiddleware marks API responses as uncacheable; deadlines depend on
// the request body and the configured table
func noCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}
