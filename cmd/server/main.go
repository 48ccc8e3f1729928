// Package main runs the tour operations HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/contour-tours/backend/config"
	"github.com/contour-tours/backend/internal/auth"
	"github.com/contour-tours/backend/internal/calendar"
	"github.com/contour-tours/backend/internal/middleware"
	"github.com/contour-tours/backend/internal/organizations"
	"github.com/contour-tours/backend/internal/tours"
	"github.com/contour-tours/backend/internal/tourslots"
	"github.com/contour-tours/backend/internal/users"
	"github.com/contour-tours/backend/pkg/database"
	"github.com/contour-tours/backend/pkg/redis"
	"github.com/contour-tours/backend/pkg/response"
	"github.com/contour-tours/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			LogosBucket:          cfg.AWS.LogosBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	sessions := auth.NewSessionStore(rdb.Client, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, sessions, logger)

	// Organizations
	orgRepo := organizations.NewRepository(pool)
	orgHandler := organizations.NewHandler(orgRepo, s3Client, cfg.Encryption.EmailKey, logger)

	// Users
	userRepo := users.NewRepository(pool)
	userHandler := users.NewHandler(userRepo, logger)

	// Tours and slots
	tourRepo := tours.NewRepository(pool)
	tourHandler := tours.NewHandler(tourRepo, logger)
	slotRepo := tourslots.NewRepository(pool)
	slotHandler := tourslots.NewHandler(slotRepo, tourRepo, logger)

	// Calendar
	calendarHandler := calendar.NewHandler(slotRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (login is public, logout and me need a session)
	router.POST("/auth/login", authHandler.Login)

	// Protected API (session required)
	api := router.Group("")
	api.Use(middleware.Session(jwtService, sessions, logger))
	{
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/me", authHandler.Me)

		// Organizations (mutations super admin only, enforced in handlers too)
		api.GET("/organizations", middleware.RequireSuperAdmin(), orgHandler.List)
		api.POST("/organizations", middleware.RequireSuperAdmin(), orgHandler.Create)
		api.GET("/organizations/:id", orgHandler.GetByID)
		api.PATCH("/organizations/:id", middleware.RequireSuperAdmin(), orgHandler.Update)
		api.DELETE("/organizations/:id", middleware.RequireSuperAdmin(), orgHandler.Delete)
		api.POST("/organizations/:id/logo", middleware.RequireSuperAdmin(), orgHandler.UploadLogo)

		// Organization-scoped collections
		api.GET("/organizations/:id/users", userHandler.ListByOrganization)
		api.GET("/organizations/:id/tours", tourHandler.ListByOrganization)
		api.GET("/organizations/:id/slots", slotHandler.ListByOrganization)
		api.GET("/organizations/:id/calendar", calendarHandler.Week)

		// Users
		api.POST("/users", userHandler.Create)
		api.PATCH("/users/:id", userHandler.Update)
		api.PUT("/users/:id/password", userHandler.UpdatePassword)
		api.DELETE("/users/:id", userHandler.Delete)

		// Tours
		api.POST("/tours", tourHandler.Create)
		api.GET("/tours/:id", tourHandler.GetByID)
		api.PATCH("/tours/:id", tourHandler.Update)
		api.DELETE("/tours/:id", tourHandler.Delete)
		api.GET("/tours/:id/slots", slotHandler.ListByTour)

		// Tour slots
		api.POST("/slots", slotHandler.Create)
		api.GET("/slots/:id", slotHandler.GetByID)
		api.PATCH("/slots/:id", slotHandler.Update)
		api.DELETE("/slots/:id", slotHandler.Delete)
		api.POST("/slots/:id/availability/toggle", slotHandler.ToggleAvailability)
		api.POST("/slots/:id/guides/assign", slotHandler.AssignGuide)
		api.POST("/slots/:id/guides/unassign", slotHandler.UnassignGuide)

		// Staff dashboard (organization members only, super admin excluded)
		api.GET("/dashboard", middleware.RequireOrganization(), orgHandler.Dashboard)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
