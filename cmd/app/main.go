package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"habitflow/internal/api"
	"habitflow/internal/middleware"
	"habitflow/internal/repository"
	"habitflow/internal/scheduler"
	"habitflow/internal/service"
	"habitflow/pkg/auth"
	"habitflow/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	window := service.DeliveryWindow{
		FromHour: cfg.Missions.DeliveryFromHour,
		ToHour:   cfg.Missions.DeliveryToHour,
	}
	specialMissionService := service.NewSpecialMissionService(repo, window)
	userService := service.NewUserService(repo, specialMissionService, cfg.Missions.InactivityDays)
	goalService := service.NewGoalService(repo)
	prizeService := service.NewPrizeService(repo)
	questionService := service.NewQuestionService(repo)

	if cfg.Missions.SeedFile != "" {
		if err := seedCatalog(context.Background(), specialMissionService, cfg.Missions.SeedFile); err != nil {
			zapLogger.Fatal("Failed to seed mission catalog", zap.Error(err))
		}
	}

	jwtAuth := auth.NewJWTAuth(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	adminAuth := middleware.NewAuthorization(userService)

	jobs := scheduler.New(cfg.Scheduler, specialMissionService, userService)
	if err := jobs.Start(); err != nil {
		zapLogger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	corsConfig.AllowHeaders = []string{"*"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour

	router.Use(cors.New(corsConfig))

	a := router.Group("/api/v1")
	api.NewUserRoutes(a, userService, jwtAuth)
	api.NewSpecialMissionRoutes(a, specialMissionService, jwtAuth, adminAuth)
	api.NewGoalRoutes(a, goalService, jwtAuth)
	api.NewPrizeRoutes(a, prizeService, jwtAuth)
	api.NewQuestionRoutes(a, questionService, jwtAuth, adminAuth)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		zapLogger.Info("Starting server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down")

	jobs.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server shutdown failed", zap.Error(err))
	}
}
