package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felipe-r91/Rocketseat-Habits-App/config"
	"github.com/felipe-r91/Rocketseat-Habits-App/db"
	"github.com/felipe-r91/Rocketseat-Habits-App/handlers"
	"github.com/felipe-r91/Rocketseat-Habits-App/middleware"
	"github.com/felipe-r91/Rocketseat-Habits-App/models"
	"github.com/felipe-r91/Rocketseat-Habits-App/routes"
	"github.com/felipe-r91/Rocketseat-Habits-App/store"
	"github.com/felipe-r91/Rocketseat-Habits-App/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger := utils.NewLogger(cfg.LogFile)
	defer logger.Sync()
	utils.InitMetrics()

	logger.Info("starting_application")

	database, err := db.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("database_connection_failed", zap.Error(err))
	}
	if err := database.AutoMigrate(models.All()...); err != nil {
		logger.Fatal("migration_failed", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.SecurityHeaders())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	habitHandler := handlers.NewHabitHandler(store.New(database), logger)
	routes.Register(r, habitHandler, database)

	startServer(r, cfg, logger)
}

func startServer(router *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("starting_http_server", zap.String("port", cfg.Port))
	fmt.Printf("Habits backend listening on http://localhost:%s\n", cfg.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http_server_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down_server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server_forced_shutdown", zap.Error(err))
	}

	logger.Info("server_stopped")
}
