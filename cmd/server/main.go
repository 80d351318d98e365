package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vouchervault/server/internal/api"
	"github.com/vouchervault/server/internal/config"
	"github.com/vouchervault/server/internal/push"
	"github.com/vouchervault/server/internal/repository"
	"github.com/vouchervault/server/internal/service"
	"github.com/vouchervault/server/internal/utils"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting VoucherVault server...")

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		logger.Fatalf("Failed to set up database: %v", err)
	}
	defer db.Close()

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// Push dispatch is optional; without an FCM key only in-app
	// notifications are written
	var dispatcher push.Dispatcher = push.NopDispatcher{}
	if cfg.Push.FCMServerKey != "" {
		dispatcher = push.NewFCMDispatcher(cfg.Push.FCMServerKey, logger)
	} else {
		logger.Warn("FCM_SERVER_KEY not set, push delivery disabled")
	}

	// Create service
	svc := service.NewDefaultService(repo, dispatcher, logger, cfg.Auth.JWTSecret)

	// Create API handler
	handler := api.NewHandler(svc)

	// Set up Gin router
	router := gin.Default()

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Infof("Listening on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
