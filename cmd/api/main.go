package main

import (
	"context"
	_ "contact-relay/docs" // Important for Swagger
	v1 "contact-relay/internal/delivery/http/v1"
	"contact-relay/internal/bootstrap"
	"contact-relay/pkg/logger"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title           Contact Relay API
// @version         1.0
// @description     Contact form relay: validates submissions and forwards them by email.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config + Logger + pipeline
	app, err := bootstrap.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	defer func() { _ = app.Events.Sync() }()

	gin.SetMode(app.Config.GinMode)
	logger.Log.Info("Starting contact relay", "port", app.Config.Port)

	// 2. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		Contact:  app.Contact,
		HealthUC: app.Health,
		CORS:     app.CORS,
	})

	// 3. Start Server
	srv := &http.Server{
		Addr:              ":" + app.Config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
